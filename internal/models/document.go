package models

import "fmt"

// Document is the single persisted aggregate. Its JSON keys are the on-disk
// layout and must not change.
type Document struct {
	Orders            []Order      `bson:"orders" json:"orders"`
	Customers         []Customer   `bson:"customers" json:"customers"`
	Team              []TeamMember `bson:"team" json:"team"`
	Discounts         []Discount   `bson:"discounts" json:"discounts"`
	LastOrderSequence int64        `bson:"last_order_sequence" json:"last_order_sequence"`
}

// NewDocument returns an empty document with all collections initialised.
func NewDocument() *Document {
	d := &Document{}
	d.Normalize()
	return d
}

// Normalize replaces missing collections with empty ones so they encode as
// [] instead of null.
func (d *Document) Normalize() {
	if d.Orders == nil {
		d.Orders = []Order{}
	}
	if d.Customers == nil {
		d.Customers = []Customer{}
	}
	if d.Team == nil {
		d.Team = []TeamMember{}
	}
	if d.Discounts == nil {
		d.Discounts = []Discount{}
	}
	for i := range d.Customers {
		if d.Customers[i].Orders == nil {
			d.Customers[i].Orders = []string{}
		}
	}
}

// NextOrderID advances the sequence and formats it as SL plus at least five
// digits. Past 99999 the number simply gets wider.
func (d *Document) NextOrderID() string {
	d.LastOrderSequence++
	return fmt.Sprintf("SL%05d", d.LastOrderSequence)
}

func (d *Document) OrderIndex(id string) int {
	for i := range d.Orders {
		if d.Orders[i].ID == id {
			return i
		}
	}
	return -1
}

func (d *Document) CustomerIndex(email string) int {
	for i := range d.Customers {
		if d.Customers[i].Email == email {
			return i
		}
	}
	return -1
}

func (d *Document) TeamMemberIndex(id string) int {
	for i := range d.Team {
		if d.Team[i].ID == id {
			return i
		}
	}
	return -1
}

// DiscountIndexByID is the primary-key lookup.
func (d *Document) DiscountIndexByID(id string) int {
	for i := range d.Discounts {
		if d.Discounts[i].ID == id {
			return i
		}
	}
	return -1
}

// DiscountIndexByCode is the secondary unique-key lookup.
func (d *Document) DiscountIndexByCode(code string) int {
	for i := range d.Discounts {
		if d.Discounts[i].Code == code {
			return i
		}
	}
	return -1
}
