package models

// Customer is upserted whenever an order is created. Email is the key and is
// matched exactly, case included.
type Customer struct {
	FullName      string   `bson:"fullName" json:"fullName"`
	Phone         string   `bson:"phone" json:"phone"`
	Email         string   `bson:"email" json:"email"`
	Orders        []string `bson:"orders" json:"orders"`
	LastOrderDate string   `bson:"lastOrderDate" json:"lastOrderDate"`
}

// RemoveOrder drops every occurrence of orderID and reports whether any was found.
func (c *Customer) RemoveOrder(orderID string) bool {
	kept := make([]string, 0, len(c.Orders))
	for _, id := range c.Orders {
		if id != orderID {
			kept = append(kept, id)
		}
	}
	removed := len(kept) != len(c.Orders)
	c.Orders = kept
	return removed
}
