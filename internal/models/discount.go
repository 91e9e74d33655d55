package models

type Discount struct {
	ID         string `bson:"id" json:"id"`
	Code       string `bson:"code" json:"code"`
	Percentage int64  `bson:"percentage" json:"percentage"`
	UsageCount int64  `bson:"usageCount" json:"usageCount"`
	ExpiryDate string `bson:"expiryDate" json:"expiryDate"`
	Status     string `bson:"status" json:"status"`
}

// DiscountPatch is the allow-list for discount updates. Percentage and usage
// count are coerced to integers the same way they are on create.
type DiscountPatch struct {
	Code       *string `json:"code"`
	Percentage *Amount `json:"percentage"`
	UsageCount *Amount `json:"usageCount"`
	ExpiryDate *string `json:"expiryDate"`
	Status     *string `json:"status"`
}

func (p DiscountPatch) Apply(d *Discount) {
	if p.Code != nil {
		d.Code = *p.Code
	}
	if p.Percentage != nil {
		d.Percentage = p.Percentage.Int()
	}
	if p.UsageCount != nil {
		d.UsageCount = p.UsageCount.Int()
	}
	if p.ExpiryDate != nil {
		d.ExpiryDate = *p.ExpiryDate
	}
	if p.Status != nil {
		d.Status = *p.Status
	}
}
