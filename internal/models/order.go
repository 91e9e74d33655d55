package models

import (
	"bytes"
	"reflect"

	"github.com/goccy/go-json"
)

// Order statuses used by the admin panel. Values are the Arabic labels the
// front end displays and stores.
const (
	OrderStatusNew        = "جديد"
	OrderStatusInProgress = "قيد التنفيذ"
	OrderStatusCompleted  = "مكتمل"
	OrderStatusCancelled  = "ملغي"
)

// PersonalInfo captures the contact details submitted with an order. The
// three named fields are required; any other key the form sends (linkedin,
// city, ...) is kept in Extra.
type PersonalInfo struct {
	FullName string `bson:"fullName" json:"fullName" binding:"required"`
	Phone    string `bson:"phone" json:"phone" binding:"required"`
	Email    string `bson:"email" json:"email" binding:"required"`
	Extra    Extra  `bson:",inline" json:"-"`
}

type personalInfoFields PersonalInfo

func (p *PersonalInfo) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(data, (*personalInfoFields)(p)); err != nil {
		return err
	}
	extra, err := splitExtra(data, reflect.TypeOf(personalInfoFields{}))
	if err != nil {
		return err
	}
	p.Extra = extra
	return nil
}

func (p PersonalInfo) MarshalJSON() ([]byte, error) {
	encoded, err := json.Marshal(personalInfoFields(p))
	if err != nil {
		return nil, err
	}
	return mergeExtra(encoded, p.Extra)
}

// UpsellServices are the optional add-ons ticked on the order form.
type UpsellServices struct {
	CoverLetter   bool `bson:"coverLetter" json:"coverLetter"`
	InterviewPrep bool `bson:"interviewPrep" json:"interviewPrep"`
}

// Goals is the free-text career section of the order form.
type Goals struct {
	DreamCompanies string `bson:"dreamCompanies" json:"dreamCompanies"`
	Achievements   string `bson:"achievements" json:"achievements"`
	TargetPosition string `bson:"targetPosition" json:"targetPosition"`
}

// Order defines a persisted order. Timestamps are kept as strings because
// older documents carry them in a zone-less isoformat. Keys the order form
// sends beyond the declared fields are kept in Extra and returned unchanged.
type Order struct {
	ID                 string          `bson:"id" json:"id"`
	PersonalInfo       PersonalInfo    `bson:"personalInfo" json:"personalInfo"`
	Package            string          `bson:"package" json:"package"`
	PackageName        string          `bson:"packageName" json:"packageName"`
	BasePrice          Amount          `bson:"basePrice" json:"basePrice"`
	UpsellServices     *UpsellServices `bson:"upsellServices,omitempty" json:"upsellServices,omitempty"`
	Goals              *Goals          `bson:"goals,omitempty" json:"goals,omitempty"`
	DiscountCode       string          `bson:"discountCode" json:"discountCode"`
	DiscountPercentage Amount          `bson:"discountPercentage" json:"discountPercentage"`
	TotalPrice         Amount          `bson:"totalPrice" json:"totalPrice"`
	Status             string          `bson:"status" json:"status"`
	AssignedTo         string          `bson:"assignedTo" json:"assignedTo"`
	InternalNotes      string          `bson:"internalNotes" json:"internalNotes"`
	PaymentStatus      string          `bson:"payment_status,omitempty" json:"payment_status,omitempty"`
	PaymentMethod      string          `bson:"payment_method,omitempty" json:"payment_method,omitempty"`
	CreatedAt          string          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          string          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
	Extra              Extra           `bson:",inline" json:"-"`
}

type orderFields Order

func (o *Order) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(data, (*orderFields)(o)); err != nil {
		return err
	}
	extra, err := splitExtra(data, reflect.TypeOf(orderFields{}))
	if err != nil {
		return err
	}
	o.Extra = extra
	return nil
}

func (o Order) MarshalJSON() ([]byte, error) {
	encoded, err := json.Marshal(orderFields(o))
	if err != nil {
		return nil, err
	}
	return mergeExtra(encoded, o.Extra)
}

// OrderPatch lists the fields an order update may touch. A nil field is left
// as it is; keys outside this struct are dropped when the body is decoded.
type OrderPatch struct {
	Status             *string `json:"status"`
	AssignedTo         *string `json:"assignedTo"`
	InternalNotes      *string `json:"internalNotes"`
	Package            *string `json:"package"`
	PackageName        *string `json:"packageName"`
	BasePrice          *Amount `json:"basePrice"`
	DiscountCode       *string `json:"discountCode"`
	DiscountPercentage *Amount `json:"discountPercentage"`
	TotalPrice         *Amount `json:"totalPrice"`
}

// Apply copies every non-nil field onto o.
func (p OrderPatch) Apply(o *Order) {
	if p.Status != nil {
		o.Status = *p.Status
	}
	if p.AssignedTo != nil {
		o.AssignedTo = *p.AssignedTo
	}
	if p.InternalNotes != nil {
		o.InternalNotes = *p.InternalNotes
	}
	if p.Package != nil {
		o.Package = *p.Package
	}
	if p.PackageName != nil {
		o.PackageName = *p.PackageName
	}
	if p.BasePrice != nil {
		o.BasePrice = *p.BasePrice
	}
	if p.DiscountCode != nil {
		o.DiscountCode = *p.DiscountCode
	}
	if p.DiscountPercentage != nil {
		o.DiscountPercentage = *p.DiscountPercentage
	}
	if p.TotalPrice != nil {
		o.TotalPrice = *p.TotalPrice
	}
}

// IsPending reports whether the order still counts as open work.
func (o Order) IsPending() bool {
	return o.Status == OrderStatusNew || o.Status == OrderStatusInProgress
}
