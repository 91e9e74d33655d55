package models

// StatusActive is the default status label for team members and discounts.
const StatusActive = "نشط"

type TeamMember struct {
	ID       string `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	Email    string `bson:"email" json:"email"`
	Position string `bson:"position" json:"position"`
	Status   string `bson:"status" json:"status"`
}

type TeamMemberPatch struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Position *string `json:"position"`
	Status   *string `json:"status"`
}

func (p TeamMemberPatch) Apply(m *TeamMember) {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Email != nil {
		m.Email = *p.Email
	}
	if p.Position != nil {
		m.Position = *p.Position
	}
	if p.Status != nil {
		m.Status = *p.Status
	}
}
