package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"sals-backend/internal/apperr"
	"sals-backend/internal/database"
	"sals-backend/internal/models"
)

type Team struct {
	store database.Store
	newID func() string
}

func NewTeam(store database.Store) *Team {
	return &Team{store: store, newID: newMemberID}
}

// newMemberID is member_ followed by the first 8 hex characters of a v4 uuid.
func newMemberID() string {
	return "member_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func (r *Team) List(ctx context.Context) ([]models.TeamMember, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Team, nil
}

// Create fills the defaults (generated id, active status) and appends the
// member. A caller-supplied id that is already taken is a conflict.
func (r *Team) Create(ctx context.Context, member models.TeamMember) (models.TeamMember, error) {
	if member.ID == "" {
		member.ID = r.newID()
	}
	if member.Status == "" {
		member.Status = models.StatusActive
	}

	err := r.store.Update(ctx, func(doc *models.Document) error {
		if doc.TeamMemberIndex(member.ID) >= 0 {
			return apperr.Conflict("member id already exists")
		}
		doc.Team = append(doc.Team, member)
		return nil
	})
	if err != nil {
		return models.TeamMember{}, err
	}
	return member, nil
}

func (r *Team) Update(ctx context.Context, id string, patch models.TeamMemberPatch) (models.TeamMember, error) {
	var updated models.TeamMember

	err := r.store.Update(ctx, func(doc *models.Document) error {
		i := doc.TeamMemberIndex(id)
		if i < 0 {
			return apperr.NotFound("Member not found")
		}
		patch.Apply(&doc.Team[i])
		updated = doc.Team[i]
		return nil
	})
	if err != nil {
		return models.TeamMember{}, err
	}
	return updated, nil
}

func (r *Team) Delete(ctx context.Context, id string) error {
	return r.store.Update(ctx, func(doc *models.Document) error {
		kept := make([]models.TeamMember, 0, len(doc.Team))
		for _, m := range doc.Team {
			if m.ID != id {
				kept = append(kept, m)
			}
		}
		if len(kept) == len(doc.Team) {
			return apperr.NotFound("Member not found")
		}
		doc.Team = kept
		return nil
	})
}
