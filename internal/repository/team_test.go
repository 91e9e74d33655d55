package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sals-backend/internal/apperr"
	"sals-backend/internal/models"
)

func TestTeamCreateDefaults(t *testing.T) {
	team := NewTeam(newStore(t))

	member, err := team.Create(context.Background(), models.TeamMember{Name: "Khalid"})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^member_[0-9a-f]{8}$`), member.ID)
	assert.Equal(t, models.StatusActive, member.Status)
}

func TestTeamCreateKeepsCallerID(t *testing.T) {
	team := NewTeam(newStore(t))
	ctx := context.Background()

	member, err := team.Create(ctx, models.TeamMember{ID: "member1", Name: "Fatima", Status: "موقوف"})
	require.NoError(t, err)
	assert.Equal(t, "member1", member.ID)
	assert.Equal(t, "موقوف", member.Status)

	_, err = team.Create(ctx, models.TeamMember{ID: "member1"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestTeamUpdateAndDelete(t *testing.T) {
	team := NewTeam(newStore(t))
	ctx := context.Background()

	member, err := team.Create(ctx, models.TeamMember{Name: "Ahmed", Email: "ahmed@sals.sa", Position: "writer"})
	require.NoError(t, err)

	position := "lead writer"
	updated, err := team.Update(ctx, member.ID, models.TeamMemberPatch{Position: &position})
	require.NoError(t, err)
	assert.Equal(t, "lead writer", updated.Position)
	assert.Equal(t, "ahmed@sals.sa", updated.Email)

	_, err = team.Update(ctx, "nobody", models.TeamMemberPatch{Position: &position})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	require.NoError(t, team.Delete(ctx, member.ID))
	assert.ErrorIs(t, team.Delete(ctx, member.ID), apperr.ErrNotFound)

	list, err := team.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
