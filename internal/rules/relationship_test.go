package rules

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"homecare-service/internal/model"
)

func activeRel(is24x7 bool) model.CareRelationship {
	return model.CareRelationship{
		ID:              uuid.New(),
		Is24x7Caregiver: is24x7,
		Status:          model.RelationshipStatusActive,
	}
}

func TestProposeRelationship_DemotesExisting24x7Peer(t *testing.T) {
	existing := activeRel(true)
	candidate := activeRel(true)

	plan := ProposeRelationship(&candidate, []model.CareRelationship{existing})

	assert.Equal(t, []uuid.UUID{existing.ID}, plan.Demote)
}

func TestProposeRelationship_DemotesAllCurrent24x7Peers(t *testing.T) {
	// Defensive: the invariant says there is at most one, but the rule must
	// still converge if the store already holds several.
	a := activeRel(true)
	b := activeRel(true)
	c := activeRel(false)
	candidate := activeRel(true)

	plan := ProposeRelationship(&candidate, []model.CareRelationship{a, b, c})

	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, plan.Demote)
}

func TestProposeRelationship_NonCaregiverCandidateTouchesNothing(t *testing.T) {
	existing := activeRel(true)
	candidate := activeRel(false)

	plan := ProposeRelationship(&candidate, []model.CareRelationship{existing})

	assert.Empty(t, plan.Demote)
}

func TestProposeRelationship_IgnoresInactivePeers(t *testing.T) {
	inactive := activeRel(true)
	inactive.Status = model.RelationshipStatusInactive
	ended := activeRel(true)
	ended.Status = model.RelationshipStatusEnded
	candidate := activeRel(true)

	plan := ProposeRelationship(&candidate, []model.CareRelationship{inactive, ended})

	assert.Empty(t, plan.Demote)
}

func TestProposeRelationship_IgnoresNon24x7Peers(t *testing.T) {
	peer := activeRel(false)
	candidate := activeRel(true)

	plan := ProposeRelationship(&candidate, []model.CareRelationship{peer})

	assert.Empty(t, plan.Demote)
}

func TestProposeRelationship_UpdateNeverDemotesItself(t *testing.T) {
	candidate := activeRel(true)

	// The candidate's own row showing up in the peer set (e.g. a caller that
	// forgot to exclude it on update) must not demote the candidate.
	plan := ProposeRelationship(&candidate, []model.CareRelationship{candidate})

	assert.Empty(t, plan.Demote)
}
