package rules

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homecare-service/internal/model"
)

func openArrangement(from model.Date) model.CareArrangement {
	return model.CareArrangement{
		ID:            uuid.New(),
		Mode:          model.ArrangementModeVisitsOnly,
		EffectiveFrom: from,
	}
}

func TestProposeArrangement_ClosesOpenPeerAtNewEffectiveFrom(t *testing.T) {
	existing := openArrangement(model.NewDate(2024, time.January, 1))
	candidate := openArrangement(model.NewDate(2024, time.June, 1))

	plan := ProposeArrangement(&candidate, []model.CareArrangement{existing})

	require.Len(t, plan.Close, 1)
	assert.Equal(t, existing.ID, plan.Close[0].ID)
	// Closed exactly when the new arrangement starts, not at "now".
	assert.Equal(t, model.NewDate(2024, time.June, 1), plan.Close[0].EffectiveTo)
	// The candidate itself stays open.
	assert.True(t, candidate.IsOpenEnded())
}

func TestProposeArrangement_NoOpenPeers(t *testing.T) {
	candidate := openArrangement(model.NewDate(2024, time.June, 1))

	plan := ProposeArrangement(&candidate, nil)

	assert.Empty(t, plan.Close)
}

func TestProposeArrangement_ClosesEveryOpenPeer(t *testing.T) {
	a := openArrangement(model.NewDate(2023, time.March, 1))
	b := openArrangement(model.NewDate(2023, time.September, 1))
	candidate := openArrangement(model.NewDate(2024, time.January, 15))

	plan := ProposeArrangement(&candidate, []model.CareArrangement{a, b})

	require.Len(t, plan.Close, 2)
	for _, closure := range plan.Close {
		assert.Equal(t, candidate.EffectiveFrom, closure.EffectiveTo)
	}
}

func TestProposeArrangement_SkipsAlreadyClosedPeers(t *testing.T) {
	closed := openArrangement(model.NewDate(2023, time.March, 1))
	to := model.NewDate(2023, time.December, 31)
	closed.EffectiveTo = &to
	candidate := openArrangement(model.NewDate(2024, time.January, 1))

	plan := ProposeArrangement(&candidate, []model.CareArrangement{closed})

	assert.Empty(t, plan.Close)
}

func TestProposeArrangement_AppliesRegardlessOfMode(t *testing.T) {
	existing := openArrangement(model.NewDate(2024, time.January, 1))
	existing.Mode = model.ArrangementMode24x7Only
	candidate := openArrangement(model.NewDate(2024, time.February, 1))
	candidate.Mode = model.ArrangementMode24x7PlusVisit

	plan := ProposeArrangement(&candidate, []model.CareArrangement{existing})

	require.Len(t, plan.Close, 1)
}
