package rules

import (
	"github.com/google/uuid"

	"homecare-service/internal/model"
)

// ArrangementClosure closes an open-ended arrangement at a specific date.
type ArrangementClosure struct {
	ID          uuid.UUID
	EffectiveTo model.Date
}

// ArrangementPlan is the outcome of proposing a new care arrangement.
type ArrangementPlan struct {
	Close []ArrangementClosure
}

// ProposeArrangement enforces the single-open-arrangement rule on creation.
//
// openPeers must be the arrangements sharing the candidate's
// (care_recipient_id, organization_id) scope whose effective_to is unset.
// Each one is closed at exactly the candidate's effective_from, not at
// "now", so the history has no gap and no overlap of "current"
// arrangements. The rule applies unconditionally on create, regardless of
// mode; updates to existing arrangements never pass through here.
func ProposeArrangement(candidate *model.CareArrangement, openPeers []model.CareArrangement) ArrangementPlan {
	var plan ArrangementPlan
	for _, peer := range openPeers {
		if peer.ID == candidate.ID || !peer.IsOpenEnded() {
			continue
		}
		plan.Close = append(plan.Close, ArrangementClosure{
			ID:          peer.ID,
			EffectiveTo: candidate.EffectiveFrom,
		})
	}
	return plan
}
