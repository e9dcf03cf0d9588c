package rules

import (
	"github.com/google/uuid"

	"homecare-service/internal/model"
)

// RelationshipPlan is the outcome of proposing a care relationship write.
// Demote lists the peers whose 24/7 flag must be cleared in the same
// transaction that persists the candidate.
type RelationshipPlan struct {
	Demote []uuid.UUID
}

// ProposeRelationship enforces the single-active-24/7-caregiver rule.
//
// activePeers must be the active relationships sharing the candidate's
// (care_recipient_id, organization_id) scope, excluding the candidate's own
// row when this is an update. The rule is silent correction, never a
// rejection: when the candidate claims the 24/7 flag, every active peer
// currently holding it is demoted; otherwise no peer is touched.
func ProposeRelationship(candidate *model.CareRelationship, activePeers []model.CareRelationship) RelationshipPlan {
	var plan RelationshipPlan
	if !candidate.Is24x7Caregiver {
		return plan
	}
	for _, peer := range activePeers {
		if peer.ID == candidate.ID {
			continue
		}
		if peer.Is24x7Caregiver && peer.Status == model.RelationshipStatusActive {
			plan.Demote = append(plan.Demote, peer.ID)
		}
	}
	return plan
}
