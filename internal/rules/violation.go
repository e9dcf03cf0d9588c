// Package rules is the domain invariant layer for the care-coordination
// entities. Every function here is pure: it takes a proposed mutation plus
// the relevant peer records and returns either the side-effect mutations to
// apply alongside it or a Violation. Nothing in this package touches HTTP or
// the database; handlers read peer sets, call in here, and apply the result
// inside a single transaction.
package rules

import "errors"

// Reason is a stable machine-readable code for a rejected mutation.
type Reason string

const (
	// ReasonAmbiguousScope: a task names both a visit and a 24/7 assignment.
	ReasonAmbiguousScope Reason = "AmbiguousScope"
	// ReasonMissingScope: a task names neither a visit nor a 24/7 assignment.
	ReasonMissingScope Reason = "MissingScope"
	// ReasonIncompleteCompletionState: a task is completed but lacks
	// completed_at or completed_by_id.
	ReasonIncompleteCompletionState Reason = "IncompleteCompletionState"
	// ReasonInvalidTransition: a visit lifecycle action from an illegal status.
	ReasonInvalidTransition Reason = "InvalidTransition"
	// ReasonInvalidTimeWindow: scheduled_end is not strictly after scheduled_start.
	ReasonInvalidTimeWindow Reason = "InvalidTimeWindow"
	// ReasonDuplicateNote: the visit already has a note.
	ReasonDuplicateNote Reason = "DuplicateNote"
	// ReasonDuplicateMembership: the (user, organization) pair already has a
	// membership. Raised from the storage constraint, not from rule logic.
	ReasonDuplicateMembership Reason = "DuplicateMembership"
)

// Violation is a rejected mutation. The Reason is stable and safe to match
// on; the Message is for humans.
type Violation struct {
	Reason  Reason
	Message string
}

func (v *Violation) Error() string {
	return string(v.Reason) + ": " + v.Message
}

// Reject builds a Violation error.
func Reject(reason Reason, message string) error {
	return &Violation{Reason: reason, Message: message}
}

// AsViolation unwraps err into a *Violation if it is one.
func AsViolation(err error) (*Violation, bool) {
	var v *Violation
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
