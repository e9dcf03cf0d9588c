package rules

import (
	"time"

	"github.com/google/uuid"

	"homecare-service/internal/model"
)

// ValidateTaskScope checks that exactly one of visit_id and
// assignment_24x7_id is set. Runs on create and again after every partial
// update, against the merged resulting state rather than the delta.
func ValidateTaskScope(visitID, assignment24x7ID *uuid.UUID) error {
	if visitID != nil && assignment24x7ID != nil {
		return Reject(ReasonAmbiguousScope, "task must be either visit-scoped or 24x7-scoped, not both")
	}
	if visitID == nil && assignment24x7ID == nil {
		return Reject(ReasonMissingScope, "task must be associated with a visit or a 24x7 assignment")
	}
	return nil
}

// CompleteTask transitions a task's status to completed, backfilling
// completed_at and completed_by_id only where they are not already recorded.
// An earlier completion time or actor is never overwritten.
func CompleteTask(t *model.Task, actorID uuid.UUID, now time.Time) {
	t.Status = model.TaskStatusCompleted
	if t.CompletedAt == nil {
		ts := now
		t.CompletedAt = &ts
	}
	if t.CompletedByID == nil {
		id := actorID
		t.CompletedByID = &id
	}
}

// CheckTaskCompletion is the post-mutation safety net: a task that ends up
// completed without both completion fields can only happen when a caller
// sets the status through a path that bypasses CompleteTask.
//
// Moving a task away from completed deliberately leaves completed_at and
// completed_by_id in place; they record the last completion, not the
// current status.
func CheckTaskCompletion(t *model.Task) error {
	if t.Status == model.TaskStatusCompleted && (t.CompletedAt == nil || t.CompletedByID == nil) {
		return Reject(ReasonIncompleteCompletionState, "completed tasks must have completed_at and completed_by_id set")
	}
	return nil
}
