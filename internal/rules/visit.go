package rules

import (
	"time"

	"homecare-service/internal/model"
)

// ValidateWindow checks the visit time window: scheduled_end must be
// strictly after scheduled_start. Runs before persistence on every create
// and update, against the merged resulting state.
func ValidateWindow(scheduledStart, scheduledEnd time.Time) error {
	if !scheduledEnd.After(scheduledStart) {
		return Reject(ReasonInvalidTimeWindow, "scheduled_end must be after scheduled_start")
	}
	return nil
}

func startable(status string) bool {
	return status == model.VisitStatusScheduled || status == model.VisitStatusInProgress
}

// StartVisit checks a visit in: status becomes in_progress and
// checked_in_at is recorded. Legal only from scheduled or in_progress, so a
// second start is an idempotent no-op for the timestamp. The first check-in
// wins and is never overwritten.
func StartVisit(v *model.Visit, now time.Time) error {
	if !startable(v.Status) {
		return Reject(ReasonInvalidTransition, "visit can only be started from scheduled or in_progress status")
	}
	if v.CheckedInAt == nil {
		t := now
		v.CheckedInAt = &t
	}
	v.Status = model.VisitStatusInProgress
	return nil
}

// EndVisit checks a visit out: status becomes completed and checked_out_at
// is recorded. Legal from scheduled or in_progress; ending a visit that was
// never started backfills checked_in_at to now, keeping
// checked_in_at <= checked_out_at.
func EndVisit(v *model.Visit, now time.Time) error {
	if !startable(v.Status) {
		return Reject(ReasonInvalidTransition, "visit can only be ended from scheduled or in_progress status")
	}
	if v.CheckedInAt == nil {
		t := now
		v.CheckedInAt = &t
	}
	t := now
	v.CheckedOutAt = &t
	v.Status = model.VisitStatusCompleted
	return nil
}
