package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homecare-service/internal/model"
)

func reasonOf(t *testing.T, err error) Reason {
	t.Helper()
	v, ok := AsViolation(err)
	require.True(t, ok, "expected a Violation, got %v", err)
	return v.Reason
}

func TestValidateWindow(t *testing.T) {
	start := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)

	assert.NoError(t, ValidateWindow(start, start.Add(time.Hour)))

	err := ValidateWindow(start, start)
	assert.Equal(t, ReasonInvalidTimeWindow, reasonOf(t, err))

	err = ValidateWindow(start, start.Add(-time.Minute))
	assert.Equal(t, ReasonInvalidTimeWindow, reasonOf(t, err))
}

func TestStartVisit_FromScheduled(t *testing.T) {
	now := time.Date(2024, time.March, 4, 9, 2, 0, 0, time.UTC)
	v := model.Visit{Status: model.VisitStatusScheduled}

	require.NoError(t, StartVisit(&v, now))

	assert.Equal(t, model.VisitStatusInProgress, v.Status)
	require.NotNil(t, v.CheckedInAt)
	assert.Equal(t, now, *v.CheckedInAt)
}

func TestStartVisit_SecondStartKeepsFirstCheckIn(t *testing.T) {
	first := time.Date(2024, time.March, 4, 9, 2, 0, 0, time.UTC)
	v := model.Visit{Status: model.VisitStatusScheduled}
	require.NoError(t, StartVisit(&v, first))

	require.NoError(t, StartVisit(&v, first.Add(10*time.Minute)))

	assert.Equal(t, first, *v.CheckedInAt)
	assert.Equal(t, model.VisitStatusInProgress, v.Status)
}

func TestStartVisit_IllegalStatuses(t *testing.T) {
	now := time.Now().UTC()
	for _, status := range []string{
		model.VisitStatusCompleted,
		model.VisitStatusCancelled,
		model.VisitStatusNoShow,
	} {
		v := model.Visit{Status: status}
		err := StartVisit(&v, now)
		assert.Equal(t, ReasonInvalidTransition, reasonOf(t, err), "status %s", status)
	}
}

func TestEndVisit_AfterStart(t *testing.T) {
	checkIn := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)
	checkOut := checkIn.Add(2 * time.Hour)
	v := model.Visit{Status: model.VisitStatusScheduled}
	require.NoError(t, StartVisit(&v, checkIn))

	require.NoError(t, EndVisit(&v, checkOut))

	assert.Equal(t, model.VisitStatusCompleted, v.Status)
	assert.Equal(t, checkIn, *v.CheckedInAt)
	assert.Equal(t, checkOut, *v.CheckedOutAt)
}

func TestEndVisit_WithoutStartBackfillsCheckIn(t *testing.T) {
	now := time.Date(2024, time.March, 4, 11, 0, 0, 0, time.UTC)
	v := model.Visit{Status: model.VisitStatusScheduled}

	require.NoError(t, EndVisit(&v, now))

	require.NotNil(t, v.CheckedInAt)
	require.NotNil(t, v.CheckedOutAt)
	assert.Equal(t, *v.CheckedInAt, *v.CheckedOutAt)
	assert.Equal(t, model.VisitStatusCompleted, v.Status)
}

func TestEndVisit_IllegalStatuses(t *testing.T) {
	now := time.Now().UTC()
	for _, status := range []string{
		model.VisitStatusCompleted,
		model.VisitStatusCancelled,
		model.VisitStatusNoShow,
	} {
		v := model.Visit{Status: status}
		err := EndVisit(&v, now)
		assert.Equal(t, ReasonInvalidTransition, reasonOf(t, err), "status %s", status)
	}
}

func TestEndVisit_CheckInNeverAfterCheckOut(t *testing.T) {
	start := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)
	v := model.Visit{Status: model.VisitStatusScheduled}
	require.NoError(t, StartVisit(&v, start))
	require.NoError(t, EndVisit(&v, start.Add(time.Hour)))

	assert.False(t, v.CheckedInAt.After(*v.CheckedOutAt))
}
