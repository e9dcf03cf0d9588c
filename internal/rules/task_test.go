package rules

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homecare-service/internal/model"
)

func TestValidateTaskScope(t *testing.T) {
	visitID := uuid.New()
	assignmentID := uuid.New()

	assert.NoError(t, ValidateTaskScope(&visitID, nil))
	assert.NoError(t, ValidateTaskScope(nil, &assignmentID))

	err := ValidateTaskScope(&visitID, &assignmentID)
	assert.Equal(t, ReasonAmbiguousScope, reasonOf(t, err))

	err = ValidateTaskScope(nil, nil)
	assert.Equal(t, ReasonMissingScope, reasonOf(t, err))
}

func TestCompleteTask_BackfillsCompletionFields(t *testing.T) {
	now := time.Date(2024, time.March, 4, 15, 0, 0, 0, time.UTC)
	actor := uuid.New()
	task := model.Task{Status: model.TaskStatusPending}

	CompleteTask(&task, actor, now)

	assert.Equal(t, model.TaskStatusCompleted, task.Status)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, now, *task.CompletedAt)
	require.NotNil(t, task.CompletedByID)
	assert.Equal(t, actor, *task.CompletedByID)
	assert.NoError(t, CheckTaskCompletion(&task))
}

func TestCompleteTask_NeverOverwritesRecordedCompletion(t *testing.T) {
	recorded := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	originalActor := uuid.New()
	task := model.Task{
		Status:        model.TaskStatusPending,
		CompletedAt:   &recorded,
		CompletedByID: &originalActor,
	}

	CompleteTask(&task, uuid.New(), recorded.Add(72*time.Hour))

	assert.Equal(t, recorded, *task.CompletedAt)
	assert.Equal(t, originalActor, *task.CompletedByID)
}

func TestCompleteTask_PartialRecordOnlyFillsMissingField(t *testing.T) {
	recorded := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	actor := uuid.New()
	task := model.Task{Status: model.TaskStatusPending, CompletedAt: &recorded}

	CompleteTask(&task, actor, recorded.Add(time.Hour))

	assert.Equal(t, recorded, *task.CompletedAt)
	require.NotNil(t, task.CompletedByID)
	assert.Equal(t, actor, *task.CompletedByID)
}

func TestCheckTaskCompletion_RejectsBypassedCompletion(t *testing.T) {
	now := time.Now().UTC()
	actor := uuid.New()

	cases := []struct {
		name string
		task model.Task
	}{
		{"no fields", model.Task{Status: model.TaskStatusCompleted}},
		{"missing actor", model.Task{Status: model.TaskStatusCompleted, CompletedAt: &now}},
		{"missing time", model.Task{Status: model.TaskStatusCompleted, CompletedByID: &actor}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckTaskCompletion(&tc.task)
			assert.Equal(t, ReasonIncompleteCompletionState, reasonOf(t, err))
		})
	}
}

func TestCheckTaskCompletion_UncompletedKeepsCompletionRecord(t *testing.T) {
	now := time.Now().UTC()
	actor := uuid.New()
	task := model.Task{
		Status:        model.TaskStatusSkipped,
		CompletedAt:   &now,
		CompletedByID: &actor,
	}

	// Leaving completed does not clear the record; that is the documented
	// behavior, not an inconsistency.
	assert.NoError(t, CheckTaskCompletion(&task))
	assert.NotNil(t, task.CompletedAt)
	assert.NotNil(t, task.CompletedByID)
}
