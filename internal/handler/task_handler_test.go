package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"homecare-service/internal/rules"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postTask(t *testing.T, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, CreateTask(e.NewContext(req, rec)))

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return rec, payload
}

func TestCreateTask_RejectsCompletedStatus(t *testing.T) {
	// Completion fields never come from the payload, so a task cannot be
	// born completed; the status must be rejected, not coerced.
	body := fmt.Sprintf(
		`{"organization_id":%q,"care_recipient_id":%q,"visit_id":%q,"task_date":"2024-03-04","title":"Morning medication","status":"completed"}`,
		uuid.New(), uuid.New(), uuid.New())

	rec, payload := postTask(t, body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(rules.ReasonIncompleteCompletionState), payload["reason"])
}

func TestCreateTask_RejectsAmbiguousScope(t *testing.T) {
	body := fmt.Sprintf(
		`{"organization_id":%q,"care_recipient_id":%q,"visit_id":%q,"assignment_24x7_id":%q,"task_date":"2024-03-04","title":"Evening meal"}`,
		uuid.New(), uuid.New(), uuid.New(), uuid.New())

	rec, payload := postTask(t, body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(rules.ReasonAmbiguousScope), payload["reason"])
}

func TestCreateTask_RejectsMissingScope(t *testing.T) {
	body := fmt.Sprintf(
		`{"organization_id":%q,"care_recipient_id":%q,"task_date":"2024-03-04","title":"Evening meal"}`,
		uuid.New(), uuid.New())

	rec, payload := postTask(t, body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(rules.ReasonMissingScope), payload["reason"])
}
