package handler

import (
	"net/http"

	"homecare-service/internal/rules"
	"homecare-service/prometheus"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// violationStatus maps a rule rejection to its HTTP status. Duplicate
// resources are conflicts; everything else is a bad request.
func violationStatus(v *rules.Violation) int {
	switch v.Reason {
	case rules.ReasonDuplicateNote, rules.ReasonDuplicateMembership:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// respondViolation renders a rule rejection with its stable reason code.
func respondViolation(c echo.Context, v *rules.Violation) error {
	prometheus.RecordRejection(string(v.Reason))
	return c.JSON(violationStatus(v), echo.Map{
		"error":  v.Message,
		"reason": string(v.Reason),
	})
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("id"))
}

// queryUUID parses an optional UUID query parameter; found is false when the
// parameter is absent.
func queryUUID(c echo.Context, name string) (id uuid.UUID, found bool, err error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return uuid.Nil, false, nil
	}
	id, err = uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false, err
	}
	return id, true, nil
}
