package handler

import (
	"errors"
	"net/http"
	"time"

	"homecare-service/internal/middleware"
	"homecare-service/internal/model"
	"homecare-service/internal/rules"
	"homecare-service/pkg/database"
	"homecare-service/pkg/logger"
	"homecare-service/prometheus"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ListVisits returns the current organization's visits ordered by scheduled
// start, optionally filtered by care recipient.
func ListVisits(c echo.Context) error {
	log := logger.FromContext(c)
	orgID := middleware.CurrentOrganizationID(c)

	q := database.GetDB().Where("organization_id = ?", orgID)
	if recipientID, found, err := queryUUID(c, "care_recipient_id"); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid care_recipient_id"})
	} else if found {
		q = q.Where("care_recipient_id = ?", recipientID)
	}

	var visits []model.Visit
	defer prometheus.TrackDBOperation("query")(time.Now())
	if result := q.Order("scheduled_start ASC").Find(&visits); result.Error != nil {
		log.Error("Failed to list visits", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list visits"})
	}

	return c.JSON(http.StatusOK, visits)
}

// GetVisit returns a single visit by ID.
func GetVisit(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid visit ID"})
	}

	var visit model.Visit
	defer prometheus.TrackDBOperation("query")(time.Now())
	if result := database.GetDB().First(&visit, "id = ?", id); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "visit not found"})
		}
		log.Error("Failed to load visit", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load visit"})
	}

	return c.JSON(http.StatusOK, visit)
}

// CreateVisit schedules a visit. The time window is validated before
// anything is persisted.
func CreateVisit(c echo.Context) error {
	log := logger.FromContext(c)
	userID := middleware.CurrentUserID(c)

	var req struct {
		OrganizationID      uuid.UUID  `json:"organization_id"`
		CareRecipientID     uuid.UUID  `json:"care_recipient_id"`
		AssignedCaregiverID *uuid.UUID `json:"assigned_caregiver_id"`
		VisitType           string     `json:"visit_type"`
		ScheduledStart      time.Time  `json:"scheduled_start"`
		ScheduledEnd        time.Time  `json:"scheduled_end"`
		Timezone            *string    `json:"timezone"`
		AddressStreet       *string    `json:"address_street"`
		AddressCity         *string    `json:"address_city"`
		AddressRegion       *string    `json:"address_region"`
		AddressPostalCode   *string    `json:"address_postal_code"`
		AddressCountry      *string    `json:"address_country"`
		RecurrenceRule      *string    `json:"recurrence_rule"`
		ParentVisitID       *uuid.UUID `json:"parent_visit_id"`
		Status              *string    `json:"status"`
		Notes               *string    `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.OrganizationID == uuid.Nil || req.CareRecipientID == uuid.Nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "organization_id and care_recipient_id are required"})
	}
	if req.VisitType == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "visit_type is required"})
	}
	if req.ScheduledStart.IsZero() || req.ScheduledEnd.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "scheduled_start and scheduled_end are required"})
	}

	if err := rules.ValidateWindow(req.ScheduledStart, req.ScheduledEnd); err != nil {
		if v, ok := rules.AsViolation(err); ok {
			return respondViolation(c, v)
		}
		return err
	}

	visit := model.Visit{
		OrganizationID:      req.OrganizationID,
		CareRecipientID:     req.CareRecipientID,
		AssignedCaregiverID: req.AssignedCaregiverID,
		VisitType:           req.VisitType,
		ScheduledStart:      req.ScheduledStart,
		ScheduledEnd:        req.ScheduledEnd,
		Timezone:            req.Timezone,
		AddressStreet:       req.AddressStreet,
		AddressCity:         req.AddressCity,
		AddressRegion:       req.AddressRegion,
		AddressPostalCode:   req.AddressPostalCode,
		AddressCountry:      req.AddressCountry,
		RecurrenceRule:      req.RecurrenceRule,
		ParentVisitID:       req.ParentVisitID,
		Status:              model.VisitStatusScheduled,
		Notes:               req.Notes,
	}
	if req.Status != nil {
		visit.Status = *req.Status
	}
	if userID != uuid.Nil {
		visit.CreatedByID = &userID
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&visit); result.Error != nil {
		log.Error("Failed to create visit", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create visit"})
	}

	log.Info("Created visit",
		zap.String("visit_id", visit.ID.String()),
		zap.Time("scheduled_start", visit.ScheduledStart))
	return c.JSON(http.StatusCreated, visit)
}

// UpdateVisit applies a partial update (not the explicit start/end actions).
// The time window is re-validated against the merged state.
func UpdateVisit(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid visit ID"})
	}

	var visit model.Visit
	defer prometheus.TrackDBOperation("query")(time.Now())
	if result := database.GetDB().First(&visit, "id = ?", id); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "visit not found"})
		}
		log.Error("Failed to load visit", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load visit"})
	}

	var req struct {
		AssignedCaregiverID *uuid.UUID `json:"assigned_caregiver_id"`
		VisitType           *string    `json:"visit_type"`
		ScheduledStart      *time.Time `json:"scheduled_start"`
		ScheduledEnd        *time.Time `json:"scheduled_end"`
		Timezone            *string    `json:"timezone"`
		AddressStreet       *string    `json:"address_street"`
		AddressCity         *string    `json:"address_city"`
		AddressRegion       *string    `json:"address_region"`
		AddressPostalCode   *string    `json:"address_postal_code"`
		AddressCountry      *string    `json:"address_country"`
		RecurrenceRule      *string    `json:"recurrence_rule"`
		ParentVisitID       *uuid.UUID `json:"parent_visit_id"`
		Status              *string    `json:"status"`
		Notes               *string    `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.AssignedCaregiverID != nil {
		visit.AssignedCaregiverID = req.AssignedCaregiverID
	}
	if req.VisitType != nil {
		visit.VisitType = *req.VisitType
	}
	if req.ScheduledStart != nil {
		visit.ScheduledStart = *req.ScheduledStart
	}
	if req.ScheduledEnd != nil {
		visit.ScheduledEnd = *req.ScheduledEnd
	}
	if req.Timezone != nil {
		visit.Timezone = req.Timezone
	}
	if req.AddressStreet != nil {
		visit.AddressStreet = req.AddressStreet
	}
	if req.AddressCity != nil {
		visit.AddressCity = req.AddressCity
	}
	if req.AddressRegion != nil {
		visit.AddressRegion = req.AddressRegion
	}
	if req.AddressPostalCode != nil {
		visit.AddressPostalCode = req.AddressPostalCode
	}
	if req.AddressCountry != nil {
		visit.AddressCountry = req.AddressCountry
	}
	if req.RecurrenceRule != nil {
		visit.RecurrenceRule = req.RecurrenceRule
	}
	if req.ParentVisitID != nil {
		visit.ParentVisitID = req.ParentVisitID
	}
	if req.Status != nil {
		visit.Status = *req.Status
	}
	if req.Notes != nil {
		visit.Notes = req.Notes
	}

	if err := rules.ValidateWindow(visit.ScheduledStart, visit.ScheduledEnd); err != nil {
		if v, ok := rules.AsViolation(err); ok {
			return respondViolation(c, v)
		}
		return err
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&visit); result.Error != nil {
		log.Error("Failed to update visit", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update visit"})
	}

	return c.JSON(http.StatusOK, visit)
}

// StartVisit checks the caregiver in: status moves to in_progress and
// checked_in_at is recorded (first call wins).
func StartVisit(c echo.Context) error {
	return visitLifecycleAction(c, "start", rules.StartVisit, prometheus.RecordVisitStarted)
}

// EndVisit checks the caregiver out: status moves to completed and
// checked_out_at is recorded; a never-started visit gets its check-in
// backfilled.
func EndVisit(c echo.Context) error {
	return visitLifecycleAction(c, "end", rules.EndVisit, prometheus.RecordVisitCompleted)
}

func visitLifecycleAction(c echo.Context, action string, apply func(*model.Visit, time.Time) error, record func()) error {
	log := logger.FromContext(c)

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid visit ID"})
	}

	var visit model.Visit
	defer prometheus.TrackDBOperation("query")(time.Now())
	if result := database.GetDB().First(&visit, "id = ?", id); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "visit not found"})
		}
		log.Error("Failed to load visit", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load visit"})
	}

	if err := apply(&visit, time.Now().UTC()); err != nil {
		if v, ok := rules.AsViolation(err); ok {
			log.Warn("Rejected visit lifecycle action",
				zap.String("action", action),
				zap.String("visit_id", visit.ID.String()),
				zap.String("status", visit.Status))
			return respondViolation(c, v)
		}
		return err
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&visit); result.Error != nil {
		log.Error("Failed to save visit", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save visit"})
	}

	record()
	log.Info("Visit lifecycle action applied",
		zap.String("action", action),
		zap.String("visit_id", visit.ID.String()),
		zap.String("status", visit.Status))
	return c.JSON(http.StatusOK, visit)
}
