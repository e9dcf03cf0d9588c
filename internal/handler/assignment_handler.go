package handler

import (
	"errors"
	"net/http"
	"time"

	"homecare-service/internal/middleware"
	"homecare-service/internal/model"
	"homecare-service/pkg/database"
	"homecare-service/pkg/logger"
	"homecare-service/prometheus"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func validAssignmentType(t string) bool {
	return t == model.AssignmentTypePrimary || t == model.AssignmentTypeRelief
}

func validAssignmentStatus(s string) bool {
	return s == model.AssignmentStatusActive || s == model.AssignmentStatusEnded
}

// ListAssignments returns the 24/7 assignments of the caller's organization,
// optionally filtered by care recipient.
func ListAssignments(c echo.Context) error {
	log := logger.FromContext(c)
	orgID := middleware.CurrentOrganizationID(c)

	query := database.GetDB().Where("organization_id = ?", orgID)
	if recipientID, ok, err := queryUUID(c, "care_recipient_id"); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid care_recipient_id"})
	} else if ok {
		query = query.Where("care_recipient_id = ?", recipientID)
	}

	var assignments []model.Assignment24x7
	if result := query.Order("start_date DESC").Find(&assignments); result.Error != nil {
		log.Error("Failed to list assignments", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list assignments"})
	}

	return c.JSON(http.StatusOK, assignments)
}

// GetAssignment returns a single 24/7 assignment by ID.
func GetAssignment(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid assignment ID"})
	}

	var assignment model.Assignment24x7
	defer prometheus.TrackDBOperation("query")(time.Now())
	if result := database.GetDB().First(&assignment, "id = ?", id); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "assignment not found"})
		}
		log.Error("Failed to load assignment", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load assignment"})
	}

	return c.JSON(http.StatusOK, assignment)
}

// CreateAssignment records a new round-the-clock caregiver engagement.
func CreateAssignment(c echo.Context) error {
	log := logger.FromContext(c)
	userID := middleware.CurrentUserID(c)
	orgID := middleware.CurrentOrganizationID(c)

	var req struct {
		OrganizationID  *uuid.UUID  `json:"organization_id"`
		CareRecipientID uuid.UUID   `json:"care_recipient_id"`
		CaregiverID     uuid.UUID   `json:"caregiver_id"`
		StartDate       model.Date  `json:"start_date"`
		EndDate         *model.Date `json:"end_date"`
		Type            string      `json:"type"`
		Notes           *string     `json:"notes"`
		Status          string      `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.CareRecipientID == uuid.Nil || req.CaregiverID == uuid.Nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "care_recipient_id and caregiver_id are required"})
	}
	if req.StartDate.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date is required"})
	}

	assignment := model.Assignment24x7{
		OrganizationID:  orgID,
		CareRecipientID: req.CareRecipientID,
		CaregiverID:     req.CaregiverID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Type:            model.AssignmentTypePrimary,
		Notes:           req.Notes,
		Status:          model.AssignmentStatusActive,
	}
	if req.OrganizationID != nil {
		assignment.OrganizationID = *req.OrganizationID
	}
	if req.Type != "" {
		if !validAssignmentType(req.Type) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be primary or relief"})
		}
		assignment.Type = req.Type
	}
	if req.Status != "" {
		if !validAssignmentStatus(req.Status) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be active or ended"})
		}
		assignment.Status = req.Status
	}
	if userID != uuid.Nil {
		assignment.CreatedByID = &userID
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&assignment); result.Error != nil {
		log.Error("Failed to create assignment", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create assignment"})
	}

	log.Info("Created 24/7 assignment",
		zap.String("assignment_id", assignment.ID.String()),
		zap.String("care_recipient_id", assignment.CareRecipientID.String()),
		zap.String("caregiver_id", assignment.CaregiverID.String()))
	return c.JSON(http.StatusCreated, assignment)
}

// UpdateAssignment applies a partial update to an existing assignment.
func UpdateAssignment(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid assignment ID"})
	}

	var assignment model.Assignment24x7
	defer prometheus.TrackDBOperation("query")(time.Now())
	if result := database.GetDB().First(&assignment, "id = ?", id); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "assignment not found"})
		}
		log.Error("Failed to load assignment", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load assignment"})
	}

	var req struct {
		CaregiverID *uuid.UUID  `json:"caregiver_id"`
		StartDate   *model.Date `json:"start_date"`
		EndDate     *model.Date `json:"end_date"`
		Type        *string     `json:"type"`
		Notes       *string     `json:"notes"`
		Status      *string     `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.CaregiverID != nil {
		assignment.CaregiverID = *req.CaregiverID
	}
	if req.StartDate != nil {
		assignment.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		assignment.EndDate = req.EndDate
	}
	if req.Type != nil {
		if !validAssignmentType(*req.Type) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be primary or relief"})
		}
		assignment.Type = *req.Type
	}
	if req.Notes != nil {
		assignment.Notes = req.Notes
	}
	if req.Status != nil {
		if !validAssignmentStatus(*req.Status) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be active or ended"})
		}
		assignment.Status = *req.Status
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&assignment); result.Error != nil {
		log.Error("Failed to update assignment", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update assignment"})
	}

	return c.JSON(http.StatusOK, assignment)
}
