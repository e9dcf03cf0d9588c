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

// ListMemberships returns the current organization's memberships, newest first.
func ListMemberships(c echo.Context) error {
	log := logger.FromContext(c)
	orgID := middleware.CurrentOrganizationID(c)

	var memberships []model.Membership
	if result := database.GetDB().Where("organization_id = ?", orgID).Order("created_at DESC").Find(&memberships); result.Error != nil {
		log.Error("Failed to list memberships", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list memberships"})
	}

	return c.JSON(http.StatusOK, memberships)
}

// GetMembership returns a single membership by ID.
func GetMembership(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid membership ID"})
	}

	var membership model.Membership
	defer prometheus.TrackDBOperation("query")(time.Now())
	if result := database.GetDB().First(&membership, "id = ?", id); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "membership not found"})
		}
		log.Error("Failed to load membership", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load membership"})
	}

	return c.JSON(http.StatusOK, membership)
}

// CreateMembership links a user to an organization with a role.
//
// Uniqueness per (user, organization) is deliberately left to the database
// constraint instead of a read-then-write check, which would race under
// concurrent writers. A constraint conflict comes back as
// gorm.ErrDuplicatedKey and is reported as DuplicateMembership.
func CreateMembership(c echo.Context) error {
	log := logger.FromContext(c)
	invitedBy := middleware.CurrentUserID(c)

	var req struct {
		UserID         uuid.UUID  `json:"user_id"`
		OrganizationID uuid.UUID  `json:"organization_id"`
		Role           string     `json:"role"`
		Title          *string    `json:"title"`
		LocationID     *uuid.UUID `json:"location_id"`
		Status         *string    `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.UserID == uuid.Nil || req.OrganizationID == uuid.Nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id and organization_id are required"})
	}
	if req.Role == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role is required"})
	}

	membership := model.Membership{
		UserID:         req.UserID,
		OrganizationID: req.OrganizationID,
		Role:           req.Role,
		Title:          req.Title,
		LocationID:     req.LocationID,
		Status:         model.MembershipStatusActive,
	}
	if req.Status != nil {
		membership.Status = *req.Status
	}
	if invitedBy != uuid.Nil {
		membership.InvitedByID = &invitedBy
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&membership); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return respondViolation(c, &rules.Violation{
				Reason:  rules.ReasonDuplicateMembership,
				Message: "membership for this user and organization already exists",
			})
		}
		log.Error("Failed to create membership", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create membership"})
	}

	log.Info("Created membership",
		zap.String("membership_id", membership.ID.String()),
		zap.String("user_id", membership.UserID.String()),
		zap.String("organization_id", membership.OrganizationID.String()),
		zap.String("role", membership.Role))
	return c.JSON(http.StatusCreated, membership)
}

// UpdateMembership applies a partial update (role, title, location, status).
func UpdateMembership(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid membership ID"})
	}

	var membership model.Membership
	defer prometheus.TrackDBOperation("query")(time.Now())
	if result := database.GetDB().First(&membership, "id = ?", id); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "membership not found"})
		}
		log.Error("Failed to load membership", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load membership"})
	}

	var req struct {
		Role       *string    `json:"role"`
		Title      *string    `json:"title"`
		LocationID *uuid.UUID `json:"location_id"`
		Status     *string    `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Role != nil {
		membership.Role = *req.Role
	}
	if req.Title != nil {
		membership.Title = req.Title
	}
	if req.LocationID != nil {
		membership.LocationID = req.LocationID
	}
	if req.Status != nil {
		membership.Status = *req.Status
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&membership); result.Error != nil {
		log.Error("Failed to update membership", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update membership"})
	}

	return c.JSON(http.StatusOK, membership)
}
