package handler

import (
	"errors"
	"net/http"
	"time"

	"homecare-service/internal/model"
	"homecare-service/pkg/database"
	"homecare-service/pkg/logger"
	"homecare-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ListOrganizations returns all organizations, newest first.
func ListOrganizations(c echo.Context) error {
	log := logger.FromContext(c)

	var orgs []model.Organization
	defer prometheus.TrackDBOperation("query")(time.Now())
	if result := database.GetDB().Order("created_at DESC").Find(&orgs); result.Error != nil {
		log.Error("Failed to list organizations", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list organizations"})
	}

	return c.JSON(http.StatusOK, orgs)
}

// GetOrganization returns a single organization by ID.
func GetOrganization(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid organization ID"})
	}

	var org model.Organization
	defer prometheus.TrackDBOperation("query")(time.Now())
	if result := database.GetDB().First(&org, "id = ?", id); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "organization not found"})
		}
		log.Error("Failed to load organization", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load organization"})
	}

	return c.JSON(http.StatusOK, org)
}

// CreateOrganization registers a household or agency.
func CreateOrganization(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Name         string  `json:"name"`
		Type         string  `json:"type"`
		Slug         *string `json:"slug"`
		PrimaryPhone *string `json:"primary_phone"`
		PrimaryEmail *string `json:"primary_email"`
		Timezone     *string `json:"timezone"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.Type != model.OrganizationTypeHousehold && req.Type != model.OrganizationTypeAgency {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be household or agency"})
	}

	org := model.Organization{
		Name:         req.Name,
		Type:         req.Type,
		Slug:         req.Slug,
		PrimaryPhone: req.PrimaryPhone,
		PrimaryEmail: req.PrimaryEmail,
		Timezone:     "UTC",
		Status:       model.OrganizationStatusActive,
	}
	if req.Timezone != nil {
		org.Timezone = *req.Timezone
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&org); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "an organization with this slug already exists"})
		}
		log.Error("Failed to create organization", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create organization"})
	}

	log.Info("Created organization",
		zap.String("organization_id", org.ID.String()),
		zap.String("type", org.Type))
	return c.JSON(http.StatusCreated, org)
}

// UpdateOrganization applies a partial update to an organization.
func UpdateOrganization(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid organization ID"})
	}

	var org model.Organization
	defer prometheus.TrackDBOperation("query")(time.Now())
	if result := database.GetDB().First(&org, "id = ?", id); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "organization not found"})
		}
		log.Error("Failed to load organization", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load organization"})
	}

	var req struct {
		Name         *string `json:"name"`
		LogoURL      *string `json:"logo_url"`
		PrimaryPhone *string `json:"primary_phone"`
		PrimaryEmail *string `json:"primary_email"`
		Timezone     *string `json:"timezone"`
		Status       *string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Name != nil {
		org.Name = *req.Name
	}
	if req.LogoURL != nil {
		org.LogoURL = req.LogoURL
	}
	if req.PrimaryPhone != nil {
		org.PrimaryPhone = req.PrimaryPhone
	}
	if req.PrimaryEmail != nil {
		org.PrimaryEmail = req.PrimaryEmail
	}
	if req.Timezone != nil {
		org.Timezone = *req.Timezone
	}
	if req.Status != nil {
		org.Status = *req.Status
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&org); result.Error != nil {
		log.Error("Failed to update organization", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update organization"})
	}

	return c.JSON(http.StatusOK, org)
}
