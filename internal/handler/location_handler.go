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

// ListLocations returns the current organization's locations, newest first.
func ListLocations(c echo.Context) error {
	log := logger.FromContext(c)
	orgID := middleware.CurrentOrganizationID(c)

	var locations []model.Location
	if result := database.GetDB().Where("organization_id = ?", orgID).Order("created_at DESC").Find(&locations); result.Error != nil {
		log.Error("Failed to list locations", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list locations"})
	}

	return c.JSON(http.StatusOK, locations)
}

// GetLocation returns one location, scoped to the current organization.
func GetLocation(c echo.Context) error {
	log := logger.FromContext(c)
	orgID := middleware.CurrentOrganizationID(c)

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid location ID"})
	}

	var location model.Location
	defer prometheus.TrackDBOperation("query")(time.Now())
	result := database.GetDB().Where("id = ? AND organization_id = ?", id, orgID).First(&location)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		log.Error("Failed to load location", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load location"})
	}

	return c.JSON(http.StatusOK, location)
}

// CreateLocation adds an office or branch for an organization.
func CreateLocation(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		OrganizationID    uuid.UUID `json:"organization_id"`
		Name              string    `json:"name"`
		AddressStreet     *string   `json:"address_street"`
		AddressCity       *string   `json:"address_city"`
		AddressRegion     *string   `json:"address_region"`
		AddressPostalCode *string   `json:"address_postal_code"`
		AddressCountry    *string   `json:"address_country"`
		Timezone          *string   `json:"timezone"`
		IsDefault         bool      `json:"is_default"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.OrganizationID == uuid.Nil {
		req.OrganizationID = middleware.CurrentOrganizationID(c)
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	location := model.Location{
		OrganizationID:    req.OrganizationID,
		Name:              req.Name,
		AddressStreet:     req.AddressStreet,
		AddressCity:       req.AddressCity,
		AddressRegion:     req.AddressRegion,
		AddressPostalCode: req.AddressPostalCode,
		AddressCountry:    req.AddressCountry,
		Timezone:          req.Timezone,
		IsDefault:         req.IsDefault,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&location); result.Error != nil {
		log.Error("Failed to create location", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create location"})
	}

	log.Info("Created location", zap.String("location_id", location.ID.String()))
	return c.JSON(http.StatusCreated, location)
}

// UpdateLocation applies a partial update, scoped to the current organization.
func UpdateLocation(c echo.Context) error {
	log := logger.FromContext(c)
	orgID := middleware.CurrentOrganizationID(c)

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid location ID"})
	}

	var location model.Location
	defer prometheus.TrackDBOperation("query")(time.Now())
	result := database.GetDB().Where("id = ? AND organization_id = ?", id, orgID).First(&location)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		log.Error("Failed to load location", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load location"})
	}

	var req struct {
		Name              *string `json:"name"`
		AddressStreet     *string `json:"address_street"`
		AddressCity       *string `json:"address_city"`
		AddressRegion     *string `json:"address_region"`
		AddressPostalCode *string `json:"address_postal_code"`
		AddressCountry    *string `json:"address_country"`
		Timezone          *string `json:"timezone"`
		IsDefault         *bool   `json:"is_default"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Name != nil {
		location.Name = *req.Name
	}
	if req.AddressStreet != nil {
		location.AddressStreet = req.AddressStreet
	}
	if req.AddressCity != nil {
		location.AddressCity = req.AddressCity
	}
	if req.AddressRegion != nil {
		location.AddressRegion = req.AddressRegion
	}
	if req.AddressPostalCode != nil {
		location.AddressPostalCode = req.AddressPostalCode
	}
	if req.AddressCountry != nil {
		location.AddressCountry = req.AddressCountry
	}
	if req.Timezone != nil {
		location.Timezone = req.Timezone
	}
	if req.IsDefault != nil {
		location.IsDefault = *req.IsDefault
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&location); result.Error != nil {
		log.Error("Failed to update location", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update location"})
	}

	return c.JSON(http.StatusOK, location)
}
