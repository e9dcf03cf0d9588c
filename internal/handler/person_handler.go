package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"homecare-service/internal/model"
	"homecare-service/pkg/database"
	"homecare-service/pkg/logger"
	"homecare-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxPageSize = 100

// ListPersons returns all people, newest first, with limit/offset paging.
func ListPersons(c echo.Context) error {
	log := logger.FromContext(c)

	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	offset := 0
	if raw := c.QueryParam("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var persons []model.Person
	defer prometheus.TrackDBOperation("query")(time.Now())
	if result := database.GetDB().Order("created_at DESC").Offset(offset).Limit(limit).Find(&persons); result.Error != nil {
		log.Error("Failed to list persons", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list persons"})
	}

	return c.JSON(http.StatusOK, persons)
}

// GetPerson returns a single person by ID.
func GetPerson(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid person ID"})
	}

	var person model.Person
	defer prometheus.TrackDBOperation("query")(time.Now())
	if result := database.GetDB().First(&person, "id = ?", id); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "person not found"})
		}
		log.Error("Failed to load person", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load person"})
	}

	return c.JSON(http.StatusOK, person)
}

// CreatePerson registers a person. The created record starts in `invited`
// status with no credentials; a real invite flow can attach tokens later.
func CreatePerson(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Email       string  `json:"email"`
		FirstName   string  `json:"first_name"`
		LastName    string  `json:"last_name"`
		DisplayName *string `json:"display_name"`
		Phone       *string `json:"phone"`
		Timezone    *string `json:"timezone"`
		Locale      *string `json:"locale"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Email == "" || req.FirstName == "" || req.LastName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email, first_name and last_name are required"})
	}

	var existing model.Person
	if result := database.GetDB().Where("email = ?", req.Email).First(&existing); result.Error == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "a person with this email already exists"})
	}

	person := model.Person{
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DisplayName: req.DisplayName,
		Phone:       req.Phone,
		Timezone:    "UTC",
		Locale:      "en-US",
		Status:      model.PersonStatusInvited,
	}
	if req.Timezone != nil {
		person.Timezone = *req.Timezone
	}
	if req.Locale != nil {
		person.Locale = *req.Locale
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&person); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "a person with this email already exists"})
		}
		log.Error("Failed to create person", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create person"})
	}

	log.Info("Created person", zap.String("person_id", person.ID.String()), zap.String("email", person.Email))
	return c.JSON(http.StatusCreated, person)
}

// UpdatePerson applies a partial update; absent fields are left unchanged.
func UpdatePerson(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid person ID"})
	}

	var person model.Person
	defer prometheus.TrackDBOperation("query")(time.Now())
	if result := database.GetDB().First(&person, "id = ?", id); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "person not found"})
		}
		log.Error("Failed to load person", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load person"})
	}

	var req struct {
		FirstName   *string `json:"first_name"`
		LastName    *string `json:"last_name"`
		DisplayName *string `json:"display_name"`
		Phone       *string `json:"phone"`
		AvatarURL   *string `json:"avatar_url"`
		Timezone    *string `json:"timezone"`
		Locale      *string `json:"locale"`
		Status      *string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.FirstName != nil {
		person.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		person.LastName = *req.LastName
	}
	if req.DisplayName != nil {
		person.DisplayName = req.DisplayName
	}
	if req.Phone != nil {
		person.Phone = req.Phone
	}
	if req.AvatarURL != nil {
		person.AvatarURL = req.AvatarURL
	}
	if req.Timezone != nil {
		person.Timezone = *req.Timezone
	}
	if req.Locale != nil {
		person.Locale = *req.Locale
	}
	if req.Status != nil {
		person.Status = *req.Status
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&person); result.Error != nil {
		log.Error("Failed to update person", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update person"})
	}

	return c.JSON(http.StatusOK, person)
}
