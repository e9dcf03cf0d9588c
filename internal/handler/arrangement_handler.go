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

func validArrangementMode(mode string) bool {
	switch mode {
	case model.ArrangementModeVisitsOnly, model.ArrangementMode24x7Only, model.ArrangementMode24x7PlusVisit:
		return true
	}
	return false
}

// ListCareArrangements returns the current organization's arrangements,
// newest first, optionally filtered by care recipient.
func ListCareArrangements(c echo.Context) error {
	log := logger.FromContext(c)
	orgID := middleware.CurrentOrganizationID(c)

	q := database.GetDB().Where("organization_id = ?", orgID)
	if recipientID, found, err := queryUUID(c, "care_recipient_id"); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid care_recipient_id"})
	} else if found {
		q = q.Where("care_recipient_id = ?", recipientID)
	}

	var arrangements []model.CareArrangement
	defer prometheus.TrackDBOperation("query")(time.Now())
	if result := q.Order("created_at DESC").Find(&arrangements); result.Error != nil {
		log.Error("Failed to list care arrangements", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list care arrangements"})
	}

	return c.JSON(http.StatusOK, arrangements)
}

// GetCareArrangement returns a single care arrangement by ID.
func GetCareArrangement(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid care arrangement ID"})
	}

	var arr model.CareArrangement
	defer prometheus.TrackDBOperation("query")(time.Now())
	if result := database.GetDB().First(&arr, "id = ?", id); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "care arrangement not found"})
		}
		log.Error("Failed to load care arrangement", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load care arrangement"})
	}

	return c.JSON(http.StatusOK, arr)
}

// CreateCareArrangement records how care is delivered from a given date.
//
// Any open-ended arrangement for the same (recipient, organization) is
// closed at the new arrangement's effective_from in the same transaction,
// so the pair never has two "current" arrangements. This is historization:
// the closed rows stay as the record of what was in force before.
func CreateCareArrangement(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		CareRecipientID uuid.UUID   `json:"care_recipient_id"`
		OrganizationID  uuid.UUID   `json:"organization_id"`
		Mode            string      `json:"mode"`
		EffectiveFrom   *model.Date `json:"effective_from"`
		EffectiveTo     *model.Date `json:"effective_to"`
		Notes           *string     `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.CareRecipientID == uuid.Nil || req.OrganizationID == uuid.Nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "care_recipient_id and organization_id are required"})
	}
	if !validArrangementMode(req.Mode) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "mode must be visits_only, caregiver_24x7_only or caregiver_24x7_plus_visits"})
	}
	if req.EffectiveFrom == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "effective_from is required"})
	}

	arr := model.CareArrangement{
		CareRecipientID: req.CareRecipientID,
		OrganizationID:  req.OrganizationID,
		Mode:            req.Mode,
		EffectiveFrom:   *req.EffectiveFrom,
		EffectiveTo:     req.EffectiveTo,
		Notes:           req.Notes,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := database.AcquireScopeLock(tx, arr.CareRecipientID, arr.OrganizationID); err != nil {
			return err
		}

		var open []model.CareArrangement
		if err := tx.Where(
			"care_recipient_id = ? AND organization_id = ? AND effective_to IS NULL",
			arr.CareRecipientID, arr.OrganizationID,
		).Find(&open).Error; err != nil {
			return err
		}

		plan := rules.ProposeArrangement(&arr, open)
		for _, closure := range plan.Close {
			if err := tx.Model(&model.CareArrangement{}).
				Where("id = ?", closure.ID).
				Update("effective_to", closure.EffectiveTo).Error; err != nil {
				return err
			}
		}
		prometheus.RecordArrangementsClosed(len(plan.Close))

		return tx.Create(&arr).Error
	})
	if err != nil {
		log.Error("Failed to create care arrangement", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create care arrangement"})
	}

	log.Info("Created care arrangement",
		zap.String("arrangement_id", arr.ID.String()),
		zap.String("mode", arr.Mode))
	return c.JSON(http.StatusCreated, arr)
}

// UpdateCareArrangement applies a partial, in-place update. Updates never
// historize: callers wanting a mode change recorded from a specific date
// create a new arrangement instead.
func UpdateCareArrangement(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid care arrangement ID"})
	}

	var arr model.CareArrangement
	defer prometheus.TrackDBOperation("query")(time.Now())
	if result := database.GetDB().First(&arr, "id = ?", id); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "care arrangement not found"})
		}
		log.Error("Failed to load care arrangement", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load care arrangement"})
	}

	var req struct {
		Mode          *string     `json:"mode"`
		EffectiveFrom *model.Date `json:"effective_from"`
		EffectiveTo   *model.Date `json:"effective_to"`
		Notes         *string     `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Mode != nil {
		if !validArrangementMode(*req.Mode) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "mode must be visits_only, caregiver_24x7_only or caregiver_24x7_plus_visits"})
		}
		arr.Mode = *req.Mode
	}
	if req.EffectiveFrom != nil {
		arr.EffectiveFrom = *req.EffectiveFrom
	}
	if req.EffectiveTo != nil {
		arr.EffectiveTo = req.EffectiveTo
	}
	if req.Notes != nil {
		arr.Notes = req.Notes
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&arr); result.Error != nil {
		log.Error("Failed to update care arrangement", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update care arrangement"})
	}

	return c.JSON(http.StatusOK, arr)
}
