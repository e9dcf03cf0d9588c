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

// ListCareRelationships returns the current organization's relationships,
// newest first, optionally filtered by care recipient.
func ListCareRelationships(c echo.Context) error {
	log := logger.FromContext(c)
	orgID := middleware.CurrentOrganizationID(c)

	q := database.GetDB().Where("organization_id = ?", orgID)
	if recipientID, found, err := queryUUID(c, "care_recipient_id"); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid care_recipient_id"})
	} else if found {
		q = q.Where("care_recipient_id = ?", recipientID)
	}

	var relationships []model.CareRelationship
	defer prometheus.TrackDBOperation("query")(time.Now())
	if result := q.Order("created_at DESC").Find(&relationships); result.Error != nil {
		log.Error("Failed to list care relationships", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list care relationships"})
	}

	return c.JSON(http.StatusOK, relationships)
}

// GetCareRelationship returns a single care relationship by ID.
func GetCareRelationship(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid care relationship ID"})
	}

	var rel model.CareRelationship
	defer prometheus.TrackDBOperation("query")(time.Now())
	if result := database.GetDB().First(&rel, "id = ?", id); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "care relationship not found"})
		}
		log.Error("Failed to load care relationship", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load care relationship"})
	}

	return c.JSON(http.StatusOK, rel)
}

// demote24x7Peers reads the active peers for the relationship's scope and
// clears the 24/7 flag on the ones the rule selects. Must run inside the
// transaction that also persists the candidate; the scope lock serializes
// concurrent writers targeting the same (recipient, organization).
func demote24x7Peers(tx *gorm.DB, rel *model.CareRelationship) error {
	if err := database.AcquireScopeLock(tx, rel.CareRecipientID, rel.OrganizationID); err != nil {
		return err
	}

	var peers []model.CareRelationship
	if err := tx.Where(
		"care_recipient_id = ? AND organization_id = ? AND status = ? AND id <> ?",
		rel.CareRecipientID, rel.OrganizationID, model.RelationshipStatusActive, rel.ID,
	).Find(&peers).Error; err != nil {
		return err
	}

	plan := rules.ProposeRelationship(rel, peers)
	if len(plan.Demote) == 0 {
		return nil
	}

	if err := tx.Model(&model.CareRelationship{}).
		Where("id IN ?", plan.Demote).
		Update("is_24x7_caregiver", false).Error; err != nil {
		return err
	}
	prometheus.RecordDemotions(len(plan.Demote))
	return nil
}

// CreateCareRelationship links a recipient to a related person.
//
// When the new relationship claims the 24/7 caregiver flag, any active peer
// holding it for the same (recipient, organization) is silently demoted in
// the same transaction. No rejection: last write wins.
func CreateCareRelationship(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		CareRecipientID uuid.UUID   `json:"care_recipient_id"`
		RelatedPersonID uuid.UUID   `json:"related_person_id"`
		OrganizationID  uuid.UUID   `json:"organization_id"`
		Role            string      `json:"role"`
		Is24x7Caregiver bool        `json:"is_24x7_caregiver"`
		StartDate       *model.Date `json:"start_date"`
		EndDate         *model.Date `json:"end_date"`
		Notes           *string     `json:"notes"`
		Status          *string     `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.CareRecipientID == uuid.Nil || req.RelatedPersonID == uuid.Nil || req.OrganizationID == uuid.Nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "care_recipient_id, related_person_id and organization_id are required"})
	}
	if req.Role == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role is required"})
	}

	rel := model.CareRelationship{
		CareRecipientID: req.CareRecipientID,
		RelatedPersonID: req.RelatedPersonID,
		OrganizationID:  req.OrganizationID,
		Role:            req.Role,
		Is24x7Caregiver: req.Is24x7Caregiver,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Notes:           req.Notes,
		Status:          model.RelationshipStatusActive,
	}
	if req.Status != nil {
		rel.Status = *req.Status
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if rel.Is24x7Caregiver {
			if err := demote24x7Peers(tx, &rel); err != nil {
				return err
			}
		}
		return tx.Create(&rel).Error
	})
	if err != nil {
		log.Error("Failed to create care relationship", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create care relationship"})
	}

	log.Info("Created care relationship",
		zap.String("relationship_id", rel.ID.String()),
		zap.Bool("is_24x7_caregiver", rel.Is24x7Caregiver))
	return c.JSON(http.StatusCreated, rel)
}

// UpdateCareRelationship applies a partial update. Setting the 24/7 flag to
// true demotes active peers exactly as creation does, excluding this row.
func UpdateCareRelationship(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid care relationship ID"})
	}

	var rel model.CareRelationship
	defer prometheus.TrackDBOperation("query")(time.Now())
	if result := database.GetDB().First(&rel, "id = ?", id); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "care relationship not found"})
		}
		log.Error("Failed to load care relationship", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load care relationship"})
	}

	var req struct {
		Role            *string     `json:"role"`
		Is24x7Caregiver *bool       `json:"is_24x7_caregiver"`
		StartDate       *model.Date `json:"start_date"`
		EndDate         *model.Date `json:"end_date"`
		Notes           *string     `json:"notes"`
		Status          *string     `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Role != nil {
		rel.Role = *req.Role
	}
	if req.StartDate != nil {
		rel.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		rel.EndDate = req.EndDate
	}
	if req.Notes != nil {
		rel.Notes = req.Notes
	}
	if req.Status != nil {
		rel.Status = *req.Status
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if req.Is24x7Caregiver != nil {
			rel.Is24x7Caregiver = *req.Is24x7Caregiver
			if rel.Is24x7Caregiver {
				if err := demote24x7Peers(tx, &rel); err != nil {
					return err
				}
			}
		}
		return tx.Save(&rel).Error
	})
	if err != nil {
		log.Error("Failed to update care relationship", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update care relationship"})
	}

	return c.JSON(http.StatusOK, rel)
}
