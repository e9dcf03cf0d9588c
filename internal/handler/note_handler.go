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

// ListVisitNotes returns all visit notes, newest first.
func ListVisitNotes(c echo.Context) error {
	log := logger.FromContext(c)

	var notes []model.VisitNote
	defer prometheus.TrackDBOperation("query")(time.Now())
	if result := database.GetDB().Order("created_at DESC").Find(&notes); result.Error != nil {
		log.Error("Failed to list visit notes", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list visit notes"})
	}

	return c.JSON(http.StatusOK, notes)
}

// GetVisitNote returns a single visit note by ID.
func GetVisitNote(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid visit note ID"})
	}

	var note model.VisitNote
	defer prometheus.TrackDBOperation("query")(time.Now())
	if result := database.GetDB().First(&note, "id = ?", id); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "visit note not found"})
		}
		log.Error("Failed to load visit note", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load visit note"})
	}

	return c.JSON(http.StatusOK, note)
}

// CreateVisitNote writes the note for a visit. A visit carries at most one
// note; an existing note rejects the create and stays untouched. Callers
// change a note through update, never by re-creating it.
func CreateVisitNote(c echo.Context) error {
	log := logger.FromContext(c)
	userID := middleware.CurrentUserID(c)

	var req struct {
		VisitID   uuid.UUID  `json:"visit_id"`
		AuthorID  *uuid.UUID `json:"author_id"`
		Summary   *string    `json:"summary"`
		Mood      *string    `json:"mood"`
		Incidents *string    `json:"incidents"`
		NextSteps *string    `json:"next_steps"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.VisitID == uuid.Nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "visit_id is required"})
	}

	var existing model.VisitNote
	var existingPtr *model.VisitNote
	defer prometheus.TrackDBOperation("query")(time.Now())
	result := database.GetDB().Where("visit_id = ?", req.VisitID).First(&existing)
	if result.Error == nil {
		existingPtr = &existing
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		log.Error("Failed to check for existing visit note", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create visit note"})
	}

	if err := rules.CheckNoteUnique(existingPtr); err != nil {
		if v, ok := rules.AsViolation(err); ok {
			return respondViolation(c, v)
		}
		return err
	}

	authorID := userID
	if req.AuthorID != nil {
		authorID = *req.AuthorID
	}

	note := model.VisitNote{
		VisitID:   req.VisitID,
		AuthorID:  authorID,
		Summary:   req.Summary,
		Mood:      req.Mood,
		Incidents: req.Incidents,
		NextSteps: req.NextSteps,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&note); result.Error != nil {
		// The unique index catches concurrent creates that slip past
		// the read above.
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return respondViolation(c, &rules.Violation{
				Reason:  rules.ReasonDuplicateNote,
				Message: "a visit note already exists for this visit",
			})
		}
		log.Error("Failed to create visit note", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create visit note"})
	}

	log.Info("Created visit note",
		zap.String("note_id", note.ID.String()),
		zap.String("visit_id", note.VisitID.String()))
	return c.JSON(http.StatusCreated, note)
}

// UpdateVisitNote applies a partial update to an existing note.
func UpdateVisitNote(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid visit note ID"})
	}

	var note model.VisitNote
	defer prometheus.TrackDBOperation("query")(time.Now())
	if result := database.GetDB().First(&note, "id = ?", id); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "visit note not found"})
		}
		log.Error("Failed to load visit note", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load visit note"})
	}

	var req struct {
		Summary   *string `json:"summary"`
		Mood      *string `json:"mood"`
		Incidents *string `json:"incidents"`
		NextSteps *string `json:"next_steps"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Summary != nil {
		note.Summary = req.Summary
	}
	if req.Mood != nil {
		note.Mood = req.Mood
	}
	if req.Incidents != nil {
		note.Incidents = req.Incidents
	}
	if req.NextSteps != nil {
		note.NextSteps = req.NextSteps
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&note); result.Error != nil {
		log.Error("Failed to update visit note", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update visit note"})
	}

	return c.JSON(http.StatusOK, note)
}
