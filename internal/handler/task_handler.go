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

// ListTasks returns the current organization's tasks, optionally filtered by
// care recipient, visit or 24/7 assignment.
func ListTasks(c echo.Context) error {
	log := logger.FromContext(c)
	orgID := middleware.CurrentOrganizationID(c)

	q := database.GetDB().Where("organization_id = ?", orgID)
	for _, filter := range []string{"care_recipient_id", "visit_id", "assignment_24x7_id"} {
		if id, found, err := queryUUID(c, filter); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid " + filter})
		} else if found {
			q = q.Where(filter+" = ?", id)
		}
	}

	var tasks []model.Task
	defer prometheus.TrackDBOperation("query")(time.Now())
	if result := q.Order("task_date ASC, sort_order ASC NULLS LAST").Find(&tasks); result.Error != nil {
		log.Error("Failed to list tasks", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list tasks"})
	}

	return c.JSON(http.StatusOK, tasks)
}

// GetTask returns a single task by ID.
func GetTask(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid task ID"})
	}

	var task model.Task
	defer prometheus.TrackDBOperation("query")(time.Now())
	if result := database.GetDB().First(&task, "id = ?", id); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "task not found"})
		}
		log.Error("Failed to load task", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load task"})
	}

	return c.JSON(http.StatusOK, task)
}

// CreateTask creates a task for a visit or for a 24/7 assignment. The scope
// and completion rules run before anything is persisted; completion fields
// always start empty regardless of the payload, so a payload asking for a
// completed task is rejected rather than coerced.
func CreateTask(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		OrganizationID   uuid.UUID   `json:"organization_id"`
		CareRecipientID  uuid.UUID   `json:"care_recipient_id"`
		CarePlanID       *uuid.UUID  `json:"care_plan_id"`
		VisitID          *uuid.UUID  `json:"visit_id"`
		Assignment24x7ID *uuid.UUID  `json:"assignment_24x7_id"`
		TaskDate         *model.Date `json:"task_date"`
		Title            string      `json:"title"`
		Description      *string     `json:"description"`
		Category         *string     `json:"category"`
		Frequency        *string     `json:"frequency"`
		Status           *string     `json:"status"`
		Notes            *string     `json:"notes"`
		SortOrder        *int        `json:"sort_order"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.OrganizationID == uuid.Nil || req.CareRecipientID == uuid.Nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "organization_id and care_recipient_id are required"})
	}
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	if req.TaskDate == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "task_date is required"})
	}

	if err := rules.ValidateTaskScope(req.VisitID, req.Assignment24x7ID); err != nil {
		if v, ok := rules.AsViolation(err); ok {
			return respondViolation(c, v)
		}
		return err
	}

	task := model.Task{
		OrganizationID:   req.OrganizationID,
		CareRecipientID:  req.CareRecipientID,
		CarePlanID:       req.CarePlanID,
		VisitID:          req.VisitID,
		Assignment24x7ID: req.Assignment24x7ID,
		TaskDate:         *req.TaskDate,
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		Frequency:        req.Frequency,
		Status:           model.TaskStatusPending,
		Notes:            req.Notes,
		SortOrder:        req.SortOrder,
	}
	if req.Status != nil {
		task.Status = *req.Status
	}

	// Completion fields are never taken from the payload, so asking for a
	// completed task at creation is an incomplete completion state.
	if err := rules.CheckTaskCompletion(&task); err != nil {
		if v, ok := rules.AsViolation(err); ok {
			return respondViolation(c, v)
		}
		return err
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&task); result.Error != nil {
		log.Error("Failed to create task", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create task"})
	}

	log.Info("Created task", zap.String("task_id", task.ID.String()))
	return c.JSON(http.StatusCreated, task)
}

// UpdateTask applies a partial update. The scope rule re-runs against the
// merged state; moving to completed backfills the completion fields with the
// acting user and current time, and the completion safety net rejects any
// completed state missing them.
func UpdateTask(c echo.Context) error {
	log := logger.FromContext(c)
	userID := middleware.CurrentUserID(c)

	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid task ID"})
	}

	var task model.Task
	defer prometheus.TrackDBOperation("query")(time.Now())
	if result := database.GetDB().First(&task, "id = ?", id); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "task not found"})
		}
		log.Error("Failed to load task", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load task"})
	}

	var req struct {
		CarePlanID       *uuid.UUID  `json:"care_plan_id"`
		VisitID          *uuid.UUID  `json:"visit_id"`
		Assignment24x7ID *uuid.UUID  `json:"assignment_24x7_id"`
		TaskDate         *model.Date `json:"task_date"`
		Title            *string     `json:"title"`
		Description      *string     `json:"description"`
		Category         *string     `json:"category"`
		Frequency        *string     `json:"frequency"`
		Status           *string     `json:"status"`
		Notes            *string     `json:"notes"`
		SortOrder        *int        `json:"sort_order"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.CarePlanID != nil {
		task.CarePlanID = req.CarePlanID
	}
	if req.VisitID != nil {
		task.VisitID = req.VisitID
	}
	if req.Assignment24x7ID != nil {
		task.Assignment24x7ID = req.Assignment24x7ID
	}
	if req.TaskDate != nil {
		task.TaskDate = *req.TaskDate
	}
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = req.Description
	}
	if req.Category != nil {
		task.Category = req.Category
	}
	if req.Frequency != nil {
		task.Frequency = req.Frequency
	}
	if req.Notes != nil {
		task.Notes = req.Notes
	}
	if req.SortOrder != nil {
		task.SortOrder = req.SortOrder
	}

	if req.Status != nil {
		if *req.Status == model.TaskStatusCompleted {
			rules.CompleteTask(&task, userID, time.Now().UTC())
		} else {
			// Completion fields are deliberately not cleared when leaving
			// completed; they record the last completion.
			task.Status = *req.Status
		}
	}

	if err := rules.ValidateTaskScope(task.VisitID, task.Assignment24x7ID); err != nil {
		if v, ok := rules.AsViolation(err); ok {
			return respondViolation(c, v)
		}
		return err
	}
	if err := rules.CheckTaskCompletion(&task); err != nil {
		if v, ok := rules.AsViolation(err); ok {
			return respondViolation(c, v)
		}
		return err
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&task); result.Error != nil {
		log.Error("Failed to update task", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update task"})
	}

	return c.JSON(http.StatusOK, task)
}
