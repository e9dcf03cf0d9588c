package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task statuses
const (
	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"
	TaskStatusSkipped   = "skipped"
	TaskStatusDeclined  = "declined"
)

// Task is a unit of care work, scoped to exactly one of a visit or a 24/7
// assignment. A completed task always carries completed_at and
// completed_by_id; both are backfilled when the status transition happens
// through the rules package.
type Task struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"organization_id"`
	CareRecipientID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"care_recipient_id"`
	CarePlanID       *uuid.UUID `gorm:"type:uuid" json:"care_plan_id,omitempty"`
	VisitID          *uuid.UUID `gorm:"type:uuid;index" json:"visit_id,omitempty"`
	Assignment24x7ID *uuid.UUID `gorm:"type:uuid;index" json:"assignment_24x7_id,omitempty"`
	TaskDate         Date       `gorm:"not null" json:"task_date"`
	Title            string     `gorm:"size:200;not null" json:"title"`
	Description      *string    `gorm:"size:1000" json:"description,omitempty"`
	Category         *string    `gorm:"size:30" json:"category,omitempty"`
	Frequency        *string    `gorm:"size:50" json:"frequency,omitempty"`
	Status           string     `gorm:"size:20;not null;default:pending" json:"status"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	CompletedByID    *uuid.UUID `gorm:"type:uuid" json:"completed_by_id,omitempty"`
	Notes            *string    `gorm:"size:500" json:"notes,omitempty"`
	SortOrder        *int       `json:"sort_order,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
