package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Assignment24x7 types and statuses
const (
	AssignmentTypePrimary = "primary"
	AssignmentTypeRelief  = "relief"

	AssignmentStatusActive = "active"
	AssignmentStatusEnded  = "ended"
)

// Assignment24x7 records a round-the-clock caregiver engagement for a
// recipient. Tasks that are not tied to a single visit are scoped to one of
// these instead.
type Assignment24x7 struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"organization_id"`
	CareRecipientID uuid.UUID  `gorm:"type:uuid;not null;index" json:"care_recipient_id"`
	CaregiverID     uuid.UUID  `gorm:"type:uuid;not null" json:"caregiver_id"`
	StartDate       Date       `gorm:"not null" json:"start_date"`
	EndDate         *Date      `json:"end_date,omitempty"`
	Type            string     `gorm:"size:20;not null;default:primary" json:"type"`
	Notes           *string    `gorm:"size:500" json:"notes,omitempty"`
	Status          string     `gorm:"size:20;not null;default:active" json:"status"`
	CreatedByID     *uuid.UUID `gorm:"type:uuid" json:"created_by_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (a *Assignment24x7) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName overrides gorm's default pluralization.
func (Assignment24x7) TableName() string {
	return "assignments_24x7"
}
