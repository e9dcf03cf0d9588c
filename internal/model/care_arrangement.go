package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CareArrangement modes
const (
	ArrangementModeVisitsOnly    = "visits_only"
	ArrangementMode24x7Only      = "caregiver_24x7_only"
	ArrangementMode24x7PlusVisit = "caregiver_24x7_plus_visits"
)

// CareArrangement describes how care is delivered for a recipient over a
// date range. An arrangement with no effective_to is the current one.
//
// Invariant: per (care_recipient_id, organization_id) at most one
// arrangement is open-ended at a time. Creating a new arrangement closes any
// open peers at the new arrangement's effective_from; updates never
// historize. Callers wanting history create a new record.
type CareArrangement struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CareRecipientID uuid.UUID `gorm:"type:uuid;not null;index:idx_care_arrangement_scope" json:"care_recipient_id"`
	OrganizationID  uuid.UUID `gorm:"type:uuid;not null;index:idx_care_arrangement_scope" json:"organization_id"`
	Mode            string    `gorm:"size:30;not null" json:"mode"`
	EffectiveFrom   Date      `gorm:"not null" json:"effective_from"`
	EffectiveTo     *Date     `json:"effective_to,omitempty"`
	Notes           *string   `gorm:"size:500" json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (a *CareArrangement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// IsOpenEnded reports whether the arrangement has no end date.
func (a *CareArrangement) IsOpenEnded() bool {
	return a.EffectiveTo == nil
}
