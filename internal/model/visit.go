package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Visit statuses
const (
	VisitStatusScheduled  = "scheduled"
	VisitStatusInProgress = "in_progress"
	VisitStatusCompleted  = "completed"
	VisitStatusCancelled  = "cancelled"
	VisitStatusNoShow     = "no_show"
)

// Visit is a scheduled care visit for a recipient.
//
// scheduled_end is strictly after scheduled_start on every successful write,
// and checked_in_at never trails checked_out_at; both are enforced through
// the rules package before persistence.
type Visit struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"organization_id"`
	CareRecipientID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"care_recipient_id"`
	AssignedCaregiverID *uuid.UUID `gorm:"type:uuid" json:"assigned_caregiver_id,omitempty"`
	VisitType           string     `gorm:"size:30;not null" json:"visit_type"`
	ScheduledStart      time.Time  `gorm:"not null" json:"scheduled_start"`
	ScheduledEnd        time.Time  `gorm:"not null" json:"scheduled_end"`
	Timezone            *string    `gorm:"size:50" json:"timezone,omitempty"`
	AddressStreet       *string    `gorm:"size:200" json:"address_street,omitempty"`
	AddressCity         *string    `gorm:"size:100" json:"address_city,omitempty"`
	AddressRegion       *string    `gorm:"size:100" json:"address_region,omitempty"`
	AddressPostalCode   *string    `gorm:"size:20" json:"address_postal_code,omitempty"`
	AddressCountry      *string    `gorm:"size:2" json:"address_country,omitempty"`
	RecurrenceRule      *string    `gorm:"size:500" json:"recurrence_rule,omitempty"`
	ParentVisitID       *uuid.UUID `gorm:"type:uuid" json:"parent_visit_id,omitempty"`
	Status              string     `gorm:"size:20;not null;default:scheduled" json:"status"`
	CheckedInAt         *time.Time `json:"checked_in_at,omitempty"`
	CheckedOutAt        *time.Time `json:"checked_out_at,omitempty"`
	Notes               *string    `gorm:"size:2000" json:"notes,omitempty"`
	CreatedByID         *uuid.UUID `gorm:"type:uuid" json:"created_by_id,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (v *Visit) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
