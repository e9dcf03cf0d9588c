package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CareRelationship statuses
const (
	RelationshipStatusActive   = "active"
	RelationshipStatusInactive = "inactive"
	RelationshipStatusEnded    = "ended"
)

// CareRelationship links a care recipient to a related person (family member
// or caregiver) within an organization.
//
// Invariant: per (care_recipient_id, organization_id) at most one active
// relationship may carry is_24x7_caregiver = true. The rules package computes
// which peers to demote; handlers apply the demotions and the write in one
// transaction.
type CareRelationship struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CareRecipientID uuid.UUID `gorm:"type:uuid;not null;index:idx_care_relationship_scope" json:"care_recipient_id"`
	RelatedPersonID uuid.UUID `gorm:"type:uuid;not null" json:"related_person_id"`
	OrganizationID  uuid.UUID `gorm:"type:uuid;not null;index:idx_care_relationship_scope" json:"organization_id"`
	Role            string    `gorm:"size:30;not null" json:"role"`
	Is24x7Caregiver bool      `gorm:"not null;default:false" json:"is_24x7_caregiver"`
	StartDate       *Date     `json:"start_date,omitempty"`
	EndDate         *Date     `json:"end_date,omitempty"`
	Notes           *string   `gorm:"size:500" json:"notes,omitempty"`
	Status          string    `gorm:"size:20;not null;default:active" json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (r *CareRelationship) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
