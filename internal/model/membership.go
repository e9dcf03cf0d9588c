package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Membership statuses
const (
	MembershipStatusActive   = "active"
	MembershipStatusInvited  = "invited"
	MembershipStatusInactive = "inactive"
)

// Membership links a person to an organization with a role. Uniqueness of
// (user_id, organization_id) is enforced by the database constraint rather
// than application-side read-then-write, so it holds under concurrent
// writers at any isolation level.
type Membership struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_membership_user_org" json:"user_id"`
	OrganizationID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_membership_user_org" json:"organization_id"`
	Role           string     `gorm:"size:30;not null" json:"role"`
	Title          *string    `gorm:"size:100" json:"title,omitempty"`
	LocationID     *uuid.UUID `gorm:"type:uuid" json:"location_id,omitempty"`
	Status         string     `gorm:"size:20;not null;default:active" json:"status"`
	JoinedAt       time.Time  `gorm:"not null;autoCreateTime" json:"joined_at"`
	InvitedAt      *time.Time `json:"invited_at,omitempty"`
	InvitedByID    *uuid.UUID `gorm:"type:uuid" json:"invited_by_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (m *Membership) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
