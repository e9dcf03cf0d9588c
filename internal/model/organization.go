package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Organization statuses
const (
	OrganizationStatusActive   = "active"
	OrganizationStatusInactive = "inactive"
)

// Organization types
const (
	OrganizationTypeHousehold = "household"
	OrganizationTypeAgency    = "agency"
)

// Organization represents a household or care agency. Every other record in
// the system is scoped to exactly one organization.
type Organization struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name              string    `gorm:"size:200;not null" json:"name"`
	Type              string    `gorm:"size:20;not null;index" json:"type"`
	Slug              *string   `gorm:"size:100;uniqueIndex" json:"slug,omitempty"`
	LogoURL           *string   `gorm:"size:500" json:"logo_url,omitempty"`
	PrimaryPhone      *string   `gorm:"size:50" json:"primary_phone,omitempty"`
	PrimaryEmail      *string   `gorm:"size:255" json:"primary_email,omitempty"`
	AddressStreet     *string   `gorm:"size:200" json:"address_street,omitempty"`
	AddressCity       *string   `gorm:"size:100" json:"address_city,omitempty"`
	AddressRegion     *string   `gorm:"size:100" json:"address_region,omitempty"`
	AddressPostalCode *string   `gorm:"size:20" json:"address_postal_code,omitempty"`
	AddressCountry    *string   `gorm:"size:2" json:"address_country,omitempty"`
	Timezone          string    `gorm:"size:50;not null;default:UTC" json:"timezone"`
	Status            string    `gorm:"size:20;not null;default:active;index" json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
