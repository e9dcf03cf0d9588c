package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Location is an office or branch belonging to an organization (typically an
// agency).
type Location struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID    uuid.UUID `gorm:"type:uuid;not null;index" json:"organization_id"`
	Name              string    `gorm:"size:200;not null" json:"name"`
	AddressStreet     *string   `gorm:"size:200" json:"address_street,omitempty"`
	AddressCity       *string   `gorm:"size:100" json:"address_city,omitempty"`
	AddressRegion     *string   `gorm:"size:100" json:"address_region,omitempty"`
	AddressPostalCode *string   `gorm:"size:20" json:"address_postal_code,omitempty"`
	AddressCountry    *string   `gorm:"size:2" json:"address_country,omitempty"`
	Timezone          *string   `gorm:"size:50" json:"timezone,omitempty"`
	IsDefault         bool      `gorm:"not null;default:false" json:"is_default"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (l *Location) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
