package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Person statuses
const (
	PersonStatusActive   = "active"
	PersonStatusInvited  = "invited"
	PersonStatusInactive = "inactive"
)

// Person is anyone known to the system: care recipients, caregivers, family
// members and agency staff alike. Whether someone receives or gives care is
// expressed through relationships and memberships, not on the person itself.
type Person struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email       string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	FirstName   string     `gorm:"size:100;not null" json:"first_name"`
	LastName    string     `gorm:"size:100;not null" json:"last_name"`
	DisplayName *string    `gorm:"size:150" json:"display_name,omitempty"`
	Phone       *string    `gorm:"size:50" json:"phone,omitempty"`
	AvatarURL   *string    `gorm:"size:500" json:"avatar_url,omitempty"`
	Timezone    string     `gorm:"size:50;not null;default:UTC" json:"timezone"`
	Locale      string     `gorm:"size:10;not null;default:en-US" json:"locale"`
	Status      string     `gorm:"size:20;not null;default:active;index" json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (p *Person) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
