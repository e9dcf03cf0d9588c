package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VisitNote is the caregiver's write-up for a single visit. At most one note
// exists per visit; the create path rejects duplicates and the unique index
// backs that up at the storage layer.
type VisitNote struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	VisitID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"visit_id"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null" json:"author_id"`
	Summary   *string   `gorm:"size:2000" json:"summary,omitempty"`
	Mood      *string   `gorm:"size:100" json:"mood,omitempty"`
	Incidents *string   `gorm:"size:1000" json:"incidents,omitempty"`
	NextSteps *string   `gorm:"size:500" json:"next_steps,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (n *VisitNote) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
