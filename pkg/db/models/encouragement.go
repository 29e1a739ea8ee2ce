package models

import (
	"time"

	"github.com/google/uuid"
)

// Encouragement is a short supportive note left on a profile page.
type Encouragement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProfileID   uuid.UUID `gorm:"type:uuid;not null;index" json:"profile_id"`
	AuthorName  string    `gorm:"size:100" json:"author_name"`
	Message     string    `gorm:"size:2000;not null" json:"message"`
	IsAnonymous bool      `gorm:"not null;default:false" json:"is_anonymous"`
	Hidden      bool      `gorm:"not null;default:false" json:"hidden"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Encouragement) TableName() string { return "encouragements" }
