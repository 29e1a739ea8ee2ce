package models

import (
	"time"

	"github.com/freshstarthq/freshstart-backend/pkg/enums"
	"github.com/google/uuid"
)

// ClickEvent records an outbound click on a product link. The visitor IP is
// stored only as a SHA-256 hash for coarse dedup.
type ClickEvent struct {
	ID         uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ItemID     *uuid.UUID        `gorm:"type:uuid;index" json:"item_id,omitempty"`
	ProfileID  *uuid.UUID        `gorm:"type:uuid;index" json:"profile_id,omitempty"`
	TargetURL  string            `gorm:"size:2048;not null" json:"target_url"`
	Source     enums.ClickSource `gorm:"size:32;not null" json:"source"`
	IPHash     string            `gorm:"size:64" json:"-"`
	UserAgent  string            `gorm:"size:512" json:"-"`
	OccurredAt time.Time         `gorm:"not null" json:"occurred_at"`

	CreatedAt time.Time `json:"created_at"`
}

func (ClickEvent) TableName() string { return "click_events" }
