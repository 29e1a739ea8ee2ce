package profiles

import (
	"time"

	"github.com/freshstarthq/freshstart-backend/pkg/db/models"
	"github.com/freshstarthq/freshstart-backend/pkg/enums"
	"github.com/google/uuid"
)

// CreateInput is the payload for creating an owned profile.
type CreateInput struct {
	DisplayName     string             `json:"display_name" validate:"required,max=100"`
	EventType       enums.EventType    `json:"event_type" validate:"required"`
	EventDate       *time.Time         `json:"event_date"`
	Story           string             `json:"story" validate:"max=5000"`
	PhotoURLs       []string           `json:"photo_urls" validate:"max=10,dive,url,max=2048"`
	Privacy         enums.PrivacyLevel `json:"privacy"`
	ShowDaysCounter *bool              `json:"show_days_counter"`
}

// CreateProxyInput is the payload an advocate submits when building a
// registry on someone else's behalf.
type CreateProxyInput struct {
	RecipientName   string             `json:"recipient_name" validate:"required,max=100"`
	EventType       enums.EventType    `json:"event_type" validate:"required"`
	EventDate       *time.Time         `json:"event_date"`
	Story           string             `json:"story" validate:"max=5000"`
	PhotoURLs       []string           `json:"photo_urls" validate:"max=10,dive,url,max=2048"`
	Privacy         enums.PrivacyLevel `json:"privacy"`
	RecipientNote   string             `json:"recipient_note" validate:"max=2000"`
	ShowDaysCounter *bool              `json:"show_days_counter"`
}

// UpdateInput carries whitelisted profile updates; nil means "leave as is".
type UpdateInput struct {
	DisplayName     *string             `json:"display_name" validate:"omitempty,max=100"`
	EventType       *enums.EventType    `json:"event_type"`
	EventDate       *time.Time          `json:"event_date"`
	Story           *string             `json:"story" validate:"omitempty,max=5000"`
	PhotoURLs       []string            `json:"photo_urls" validate:"omitempty,max=10,dive,url,max=2048"`
	Privacy         *enums.PrivacyLevel `json:"privacy"`
	RecipientNote   *string             `json:"recipient_note" validate:"omitempty,max=2000"`
	ShowDaysCounter *bool               `json:"show_days_counter"`
}

// ProxySummary is one row in an advocate's proxy-registry list.
type ProxySummary struct {
	Profile   models.Profile `json:"profile"`
	ItemCount int64          `json:"item_count"`
	FundCount int64          `json:"fund_count"`
}

// ClaimResult is returned after a successful ownership transfer.
type ClaimResult struct {
	ProfileID uuid.UUID `json:"profile_id"`
	Slug      string    `json:"slug"`
}
