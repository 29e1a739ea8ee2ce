package models

import (
	"time"

	"github.com/freshstarthq/freshstart-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Profile is a registry page for one person's life disruption. Identity is
// independent of accounts: AccountID links a profile to the user who controls
// it, and is null for proxy profiles that have not been claimed yet.
type Profile struct {
	ID              uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AccountID       *uuid.UUID         `gorm:"type:uuid;uniqueIndex" json:"account_id,omitempty"`
	Slug            string             `gorm:"uniqueIndex;not null" json:"slug"`
	DisplayName     string             `gorm:"size:100;not null" json:"display_name"`
	EventType       enums.EventType    `gorm:"size:32;not null" json:"event_type"`
	EventDate       *time.Time         `json:"event_date,omitempty"`
	Story           string             `gorm:"size:5000" json:"story"`
	PhotoURLs       pq.StringArray     `gorm:"type:text[]" json:"photo_urls"`
	Privacy         enums.PrivacyLevel `gorm:"size:16;not null;default:'link_only'" json:"privacy"`
	ShowDaysCounter bool               `gorm:"not null;default:true" json:"show_days_counter"`

	// Proxy registry fields.
	IsProxy         bool       `gorm:"not null;default:false" json:"is_proxy"`
	CreatedByUserID *uuid.UUID `gorm:"type:uuid;index" json:"created_by_user_id,omitempty"`
	ClaimedByUserID *uuid.UUID `gorm:"type:uuid" json:"claimed_by_user_id,omitempty"`
	ClaimedAt       *time.Time `json:"claimed_at,omitempty"`
	RecipientNote   string     `gorm:"size:2000" json:"recipient_note"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }

// Claimed reports whether a proxy profile has been transferred to its recipient.
func (p *Profile) Claimed() bool {
	return p.ClaimedByUserID != nil
}

// ControlledBy reports whether the given user currently controls this profile.
// Owned and claimed profiles are controlled through the account link;
// unclaimed proxy profiles are controlled by the advocate who created them.
// A successful claim moves the account link to the claimant, so advocate
// control ends the moment the claim lands.
func (p *Profile) ControlledBy(userID uuid.UUID) bool {
	if p.AccountID != nil && *p.AccountID == userID {
		return true
	}
	if p.IsProxy && !p.Claimed() && p.CreatedByUserID != nil && *p.CreatedByUserID == userID {
		return true
	}
	return false
}
