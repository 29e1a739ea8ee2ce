package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an authenticated account. Profiles hang off users through the
// nullable profiles.account_id link, so a user may exist with no profile
// and a proxy profile may exist with no user.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	DisplayName  string    `gorm:"size:100;not null" json:"display_name"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
