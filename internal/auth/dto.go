package auth

import (
	"github.com/freshstarthq/freshstart-backend/internal/users"
	"github.com/freshstarthq/freshstart-backend/pkg/db/models"
	"github.com/freshstarthq/freshstart-backend/pkg/enums"
)

// RegisterRequest onboards a new account. EventType is optional: someone
// claiming a proxy registry signs up without a profile of their own, since
// the claim transfers the proxy onto their account.
type RegisterRequest struct {
	DisplayName string              `json:"display_name" validate:"required,max=100"`
	Email       string              `json:"email" validate:"required,email,max=255"`
	Password    string              `json:"password" validate:"required,min=8,max=128"`
	EventType   *enums.EventType    `json:"event_type"`
	Privacy     *enums.PrivacyLevel `json:"privacy"`
}

// LoginRequest authenticates an existing account.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest rotates a refresh token. The access token may be expired;
// only its signature and session binding are checked.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	User         users.UserDTO   `json:"user"`
	Profile      *models.Profile `json:"profile,omitempty"`
}

// RefreshResponse carries the rotated token pair.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
