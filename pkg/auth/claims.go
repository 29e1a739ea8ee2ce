package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID    uuid.UUID
	ProfileID *uuid.UUID
	JTI       string
}

// AccessTokenClaims represents the typed JWT issued to clients. ProfileID is
// the profile linked to the user's account, when one exists.
type AccessTokenClaims struct {
	UserID    uuid.UUID  `json:"user_id"`
	ProfileID *uuid.UUID `json:"profile_id,omitempty"`
	jwt.RegisteredClaims
}
