package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/freshstarthq/freshstart-backend/pkg/config"
	"github.com/google/uuid"
)

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "freshstart",
		ExpirationMinutes: 30,
	}
	now := time.Now().UTC()
	userID := uuid.New()
	profileID := uuid.New()

	payload := AccessTokenPayload{
		UserID:    userID,
		ProfileID: &profileID,
	}

	token, err := MintAccessToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.UserID != userID {
		t.Fatalf("expected user_id %s, got %s", userID, claims.UserID)
	}
	if claims.ProfileID == nil || *claims.ProfileID != profileID {
		t.Fatalf("profile id not preserved")
	}
	if claims.ID == "" {
		t.Fatalf("expected a generated jti")
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("unexpected issuer %s", claims.Issuer)
	}
}

func TestMintAccessTokenValidation(t *testing.T) {
	now := time.Now().UTC()
	payload := AccessTokenPayload{UserID: uuid.New()}

	cases := []struct {
		name string
		cfg  config.JWTConfig
		want string
	}{
		{
			name: "missing secret",
			cfg:  config.JWTConfig{Issuer: "freshstart", ExpirationMinutes: 30},
			want: "secret",
		},
		{
			name: "missing issuer",
			cfg:  config.JWTConfig{Secret: "secret", ExpirationMinutes: 30},
			want: "issuer",
		},
		{
			name: "non-positive expiry",
			cfg:  config.JWTConfig{Secret: "secret", Issuer: "freshstart"},
			want: "expiration",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := MintAccessToken(tc.cfg, now, payload); err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "freshstart", ExpirationMinutes: 30}
	token, err := MintAccessToken(cfg, time.Now().UTC(), AccessTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	badCfg := cfg
	badCfg.Secret = "other-secret"
	if _, err := ParseAccessToken(badCfg, token); err == nil {
		t.Fatalf("expected signature failure")
	}
}

func TestParseAccessTokenAllowExpired(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "freshstart", ExpirationMinutes: 1}
	past := time.Now().UTC().Add(-2 * time.Hour)
	token, err := MintAccessToken(cfg, past, AccessTokenPayload{UserID: uuid.New(), JTI: "jti-1"})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatalf("expected expired token rejection")
	}

	claims, err := ParseAccessTokenAllowExpired(cfg, token)
	if err != nil {
		t.Fatalf("parse expired token: %v", err)
	}
	if claims.ID != "jti-1" {
		t.Fatalf("expected jti preserved, got %q", claims.ID)
	}
}
