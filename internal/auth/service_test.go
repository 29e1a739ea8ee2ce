package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/freshstarthq/freshstart-backend/internal/users"
	pkgauth "github.com/freshstarthq/freshstart-backend/pkg/auth"
	"github.com/freshstarthq/freshstart-backend/pkg/auth/session"
	"github.com/freshstarthq/freshstart-backend/pkg/config"
	"github.com/freshstarthq/freshstart-backend/pkg/db/models"
	"github.com/freshstarthq/freshstart-backend/pkg/enums"
	pkgerrors "github.com/freshstarthq/freshstart-backend/pkg/errors"
	"github.com/freshstarthq/freshstart-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var testJWTConfig = config.JWTConfig{
	Secret:                 "test-secret-test-secret-test-secret!",
	Issuer:                 "freshstart-test",
	ExpirationMinutes:      15,
	RefreshTokenTTLMinutes: 60,
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubUserRepo struct {
	byEmail   map[string]*models.User
	lastLogin map[uuid.UUID]time.Time
	created   *models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byEmail:   map[string]*models.User{},
		lastLogin: map[uuid.UUID]time.Time{},
	}
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) Create(_ context.Context, dto users.CreateUserDTO) (*models.User, error) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        dto.Email,
		PasswordHash: dto.PasswordHash,
		DisplayName:  dto.DisplayName,
	}
	s.byEmail[dto.Email] = user
	s.created = user
	return user, nil
}

func (s *stubUserRepo) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	s.lastLogin[id] = at
	return nil
}

type stubProfileRepo struct {
	byAccount map[uuid.UUID]*models.Profile
	created   *models.Profile
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{byAccount: map[uuid.UUID]*models.Profile{}}
}

func (s *stubProfileRepo) GetByAccountID(_ context.Context, accountID uuid.UUID) (*models.Profile, error) {
	if profile, ok := s.byAccount[accountID]; ok {
		return profile, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProfileRepo) Create(_ context.Context, profile *models.Profile) (*models.Profile, error) {
	if profile.AccountID != nil {
		s.byAccount[*profile.AccountID] = profile
	}
	s.created = profile
	return profile, nil
}

type stubSessions struct {
	generated map[string]string
}

func newStubSessions() *stubSessions {
	return &stubSessions{generated: map[string]string{}}
}

func (s *stubSessions) Generate(_ context.Context, accessID string) (string, error) {
	token := "refresh-" + accessID
	s.generated[accessID] = token
	return token, nil
}

func (s *stubSessions) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := s.generated[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(s.generated, oldAccessID)
	newID := session.NewAccessID()
	token := "refresh-" + newID
	s.generated[newID] = token
	return newID, token, nil
}

func (s *stubSessions) Revoke(_ context.Context, accessID string) error {
	delete(s.generated, accessID)
	return nil
}

func buildService(t *testing.T, userRepo *stubUserRepo, profileRepo *stubProfileRepo, sessions *stubSessions) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		TxRunner:       stubTxRunner{},
		UserRepo:       userRepo,
		ProfileRepo:    profileRepo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig,
		PasswordConfig: config.PasswordConfig{},
		UserRepoFactory: func(*gorm.DB) registerUserRepository {
			return userRepo
		},
		ProfileRepoFactory: func(*gorm.DB) registerProfileRepository {
			return profileRepo
		},
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestRegisterCreatesUserAndProfile(t *testing.T) {
	userRepo := newStubUserRepo()
	profileRepo := newStubProfileRepo()
	svc := buildService(t, userRepo, profileRepo, newStubSessions())

	eventType := enums.EventDivorce
	resp, err := svc.Register(context.Background(), RegisterRequest{
		DisplayName: "Jane Doe",
		Email:       "Jane@Example.com",
		Password:    "correct horse battery",
		EventType:   &eventType,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if userRepo.created == nil || userRepo.created.Email != "jane@example.com" {
		t.Fatalf("expected lowercased email, got %+v", userRepo.created)
	}
	if resp.Profile == nil || resp.Profile.EventType != enums.EventDivorce {
		t.Fatalf("expected profile created, got %+v", resp.Profile)
	}
	if resp.Profile.AccountID == nil || *resp.Profile.AccountID != userRepo.created.ID {
		t.Fatal("expected profile linked to new account")
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected session tokens")
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.ProfileID == nil || *claims.ProfileID != resp.Profile.ID {
		t.Fatal("expected profile id embedded in claims")
	}
}

func TestRegisterWithoutEventTypeSkipsProfile(t *testing.T) {
	userRepo := newStubUserRepo()
	profileRepo := newStubProfileRepo()
	svc := buildService(t, userRepo, profileRepo, newStubSessions())

	resp, err := svc.Register(context.Background(), RegisterRequest{
		DisplayName: "Claiming Recipient",
		Email:       "recipient@example.com",
		Password:    "a long enough password",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.Profile != nil {
		t.Fatalf("expected no profile for claim-path signup, got %+v", resp.Profile)
	}
	if profileRepo.created != nil {
		t.Fatal("expected profile repo untouched")
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.ProfileID != nil {
		t.Fatal("expected nil profile id in claims")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	userRepo := newStubUserRepo()
	svc := buildService(t, userRepo, newStubProfileRepo(), newStubSessions())

	req := RegisterRequest{
		DisplayName: "Jane Doe",
		Email:       "jane@example.com",
		Password:    "correct horse battery",
	}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(context.Background(), req)
	var coded *pkgerrors.Error
	if !errors.As(err, &coded) || coded.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestLoginVerifiesPassword(t *testing.T) {
	userRepo := newStubUserRepo()
	profileRepo := newStubProfileRepo()
	sessions := newStubSessions()
	svc := buildService(t, userRepo, profileRepo, sessions)

	hash, err := security.HashPassword("the right password", config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := &models.User{ID: uuid.New(), Email: "sam@example.com", PasswordHash: hash}
	userRepo.byEmail[user.Email] = user

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "sam@example.com",
		Password: "the wrong password",
	})
	var coded *pkgerrors.Error
	if !errors.As(err, &coded) || coded.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Sam@Example.com",
		Password: "the right password",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("expected access token")
	}
	if _, ok := userRepo.lastLogin[user.ID]; !ok {
		t.Fatal("expected last login recorded")
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	userRepo := newStubUserRepo()
	profileRepo := newStubProfileRepo()
	sessions := newStubSessions()
	svc := buildService(t, userRepo, profileRepo, sessions)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		DisplayName: "Jane Doe",
		Email:       "jane@example.com",
		Password:    "correct horse battery",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	rotated, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if rotated.AccessToken == resp.AccessToken {
		t.Fatal("expected a fresh access token")
	}

	// The old pair is dead after rotation.
	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	})
	var coded *pkgerrors.Error
	if !errors.As(err, &coded) || coded.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected UNAUTHORIZED after rotation, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	userRepo := newStubUserRepo()
	sessions := newStubSessions()
	svc := buildService(t, userRepo, newStubProfileRepo(), sessions)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		DisplayName: "Jane Doe",
		Email:       "jane@example.com",
		Password:    "correct horse battery",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := svc.Logout(context.Background(), claims.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.generated) != 0 {
		t.Fatalf("expected all sessions revoked, %d remain", len(sessions.generated))
	}
}
