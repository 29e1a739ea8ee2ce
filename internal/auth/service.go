package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/freshstarthq/freshstart-backend/internal/profiles"
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

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error)
	Logout(ctx context.Context, accessID string) error
}

// TxRunner abstracts the transactional boundary around registration.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type profileRepository interface {
	GetByAccountID(ctx context.Context, accountID uuid.UUID) (*models.Profile, error)
}

type registerUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
}

type registerProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) (*models.Profile, error)
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// ServiceParams bundles the dependencies required to build an auth service.
// The repo factories default to the production repositories and exist so
// tests can substitute stubs inside the registration transaction.
type ServiceParams struct {
	TxRunner           TxRunner
	UserRepo           userRepository
	ProfileRepo        profileRepository
	SessionManager     sessionManager
	JWTConfig          config.JWTConfig
	PasswordConfig     config.PasswordConfig
	UserRepoFactory    func(tx *gorm.DB) registerUserRepository
	ProfileRepoFactory func(tx *gorm.DB) registerProfileRepository
}

type service struct {
	tx             TxRunner
	users          userRepository
	profiles       profileRepository
	session        sessionManager
	jwtCfg         config.JWTConfig
	passwordCfg    config.PasswordConfig
	userFactory    func(tx *gorm.DB) registerUserRepository
	profileFactory func(tx *gorm.DB) registerProfileRepository
	now            func() time.Time
}

// NewService constructs the auth service.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, errors.New("tx runner is required")
	}
	if params.UserRepo == nil {
		return nil, errors.New("user repository is required")
	}
	if params.ProfileRepo == nil {
		return nil, errors.New("profile repository is required")
	}
	if params.SessionManager == nil {
		return nil, errors.New("session manager is required")
	}

	userFactory := params.UserRepoFactory
	if userFactory == nil {
		userFactory = func(tx *gorm.DB) registerUserRepository { return users.NewRepository(tx) }
	}
	profileFactory := params.ProfileRepoFactory
	if profileFactory == nil {
		profileFactory = func(tx *gorm.DB) registerProfileRepository { return profiles.NewRepository(tx) }
	}

	return &service{
		tx:             params.TxRunner,
		users:          params.UserRepo,
		profiles:       params.ProfileRepo,
		session:        params.SessionManager,
		jwtCfg:         params.JWTConfig,
		passwordCfg:    params.PasswordConfig,
		userFactory:    userFactory,
		profileFactory: profileFactory,
		now:            time.Now,
	}, nil
}

// Register creates a user and, when an event type is provided, their profile
// in one transaction, then opens a session.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if req.EventType != nil && !req.EventType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown event type")
	}
	privacy := enums.PrivacyLinkOnly
	if req.Privacy != nil {
		if !req.Privacy.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown privacy level")
		}
		privacy = *req.Privacy
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var user *models.User
	var profile *models.Profile
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.userFactory(tx)
		profileRepo := s.profileFactory(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		user, err = userRepo.Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: passwordHash,
			DisplayName:  req.DisplayName,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		if req.EventType == nil {
			return nil
		}

		profileID := uuid.New()
		profile, err = profileRepo.Create(ctx, &models.Profile{
			ID:              profileID,
			AccountID:       &user.ID,
			Slug:            profiles.BuildSlug(req.DisplayName, profileID),
			DisplayName:     req.DisplayName,
			EventType:       *req.EventType,
			Privacy:         privacy,
			ShowDaysCounter: true,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create profile")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.openSession(ctx, user, profile)
}

// Login verifies credentials and opens a session.
func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	now := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record login")
	}
	user.LastLoginAt = &now

	profile, err := s.profiles.GetByAccountID(ctx, user.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
	}

	return s.openSession(ctx, user, profile)
}

// Refresh rotates the refresh token and mints a fresh access token. The
// presented access token may be expired but must verify and still map to a
// live session.
func (s *service) Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error) {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, req.AccessToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid access token")
	}

	newAccessID, newRefreshToken, err := s.session.Rotate(ctx, claims.ID, req.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rotate session")
	}

	accessToken, err := pkgauth.MintAccessToken(s.jwtCfg, s.now().UTC(), pkgauth.AccessTokenPayload{
		UserID:    claims.UserID,
		ProfileID: claims.ProfileID,
		JTI:       newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &RefreshResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// Logout revokes the session bound to the caller's access identifier.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if err := s.session.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke session")
	}
	return nil
}

func (s *service) openSession(ctx context.Context, user *models.User, profile *models.Profile) (*AuthResponse, error) {
	accessID := session.NewAccessID()
	payload := pkgauth.AccessTokenPayload{
		UserID: user.ID,
		JTI:    accessID,
	}
	if profile != nil {
		payload.ProfileID = &profile.ID
	}

	accessToken, err := pkgauth.MintAccessToken(s.jwtCfg, s.now().UTC(), payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refreshToken, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store refresh token")
	}

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         users.FromModel(user),
		Profile:      profile,
	}, nil
}
