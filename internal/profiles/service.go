package profiles

import (
	"context"
	"time"

	"github.com/freshstarthq/freshstart-backend/pkg/db"
	"github.com/freshstarthq/freshstart-backend/pkg/db/models"
	"github.com/freshstarthq/freshstart-backend/pkg/enums"
	pkgerrors "github.com/freshstarthq/freshstart-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"
)

// profileStore is the persistence surface the service needs. Satisfied by
// *Repository in production and by stubs in tests.
type profileStore interface {
	Create(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	GetBySlug(ctx context.Context, slug string) (*models.Profile, error)
	GetByAccountID(ctx context.Context, accountID uuid.UUID) (*models.Profile, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Profile, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListProxiesByCreator(ctx context.Context, advocateID uuid.UUID) ([]models.Profile, error)
	ClaimProxy(ctx context.Context, proxyID, claimantID uuid.UUID, now time.Time) (bool, error)
	CountItems(ctx context.Context, profileID uuid.UUID) (int64, error)
	CountFunds(ctx context.Context, profileID uuid.UUID) (int64, error)
}

// Service exposes profile ownership, privacy, and proxy-transfer rules.
type Service interface {
	CreateOwnProfile(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.Profile, error)
	GetOwnProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, profileID *uuid.UUID, input UpdateInput) (*models.Profile, error)
	GetPublicProfile(ctx context.Context, viewerID *uuid.UUID, slug string) (*models.Profile, error)
	CreateProxyProfile(ctx context.Context, advocateID uuid.UUID, input CreateProxyInput) (*models.Profile, error)
	ListProxyRegistries(ctx context.Context, advocateID uuid.UUID) ([]ProxySummary, error)
	ClaimProxyProfile(ctx context.Context, proxyID, claimantID uuid.UUID) (ClaimResult, error)
	ResolveWriteTarget(ctx context.Context, callerID uuid.UUID, profileID *uuid.UUID) (*models.Profile, error)
	AssertProfileControl(ctx context.Context, callerID, profileID uuid.UUID) (*models.Profile, error)
	DeleteProfile(ctx context.Context, id uuid.UUID) error
}

type service struct {
	store profileStore
	now   func() time.Time
}

// NewService builds a profile service over the given store.
func NewService(store profileStore) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile store is required")
	}
	return &service{store: store, now: time.Now}, nil
}

// CreateOwnProfile creates the single non-proxy profile linked to a user
// account. The unique index on account_id enforces one profile per account.
func (s *service) CreateOwnProfile(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.Profile, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if !input.EventType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown event type")
	}
	privacy := input.Privacy
	if privacy == "" {
		privacy = enums.PrivacyLinkOnly
	}
	if !privacy.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown privacy level")
	}

	id := uuid.New()
	profile := &models.Profile{
		ID:              id,
		AccountID:       &userID,
		Slug:            BuildSlug(input.DisplayName, id),
		DisplayName:     input.DisplayName,
		EventType:       input.EventType,
		EventDate:       input.EventDate,
		Story:           input.Story,
		PhotoURLs:       input.PhotoURLs,
		Privacy:         privacy,
		ShowDaysCounter: input.ShowDaysCounter == nil || *input.ShowDaysCounter,
	}
	created, err := s.store.Create(ctx, profile)
	if err != nil {
		if db.IsUniqueViolation(err, "account_id") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "profile already exists for this account")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create profile")
	}
	return created, nil
}

// GetOwnProfile loads the profile linked to the caller's account.
func (s *service) GetOwnProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	profile, err := s.store.GetByAccountID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return profile, nil
}

// UpdateProfile applies whitelisted field updates to the caller's own
// profile, or to an unclaimed proxy the caller created when profileID is set.
func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, profileID *uuid.UUID, input UpdateInput) (*models.Profile, error) {
	target, err := s.ResolveWriteTarget(ctx, userID, profileID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.DisplayName != nil {
		updates["display_name"] = *input.DisplayName
	}
	if input.EventType != nil {
		if !input.EventType.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown event type")
		}
		updates["event_type"] = *input.EventType
	}
	if input.EventDate != nil {
		updates["event_date"] = *input.EventDate
	}
	if input.Story != nil {
		updates["story"] = *input.Story
	}
	if input.PhotoURLs != nil {
		updates["photo_urls"] = pq.StringArray(input.PhotoURLs)
	}
	if input.Privacy != nil {
		if !input.Privacy.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown privacy level")
		}
		updates["privacy"] = *input.Privacy
	}
	if input.RecipientNote != nil {
		if !target.IsProxy {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipient note only applies to proxy registries")
		}
		updates["recipient_note"] = *input.RecipientNote
	}
	if input.ShowDaysCounter != nil {
		updates["show_days_counter"] = *input.ShowDaysCounter
	}

	updated, err := s.store.Update(ctx, target.ID, updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}
	return updated, nil
}

// GetPublicProfile resolves a slug for an arbitrary viewer. Private profiles
// are indistinguishable from missing ones unless the viewer controls them.
func (s *service) GetPublicProfile(ctx context.Context, viewerID *uuid.UUID, slug string) (*models.Profile, error) {
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	profile, err := s.store.GetBySlug(ctx, slug)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	if profile.Privacy == enums.PrivacyPrivate {
		if viewerID == nil || !profile.ControlledBy(*viewerID) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
	}
	return profile, nil
}

// CreateProxyProfile creates an unclaimed registry on a recipient's behalf.
func (s *service) CreateProxyProfile(ctx context.Context, advocateID uuid.UUID, input CreateProxyInput) (*models.Profile, error) {
	if advocateID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if !input.EventType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown event type")
	}
	privacy := input.Privacy
	if privacy == "" {
		privacy = enums.PrivacyLinkOnly
	}
	if !privacy.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown privacy level")
	}

	id := uuid.New()
	profile := &models.Profile{
		ID:              id,
		Slug:            BuildSlug(input.RecipientName, id),
		DisplayName:     input.RecipientName,
		EventType:       input.EventType,
		EventDate:       input.EventDate,
		Story:           input.Story,
		PhotoURLs:       input.PhotoURLs,
		Privacy:         privacy,
		ShowDaysCounter: input.ShowDaysCounter == nil || *input.ShowDaysCounter,
		IsProxy:         true,
		CreatedByUserID: &advocateID,
		RecipientNote:   input.RecipientNote,
	}
	created, err := s.store.Create(ctx, profile)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create proxy profile")
	}
	return created, nil
}

// ListProxyRegistries returns every proxy profile the advocate created,
// annotated with item and fund counts.
func (s *service) ListProxyRegistries(ctx context.Context, advocateID uuid.UUID) ([]ProxySummary, error) {
	rows, err := s.store.ListProxiesByCreator(ctx, advocateID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list proxy registries")
	}

	summaries := make([]ProxySummary, len(rows))
	g, gctx := errgroup.WithContext(ctx)
	for i := range rows {
		summaries[i].Profile = rows[i]
		g.Go(func() error {
			items, err := s.store.CountItems(gctx, summaries[i].Profile.ID)
			if err != nil {
				return err
			}
			funds, err := s.store.CountFunds(gctx, summaries[i].Profile.ID)
			if err != nil {
				return err
			}
			summaries[i].ItemCount = items
			summaries[i].FundCount = funds
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count registry contents")
	}
	return summaries, nil
}

// ClaimProxyProfile transfers an unclaimed proxy registry to the claimant.
// On success the claimant's account becomes the profile's linked account and
// the advocate loses write access.
func (s *service) ClaimProxyProfile(ctx context.Context, proxyID, claimantID uuid.UUID) (ClaimResult, error) {
	if claimantID == uuid.Nil {
		return ClaimResult{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	profile, err := s.store.GetByID(ctx, proxyID)
	if err != nil {
		if db.IsNotFound(err) {
			return ClaimResult{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "registry not found")
		}
		return ClaimResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load registry")
	}
	if !profile.IsProxy {
		return ClaimResult{}, pkgerrors.New(pkgerrors.CodeNotFound, "registry not found")
	}
	if profile.Claimed() {
		return ClaimResult{}, pkgerrors.New(pkgerrors.CodeConflict, "registry has already been claimed")
	}
	if profile.CreatedByUserID != nil && *profile.CreatedByUserID == claimantID {
		return ClaimResult{}, pkgerrors.New(pkgerrors.CodeStateConflict, "cannot claim your own registry")
	}

	claimed, err := s.store.ClaimProxy(ctx, proxyID, claimantID, s.now().UTC())
	if err != nil {
		if db.IsUniqueViolation(err, "account_id") {
			return ClaimResult{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "claimant already controls a profile")
		}
		return ClaimResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim registry")
	}
	if !claimed {
		// Lost the race against a concurrent claimant.
		return ClaimResult{}, pkgerrors.New(pkgerrors.CodeConflict, "registry has already been claimed")
	}
	return ClaimResult{ProfileID: profile.ID, Slug: profile.Slug}, nil
}

// ResolveWriteTarget maps an optional explicit profile id to the profile the
// caller may write to. Absent, the caller's own profile; present, an
// unclaimed proxy the caller created.
func (s *service) ResolveWriteTarget(ctx context.Context, callerID uuid.UUID, profileID *uuid.UUID) (*models.Profile, error) {
	if callerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if profileID == nil {
		return s.GetOwnProfile(ctx, callerID)
	}
	profile, err := s.store.GetByID(ctx, *profileID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	if !profile.ControlledBy(callerID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not allowed to manage this registry")
	}
	return profile, nil
}

// AssertProfileControl loads a profile and verifies the caller controls it.
func (s *service) AssertProfileControl(ctx context.Context, callerID, profileID uuid.UUID) (*models.Profile, error) {
	profile, err := s.store.GetByID(ctx, profileID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	if !profile.ControlledBy(callerID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not allowed to manage this registry")
	}
	return profile, nil
}

// DeleteProfile removes a profile row. Callers are expected to have already
// verified control; the account erasure flow uses this directly.
func (s *service) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete profile")
	}
	return nil
}
