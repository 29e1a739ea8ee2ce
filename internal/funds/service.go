package funds

import (
	"context"

	"github.com/freshstarthq/freshstart-backend/pkg/db"
	"github.com/freshstarthq/freshstart-backend/pkg/db/models"
	pkgerrors "github.com/freshstarthq/freshstart-backend/pkg/errors"
	"github.com/google/uuid"
)

type fundStore interface {
	Create(ctx context.Context, fund *models.CashFund) (*models.CashFund, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.CashFund, error)
	ListByProfile(ctx context.Context, profileID uuid.UUID, activeOnly bool) ([]models.CashFund, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.CashFund, error)
}

type profileAuthorizer interface {
	ResolveWriteTarget(ctx context.Context, callerID uuid.UUID, profileID *uuid.UUID) (*models.Profile, error)
	AssertProfileControl(ctx context.Context, callerID, profileID uuid.UUID) (*models.Profile, error)
}

// Service exposes cash fund management. Raised amounts are read-only here;
// they move only when contribution bookkeeping lands out of band.
type Service interface {
	ListFunds(ctx context.Context, callerID uuid.UUID, profileID *uuid.UUID) ([]models.CashFund, error)
	ListPublic(ctx context.Context, profileID uuid.UUID) ([]models.CashFund, error)
	CreateFund(ctx context.Context, callerID uuid.UUID, input CreateFundInput) (*models.CashFund, error)
	UpdateFund(ctx context.Context, callerID uuid.UUID, fundID uuid.UUID, input UpdateFundInput) (*models.CashFund, error)
}

type service struct {
	store    fundStore
	profiles profileAuthorizer
}

// NewService builds a cash fund service.
func NewService(store fundStore, profiles profileAuthorizer) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fund store is required")
	}
	if profiles == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile authorizer is required")
	}
	return &service{store: store, profiles: profiles}, nil
}

// ListFunds returns all funds, active or not, on a registry the caller controls.
func (s *service) ListFunds(ctx context.Context, callerID uuid.UUID, profileID *uuid.UUID) ([]models.CashFund, error) {
	target, err := s.profiles.ResolveWriteTarget(ctx, callerID, profileID)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ListByProfile(ctx, target.ID, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cash funds")
	}
	return rows, nil
}

// ListPublic returns a profile's active funds for visitor-facing pages.
func (s *service) ListPublic(ctx context.Context, profileID uuid.UUID) ([]models.CashFund, error) {
	rows, err := s.store.ListByProfile(ctx, profileID, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cash funds")
	}
	return rows, nil
}

// CreateFund opens a fund on the resolved target registry.
func (s *service) CreateFund(ctx context.Context, callerID uuid.UUID, input CreateFundInput) (*models.CashFund, error) {
	target, err := s.profiles.ResolveWriteTarget(ctx, callerID, input.ProfileID)
	if err != nil {
		return nil, err
	}
	if !input.FundType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown fund type")
	}

	fund := &models.CashFund{
		ProfileID:   target.ID,
		Title:       input.Title,
		Description: input.Description,
		FundType:    input.FundType,
		GoalCents:   input.GoalCents,
		CoverImage:  input.CoverImage,
		IsActive:    true,
	}
	created, err := s.store.Create(ctx, fund)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cash fund")
	}
	return created, nil
}

// UpdateFund applies whitelisted updates, including deactivation, to a fund
// the caller controls.
func (s *service) UpdateFund(ctx context.Context, callerID uuid.UUID, fundID uuid.UUID, input UpdateFundInput) (*models.CashFund, error) {
	fund, err := s.store.GetByID(ctx, fundID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cash fund not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cash fund")
	}
	if _, err := s.profiles.AssertProfileControl(ctx, callerID, fund.ProfileID); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.FundType != nil {
		if !input.FundType.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown fund type")
		}
		updates["fund_type"] = *input.FundType
	}
	if input.GoalCents != nil {
		updates["goal_cents"] = *input.GoalCents
	}
	if input.CoverImage != nil {
		updates["cover_image"] = *input.CoverImage
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	updated, err := s.store.Update(ctx, fund.ID, updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cash fund")
	}
	return updated, nil
}
