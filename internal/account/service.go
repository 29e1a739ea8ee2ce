package account

import (
	"context"

	pkgerrors "github.com/freshstarthq/freshstart-backend/pkg/errors"
	"github.com/freshstarthq/freshstart-backend/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// eraser is the deletion surface the service needs.
type eraser interface {
	DeleteEncouragements(ctx context.Context, userID uuid.UUID) error
	DeleteContributions(ctx context.Context, userID uuid.UUID) error
	DeleteFunds(ctx context.Context, userID uuid.UUID) error
	DeleteItems(ctx context.Context, userID uuid.UUID) error
	DeleteProxyProfiles(ctx context.Context, userID uuid.UUID) error
	DeleteOwnProfile(ctx context.Context, userID uuid.UUID) error
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

// Service implements full account erasure.
type Service interface {
	Erase(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo eraser
	logg *logger.Logger
}

// NewService builds the account erasure service. Session revocation happens
// at the controller, which holds the caller's access identifier.
func NewService(repo eraser, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "erasure repo is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// Erase removes everything the user owns, child rows first. Each step runs
// even when an earlier one failed, so a partial failure deletes as much as
// possible; the combined error reports every failed step.
func (s *service) Erase(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	steps := []struct {
		name string
		run  func(context.Context, uuid.UUID) error
	}{
		{"encouragements", s.repo.DeleteEncouragements},
		{"contributions", s.repo.DeleteContributions},
		{"funds", s.repo.DeleteFunds},
		{"items", s.repo.DeleteItems},
		{"proxy_profiles", s.repo.DeleteProxyProfiles},
		{"profile", s.repo.DeleteOwnProfile},
		{"user", s.repo.DeleteUser},
	}

	var combined error
	for _, step := range steps {
		if err := step.run(ctx, userID); err != nil {
			s.logg.Error(s.logg.WithField(ctx, "step", step.name), "account erasure step failed", err)
			combined = multierr.Append(combined, err)
		}
	}

	if combined != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, combined, "account erasure incomplete")
	}
	s.logg.Info(s.logg.WithUserID(ctx, userID.String()), "account erased")
	return nil
}
