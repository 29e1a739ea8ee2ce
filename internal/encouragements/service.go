package encouragements

import (
	"context"

	"github.com/freshstarthq/freshstart-backend/pkg/db"
	"github.com/freshstarthq/freshstart-backend/pkg/db/models"
	pkgerrors "github.com/freshstarthq/freshstart-backend/pkg/errors"
	"github.com/freshstarthq/freshstart-backend/pkg/pagination"
	"github.com/google/uuid"
)

type encouragementStore interface {
	Create(ctx context.Context, enc *models.Encouragement) (*models.Encouragement, error)
	ListVisible(ctx context.Context, profileID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Encouragement, error)
}

// profileResolver checks the target profile exists and is viewable. The
// profiles service's public resolution satisfies the existence half; this
// narrower check works by id since visitors post against ids, not slugs.
type profileResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

// Service exposes the public encouragement wall.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Encouragement, error)
	ListWall(ctx context.Context, profileID uuid.UUID, params pagination.Params) (Page, error)
}

type service struct {
	store    encouragementStore
	profiles profileResolver
}

// NewService builds an encouragement service.
func NewService(store encouragementStore, profiles profileResolver) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "encouragement store is required")
	}
	if profiles == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile resolver is required")
	}
	return &service{store: store, profiles: profiles}, nil
}

// Create posts a visitor's note to a profile's wall.
func (s *service) Create(ctx context.Context, input CreateInput) (*models.Encouragement, error) {
	if _, err := s.profiles.GetByID(ctx, input.ProfileID); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	enc := &models.Encouragement{
		ProfileID:   input.ProfileID,
		AuthorName:  input.AuthorName,
		Message:     input.Message,
		IsAnonymous: input.IsAnonymous,
	}
	if enc.IsAnonymous {
		enc.AuthorName = ""
	}
	created, err := s.store.Create(ctx, enc)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create encouragement")
	}
	return created, nil
}

// ListWall returns one page of visible encouragements, newest first.
func (s *service) ListWall(ctx context.Context, profileID uuid.UUID, params pagination.Params) (Page, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return Page{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.store.ListVisible(ctx, profileID, cursor, limit+1)
	if err != nil {
		return Page{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list encouragements")
	}

	page := Page{Encouragements: rows}
	if len(rows) > limit {
		page.Encouragements = rows[:limit]
		page.HasMore = true
		last := page.Encouragements[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return page, nil
}
