package encouragements

import (
	"context"

	"github.com/freshstarthq/freshstart-backend/pkg/db/models"
	"github.com/freshstarthq/freshstart-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository encapsulates encouragement persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an encouragement repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts an encouragement row.
func (r *Repository) Create(ctx context.Context, enc *models.Encouragement) (*models.Encouragement, error) {
	if err := r.db.WithContext(ctx).Create(enc).Error; err != nil {
		return nil, err
	}
	return enc, nil
}

// ListVisible returns one keyset page of a profile's non-hidden
// encouragements, ordered newest first. The limit already includes the
// look-ahead buffer row.
func (r *Repository) ListVisible(ctx context.Context, profileID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Encouragement, error) {
	q := r.db.WithContext(ctx).
		Where("profile_id = ? AND hidden = FALSE", profileID).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}
	var rows []models.Encouragement
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteByProfile removes all encouragements on a profile.
func (r *Repository) DeleteByProfile(ctx context.Context, profileID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.Encouragement{}, "profile_id = ?", profileID).Error
}
