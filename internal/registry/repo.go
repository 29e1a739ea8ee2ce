package registry

import (
	"context"
	"time"

	"github.com/freshstarthq/freshstart-backend/pkg/db/models"
	"github.com/freshstarthq/freshstart-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository encapsulates registry item persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a registry item repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts an item row.
func (r *Repository) Create(ctx context.Context, item *models.RegistryItem) (*models.RegistryItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// GetByID loads an item by primary key.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.RegistryItem, error) {
	var item models.RegistryItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// ListByProfile returns a profile's items in display order.
func (r *Repository) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]models.RegistryItem, error) {
	var rows []models.RegistryItem
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("sort_order ASC, created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// NextSortOrder returns the next free display slot on a profile.
func (r *Repository) NextSortOrder(ctx context.Context, profileID uuid.UUID) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&models.RegistryItem{}).
		Where("profile_id = ?", profileID).
		Select("COALESCE(MAX(sort_order), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// Update persists whitelisted column changes on an item.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.RegistryItem, error) {
	if len(updates) == 0 {
		return r.GetByID(ctx, id)
	}
	if err := r.db.WithContext(ctx).
		Model(&models.RegistryItem{}).
		Where("id = ?", id).
		Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes an item row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.RegistryItem{}, "id = ?", id).Error
}

// Claim flips an available item to claimed, recording the claimant. The
// conditional WHERE makes concurrent claims race safely: only one wins.
func (r *Repository) Claim(ctx context.Context, id uuid.UUID, name, email, message string, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.RegistryItem{}).
		Where("id = ? AND status = ?", id, enums.ItemAvailable).
		Updates(map[string]any{
			"status":           enums.ItemClaimed,
			"claimed_by_name":  name,
			"claimed_by_email": email,
			"claim_message":    message,
			"claimed_at":       now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
