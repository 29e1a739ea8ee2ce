package profiles

import (
	"context"
	"time"

	"github.com/freshstarthq/freshstart-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository encapsulates profile persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a profile repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a profile row.
func (r *Repository) Create(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// GetByID loads a profile by primary key.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetBySlug loads a profile by its public slug.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetByAccountID loads the profile linked to a user account, if any.
func (r *Repository) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "account_id = ?", accountID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Update persists whitelisted column changes on a profile.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Profile, error) {
	if len(updates) == 0 {
		return r.GetByID(ctx, id)
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", id).
		Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a profile; item and fund rows cascade in the database.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Profile{}, "id = ?", id).Error
}

// ListProxiesByCreator returns every proxy profile an advocate has created,
// newest first.
func (r *Repository) ListProxiesByCreator(ctx context.Context, advocateID uuid.UUID) ([]models.Profile, error) {
	var rows []models.Profile
	err := r.db.WithContext(ctx).
		Where("is_proxy = TRUE AND created_by_user_id = ?", advocateID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ClaimProxy atomically transfers an unclaimed proxy profile to the claimant.
// The conditional WHERE resolves the check-then-set race inside the database:
// exactly one concurrent claimant can match the unclaimed row.
func (r *Repository) ClaimProxy(ctx context.Context, proxyID, claimantID uuid.UUID, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ? AND is_proxy = TRUE AND claimed_by_user_id IS NULL", proxyID).
		Updates(map[string]any{
			"claimed_by_user_id": claimantID,
			"account_id":         claimantID,
			"claimed_at":         now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// CountItems returns the number of registry items on a profile.
func (r *Repository) CountItems(ctx context.Context, profileID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.RegistryItem{}).
		Where("profile_id = ?", profileID).
		Count(&count).Error
	return count, err
}

// CountFunds returns the number of cash funds on a profile.
func (r *Repository) CountFunds(ctx context.Context, profileID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CashFund{}).
		Where("profile_id = ?", profileID).
		Count(&count).Error
	return count, err
}
