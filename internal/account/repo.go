package account

import (
	"context"

	"github.com/freshstarthq/freshstart-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository runs the raw deletion queries behind account erasure. Every
// query is scoped to the profiles the user controls at deletion time: their
// own profile plus any still-unclaimed proxy registries they created.
// Claimed proxies belong to their recipients and are never touched.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an account erasure repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) controlledProfileIDs(userID uuid.UUID) *gorm.DB {
	return r.db.Model(&models.Profile{}).
		Select("id").
		Where("account_id = ? OR (is_proxy = TRUE AND created_by_user_id = ? AND claimed_by_user_id IS NULL)",
			userID, userID)
}

// DeleteEncouragements removes wall notes on the user's profiles.
func (r *Repository) DeleteEncouragements(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("profile_id IN (?)", r.controlledProfileIDs(userID)).
		Delete(&models.Encouragement{}).Error
}

// DeleteContributions removes contribution records against the user's funds.
func (r *Repository) DeleteContributions(ctx context.Context, userID uuid.UUID) error {
	fundIDs := r.db.Model(&models.CashFund{}).
		Select("id").
		Where("profile_id IN (?)", r.controlledProfileIDs(userID))
	return r.db.WithContext(ctx).
		Where("fund_id IN (?)", fundIDs).
		Delete(&models.Contribution{}).Error
}

// DeleteFunds removes the user's cash funds.
func (r *Repository) DeleteFunds(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("profile_id IN (?)", r.controlledProfileIDs(userID)).
		Delete(&models.CashFund{}).Error
}

// DeleteItems removes the user's registry items.
func (r *Repository) DeleteItems(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("profile_id IN (?)", r.controlledProfileIDs(userID)).
		Delete(&models.RegistryItem{}).Error
}

// DeleteProxyProfiles removes the user's still-unclaimed proxy registries.
func (r *Repository) DeleteProxyProfiles(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("is_proxy = TRUE AND created_by_user_id = ? AND claimed_by_user_id IS NULL", userID).
		Delete(&models.Profile{}).Error
}

// DeleteOwnProfile removes the profile linked to the user's account.
func (r *Repository) DeleteOwnProfile(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("account_id = ?", userID).
		Delete(&models.Profile{}).Error
}

// DeleteUser removes the user row itself.
func (r *Repository) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", userID).
		Delete(&models.User{}).Error
}
