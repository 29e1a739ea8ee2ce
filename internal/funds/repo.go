package funds

import (
	"context"

	"github.com/freshstarthq/freshstart-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository encapsulates cash fund persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cash fund repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a fund row.
func (r *Repository) Create(ctx context.Context, fund *models.CashFund) (*models.CashFund, error) {
	if err := r.db.WithContext(ctx).Create(fund).Error; err != nil {
		return nil, err
	}
	return fund, nil
}

// GetByID loads a fund by primary key.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.CashFund, error) {
	var fund models.CashFund
	if err := r.db.WithContext(ctx).First(&fund, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &fund, nil
}

// ListByProfile returns a profile's funds, newest first. When activeOnly is
// set, deactivated funds are skipped.
func (r *Repository) ListByProfile(ctx context.Context, profileID uuid.UUID, activeOnly bool) ([]models.CashFund, error) {
	q := r.db.WithContext(ctx).Where("profile_id = ?", profileID)
	if activeOnly {
		q = q.Where("is_active = TRUE")
	}
	var rows []models.CashFund
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update persists whitelisted column changes on a fund.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.CashFund, error) {
	if len(updates) == 0 {
		return r.GetByID(ctx, id)
	}
	if err := r.db.WithContext(ctx).
		Model(&models.CashFund{}).
		Where("id = ?", id).
		Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}
