package clicks

import (
	"context"

	"github.com/freshstarthq/freshstart-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository encapsulates click event persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a click event repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a click event row.
func (r *Repository) Create(ctx context.Context, event *models.ClickEvent) (*models.ClickEvent, error) {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}
