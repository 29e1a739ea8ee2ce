package models

import (
	"time"

	"github.com/freshstarthq/freshstart-backend/pkg/enums"
	"github.com/google/uuid"
)

// CashFund is a pooled cash goal on a profile. Amounts are integer cents.
type CashFund struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProfileID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"profile_id"`
	Title        string         `gorm:"size:255;not null" json:"title"`
	Description  string         `gorm:"size:2000" json:"description"`
	FundType     enums.FundType `gorm:"size:16;not null" json:"fund_type"`
	GoalCents    int64          `gorm:"not null" json:"goal_cents"`
	RaisedCents  int64          `gorm:"not null;default:0" json:"raised_cents"`
	CoverImage   string         `gorm:"size:2048" json:"cover_image"`
	IsActive     bool           `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CashFund) TableName() string { return "cash_funds" }

// Contribution records a supporter's pledge toward a cash fund. Payment
// execution is handled off-platform; this is display-only bookkeeping.
type Contribution struct {
	ID          uuid.UUID                `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FundID      uuid.UUID                `gorm:"type:uuid;not null;index" json:"fund_id"`
	AmountCents int64                    `gorm:"not null" json:"amount_cents"`
	Status      enums.ContributionStatus `gorm:"size:16;not null;default:'pending'" json:"status"`
	DonorName   string                   `gorm:"size:100" json:"donor_name"`
	DonorEmail  string                   `gorm:"size:255" json:"-"`
	Message     string                   `gorm:"size:2000" json:"message"`
	IsAnonymous bool                     `gorm:"not null;default:false" json:"is_anonymous"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Contribution) TableName() string { return "contributions" }
