package funds

import (
	"github.com/freshstarthq/freshstart-backend/pkg/enums"
	"github.com/google/uuid"
)

// CreateFundInput is the payload for opening a cash fund. ProfileID targets
// an unclaimed proxy registry; nil means the caller's own.
type CreateFundInput struct {
	ProfileID   *uuid.UUID     `json:"profile_id"`
	Title       string         `json:"title" validate:"required,max=255"`
	Description string         `json:"description" validate:"max=2000"`
	FundType    enums.FundType `json:"fund_type" validate:"required"`
	GoalCents   int64          `json:"goal_cents" validate:"required,min=100,max=99999999"`
	CoverImage  string         `json:"cover_image" validate:"omitempty,url,max=2048"`
}

// UpdateFundInput carries whitelisted fund updates. RaisedCents is absent on
// purpose: no endpoint mutates it.
type UpdateFundInput struct {
	Title       *string         `json:"title" validate:"omitempty,max=255"`
	Description *string         `json:"description" validate:"omitempty,max=2000"`
	FundType    *enums.FundType `json:"fund_type"`
	GoalCents   *int64          `json:"goal_cents" validate:"omitempty,min=100,max=99999999"`
	CoverImage  *string         `json:"cover_image" validate:"omitempty,url,max=2048"`
	IsActive    *bool           `json:"is_active"`
}
