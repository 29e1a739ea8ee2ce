package registry

import (
	"github.com/freshstarthq/freshstart-backend/pkg/enums"
	"github.com/google/uuid"
)

// CreateItemInput is the payload for adding an item to a registry.
// ProfileID targets an unclaimed proxy registry; nil means the caller's own.
type CreateItemInput struct {
	ProfileID            *uuid.UUID         `json:"profile_id"`
	Title                string             `json:"title" validate:"required,max=255"`
	Description          string             `json:"description" validate:"max=2000"`
	ProductURL           string             `json:"product_url" validate:"omitempty,url,max=2048"`
	ImageURL             string             `json:"image_url" validate:"omitempty,url,max=2048"`
	AffiliateURL         string             `json:"affiliate_url" validate:"omitempty,url,max=2048"`
	PriceCents           *int64             `json:"price_cents" validate:"omitempty,min=0,max=99999999"`
	Retailer             string             `json:"retailer" validate:"max=100"`
	Category             enums.ItemCategory `json:"category" validate:"required"`
	Priority             enums.ItemPriority `json:"priority"`
	Quantity             int                `json:"quantity" validate:"omitempty,min=1"`
	GroupGiftTargetCents *int64             `json:"group_gift_target_cents" validate:"omitempty,min=1,max=99999999"`
}

// UpdateItemInput carries whitelisted item updates; nil means "leave as is".
type UpdateItemInput struct {
	Title                *string             `json:"title" validate:"omitempty,max=255"`
	Description          *string             `json:"description" validate:"omitempty,max=2000"`
	ProductURL           *string             `json:"product_url" validate:"omitempty,url,max=2048"`
	ImageURL             *string             `json:"image_url" validate:"omitempty,url,max=2048"`
	AffiliateURL         *string             `json:"affiliate_url" validate:"omitempty,url,max=2048"`
	PriceCents           *int64              `json:"price_cents" validate:"omitempty,min=0,max=99999999"`
	Retailer             *string             `json:"retailer" validate:"omitempty,max=100"`
	Category             *enums.ItemCategory `json:"category"`
	Priority             *enums.ItemPriority `json:"priority"`
	Quantity             *int                `json:"quantity" validate:"omitempty,min=1"`
	SortOrder            *int                `json:"sort_order" validate:"omitempty,min=0"`
	GroupGiftTargetCents *int64              `json:"group_gift_target_cents" validate:"omitempty,min=1,max=99999999"`
}

// ClaimItemInput is what a visitor submits when claiming an item.
type ClaimItemInput struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"omitempty,email,max=255"`
	Message string `json:"message" validate:"max=2000"`
}
