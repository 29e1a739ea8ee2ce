package models

import (
	"time"

	"github.com/freshstarthq/freshstart-backend/pkg/enums"
	"github.com/google/uuid"
)

// RegistryItem is a single product on a profile's registry. Prices are
// stored as integer cents; nil means no price was captured.
type RegistryItem struct {
	ID          uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProfileID   uuid.UUID          `gorm:"type:uuid;not null;index" json:"profile_id"`
	Title       string             `gorm:"size:255;not null" json:"title"`
	Description string             `gorm:"size:2000" json:"description"`
	ProductURL  string             `gorm:"size:2048" json:"product_url"`
	ImageURL    string             `gorm:"size:2048" json:"image_url"`
	PriceCents  *int64             `json:"price_cents,omitempty"`
	Retailer    string             `gorm:"size:100" json:"retailer"`
	Category    enums.ItemCategory `gorm:"size:32;not null" json:"category"`
	Priority    enums.ItemPriority `gorm:"size:16;not null;default:'want'" json:"priority"`
	Status      enums.ItemStatus   `gorm:"size:24;not null;default:'available'" json:"status"`
	Quantity    int                `gorm:"not null;default:1" json:"quantity"`

	AffiliateURL string `gorm:"size:2048" json:"affiliate_url"`
	SortOrder    int    `gorm:"not null;default:0" json:"sort_order"`

	// Group gifting: a target lets multiple supporters fund one item.
	GroupGiftTargetCents *int64 `json:"group_gift_target_cents,omitempty"`
	GroupFundedCents     int64  `gorm:"not null;default:0" json:"group_funded_cents"`

	ClaimedByName  string     `gorm:"size:100" json:"claimed_by_name"`
	ClaimedByEmail string     `gorm:"size:255" json:"-"`
	ClaimMessage   string     `gorm:"size:2000" json:"claim_message"`
	ClaimedAt      *time.Time `json:"claimed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (RegistryItem) TableName() string { return "registry_items" }
