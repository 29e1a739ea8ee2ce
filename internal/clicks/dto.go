package clicks

import (
	"github.com/freshstarthq/freshstart-backend/pkg/enums"
	"github.com/google/uuid"
)

// TrackInput is the payload a storefront page posts when a visitor follows
// an outbound product link.
type TrackInput struct {
	ItemID    *uuid.UUID        `json:"item_id"`
	ProfileID *uuid.UUID        `json:"profile_id"`
	TargetURL string            `json:"target_url" validate:"required,url,max=2048"`
	Source    enums.ClickSource `json:"source" validate:"required"`
}
