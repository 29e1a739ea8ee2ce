package encouragements

import (
	"github.com/freshstarthq/freshstart-backend/pkg/db/models"
	"github.com/google/uuid"
)

// CreateInput is what a visitor submits when leaving an encouragement.
type CreateInput struct {
	ProfileID   uuid.UUID `json:"profile_id" validate:"required"`
	AuthorName  string    `json:"author_name" validate:"max=100"`
	Message     string    `json:"message" validate:"required,max=2000"`
	IsAnonymous bool      `json:"is_anonymous"`
}

// Page is one cursor page of a profile's encouragement wall.
type Page struct {
	Encouragements []models.Encouragement `json:"encouragements"`
	NextCursor     string                 `json:"next_cursor,omitempty"`
	HasMore        bool                   `json:"has_more"`
}
