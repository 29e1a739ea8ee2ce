package clicks

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/freshstarthq/freshstart-backend/pkg/db/models"
	"github.com/freshstarthq/freshstart-backend/pkg/enums"
	pkgerrors "github.com/freshstarthq/freshstart-backend/pkg/errors"
	"github.com/freshstarthq/freshstart-backend/pkg/logger"
	"github.com/google/uuid"
)

type clickStore interface {
	Create(ctx context.Context, event *models.ClickEvent) (*models.ClickEvent, error)
}

// publisher is the slice of the Pub/Sub publisher the service uses.
type publisher interface {
	Publish(ctx context.Context, msg *gcppubsub.Message) *gcppubsub.PublishResult
}

// Envelope is the wire format for click events on the analytics topic.
type Envelope struct {
	EventID    uuid.UUID         `json:"event_id"`
	ItemID     *uuid.UUID        `json:"item_id,omitempty"`
	ProfileID  *uuid.UUID        `json:"profile_id,omitempty"`
	TargetURL  string            `json:"target_url"`
	Source     enums.ClickSource `json:"source"`
	IPHash     string            `json:"ip_hash"`
	UserAgent  string            `json:"user_agent"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// Service records outbound click events. Persistence is required; the
// analytics publish is best effort and never fails the request.
type Service interface {
	Track(ctx context.Context, input TrackInput, remoteIP, userAgent string) error
}

type service struct {
	store clickStore
	pub   publisher
	logg  *logger.Logger
	now   func() time.Time
}

// NewService builds a click tracking service. pub may be nil when the
// analytics pipeline is disabled.
func NewService(store clickStore, pub publisher, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "click store is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{store: store, pub: pub, logg: logg, now: time.Now}, nil
}

// HashIP reduces a visitor address to a SHA-256 hex digest. The raw address
// is never stored.
func HashIP(remoteIP string) string {
	if remoteIP == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(remoteIP))
	return hex.EncodeToString(sum[:])
}

// Track validates and records one click.
func (s *service) Track(ctx context.Context, input TrackInput, remoteIP, userAgent string) error {
	if !input.Source.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown click source")
	}

	event := &models.ClickEvent{
		ItemID:     input.ItemID,
		ProfileID:  input.ProfileID,
		TargetURL:  input.TargetURL,
		Source:     input.Source,
		IPHash:     HashIP(remoteIP),
		UserAgent:  userAgent,
		OccurredAt: s.now().UTC(),
	}
	created, err := s.store.Create(ctx, event)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record click event")
	}

	s.publish(ctx, created)
	return nil
}

// publish pushes the event onto the analytics topic. Failures are logged and
// swallowed: the row is already durable in Postgres.
func (s *service) publish(ctx context.Context, event *models.ClickEvent) {
	if s.pub == nil {
		return
	}
	payload, err := json.Marshal(Envelope{
		EventID:    event.ID,
		ItemID:     event.ItemID,
		ProfileID:  event.ProfileID,
		TargetURL:  event.TargetURL,
		Source:     event.Source,
		IPHash:     event.IPHash,
		UserAgent:  event.UserAgent,
		OccurredAt: event.OccurredAt,
	})
	if err != nil {
		s.logg.Error(ctx, "encode click envelope", err)
		return
	}
	result := s.pub.Publish(ctx, &gcppubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"event_id": event.ID.String(),
			"source":   event.Source.String(),
		},
	})
	if _, err := result.Get(ctx); err != nil {
		s.logg.Error(ctx, "publish click event", err)
	}
}
