package clicks

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/freshstarthq/freshstart-backend/pkg/db/models"
	"github.com/freshstarthq/freshstart-backend/pkg/enums"
	pkgerrors "github.com/freshstarthq/freshstart-backend/pkg/errors"
	"github.com/freshstarthq/freshstart-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type stubClickStore struct {
	created []models.ClickEvent
	err     error
}

func (s *stubClickStore) Create(_ context.Context, event *models.ClickEvent) (*models.ClickEvent, error) {
	if s.err != nil {
		return nil, s.err
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	s.created = append(s.created, *event)
	return event, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel, Output: io.Discard})
}

func TestTrackStoresHashedIP(t *testing.T) {
	store := &stubClickStore{}
	svc, err := NewService(store, nil, testLogger())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	itemID := uuid.New()
	err = svc.Track(context.Background(), TrackInput{
		ItemID:    &itemID,
		TargetURL: "https://www.target.com/p/dutch-oven",
		Source:    enums.ClickRegistry,
	}, "203.0.113.9", "Mozilla/5.0")
	if err != nil {
		t.Fatalf("track: %v", err)
	}

	if len(store.created) != 1 {
		t.Fatalf("expected 1 event, got %d", len(store.created))
	}
	event := store.created[0]
	if event.IPHash == "" || event.IPHash == "203.0.113.9" {
		t.Fatalf("expected hashed ip, got %q", event.IPHash)
	}
	if len(event.IPHash) != 64 {
		t.Fatalf("expected sha256 hex digest, got %d chars", len(event.IPHash))
	}
	if event.OccurredAt.IsZero() {
		t.Fatal("expected occurred_at set")
	}
}

func TestTrackRejectsUnknownSource(t *testing.T) {
	svc, err := NewService(&stubClickStore{}, nil, testLogger())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	err = svc.Track(context.Background(), TrackInput{
		TargetURL: "https://example.com",
		Source:    enums.ClickSource("billboard"),
	}, "", "")
	var coded *pkgerrors.Error
	if !errors.As(err, &coded) || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestHashIPEmpty(t *testing.T) {
	if HashIP("") != "" {
		t.Fatal("expected empty hash for empty ip")
	}
	if HashIP("10.0.0.1") == HashIP("10.0.0.2") {
		t.Fatal("expected distinct hashes for distinct ips")
	}
}

type stubInserter struct {
	rows []any
	err  error
}

func (s *stubInserter) InsertClickEvents(_ context.Context, rows []any) error {
	if s.err != nil {
		return s.err
	}
	s.rows = append(s.rows, rows...)
	return nil
}

func TestWorkerProcess(t *testing.T) {
	inserter := &stubInserter{}
	w := &Worker{inserter: inserter, logg: testLogger()}

	itemID := uuid.New()
	payload, err := json.Marshal(Envelope{
		EventID:    uuid.New(),
		ItemID:     &itemID,
		TargetURL:  "https://www.chewy.com/dp/12345",
		Source:     enums.ClickRegistry,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if !w.process(context.Background(), &gcppubsub.Message{Data: payload}) {
		t.Fatal("expected well-formed message to ack")
	}
	if len(inserter.rows) != 1 {
		t.Fatalf("expected 1 row inserted, got %d", len(inserter.rows))
	}
	row, ok := inserter.rows[0].(ClickRow)
	if !ok {
		t.Fatalf("unexpected row type %T", inserter.rows[0])
	}
	if row.ItemID != itemID.String() {
		t.Fatalf("expected item id carried, got %q", row.ItemID)
	}
}

func TestWorkerProcessMalformedAcks(t *testing.T) {
	w := &Worker{inserter: &stubInserter{}, logg: testLogger()}
	if !w.process(context.Background(), &gcppubsub.Message{Data: []byte("not json")}) {
		t.Fatal("expected malformed message to ack rather than redeliver")
	}
}

func TestWorkerProcessInsertFailureNacks(t *testing.T) {
	inserter := &stubInserter{err: errors.New("bigquery unavailable")}
	w := &Worker{inserter: inserter, logg: testLogger()}

	payload, _ := json.Marshal(Envelope{EventID: uuid.New(), Source: enums.ClickRegistry})
	if w.process(context.Background(), &gcppubsub.Message{Data: payload}) {
		t.Fatal("expected insert failure to nack for redelivery")
	}
}
