package clicks

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/freshstarthq/freshstart-backend/pkg/logger"
	"github.com/freshstarthq/freshstart-backend/pkg/metrics"
)

// rowInserter is the slice of the BigQuery client the worker uses.
type rowInserter interface {
	InsertClickEvents(ctx context.Context, rows []any) error
}

// ClickRow is the BigQuery representation of one click event.
type ClickRow struct {
	EventID    string    `bigquery:"event_id"`
	ItemID     string    `bigquery:"item_id"`
	ProfileID  string    `bigquery:"profile_id"`
	TargetURL  string    `bigquery:"target_url"`
	Source     string    `bigquery:"source"`
	IPHash     string    `bigquery:"ip_hash"`
	UserAgent  string    `bigquery:"user_agent"`
	OccurredAt time.Time `bigquery:"occurred_at"`
}

// Worker drains click envelopes from Pub/Sub into BigQuery.
type Worker struct {
	subscription *gcppubsub.Subscriber
	inserter     rowInserter
	logg         *logger.Logger
	metrics      *metrics.WorkerMetrics
}

// NewWorker builds the analytics worker.
func NewWorker(subscription *gcppubsub.Subscriber, inserter rowInserter, logg *logger.Logger, workerMetrics *metrics.WorkerMetrics) (*Worker, error) {
	if subscription == nil {
		return nil, errors.New("click subscription is required")
	}
	if inserter == nil {
		return nil, errors.New("bigquery inserter is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Worker{
		subscription: subscription,
		inserter:     inserter,
		logg:         logg,
		metrics:      workerMetrics,
	}, nil
}

// Run consumes click messages until the context is canceled.
func (w *Worker) Run(ctx context.Context) error {
	return w.subscription.Receive(ctx, func(innerCtx context.Context, msg *gcppubsub.Message) {
		if w.process(innerCtx, msg) {
			msg.Ack()
			return
		}
		msg.Nack()
	})
}

func (w *Worker) process(ctx context.Context, msg *gcppubsub.Message) bool {
	started := time.Now()
	logCtx := w.logg.WithField(ctx, "message_id", msg.ID)

	var envelope Envelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		// A malformed message will never parse; ack it so it does not
		// redeliver forever.
		w.logg.Warn(w.logg.WithField(logCtx, "error", err.Error()), "invalid click envelope")
		w.observe("decode", started, false)
		return true
	}

	row := ClickRow{
		EventID:    envelope.EventID.String(),
		TargetURL:  envelope.TargetURL,
		Source:     envelope.Source.String(),
		IPHash:     envelope.IPHash,
		UserAgent:  envelope.UserAgent,
		OccurredAt: envelope.OccurredAt,
	}
	if envelope.ItemID != nil {
		row.ItemID = envelope.ItemID.String()
	}
	if envelope.ProfileID != nil {
		row.ProfileID = envelope.ProfileID.String()
	}

	if err := w.inserter.InsertClickEvents(logCtx, []any{row}); err != nil {
		w.logg.Error(logCtx, "insert click row", err)
		w.observe("insert", started, false)
		return false
	}

	w.logg.Info(w.logg.WithField(logCtx, "event_id", envelope.EventID.String()), "click event ingested")
	w.observe("insert", started, true)
	return true
}

func (w *Worker) observe(stage string, started time.Time, ok bool) {
	if w.metrics == nil {
		return
	}
	w.metrics.ObserveDuration(stage, time.Since(started))
	if ok {
		w.metrics.IncSuccess(stage)
	} else {
		w.metrics.IncFailure(stage)
	}
}
