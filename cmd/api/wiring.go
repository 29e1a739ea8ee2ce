package main

import (
	"context"
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/freshstarthq/freshstart-backend/api/controllers"
	"github.com/freshstarthq/freshstart-backend/internal/clicks"
	"github.com/freshstarthq/freshstart-backend/pkg/config"
	"github.com/freshstarthq/freshstart-backend/pkg/logger"
	"github.com/freshstarthq/freshstart-backend/pkg/pubsub"
)

// newClickService wires the click tracker, with the Pub/Sub publisher
// attached only when a project is configured. Tracking still persists to
// Postgres without one.
func newClickService(ctx context.Context, cfg *config.Config, logg *logger.Logger, gormDB *gorm.DB, ready map[string]controllers.Pinger) (clicks.Service, error) {
	repo := clicks.NewRepository(gormDB)

	if cfg.GCP.ProjectID == "" || cfg.PubSub.ClickTopic == "" {
		return clicks.NewService(repo, nil, logg)
	}

	pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		return nil, fmt.Errorf("pubsub client: %w", err)
	}
	ready["pubsub"] = pubsubClient

	return clicks.NewService(repo, pubsubClient.ClickPublisher(), logg)
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
