package controllers

import (
	"context"
	"net/http"

	"github.com/freshstarthq/freshstart-backend/api/responses"
	"github.com/freshstarthq/freshstart-backend/pkg/config"
	"github.com/freshstarthq/freshstart-backend/pkg/db"
	pkgerrors "github.com/freshstarthq/freshstart-backend/pkg/errors"
	"github.com/freshstarthq/freshstart-backend/pkg/logger"
)

// Pinger is the readiness surface a wired dependency exposes.
type Pinger interface {
	Ping(context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-FreshStart-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness only when every wired dependency answers.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-FreshStart-Env", cfg.App.Env)

		checks := map[string]string{}
		healthy := true

		if dbP != nil {
			checks["db"] = "ok"
			if err := dbP.Ping(r.Context()); err != nil {
				checks["db"] = "unavailable"
				healthy = false
				logPingFailure(r.Context(), logg, "db", err)
			}
		}

		for name, dep := range deps {
			if dep == nil {
				continue
			}
			checks[name] = "ok"
			if err := dep.Ping(r.Context()); err != nil {
				checks[name] = "unavailable"
				healthy = false
				logPingFailure(r.Context(), logg, name, err)
			}
		}

		if !healthy {
			err := pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").WithDetails(checks)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}

func logPingFailure(ctx context.Context, logg *logger.Logger, name string, err error) {
	if logg == nil {
		return
	}
	ctx = logg.WithField(ctx, "dependency", name)
	logg.Error(ctx, "health.ping_failed", err)
}
