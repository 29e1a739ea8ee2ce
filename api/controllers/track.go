package controllers

import (
	"net/http"

	"github.com/freshstarthq/freshstart-backend/api/middleware"
	"github.com/freshstarthq/freshstart-backend/api/responses"
	"github.com/freshstarthq/freshstart-backend/api/validators"
	"github.com/freshstarthq/freshstart-backend/internal/clicks"
	"github.com/freshstarthq/freshstart-backend/pkg/logger"
)

// TrackClick records an outbound product-link click.
func TrackClick(svc clicks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body clicks.TrackInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Track(r.Context(), body, middleware.ClientIP(r), r.UserAgent()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]string{"status": "tracked"})
	}
}
