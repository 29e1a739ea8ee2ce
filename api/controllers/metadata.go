package controllers

import (
	"net/http"

	"github.com/freshstarthq/freshstart-backend/api/responses"
	"github.com/freshstarthq/freshstart-backend/api/validators"
	"github.com/freshstarthq/freshstart-backend/internal/metadata"
	pkgerrors "github.com/freshstarthq/freshstart-backend/pkg/errors"
	"github.com/freshstarthq/freshstart-backend/pkg/logger"
)

type metadataFetchRequest struct {
	URL string `json:"url" validate:"required,url,max=2048"`
}

// MetadataFetch pulls best-effort product metadata for the item form.
func MetadataFetch(svc metadata.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "metadata service unavailable"))
			return
		}

		var body metadataFetchRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Fetch(r.Context(), body.URL)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
