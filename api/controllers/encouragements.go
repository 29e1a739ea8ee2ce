package controllers

import (
	"net/http"
	"strings"

	"github.com/freshstarthq/freshstart-backend/api/responses"
	"github.com/freshstarthq/freshstart-backend/api/validators"
	"github.com/freshstarthq/freshstart-backend/internal/encouragements"
	"github.com/freshstarthq/freshstart-backend/pkg/logger"
	"github.com/freshstarthq/freshstart-backend/pkg/pagination"
)

// EncouragementWall returns one cursor page of a profile's public wall.
func EncouragementWall(svc encouragements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, err := validators.RequireQueryUUID(r, "profile_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		page, err := svc.ListWall(r.Context(), profileID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// EncouragementCreate posts a note of support. No session required.
func EncouragementCreate(svc encouragements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body encouragements.CreateInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		note, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, note)
	}
}
