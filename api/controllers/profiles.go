package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/freshstarthq/freshstart-backend/api/middleware"
	"github.com/freshstarthq/freshstart-backend/api/responses"
	"github.com/freshstarthq/freshstart-backend/api/validators"
	"github.com/freshstarthq/freshstart-backend/internal/funds"
	"github.com/freshstarthq/freshstart-backend/internal/profiles"
	"github.com/freshstarthq/freshstart-backend/internal/registry"
	"github.com/freshstarthq/freshstart-backend/pkg/db/models"
	pkgerrors "github.com/freshstarthq/freshstart-backend/pkg/errors"
	"github.com/freshstarthq/freshstart-backend/pkg/logger"
)

// ProfileMe returns the caller's own profile.
func ProfileMe(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.GetOwnProfile(r.Context(), uid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}

// ProfileUpdate patches the caller's profile, or a controlled proxy when
// profile_id targets one.
func ProfileUpdate(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		target, err := validators.ParseQueryUUID(r, "profile_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body profiles.UpdateInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.UpdateProfile(r.Context(), uid, target, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}

type publicProfileResponse struct {
	Profile *models.Profile       `json:"profile"`
	Items   []models.RegistryItem `json:"items"`
	Funds   []models.CashFund     `json:"funds"`
}

// ProfilePublic serves a registry page by slug, honoring the privacy level,
// with the visible items and active funds embedded.
func ProfilePublic(profileSvc profiles.Service, registrySvc registry.Service, fundSvc funds.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "slug is required"))
			return
		}

		var viewer *uuid.UUID
		if raw := middleware.UserIDFromContext(r.Context()); raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				viewer = &id
			}
		}

		profile, err := profileSvc.GetPublicProfile(r.Context(), viewer, slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := registrySvc.ListPublic(r.Context(), profile.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		activeFunds, err := fundSvc.ListPublic(r.Context(), profile.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, publicProfileResponse{
			Profile: profile,
			Items:   items,
			Funds:   activeFunds,
		})
	}
}
