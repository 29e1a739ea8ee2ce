package controllers

import (
	"context"
	"net/http"

	"github.com/freshstarthq/freshstart-backend/api/middleware"
	"github.com/freshstarthq/freshstart-backend/api/responses"
	"github.com/freshstarthq/freshstart-backend/internal/account"
	pkgerrors "github.com/freshstarthq/freshstart-backend/pkg/errors"
	"github.com/freshstarthq/freshstart-backend/pkg/logger"
)

type sessionRevoker interface {
	Revoke(ctx context.Context, accessID string) error
}

// AccountDelete erases the caller's data and ends the session. Erasure
// failures still revoke so a half-deleted account cannot keep acting.
func AccountDelete(svc account.Service, sessions sessionRevoker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "account service unavailable"))
			return
		}

		uid, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		eraseErr := svc.Erase(r.Context(), uid)

		if sessions != nil {
			if accessID := middleware.AccessIDFromContext(r.Context()); accessID != "" {
				if err := sessions.Revoke(r.Context(), accessID); err != nil && logg != nil {
					logg.Error(r.Context(), "account.revoke_session_failed", err)
				}
			}
		}

		if eraseErr != nil {
			responses.WriteError(r.Context(), logg, w, eraseErr)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
