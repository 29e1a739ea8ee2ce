package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/freshstarthq/freshstart-backend/api/controllers"
	"github.com/freshstarthq/freshstart-backend/api/middleware"
	"github.com/freshstarthq/freshstart-backend/internal/account"
	"github.com/freshstarthq/freshstart-backend/internal/auth"
	"github.com/freshstarthq/freshstart-backend/internal/clicks"
	"github.com/freshstarthq/freshstart-backend/internal/encouragements"
	"github.com/freshstarthq/freshstart-backend/internal/funds"
	"github.com/freshstarthq/freshstart-backend/internal/media"
	"github.com/freshstarthq/freshstart-backend/internal/metadata"
	"github.com/freshstarthq/freshstart-backend/internal/profiles"
	"github.com/freshstarthq/freshstart-backend/internal/ratelimit"
	"github.com/freshstarthq/freshstart-backend/internal/registry"
	"github.com/freshstarthq/freshstart-backend/pkg/auth/session"
	"github.com/freshstarthq/freshstart-backend/pkg/config"
	"github.com/freshstarthq/freshstart-backend/pkg/db"
	"github.com/freshstarthq/freshstart-backend/pkg/logger"
	"github.com/freshstarthq/freshstart-backend/pkg/metrics"
)

type sessionManager interface {
	session.AccessSessionChecker
	Revoke(ctx context.Context, accessID string) error
}

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Ready    map[string]controllers.Pinger
	Limiter  *ratelimit.Limiter
	Sessions sessionManager
	Metrics  *metrics.HTTPMetrics

	// /metrics exposition handler; nil disables the route.
	MetricsHandler http.Handler

	Auth           auth.Service
	Profiles       profiles.Service
	Registry       registry.Service
	Funds          funds.Service
	Encouragements encouragements.Service
	Clicks         clicks.Service
	Metadata       metadata.Service
	Media          media.Service
	Account        account.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.Metrics),
		middleware.CORS(),
	)

	requireAuth := middleware.Auth(cfg.JWT, d.Sessions, logg)
	softAuth := middleware.SoftAuth(cfg.JWT, d.Sessions, logg)
	anonTier := middleware.RateLimit(d.Limiter, ratelimit.TierAnonymous, logg)
	publicTier := middleware.RateLimit(d.Limiter, ratelimit.TierPublic, logg)
	authedTier := middleware.RateLimit(d.Limiter, ratelimit.TierAuthenticated, logg)
	sensitiveTier := middleware.RateLimit(d.Limiter, ratelimit.TierSensitive, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.DB, d.Ready))
	})

	if d.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", d.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(anonTier).Post("/register", controllers.AuthRegister(d.Auth, logg))
			r.With(anonTier).Post("/login", controllers.AuthLogin(d.Auth, logg))
			r.With(publicTier).Post("/refresh", controllers.AuthRefresh(d.Auth, logg))
			r.With(requireAuth).Post("/logout", controllers.AuthLogout(d.Auth, logg))
		})

		// Public surface. Registry pages and their actions work without a
		// session; the slug route soft-authenticates so owners can open
		// their own private pages.
		r.With(softAuth).Get("/profiles/slug/{slug}", controllers.ProfilePublic(d.Profiles, d.Registry, d.Funds, logg))
		r.With(publicTier).Post("/registry-items/{id}/claim", controllers.RegistryItemClaim(d.Registry, logg))
		r.Get("/encouragements", controllers.EncouragementWall(d.Encouragements, logg))
		r.With(anonTier).Post("/encouragements", controllers.EncouragementCreate(d.Encouragements, logg))
		r.With(publicTier).Post("/track", controllers.TrackClick(d.Clicks, logg))

		// Session surface.
		r.Group(func(r chi.Router) {
			r.Use(requireAuth, authedTier)

			r.Get("/profiles/me", controllers.ProfileMe(d.Profiles, logg))
			r.Patch("/profiles/me", controllers.ProfileUpdate(d.Profiles, logg))

			r.Route("/registry-items", func(r chi.Router) {
				r.Get("/", controllers.RegistryItemsList(d.Registry, logg))
				r.Post("/", controllers.RegistryItemCreate(d.Registry, logg))
				r.Patch("/{id}", controllers.RegistryItemUpdate(d.Registry, logg))
				r.Delete("/{id}", controllers.RegistryItemDelete(d.Registry, logg))
			})

			r.Route("/funds", func(r chi.Router) {
				r.Get("/", controllers.FundsList(d.Funds, logg))
				r.Post("/", controllers.FundCreate(d.Funds, logg))
				r.Patch("/{id}", controllers.FundUpdate(d.Funds, logg))
			})

			r.Route("/proxy-registries", func(r chi.Router) {
				r.Get("/", controllers.ProxyRegistriesList(d.Profiles, logg))
				r.With(sensitiveTier).Post("/", controllers.ProxyRegistryCreate(d.Profiles, logg))
				r.Post("/{id}/claim", controllers.ProxyRegistryClaim(d.Profiles, logg))
			})

			r.With(sensitiveTier).Post("/metadata/fetch", controllers.MetadataFetch(d.Metadata, logg))
			r.Post("/media/presign", controllers.MediaPresign(d.Media, logg))
			r.With(sensitiveTier).Delete("/account", controllers.AccountDelete(d.Account, d.Sessions, logg))
		})
	})

	return r
}
