package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/freshstarthq/freshstart-backend/api/responses"
	"github.com/freshstarthq/freshstart-backend/internal/ratelimit"
	pkgerrors "github.com/freshstarthq/freshstart-backend/pkg/errors"
	"github.com/freshstarthq/freshstart-backend/pkg/logger"
)

// RateLimit applies the given tier's budget to the request. Authenticated
// callers are keyed by user id, everyone else by client IP. A limiter store
// failure lets the request through.
func RateLimit(limiter *ratelimit.Limiter, tier ratelimit.Tier, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			key := "ip:" + ClientIP(r)
			if userID := UserIDFromContext(ctx); userID != "" {
				key = "user:" + userID
			}

			res, err := limiter.Check(ctx, tier, key)
			if err != nil && logg != nil {
				logCtx := logg.WithFields(ctx, map[string]any{"tier": string(tier)})
				logg.Warn(logCtx, "rate_limit.store_unavailable")
			}

			if !res.Allowed {
				retryAfter := int(math.Ceil(res.ResetAfter.Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				if logg != nil {
					logCtx := logg.WithFields(ctx, map[string]any{
						"tier":        string(tier),
						"key":         key,
						"retry_after": retryAfter,
					})
					logg.Warn(logCtx, "rate_limit.blocked")
				}
				responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP resolves the caller address, honoring proxy headers.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
