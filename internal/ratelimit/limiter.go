package ratelimit

import (
	"context"
	"time"

	"github.com/freshstarthq/freshstart-backend/pkg/config"
)

// Tier selects which request budget applies to a caller.
type Tier string

const (
	TierAuthenticated Tier = "authenticated"
	TierPublic        Tier = "public"
	TierSensitive     Tier = "sensitive"
	TierAnonymous     Tier = "anonymous"
)

// Result reports the outcome of a limit check.
type Result struct {
	Allowed    bool
	Remaining  int
	ResetAfter time.Duration
}

// Store tracks request counts per key within a window. Implementations must
// be safe for concurrent use.
type Store interface {
	// Allow records one hit against key and reports whether it fits within
	// limit hits per window, how many hits remain, and when the window resets.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error)
}

// Limiter applies tiered request budgets on top of a Store.
type Limiter struct {
	store  Store
	cfg    config.RateLimitConfig
	limits map[Tier]int
}

// NewStore picks the limiter backend from config: the in-memory sliding
// window by default, or the shared Redis counter when UseRedis is set so
// limits hold across API instances.
func NewStore(cfg config.RateLimitConfig, redis redisCounter) Store {
	if cfg.UseRedis {
		return NewRedisStore(redis)
	}
	return NewMemoryStore(cfg.MemoryCleanupTick)
}

// NewLimiter builds a limiter using the configured per-tier budgets.
func NewLimiter(store Store, cfg config.RateLimitConfig) *Limiter {
	return &Limiter{
		store: store,
		cfg:   cfg,
		limits: map[Tier]int{
			TierAuthenticated: cfg.AuthenticatedMax,
			TierPublic:        cfg.PublicMax,
			TierSensitive:     cfg.SensitiveMax,
			TierAnonymous:     cfg.AnonymousMax,
		},
	}
}

// Check records a hit for key under the given tier. A store failure fails
// open so a degraded limiter backend never takes down the API.
func (l *Limiter) Check(ctx context.Context, tier Tier, key string) (Result, error) {
	limit, ok := l.limits[tier]
	if !ok || limit <= 0 {
		return Result{Allowed: true, Remaining: -1}, nil
	}

	res, err := l.store.Allow(ctx, string(tier)+":"+key, limit, l.cfg.Window)
	if err != nil {
		return Result{Allowed: true, Remaining: -1}, err
	}
	return res, nil
}
