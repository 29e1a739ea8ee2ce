package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a sliding-window limiter keeping per-key hit timestamps in
// memory. Good for single-instance deployments and tests; multi-instance
// deployments should use the Redis store instead.
type MemoryStore struct {
	mu        sync.Mutex
	hits      map[string][]time.Time
	maxWindow time.Duration
	now       func() time.Time

	stop chan struct{}
	once sync.Once
}

// NewMemoryStore builds a memory store and starts a background sweep that
// drops keys whose hits have all aged out.
func NewMemoryStore(cleanupTick time.Duration) *MemoryStore {
	s := &MemoryStore{
		hits: make(map[string][]time.Time),
		now:  time.Now,
		stop: make(chan struct{}),
	}
	if cleanupTick > 0 {
		go s.sweep(cleanupTick)
	}
	return s
}

// Allow implements Store with a true sliding window: only hits within the
// last window count against the limit.
func (s *MemoryStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	now := s.now()
	cutoff := now.Add(-window)

	s.mu.Lock()
	defer s.mu.Unlock()

	if window > s.maxWindow {
		s.maxWindow = window
	}

	kept := pruneBefore(s.hits[key], cutoff)

	if len(kept) >= limit {
		s.hits[key] = kept
		return Result{
			Allowed:    false,
			Remaining:  0,
			ResetAfter: kept[0].Add(window).Sub(now),
		}, nil
	}

	kept = append(kept, now)
	s.hits[key] = kept

	return Result{
		Allowed:    true,
		Remaining:  limit - len(kept),
		ResetAfter: window,
	}, nil
}

// Close stops the background sweep.
func (s *MemoryStore) Close() {
	s.once.Do(func() { close(s.stop) })
}

func (s *MemoryStore) sweep(tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweepOnce()
		}
	}
}

func (s *MemoryStore) sweepOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Prune against the widest window ever requested, never the tick, so a
	// frequent sweep cannot discard in-window hits.
	cutoff := s.now().Add(-s.maxWindow)
	for key, hits := range s.hits {
		kept := pruneBefore(hits, cutoff)
		if len(kept) == 0 {
			delete(s.hits, key)
			continue
		}
		s.hits[key] = kept
	}
}

func pruneBefore(hits []time.Time, cutoff time.Time) []time.Time {
	idx := 0
	for idx < len(hits) && !hits[idx].After(cutoff) {
		idx++
	}
	if idx == 0 {
		return hits
	}
	return append([]time.Time(nil), hits[idx:]...)
}
