package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jobsift/jobsift/internal/model"
)

// BoardRateLimiter enforces a minimum delay between requests to the same
// board backend. Several sources can hit one backend (e.g. every
// Greenhouse board shares boards-api.greenhouse.io), so the limiter is
// keyed by board family, not by individual source.
type BoardRateLimiter struct {
	mu        sync.Mutex
	lastCall  map[string]time.Time // key: board family
	minDelay  time.Duration
	overrides map[string]time.Duration // per-family overrides
}

// NewBoardRateLimiter creates a rate limiter that enforces minDelay between
// consecutive requests to the same board backend. overrides adjusts the
// delay for specific families and may be nil.
func NewBoardRateLimiter(minDelay time.Duration, overrides map[string]time.Duration) *BoardRateLimiter {
	return &BoardRateLimiter{
		lastCall:  make(map[string]time.Time),
		minDelay:  minDelay,
		overrides: overrides,
	}
}

func (r *BoardRateLimiter) delayFor(board string) time.Duration {
	if d, ok := r.overrides[board]; ok {
		return d
	}
	return r.minDelay
}

// Wait blocks until enough time has passed since the last request to the
// given board backend. Returns an error if the context is cancelled while
// waiting.
func (r *BoardRateLimiter) Wait(ctx context.Context, board string) error {
	minDelay := r.delayFor(board)

	r.mu.Lock()
	last, ok := r.lastCall[board]
	now := time.Now()

	if !ok {
		// First request for this backend — no wait needed.
		r.lastCall[board] = now
		r.mu.Unlock()
		return nil
	}

	elapsed := now.Sub(last)
	if elapsed >= minDelay {
		// Enough time has passed — proceed immediately.
		r.lastCall[board] = now
		r.mu.Unlock()
		return nil
	}

	// Need to wait for the remainder.
	remaining := minDelay - elapsed
	r.mu.Unlock()

	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", board, ctx.Err())
	case <-time.After(remaining):
	}

	// Record the actual time after waiting.
	r.mu.Lock()
	r.lastCall[board] = time.Now()
	r.mu.Unlock()

	return nil
}

// RateLimitedSource is a decorator that enforces board-level rate limiting
// before delegating to the wrapped Source.
type RateLimitedSource struct {
	inner   model.Source
	limiter *BoardRateLimiter
	board   string // which board family this source targets
}

// NewRateLimitedSource wraps a Source with board-level rate limiting.
// All sources targeting the same board family should share the same
// limiter instance.
func NewRateLimitedSource(inner model.Source, limiter *BoardRateLimiter, board string) *RateLimitedSource {
	return &RateLimitedSource{
		inner:   inner,
		limiter: limiter,
		board:   board,
	}
}

// Name reports the wrapped source's name.
func (s *RateLimitedSource) Name() string {
	return s.inner.Name()
}

// Collect waits for the rate limiter to allow a request, then delegates to
// the wrapped source.
func (s *RateLimitedSource) Collect(ctx context.Context) ([]model.Listing, error) {
	if err := s.limiter.Wait(ctx, s.board); err != nil {
		return nil, err
	}
	return s.inner.Collect(ctx)
}
