package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/newsdigest/digestsync/client/internal/job"
)

// ReferenceClock holds the simulated "now" shared with the backend. It starts
// unset. Fetch adopts the backend's value without writing it back; Set writes
// a changed value exactly once.
type ReferenceClock struct {
	c *Client

	mu  sync.Mutex
	now time.Time // zero while unset
}

// NewReferenceClock returns an unset clock.
func NewReferenceClock(c *Client) *ReferenceClock { return &ReferenceClock{c: c} }

// Now returns the reference date and whether it has been set.
func (r *ReferenceClock) Now() (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.now, !r.now.IsZero()
}

// Fetch reads GET /date into the clock. On failure the clock is unchanged.
func (r *ReferenceClock) Fetch(ctx context.Context) error {
	t, err := r.c.GetDate(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("digest: fetch reference date failed")
		return fmt.Errorf("fetch reference date: %w", err)
	}
	r.mu.Lock()
	r.now = t
	r.mu.Unlock()
	return nil
}

// Set moves the clock to t and enqueues PUT /date when the value changed.
func (r *ReferenceClock) Set(ctx context.Context, t time.Time) error {
	if t.IsZero() {
		return ErrNoReferenceDate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.setLocked(ctx, t.UTC())
}

// Advance moves the clock forward by d (backwards when d is negative).
func (r *ReferenceClock) Advance(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.now.IsZero() {
		return ErrNoReferenceDate
	}
	return r.setLocked(ctx, r.now.Add(d))
}

// Flush blocks until every enqueued date write has run.
func (r *ReferenceClock) Flush(ctx context.Context) error {
	return r.c.AwaitConsistency(ctx, job.DateKey)
}

func (r *ReferenceClock) setLocked(ctx context.Context, t time.Time) error {
	if r.now.Equal(t) {
		return nil
	}
	r.now = t
	log.Debug().Time("current_date", t).Msg("digest: reference date changed")
	if err := r.c.enqueueDate(ctx, t); err != nil {
		log.Warn().Err(err).Msg("digest: date write not enqueued")
		return err
	}
	return nil
}
