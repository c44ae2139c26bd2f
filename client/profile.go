package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/newsdigest/digestsync/client/internal/job"
)

// ProfileStore mirrors one user's profile. Every mutation goes through mutate,
// which updates the level and its index together and enqueues exactly one
// PUT /user. Writes for a user are FIFO on the executor; Flush waits for them.
type ProfileStore struct {
	c *Client

	mu      sync.Mutex
	profile UserProfile
}

// NewProfileStore returns a store seeded with initial. initial.ID selects the
// remote record; the other fields are what Create registers when none exists.
func NewProfileStore(c *Client, initial UserProfile) *ProfileStore {
	return &ProfileStore{c: c, profile: initial.Clone()}
}

// Snapshot returns a copy of the local profile.
func (s *ProfileStore) Snapshot() UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile.Clone()
}

// Level returns the current comprehension level.
func (s *ProfileStore) Level() Level {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile.Level
}

// LevelIndex returns the position of the current level in Levels().
func (s *ProfileStore) LevelIndex() int { return s.Level().Index() }

// Load replaces the local profile with the remote one. An absent remote
// profile is created from the local one. On failure the local profile is kept
// and the error returned.
func (s *ProfileStore) Load(ctx context.Context) error {
	return s.load(ctx, true)
}

// Create registers the local profile with the backend and reloads it once.
func (s *ProfileStore) Create(ctx context.Context) error {
	snap := s.Snapshot()
	if err := s.c.CreateUser(ctx, snap); err != nil {
		log.Warn().Err(err).Str("user_id", snap.ID).Msg("digest: create profile failed")
		return fmt.Errorf("create profile %q: %w", snap.ID, err)
	}
	return s.load(ctx, false)
}

func (s *ProfileStore) load(ctx context.Context, createIfAbsent bool) error {
	id := s.Snapshot().ID
	// a read must not overtake this user's queued writes
	if err := s.c.AwaitConsistency(ctx, job.UserKey(id)); err != nil {
		return err
	}
	remote, err := s.c.GetUser(ctx, id)
	if errors.Is(err, ErrNotFound) {
		if !createIfAbsent {
			log.Warn().Str("user_id", id).Msg("digest: profile still absent after create")
			return ErrProfileMissing
		}
		log.Info().Str("user_id", id).Msg("digest: no remote profile, creating")
		return s.Create(ctx)
	}
	if err != nil {
		log.Warn().Err(err).Str("user_id", id).Msg("digest: load profile failed, keeping local state")
		return fmt.Errorf("load profile %q: %w", id, err)
	}

	s.mu.Lock()
	s.profile = remote.Clone()
	s.mu.Unlock()
	return nil
}

// SetLevel changes the comprehension level. Setting the current level is a
// no-op; an invalid level leaves the profile untouched.
func (s *ProfileStore) SetLevel(ctx context.Context, level Level) error {
	if !level.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidLevel, int(level))
	}
	return s.mutate(ctx, func(p *UserProfile) bool {
		if p.Level == level {
			return false
		}
		p.Level = level
		return true
	})
}

// SetLevelIndex is SetLevel addressed by position in Levels().
func (s *ProfileStore) SetLevelIndex(ctx context.Context, i int) error {
	level, err := LevelFromIndex(i)
	if err != nil {
		return err
	}
	return s.SetLevel(ctx, level)
}

// SetDisplayName renames the user.
func (s *ProfileStore) SetDisplayName(ctx context.Context, name string) error {
	return s.mutate(ctx, func(p *UserProfile) bool {
		if p.DisplayName == name {
			return false
		}
		p.DisplayName = name
		return true
	})
}

// Persist enqueues a write of the current profile regardless of changes.
func (s *ProfileStore) Persist(ctx context.Context) error {
	return s.mutate(ctx, func(*UserProfile) bool { return true })
}

// Flush blocks until every write enqueued for this user has run.
func (s *ProfileStore) Flush(ctx context.Context) error {
	return s.c.AwaitConsistency(ctx, job.UserKey(s.Snapshot().ID))
}

// mutate applies fn to a copy of the profile and, if fn reports a change,
// installs the copy and enqueues one write. The enqueue happens under the lock
// so writes enter the executor in mutation order.
func (s *ProfileStore) mutate(ctx context.Context, fn func(*UserProfile) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.profile.Clone()
	if !fn(&next) {
		return nil
	}
	s.profile = next
	if err := s.c.enqueueUser(ctx, next); err != nil {
		log.Warn().Err(err).Str("user_id", next.ID).Msg("digest: profile write not enqueued")
		return err
	}
	return nil
}
