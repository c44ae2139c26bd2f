// Package job holds the background writes the client queues on its executor
// and the keys that order them.
package job

import (
	"context"
	"errors"

	"github.com/newsdigest/digestsync/client/internal/shardqueue"
)

// DateKey serialises writes of the shared reference date.
const DateKey = "date"

// UserKey serialises writes of one user's profile.
func UserKey(userID string) string { return "user:" + userID }

// ErrEmptyWrite is what a write built from a nil closure reports when run.
var ErrEmptyWrite = errors.New("job: write has no body")

// write is one queued PUT against the backend.
type write func(context.Context) error

func (w write) Run(ctx context.Context) error {
	if w == nil {
		return ErrEmptyWrite
	}
	return w(ctx)
}

// New wraps a persistence closure so the executor can run it.
func New(fn func(context.Context) error) shardqueue.Job {
	return write(fn)
}
