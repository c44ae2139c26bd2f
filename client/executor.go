package client

import (
	"context"

	"github.com/newsdigest/digestsync/client/internal/shardqueue"
)

// executor abstracts the internal async job runner used for profile and date
// writes. Barrier returns once every job submitted earlier for key has run.
type executor interface {
	Submit(context.Context, string, shardqueue.Job) error
	Barrier(context.Context, string) error
	Close() error
}
