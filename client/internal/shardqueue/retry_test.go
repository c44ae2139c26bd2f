package shardqueue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	digesterrors "github.com/newsdigest/digestsync/client/internal/errors"
)

func TestShardExecutor_RetriesRecoverable(t *testing.T) {
	t.Parallel()
	ex := NewShardExecutor(Config{Shards: 1, QueueSize: 10, MaxAttempts: 3, BaseBackoff: 5 * time.Millisecond})
	defer ex.Stop()

	var attempts int32
	_ = ex.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return digesterrors.NewHTTPError("put date", 503, "")
		}
		return nil
	}))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := ex.Barrier(ctx, "k"); err != nil {
		t.Fatalf("barrier: %v", err)
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestShardExecutor_NoRetryForIrrecoverable(t *testing.T) {
	t.Parallel()
	var handled int32
	ex := NewShardExecutor(Config{
		Shards: 1, QueueSize: 10, MaxAttempts: 5, BaseBackoff: 5 * time.Millisecond,
		ErrorHandler: func(error) { atomic.AddInt32(&handled, 1) },
	})
	defer ex.Stop()

	var attempts int32
	_ = ex.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
		atomic.AddInt32(&attempts, 1)
		return digesterrors.NewHTTPError("put user", 400, "bad level")
	}))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := ex.Barrier(ctx, "k"); err != nil {
		t.Fatalf("barrier: %v", err)
	}
	if attempts != 1 || handled != 1 {
		t.Fatalf("attempts=%d handled=%d, want 1/1", attempts, handled)
	}
}

// With the default single attempt a failure is reported exactly once.
func TestErrorHandler_CalledOnceByDefault(t *testing.T) {
	t.Parallel()
	errs := make(chan error, 4)
	ex := NewShardExecutor(Config{Shards: 1, QueueSize: 8, ErrorHandler: func(err error) { errs <- err }})
	defer ex.Stop()

	boom := errors.New("boom")
	_ = ex.Submit(context.Background(), "k", JobFunc(func(context.Context) error { return boom }))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := ex.Barrier(ctx, "k"); err != nil {
		t.Fatalf("barrier: %v", err)
	}
	close(errs)
	var got []error
	for err := range errs {
		got = append(got, err)
	}
	if len(got) != 1 || !errors.Is(got[0], boom) {
		t.Fatalf("expected one boom error, got %v", got)
	}
}
