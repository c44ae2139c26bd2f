package job

import (
	"context"
	"errors"
	"testing"
)

func TestNew_NilBodyReportsEmptyWrite(t *testing.T) {
	t.Parallel()
	if err := New(nil).Run(context.Background()); !errors.Is(err, ErrEmptyWrite) {
		t.Fatalf("expected ErrEmptyWrite, got %v", err)
	}
}

func TestNew_RunsWithCallerContext(t *testing.T) {
	t.Parallel()
	type ctxKey string
	ctx := context.WithValue(context.Background(), ctxKey("user"), "u1")

	var seen string
	w := New(func(c context.Context) error {
		seen, _ = c.Value(ctxKey("user")).(string)
		return nil
	})
	if err := w.Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen != "u1" {
		t.Fatalf("write did not see caller context, got %q", seen)
	}
}

func TestNew_PropagatesWriteError(t *testing.T) {
	t.Parallel()
	boom := errors.New("put failed")
	if err := New(func(context.Context) error { return boom }).Run(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected write error, got %v", err)
	}
}

func TestKeys_DistinctPerResource(t *testing.T) {
	t.Parallel()
	if UserKey("u1") == UserKey("u2") {
		t.Fatal("user keys must differ per user")
	}
	if UserKey("date") == DateKey {
		t.Fatal("a user named date must not share the date key")
	}
}
