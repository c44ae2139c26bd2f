package types

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/newsdigest/digestsync/client/internal/shardqueue"
)

// ------------------------------
// Shared Interfaces
// ------------------------------

// Executor interface for dependency injection (used by async operations)
type Executor interface {
	Submit(context.Context, string, shardqueue.Job) error
}

// ------------------------------
// Shared Errors
// ------------------------------

// ErrNotFound is returned when the backend has no record for a lookup.
var ErrNotFound = errors.New("record not found")

// ErrInvalidLevel is returned for names or indices outside the level enumeration.
var ErrInvalidLevel = errors.New("invalid comprehension level")

// ------------------------------
// Date marshalling
// ------------------------------

const dayLayout = "2006-01-02"

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	dayLayout,
}

// FormatISOTime renders t as an RFC 3339 UTC timestamp.
func FormatISOTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// FormatDay renders the UTC calendar day of t.
func FormatDay(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

// ParseISOTime accepts RFC 3339, naive timestamps (read as UTC) and bare dates.
func ParseISOTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
