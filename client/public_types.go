package client

import (
	"time"

	"github.com/newsdigest/digestsync/client/internal/types"
)

// Public type aliases so SDK consumers can import only the client package.
type (
	// Domain entities
	Level         = types.Level
	Interest      = types.Interest
	UserProfile   = types.UserProfile
	HistoryRecord = types.HistoryRecord
	Article       = types.Article
	TopicSummary  = types.TopicSummary
)

// Comprehension levels in ascending order.
const (
	Beginner     = types.Beginner
	Intermediate = types.Intermediate
	Expert       = types.Expert
)

// ParseLevel resolves a level name such as "Expert".
func ParseLevel(name string) (Level, error) { return types.ParseLevel(name) }

// LevelFromIndex resolves a level index in [0, 2].
func LevelFromIndex(i int) (Level, error) { return types.LevelFromIndex(i) }

// Levels lists every level in ascending order.
func Levels() []Level { return types.Levels() }

// ParseDate reads an ISO-8601 timestamp or a bare YYYY-MM-DD date as UTC.
func ParseDate(s string) (time.Time, error) { return types.ParseISOTime(s) }

// FormatDate renders t the way the backend expects dates.
func FormatDate(t time.Time) string { return types.FormatISOTime(t) }
