package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// ------------------------------
// Core Domain Entities
// ------------------------------

// Level is the user's comprehension level. The zero value is Beginner.
type Level int

const (
	Beginner Level = iota
	Intermediate
	Expert
)

var levelNames = [...]string{"Beginner", "Intermediate", "Expert"}

// Levels lists every level in ascending order.
func Levels() []Level { return []Level{Beginner, Intermediate, Expert} }

// String returns the wire name of the level.
func (l Level) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// Index returns the ordinal of the level.
func (l Level) Index() int { return int(l) }

// Valid reports whether l is a member of the fixed enumeration.
func (l Level) Valid() bool { return l >= Beginner && l <= Expert }

// ParseLevel maps a wire name to its Level.
func ParseLevel(name string) (Level, error) {
	for i, n := range levelNames {
		if n == name {
			return Level(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, name)
}

// LevelFromIndex maps an ordinal to its Level.
func LevelFromIndex(i int) (Level, error) {
	l := Level(i)
	if !l.Valid() {
		return 0, fmt.Errorf("%w: index %d", ErrInvalidLevel, i)
	}
	return l, nil
}

// MarshalJSON encodes the level as its name.
func (l Level) MarshalJSON() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: index %d", ErrInvalidLevel, int(l))
	}
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes a level name.
func (l *Level) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	parsed, err := ParseLevel(name)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Interest is a (topic, level) pair selected by a user.
type Interest struct {
	Topic string `json:"topic"`
	Level Level  `json:"level"`
}

// UserProfile is the local mirror of the remote user record.
type UserProfile struct {
	ID          string
	DisplayName string
	Level       Level
	JoinDate    time.Time
	Interests   []Interest
}

// Clone returns a deep copy so callers never share the interests slice.
func (p UserProfile) Clone() UserProfile {
	out := p
	if p.Interests != nil {
		out.Interests = append([]Interest(nil), p.Interests...)
	}
	return out
}

// HistoryRecord marks the most recent date a user engaged with a topic.
type HistoryRecord struct {
	UserID         string
	Topic          string
	Level          Level
	LastAccessDate time.Time
}

// Article is a read-only item owned by the remote article store.
type Article struct {
	Title       string
	Summary     string
	URL         string
	PublishDate time.Time
}

// TopicSummary is produced server-side from an aggregate of article summaries.
// Raw is the response body exactly as received; Text is the display text
// derived from it.
type TopicSummary struct {
	Topic string
	Text  string
	Raw   []byte
}
