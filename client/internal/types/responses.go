package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ------------------------------
// Response Types
// ------------------------------

// UserResponse mirrors GET /user.
type UserResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	BaseUnderstanding string          `json:"base_understanding"`
	JoinDate          string          `json:"join_date"`
	Interests         []InterestEntry `json:"interests"`
}

// InterestEntry is the remote shape of an interest; level stays a string until
// translated so an unknown level fails the decode of the whole profile.
type InterestEntry struct {
	Topic string `json:"topic"`
	Level string `json:"level"`
}

// Profile translates the remote record into the local enumeration.
func (r UserResponse) Profile() (UserProfile, error) {
	level, err := ParseLevel(r.BaseUnderstanding)
	if err != nil {
		return UserProfile{}, fmt.Errorf("base_understanding: %w", err)
	}
	// a missing join_date leaves JoinDate zero; only a malformed one fails
	var joined time.Time
	if strings.TrimSpace(r.JoinDate) != "" {
		joined, err = ParseISOTime(r.JoinDate)
		if err != nil {
			return UserProfile{}, fmt.Errorf("join_date: %w", err)
		}
	}
	interests := make([]Interest, 0, len(r.Interests))
	for _, in := range r.Interests {
		lvl, err := ParseLevel(in.Level)
		if err != nil {
			return UserProfile{}, fmt.Errorf("interest %q: %w", in.Topic, err)
		}
		interests = append(interests, Interest{Topic: in.Topic, Level: lvl})
	}
	return UserProfile{
		ID:          r.ID,
		DisplayName: r.Name,
		Level:       level,
		JoinDate:    joined,
		Interests:   interests,
	}, nil
}

// ArticleEntry mirrors one element of GET /articles/topic.
type ArticleEntry struct {
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	URL         string `json:"url"`
	PublishDate string `json:"publish_date,omitempty"`
}

// ArticlesResponse wraps GET /articles/topic. Articles is nil when the field is absent.
type ArticlesResponse struct {
	Articles []ArticleEntry `json:"articles"`
}

// HistoryEntry mirrors a history record on the wire.
type HistoryEntry struct {
	UserID      string `json:"user_id"`
	Topic       string `json:"topic"`
	Level       string `json:"level"`
	CurrentDate string `json:"current_date"`
}

// Record converts the wire entry into a HistoryRecord.
func (e HistoryEntry) Record() (HistoryRecord, error) {
	rec := HistoryRecord{UserID: e.UserID, Topic: e.Topic}
	if e.Level != "" {
		lvl, err := ParseLevel(e.Level)
		if err != nil {
			return HistoryRecord{}, err
		}
		rec.Level = lvl
	}
	if e.CurrentDate != "" {
		t, err := ParseISOTime(e.CurrentDate)
		if err != nil {
			return HistoryRecord{}, fmt.Errorf("current_date: %w", err)
		}
		rec.LastAccessDate = t
	}
	return rec, nil
}

// IsEmptyPayload reports whether a JSON body carries no record: empty, null,
// an empty array or an empty object.
func IsEmptyPayload(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return true
	}
	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err == nil {
			return len(items) == 0
		}
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err == nil {
			return len(fields) == 0
		}
	}
	return false
}
