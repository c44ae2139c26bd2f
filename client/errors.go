package client

import (
	"errors"

	"github.com/newsdigest/digestsync/client/internal/types"
)

// Precondition short-circuits: the operation made no remote call.
var (
	// ErrEmptyTopic is returned when articles are requested without a topic.
	ErrEmptyTopic = errors.New("digest: topic is empty")
	// ErrNoReferenceDate is returned while the reference date is unset.
	ErrNoReferenceDate = errors.New("digest: reference date not set")
	// ErrNothingToSummarize is returned for a blank aggregate.
	ErrNothingToSummarize = errors.New("digest: nothing to summarize")
)

var (
	// ErrSummaryFailed wraps every failed summarization request.
	ErrSummaryFailed = errors.New("digest: summary request failed")
	// ErrProfileMissing is returned when a profile is still absent right after
	// it was created.
	ErrProfileMissing = errors.New("digest: profile missing after create")
	// ErrBackPressure is returned when the client's internal shard queue is full.
	ErrBackPressure = errors.New("back-pressure (queue full)")

	// ErrNotFound is returned when the backend has no record.
	ErrNotFound = types.ErrNotFound
	// ErrInvalidLevel is returned for names or indices outside the enumeration.
	ErrInvalidLevel = types.ErrInvalidLevel
)

// IsBackPressure reports whether err is a back-pressure error.
func IsBackPressure(err error) bool { return errors.Is(err, ErrBackPressure) }

// IsSkipped reports whether err is a precondition short-circuit rather than a
// remote failure.
func IsSkipped(err error) bool {
	return errors.Is(err, ErrEmptyTopic) ||
		errors.Is(err, ErrNoReferenceDate) ||
		errors.Is(err, ErrNothingToSummarize)
}
