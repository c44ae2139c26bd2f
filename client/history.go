package client

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// HistoryResult reports which branch a reconciliation took. A nil Record
// means no history is usable.
type HistoryResult struct {
	// Initialized is true when the record was created by this call.
	Initialized bool
	Record      *HistoryRecord
}

// HistorySynchronizer upserts per-topic reading history: an existence check
// followed by either a create or an update. The two calls are not atomic.
type HistorySynchronizer struct {
	c *Client
}

// NewHistorySynchronizer returns a synchronizer backed by c.
func NewHistorySynchronizer(c *Client) *HistorySynchronizer { return &HistorySynchronizer{c: c} }

// Reconcile makes sure the backend holds history for (userID, topic, level)
// with its last-access date set to referenceDate.
func (h *HistorySynchronizer) Reconcile(ctx context.Context, userID, topic string, level Level, referenceDate time.Time) (HistoryResult, error) {
	logger := log.With().Str("user_id", userID).Str("topic", topic).Str("level", level.String()).Logger()
	if referenceDate.IsZero() {
		shortCircuitsTotal.WithLabelValues("reconcile_history").Inc()
		logger.Warn().Msg("digest: reference date not set, skipping history reconcile")
		return HistoryResult{}, ErrNoReferenceDate
	}

	exists, err := h.c.HistoryExists(ctx, userID, topic, level)
	if err != nil {
		historyReconcileTotal.WithLabelValues("failed").Inc()
		logger.Warn().Err(err).Msg("digest: history lookup failed")
		return HistoryResult{}, fmt.Errorf("reconcile history: %w", err)
	}

	if exists {
		rec, err := h.c.UpdateHistory(ctx, userID, topic, level, referenceDate)
		if err != nil {
			historyReconcileTotal.WithLabelValues("failed").Inc()
			logger.Warn().Err(err).Msg("digest: history update failed")
			return HistoryResult{}, fmt.Errorf("reconcile history: %w", err)
		}
		historyReconcileTotal.WithLabelValues("updated").Inc()
		return HistoryResult{Record: rec}, nil
	}

	rec, err := h.c.CreateHistory(ctx, userID, topic, level, referenceDate)
	if err != nil {
		historyReconcileTotal.WithLabelValues("failed").Inc()
		logger.Warn().Err(err).Msg("digest: history create failed")
		return HistoryResult{}, fmt.Errorf("reconcile history: %w", err)
	}
	historyReconcileTotal.WithLabelValues("created").Inc()
	logger.Debug().Msg("digest: history initialized")
	return HistoryResult{Initialized: true, Record: rec}, nil
}
