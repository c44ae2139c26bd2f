package client

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/newsdigest/digestsync/client/internal/types"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "digest_client",
			Name:      "requests_total",
			Help:      "Synchronous backend calls by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	historyReconcileTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "digest_client",
			Name:      "history_reconcile_total",
			Help:      "History reconciliations by branch taken (created, updated, failed).",
		},
		[]string{"branch"},
	)

	shortCircuitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "digest_client",
			Name:      "short_circuits_total",
			Help:      "Operations skipped locally because a precondition did not hold.",
		},
		[]string{"operation"},
	)

	persistEnqueuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "digest_client",
			Name:      "persist_enqueued_total",
			Help:      "Writes accepted into the shard executor.",
		},
		[]string{"resource"},
	)

	persistFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "digest_client",
			Name:      "persist_failures_total",
			Help:      "Background writes that gave up with an error or panic.",
		},
		[]string{"operation"},
	)
)

func observe(operation string, err error) {
	outcome := "ok"
	switch {
	case errors.Is(err, types.ErrNotFound):
		outcome = "absent"
	case err != nil:
		outcome = "error"
	}
	requestsTotal.WithLabelValues(operation, outcome).Inc()
}
