// Package client is the state-sync SDK of the news digest app. It mirrors a
// user's profile, tracks the active interest and the simulated reference date,
// keeps per-topic reading history on the backend, and fetches articles and
// summaries for the active topic.
package client

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/newsdigest/digestsync/client/internal/api"
	"github.com/newsdigest/digestsync/client/internal/errors"
	"github.com/newsdigest/digestsync/client/internal/shardqueue"
	"github.com/newsdigest/digestsync/client/internal/types"
)

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

// Client owns the transport and the persistence executor shared by every
// component built on top of it. A Client is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	exec    executor
	execCfg *shardqueue.Config

	closedOnce uint32 // ensures Close is idempotent
}

// New constructs a Client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL cannot be empty")
	}

	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.exec == nil {
		exec, err := newDefaultExecutor(c.execCfg)
		if err != nil {
			return nil, err
		}
		c.exec = exec
	}
	return c, nil
}

// Close drains pending writes and stops the background executor. Safe to call
// multiple times.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closedOnce, 0, 1) {
		return nil
	}
	if c.exec != nil {
		return c.exec.Close()
	}
	return nil
}

// AwaitConsistency blocks until all previously submitted writes for key have
// been executed.
func (c *Client) AwaitConsistency(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return translateSubmitErr(c.exec.Barrier(ctx, key))
}

// newDefaultExecutor constructs the shardqueue executor from cfg, or from
// DIGEST_SQ_* environment variables when cfg is nil.
func newDefaultExecutor(cfg *shardqueue.Config) (*shardqueue.ShardExecutor, error) {
	var conf shardqueue.Config
	if cfg != nil {
		conf = *cfg
	} else {
		loaded, err := shardqueue.LoadConfig()
		if err != nil {
			return nil, fmt.Errorf("load executor config: %w", err)
		}
		conf = loaded
	}
	if conf.ErrorHandler == nil {
		conf.ErrorHandler = reportPersistFailure
	}
	return shardqueue.NewShardExecutor(conf), nil
}

// reportPersistFailure is the executor's terminal error sink: a write that
// gave up is logged and counted, local state is left as the caller set it.
func reportPersistFailure(err error) {
	operation := "unknown"
	var ce *errors.ClassifiedError
	if stderrors.As(err, &ce) {
		operation = ce.Operation
	}
	persistFailuresTotal.WithLabelValues(operation).Inc()
	log.Warn().Err(err).
		Str("operation", operation).
		Int("status", errors.StatusCode(err)).
		Msg("digest: background write failed")
}

// translateSubmitErr maps executor refusals onto the SDK's public errors.
func translateSubmitErr(err error) error {
	if stderrors.Is(err, shardqueue.ErrQueueFull) {
		return fmt.Errorf("%w: %v", ErrBackPressure, err)
	}
	return err
}

// --------------------------------------------------------------------
// Remote operations - delegated to internal/api
// --------------------------------------------------------------------

// GetDate reads the backend's reference date.
func (c *Client) GetDate(ctx context.Context) (time.Time, error) {
	t, err := api.GetDate(ctx, c.http, c.baseURL)
	observe("get_date", err)
	return t, err
}

// GetUser reads a profile; ErrNotFound when the backend has none.
func (c *Client) GetUser(ctx context.Context, id string) (*UserProfile, error) {
	p, err := api.GetUser(ctx, c.http, c.baseURL, id)
	observe("get_user", err)
	return p, err
}

// CreateUser registers p with the backend (synchronous).
func (c *Client) CreateUser(ctx context.Context, p UserProfile) error {
	err := api.CreateUser(ctx, c.http, c.baseURL, p)
	observe("create_user", err)
	return err
}

// ArticlesByTopic lists articles for topic and level before the given date.
func (c *Client) ArticlesByTopic(ctx context.Context, topic string, level Level, before time.Time) ([]Article, error) {
	a, err := api.ArticlesByTopic(ctx, c.http, c.baseURL, topic, level, before)
	observe("get_articles", err)
	return a, err
}

// enqueueDate schedules a PUT /date on the executor.
func (c *Client) enqueueDate(ctx context.Context, date time.Time) error {
	if err := api.EnqueuePutDate(context.WithoutCancel(ctx), c.exec, c.http, c.baseURL, date); err != nil {
		return translateSubmitErr(err)
	}
	persistEnqueuedTotal.WithLabelValues("date").Inc()
	return nil
}

// enqueueUser schedules a PUT /user with a snapshot of p on the executor.
func (c *Client) enqueueUser(ctx context.Context, p UserProfile) error {
	if err := api.EnqueueUpdateUser(context.WithoutCancel(ctx), c.exec, c.http, c.baseURL, p); err != nil {
		return translateSubmitErr(err)
	}
	persistEnqueuedTotal.WithLabelValues("user").Inc()
	return nil
}

// HistoryExists reports whether history is stored for the triple.
func (c *Client) HistoryExists(ctx context.Context, userID, topic string, level Level) (bool, error) {
	ok, err := api.HistoryExists(ctx, c.http, c.baseURL, userID, topic, level)
	observe("get_history", err)
	return ok, err
}

// CreateHistory initializes the history record for the triple.
func (c *Client) CreateHistory(ctx context.Context, userID, topic string, level Level, date time.Time) (*HistoryRecord, error) {
	rec, err := api.CreateHistory(ctx, c.http, c.baseURL, historyPayload(userID, topic, level, date))
	observe("create_history", err)
	return rec, err
}

// UpdateHistory moves the last-access date of an existing record.
func (c *Client) UpdateHistory(ctx context.Context, userID, topic string, level Level, date time.Time) (*HistoryRecord, error) {
	rec, err := api.UpdateHistory(ctx, c.http, c.baseURL, historyPayload(userID, topic, level, date))
	observe("update_history", err)
	return rec, err
}

// SummarizeAllArticles sends combined article summaries for server-side
// summarization. Callers normally go through SummaryRequester.
func (c *Client) SummarizeAllArticles(ctx context.Context, topic, combined string) (TopicSummary, error) {
	ts, err := api.SummarizeAllArticles(ctx, c.http, c.baseURL, types.SummarizeRequest{Topic: topic, CombinedSummaries: combined})
	observe("summarize", err)
	return ts, err
}

func historyPayload(userID, topic string, level Level, date time.Time) types.HistoryPayload {
	return types.HistoryPayload{
		UserID:      userID,
		Topic:       topic,
		Level:       level.String(),
		CurrentDate: types.FormatISOTime(date),
	}
}
