package api

import (
	"context"
	"time"

	"github.com/newsdigest/digestsync/client/internal/job"
	"github.com/newsdigest/digestsync/client/internal/types"
)

// EnqueuePutDate submits a PUT /date to the executor under job.DateKey so date
// writes reach the backend in the order they were made.
func EnqueuePutDate(ctx context.Context, exec types.Executor, httpClient HTTPClient, baseURL string, date time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	date = date.UTC()
	putJob := job.New(func(jobCtx context.Context) error {
		return PutDate(jobCtx, httpClient, baseURL, date)
	})
	return exec.Submit(ctx, job.DateKey, putJob)
}

// EnqueueUpdateUser submits a PUT /user carrying a snapshot of p. Jobs are
// keyed per user id, so one user's writes stay FIFO.
func EnqueueUpdateUser(ctx context.Context, exec types.Executor, httpClient HTTPClient, baseURL string, p types.UserProfile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot := p.Clone()
	updateJob := job.New(func(jobCtx context.Context) error {
		return UpdateUser(jobCtx, httpClient, baseURL, snapshot)
	})
	return exec.Submit(ctx, job.UserKey(p.ID), updateJob)
}
