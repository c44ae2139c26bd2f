package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// SummaryRequester asks the backend to condense article summaries for a topic.
type SummaryRequester struct {
	c *Client
}

// NewSummaryRequester returns a requester backed by c.
func NewSummaryRequester(c *Client) *SummaryRequester { return &SummaryRequester{c: c} }

// SummarizeAggregate summarizes combined for topic. Blank input returns
// ErrNothingToSummarize without a call; a failed call returns an error
// matching ErrSummaryFailed.
func (s *SummaryRequester) SummarizeAggregate(ctx context.Context, topic, combined string) (TopicSummary, error) {
	if strings.TrimSpace(combined) == "" {
		shortCircuitsTotal.WithLabelValues("summarize").Inc()
		log.Warn().Str("topic", topic).Msg("digest: combined summaries empty, skipping summarize")
		return TopicSummary{}, ErrNothingToSummarize
	}
	ts, err := s.c.SummarizeAllArticles(ctx, topic, combined)
	if err != nil {
		log.Warn().Err(err).Str("topic", topic).Msg("digest: summarize failed")
		return TopicSummary{}, fmt.Errorf("%w: %w", ErrSummaryFailed, err)
	}
	return ts, nil
}

// CombineSummaries joins the non-blank article summaries with blank lines.
func CombineSummaries(articles []Article) string {
	parts := make([]string, 0, len(articles))
	for _, a := range articles {
		if s := strings.TrimSpace(a.Summary); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}
