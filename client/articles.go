package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ArticleRetriever lists articles for an interest as of a reference date.
// Results are never cached.
type ArticleRetriever struct {
	c *Client
}

// NewArticleRetriever returns a retriever backed by c.
func NewArticleRetriever(c *Client) *ArticleRetriever { return &ArticleRetriever{c: c} }

// FetchByTopic returns the articles for interest published on or before
// referenceDate. An empty topic or an unset date short-circuits without a call.
func (a *ArticleRetriever) FetchByTopic(ctx context.Context, interest Interest, referenceDate time.Time) ([]Article, error) {
	if strings.TrimSpace(interest.Topic) == "" {
		shortCircuitsTotal.WithLabelValues("fetch_articles").Inc()
		log.Warn().Msg("digest: topic is empty, skipping article fetch")
		return nil, ErrEmptyTopic
	}
	if referenceDate.IsZero() {
		shortCircuitsTotal.WithLabelValues("fetch_articles").Inc()
		log.Warn().Str("topic", interest.Topic).Msg("digest: reference date not set, skipping article fetch")
		return nil, ErrNoReferenceDate
	}

	articles, err := a.c.ArticlesByTopic(ctx, interest.Topic, interest.Level, referenceDate)
	if err != nil {
		log.Warn().Err(err).Str("topic", interest.Topic).Str("level", interest.Level.String()).Msg("digest: fetch articles failed")
		return nil, fmt.Errorf("fetch articles for %q: %w", interest.Topic, err)
	}

	// before_date is day-granular on the wire; enforce the exact bound here.
	kept := articles[:0]
	for _, art := range articles {
		if art.PublishDate.After(referenceDate) {
			continue
		}
		kept = append(kept, art)
	}
	return kept, nil
}
