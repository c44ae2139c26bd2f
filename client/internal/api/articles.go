package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/newsdigest/digestsync/client/internal/errors"
	"github.com/newsdigest/digestsync/client/internal/types"
)

// ArticlesByTopic lists articles for a topic and level published before the
// calendar day of before. A missing articles field yields an empty slice.
// Unparseable publish dates are treated as unknown (zero time).
func ArticlesByTopic(ctx context.Context, httpClient HTTPClient, baseURL, topic string, level types.Level, before time.Time) ([]types.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q := url.Values{
		"topic":       {topic},
		"level":       {level.String()},
		"before_date": {types.FormatDay(before)},
	}
	req, err := newJSONRequest(ctx, http.MethodGet, endpoint(baseURL, "/articles/topic", q), nil)
	if err != nil {
		return nil, err
	}
	_, body, err := send(httpClient, req, "get articles")
	if err != nil {
		return nil, err
	}

	var ar types.ArticlesResponse
	if err := json.Unmarshal(body, &ar); err != nil {
		return nil, errors.NewDecodeError("get articles", err)
	}
	out := make([]types.Article, 0, len(ar.Articles))
	for _, e := range ar.Articles {
		a := types.Article{Title: e.Title, Summary: e.Summary, URL: e.URL}
		if e.PublishDate != "" {
			if t, err := types.ParseISOTime(e.PublishDate); err == nil {
				a.PublishDate = t
			}
		}
		out = append(out, a)
	}
	return out, nil
}
