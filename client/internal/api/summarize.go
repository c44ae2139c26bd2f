package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/newsdigest/digestsync/client/internal/types"
)

// SummarizeAllArticles asks the backend to condense an aggregate of article
// summaries for a topic. The payload is returned unmodified in Raw.
func SummarizeAllArticles(ctx context.Context, httpClient HTTPClient, baseURL string, reqBody types.SummarizeRequest) (types.TopicSummary, error) {
	if err := ctx.Err(); err != nil {
		return types.TopicSummary{}, err
	}
	req, err := newJSONRequest(ctx, http.MethodPost, endpoint(baseURL, "/summarize_all_articles", nil), reqBody)
	if err != nil {
		return types.TopicSummary{}, err
	}
	_, body, err := send(httpClient, req, "summarize articles")
	if err != nil {
		return types.TopicSummary{}, err
	}
	return summaryFromPayload(reqBody.Topic, body), nil
}

// summaryFromPayload keeps body untouched in Raw and extracts display text:
// a JSON string as-is, an object's "summary" field, otherwise the trimmed body.
func summaryFromPayload(topic string, body []byte) types.TopicSummary {
	ts := types.TopicSummary{Topic: topic, Raw: append([]byte{}, body...)}
	trimmed := bytes.TrimSpace(body)
	ts.Text = string(trimmed)
	if !json.Valid(trimmed) {
		return ts
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		ts.Text = s
		return ts
	}
	var obj struct {
		Summary *string `json:"summary"`
	}
	if err := json.Unmarshal(trimmed, &obj); err == nil && obj.Summary != nil {
		ts.Text = *obj.Summary
	}
	return ts
}
