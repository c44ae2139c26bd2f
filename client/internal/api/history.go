package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/newsdigest/digestsync/client/internal/errors"
	"github.com/newsdigest/digestsync/client/internal/types"
)

// HistoryExists reports whether the backend holds history for the triple.
// A 404 counts as "no history", not as a failure.
func HistoryExists(ctx context.Context, httpClient HTTPClient, baseURL, userID, topic string, level types.Level) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	q := url.Values{
		"user_id": {userID},
		"topic":   {topic},
		"level":   {level.String()},
	}
	req, err := newJSONRequest(ctx, http.MethodGet, endpoint(baseURL, "/articles/history", q), nil)
	if err != nil {
		return false, err
	}
	status, body, err := send(httpClient, req, "get history")
	if status == http.StatusNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && !json.Valid(trimmed) {
		return false, errors.NewDecodeError("get history", errInvalidJSON)
	}
	return !types.IsEmptyPayload(body), nil
}

// CreateHistory initializes the history record for the payload's triple.
func CreateHistory(ctx context.Context, httpClient HTTPClient, baseURL string, payload types.HistoryPayload) (*types.HistoryRecord, error) {
	return writeHistory(ctx, httpClient, baseURL, http.MethodPost, "create history", payload)
}

// UpdateHistory moves the last-access date of an existing record.
func UpdateHistory(ctx context.Context, httpClient HTTPClient, baseURL string, payload types.HistoryPayload) (*types.HistoryRecord, error) {
	return writeHistory(ctx, httpClient, baseURL, http.MethodPut, "update history", payload)
}

func writeHistory(ctx context.Context, httpClient HTTPClient, baseURL, method, operation string, payload types.HistoryPayload) (*types.HistoryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req, err := newJSONRequest(ctx, method, endpoint(baseURL, "/articles/history", nil), payload)
	if err != nil {
		return nil, err
	}
	_, body, err := send(httpClient, req, operation)
	if err != nil {
		return nil, err
	}

	entry, err := decodeHistoryEntry(body)
	if err != nil {
		return nil, errors.NewDecodeError(operation, err)
	}
	// Backends that answer with a bare acknowledgement leave fields blank;
	// fall back to what was written.
	if entry.UserID == "" {
		entry.UserID = payload.UserID
	}
	if entry.Topic == "" {
		entry.Topic = payload.Topic
	}
	if entry.Level == "" {
		entry.Level = payload.Level
	}
	if entry.CurrentDate == "" {
		entry.CurrentDate = payload.CurrentDate
	}
	rec, err := entry.Record()
	if err != nil {
		return nil, errors.NewDecodeError(operation, err)
	}
	return &rec, nil
}

// decodeHistoryEntry accepts a record object, a one-element array, or an
// empty body.
func decodeHistoryEntry(body []byte) (types.HistoryEntry, error) {
	var entry types.HistoryEntry
	trimmed := bytes.TrimSpace(body)
	if types.IsEmptyPayload(trimmed) {
		return entry, nil
	}
	if trimmed[0] == '[' {
		var entries []types.HistoryEntry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return entry, err
		}
		return entries[0], nil
	}
	if err := json.Unmarshal(trimmed, &entry); err != nil {
		return entry, err
	}
	return entry, nil
}
