package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/newsdigest/digestsync/client/internal/errors"
	"github.com/newsdigest/digestsync/client/internal/types"
)

// GetDate reads the shared reference date.
func GetDate(ctx context.Context, httpClient HTTPClient, baseURL string) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	req, err := newJSONRequest(ctx, http.MethodGet, endpoint(baseURL, "/date", nil), nil)
	if err != nil {
		return time.Time{}, err
	}
	_, body, err := send(httpClient, req, "get date")
	if err != nil {
		return time.Time{}, err
	}

	var dp types.DatePayload
	if err := json.Unmarshal(body, &dp); err != nil {
		return time.Time{}, errors.NewDecodeError("get date", err)
	}
	t, err := types.ParseISOTime(dp.CurrentDate)
	if err != nil {
		return time.Time{}, errors.NewDecodeError("get date", err)
	}
	return t, nil
}

// PutDate writes the shared reference date as an ISO-8601 string.
func PutDate(ctx context.Context, httpClient HTTPClient, baseURL string, date time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload := types.DatePayload{CurrentDate: types.FormatISOTime(date)}
	req, err := newJSONRequest(ctx, http.MethodPut, endpoint(baseURL, "/date", nil), payload)
	if err != nil {
		return err
	}
	_, _, err = send(httpClient, req, "put date")
	return err
}
