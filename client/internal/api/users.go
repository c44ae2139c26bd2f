package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/newsdigest/digestsync/client/internal/errors"
	"github.com/newsdigest/digestsync/client/internal/types"
)

// GetUser fetches a profile. A 404 or an empty body yields types.ErrNotFound.
func GetUser(ctx context.Context, httpClient HTTPClient, baseURL, userID string) (*types.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// Client-side validation omitted; server is the authority
	u := endpoint(baseURL, "/user", url.Values{"id": {userID}})
	req, err := newJSONRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	status, body, err := send(httpClient, req, "get user")
	if status == http.StatusNotFound {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if types.IsEmptyPayload(body) {
		return nil, types.ErrNotFound
	}

	var ur types.UserResponse
	if err := json.Unmarshal(body, &ur); err != nil {
		return nil, errors.NewDecodeError("get user", err)
	}
	p, err := ur.Profile()
	if err != nil {
		return nil, errors.NewDecodeError("get user", err)
	}
	return &p, nil
}

// CreateUser registers a new profile.
func CreateUser(ctx context.Context, httpClient HTTPClient, baseURL string, p types.UserProfile) error {
	return writeUser(ctx, httpClient, baseURL, http.MethodPost, "create user", p)
}

// UpdateUser overwrites the remote profile with p.
func UpdateUser(ctx context.Context, httpClient HTTPClient, baseURL string, p types.UserProfile) error {
	return writeUser(ctx, httpClient, baseURL, http.MethodPut, "update user", p)
}

func writeUser(ctx context.Context, httpClient HTTPClient, baseURL, method, operation string, p types.UserProfile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	req, err := newJSONRequest(ctx, method, endpoint(baseURL, "/user", nil), types.NewUserPayload(p))
	if err != nil {
		return err
	}
	_, _, err = send(httpClient, req, operation)
	return err
}
