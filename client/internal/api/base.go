package api

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/newsdigest/digestsync/client/internal/errors"
)

var errInvalidJSON = stderrors.New("response is not valid JSON")

// maxResponseBytes bounds how much of a response body is read into memory.
const maxResponseBytes = 8 << 20

// HTTPClient interface for dependency injection; *http.Client satisfies it.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

func endpoint(baseURL, path string, query url.Values) string {
	u := strings.TrimRight(baseURL, "/") + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func newJSONRequest(ctx context.Context, method, url string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// send performs req and returns the status and body. Transport failures and
// non-2xx statuses come back as *errors.ClassifiedError; the status and body
// are still returned for non-2xx so callers can special-case 404.
func send(httpClient HTTPClient, req *http.Request, operation string) (int, []byte, error) {
	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, nil, errors.NewNetworkError(operation, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, errors.NewNetworkError(operation, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, body, errors.NewHTTPError(operation, resp.StatusCode, string(body))
	}
	return resp.StatusCode, body, nil
}
