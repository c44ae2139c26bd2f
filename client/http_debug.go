package client

import (
	"net/http"
	"net/http/httputil"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// debugTransport logs full request/response dumps for troubleshooting backend
// communication.
//
// When to use:
//   - Set DIGEST_DEBUG=true or DEBUG=true environment variable
//   - When a backend answer does not decode or a write seems to go missing
//
// Dumps include bodies (user profiles, history); only enable outside
// production.
type debugTransport struct{ base http.RoundTripper }

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if reqDump, err := httputil.DumpRequestOut(req, true); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Str("request_dump", string(reqDump)).Msg("HTTP request")
	}

	resp, err := dt.base.RoundTrip(req)
	if err != nil {
		log.Error().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("HTTP request failed")
		return nil, err
	}

	if respDump, err := httputil.DumpResponse(resp, true); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Int("status_code", resp.StatusCode).Str("response_dump", string(respDump)).Msg("HTTP response")
	}
	return resp, nil
}

// debugLoggingRequested returns true if DIGEST_DEBUG or DEBUG is set to "true".
func debugLoggingRequested() bool {
	return os.Getenv("DIGEST_DEBUG") == "true" || os.Getenv("DEBUG") == "true"
}

const requestIDHeader = "X-Request-ID"

// requestIDTransport sets X-Request-ID on requests that do not carry one.
type requestIDTransport struct{ base http.RoundTripper }

func (t *requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(requestIDHeader) != "" {
		return t.base.RoundTrip(req)
	}
	// Clone the request to avoid modifying the caller's headers
	cloned := req.Clone(req.Context())
	cloned.Header.Set(requestIDHeader, uuid.NewString())
	return t.base.RoundTrip(cloned)
}
