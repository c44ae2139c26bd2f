package client

// This file defines functional options that configure the Client during
// construction. Keeping them in a standalone file avoids cluttering
// client.go and makes it easy to discover all available knobs at a glance.

import (
	"fmt"
	"net/http"
	"time"

	"github.com/newsdigest/digestsync/client/internal/shardqueue"
)

// Option configures a Client during construction in New.
//
// Options are applied in order; transport wrappers installed later sit on top
// of earlier ones. Options must be deterministic and side-effect free.
type Option func(*Client) error

// WithHTTPTimeout sets the underlying http.Client Timeout used by the SDK.
//
// Prefer per-request context deadlines where possible; this timeout bounds the
// total time spent on a single HTTP request. The value must be greater than
// zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.Timeout = d
		return nil
	}
}

// WithHTTPClient bases every backend call on a copy of hc. Later options
// adjust the copy, so hc itself (http.DefaultClient included) is never changed.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		cp := *hc
		c.http = &cp
		return nil
	}
}

// WithDebugLogging wraps the client's transport so each request/response is
// logged when enabled is true. Do not enable this option in production; dumps
// include full bodies.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if enabled {
			if _, already := c.http.Transport.(*debugTransport); !already {
				c.http.Transport = &debugTransport{base: baseTransport(c.http.Transport)}
			}
		}
		return nil
	}
}

// WithRequestIDs tags every outgoing request with a fresh X-Request-ID header
// so backend logs can be correlated with client logs.
func WithRequestIDs() Option {
	return func(c *Client) error {
		c.http.Transport = &requestIDTransport{base: baseTransport(c.http.Transport)}
		return nil
	}
}

// WithExecutorConfig overrides the persistence executor settings that are
// otherwise read from DIGEST_SQ_* environment variables.
func WithExecutorConfig(cfg shardqueue.Config) Option {
	return func(c *Client) error {
		if cfg.Shards < 0 || cfg.QueueSize < 0 || cfg.MaxAttempts < 0 {
			return fmt.Errorf("executor config values must be >= 0")
		}
		c.execCfg = &cfg
		return nil
	}
}

func baseTransport(rt http.RoundTripper) http.RoundTripper {
	if rt == nil {
		return http.DefaultTransport
	}
	return rt
}
