// Package config loads digestctl settings from DIGEST_* environment variables
// and sets up logging.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/newsdigest/digestsync/client"
)

// Config holds the CLI configuration.
// Environment variables are parsed with the DIGEST_ prefix, e.g. DIGEST_API_URL.
type Config struct {
	APIURL      string        `envconfig:"API_URL" default:"http://localhost:8000"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`

	// Profile registered when the backend has none for UserID.
	UserID   string `envconfig:"USER_ID"`
	UserName string `envconfig:"USER_NAME" default:"John Doe"`
	Level    string `envconfig:"LEVEL" default:"Intermediate"`
	JoinDate string `envconfig:"JOIN_DATE"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// New parses the environment and resolves defaults.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("DIGEST", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ResolveDefaults validates the level and generates a user id when none is set.
func (c *Config) ResolveDefaults() error {
	if c.APIURL == "" {
		return fmt.Errorf("DIGEST_API_URL cannot be empty")
	}
	if _, err := client.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("DIGEST_LEVEL: %w", err)
	}
	if c.JoinDate != "" {
		if _, err := time.Parse("2006-01-02", c.JoinDate); err != nil {
			return fmt.Errorf("DIGEST_JOIN_DATE must be YYYY-MM-DD: %w", err)
		}
	}
	if c.UserID == "" {
		c.UserID = uuid.NewString()
		log.Warn().Str("user_id", c.UserID).Msg("DIGEST_USER_ID not set, using a fresh id; set it to reuse this profile")
	}
	return nil
}

// Profile returns the seed profile described by the configuration.
func (c *Config) Profile() client.UserProfile {
	level, _ := client.ParseLevel(c.Level)
	joined := time.Now().UTC().Truncate(24 * time.Hour)
	if t, err := time.Parse("2006-01-02", c.JoinDate); err == nil {
		joined = t
	}
	return client.UserProfile{
		ID:          c.UserID,
		DisplayName: c.UserName,
		Level:       level,
		JoinDate:    joined,
	}
}

// ZerologLevel maps LogLevel onto zerolog, defaulting to info.
func (c *Config) ZerologLevel() zerolog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Init initializes logging and reports the effective configuration.
func (c *Config) Init() {
	InitLogger()
	SetLogLevel(c.ZerologLevel())

	log.Debug().
		Str("api_url", c.APIURL).
		Str("user_id", c.UserID).
		Str("level", c.Level).
		Dur("http_timeout", c.HTTPTimeout).
		Msg("Configuration loaded")
}
