// Package config loads all process-wide configuration from the environment
// into one immutable struct.
//
// Everything downstream (handlers, services, the Judge0 client) receives its
// configuration through this struct at startup; nothing reads os.Getenv at
// request time. That keeps the execution proxy and auth wiring testable with
// fakes: tests construct a Config literal and never touch the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds server configuration. Zero values mean "feature disabled" for
// the optional blocks (OAuth providers, Judge0 gateway headers).
type Config struct {
	Port   int
	DBPath string

	// Session signing.
	SessionSecret string
	SessionTTL    time.Duration

	// Remote execution backend (Judge0). BaseURL is required for /api/execute
	// to work; APIKey and HostHeader are only needed behind a gateway such as
	// RapidAPI and are sent as X-RapidAPI-Key / X-RapidAPI-Host when set.
	Judge0 Judge0Config

	// OAuth providers, each enabled only when both ClientID and ClientSecret
	// are present. Their absence must not affect credentials login.
	GitHub OAuthConfig
	Google OAuthConfig

	// BaseURL of this server, used to build OAuth callback URLs.
	BaseURL string
}

type Judge0Config struct {
	BaseURL    string
	APIKey     string
	HostHeader string
}

type OAuthConfig struct {
	ClientID     string
	ClientSecret string
}

// Enabled reports whether the provider is fully configured.
func (o OAuthConfig) Enabled() bool {
	return o.ClientID != "" && o.ClientSecret != ""
}

// Load reads configuration from the environment. It does not fail on missing
// optional values; required-at-use values (Judge0 URL, session secret) are
// checked where they are consumed so the server can still start degraded.
func Load() (Config, error) {
	cfg := Config{
		Port:          8080,
		DBPath:        "data/oncode.db",
		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionTTL:    24 * time.Hour,
		Judge0: Judge0Config{
			BaseURL:    os.Getenv("JUDGE0_API_URL"),
			APIKey:     os.Getenv("JUDGE0_API_KEY"),
			HostHeader: os.Getenv("JUDGE0_HOST_HEADER"),
		},
		GitHub: OAuthConfig{
			ClientID:     os.Getenv("GITHUB_CLIENT_ID"),
			ClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		},
		Google: OAuthConfig{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		},
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid PORT %q: %w", portStr, err)
		}
		cfg.Port = port
	}

	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		cfg.DBPath = dbPath
	}

	if ttlStr := os.Getenv("SESSION_TTL"); ttlStr != "" {
		ttl, err := time.ParseDuration(ttlStr)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid SESSION_TTL %q: %w", ttlStr, err)
		}
		cfg.SessionTTL = ttl
	}

	cfg.BaseURL = os.Getenv("BASE_URL")
	if cfg.BaseURL == "" {
		cfg.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}

	return cfg, nil
}
