package config

import (
	"errors"
	"strings"

	"github.com/watchhubtv/watchhub/internal/pkg/env"
)

const defaultPayPalSandboxURL = "https://api-m.sandbox.paypal.com"

// PayPalConfig holds the payment provider credentials and endpoint.
type PayPalConfig struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	Enabled      bool
}

// OMDbConfig holds the movie metadata provider settings.
type OMDbConfig struct {
	APIKey  string
	BaseURL string
}

// AppConfig is resolved once at process start and injected into the
// components that need it. Missing provider credentials fail here,
// not per-request.
type AppConfig struct {
	PayPal PayPalConfig
	OMDb   OMDbConfig
}

// Load resolves configuration from the environment.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		PayPal: PayPalConfig{
			ClientID:     strings.TrimSpace(env.GetEnv("PAYPAL_CLIENT_ID", "")),
			ClientSecret: strings.TrimSpace(env.GetEnv("PAYPAL_CLIENT_SECRET", "")),
			BaseURL:      strings.TrimRight(env.GetEnv("PAYPAL_BASE_URL", defaultPayPalSandboxURL), "/"),
			Enabled:      env.GetEnv("PAYPAL_ENABLED", "true") == "true",
		},
		OMDb: OMDbConfig{
			APIKey:  strings.TrimSpace(env.GetEnv("OMDB_API_KEY", "")),
			BaseURL: strings.TrimRight(env.GetEnv("OMDB_BASE_URL", "https://www.omdbapi.com"), "/"),
		},
	}

	if cfg.PayPal.Enabled {
		if cfg.PayPal.ClientID == "" {
			return nil, errors.New("PAYPAL_CLIENT_ID is required when PayPal billing is enabled")
		}
		if cfg.PayPal.ClientSecret == "" {
			return nil, errors.New("PAYPAL_CLIENT_SECRET is required when PayPal billing is enabled")
		}
	}

	return cfg, nil
}
