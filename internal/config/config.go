package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	AppPort  string `env:"APP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Durable token storage. Empty address selects the in-process store.
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	// TokenSecret signs issued tokens. Empty means a random per-process key.
	TokenSecret string `env:"TOKEN_SECRET"`

	CookieSecure   bool `env:"COOKIE_SECURE" envDefault:"true"`
	SessionRestore bool `env:"SESSION_RESTORE" envDefault:"false"`

	// Empty DSN disables password login and registration.
	DatabaseDSN string `env:"DATABASE_DSN"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL"`

	KeycloakIssuer        string `env:"KEYCLOAK_ISSUER"`
	KeycloakClientID      string `env:"KEYCLOAK_CLIENT_ID"`
	KeycloakRedirectURL   string `env:"KEYCLOAK_REDIRECT_URL"`
	KeycloakPublicBaseURL string `env:"KEYCLOAK_PUBLIC_BASE_URL"`
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c Config) GoogleEnabled() bool {
	return c.GoogleClientID != ""
}

func (c Config) KeycloakEnabled() bool {
	return c.KeycloakIssuer != ""
}
