package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Token     TokenConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

// TokenConfig is the full token surface: scheme, two distinct signing
// secrets, algorithm identifier, the shared iss/aud/sub triple, and both
// expiry windows in seconds. Missing secrets are fatal at startup.
type TokenConfig struct {
	Scheme               string `env:"TOKEN_SCHEME,                 default=Bearer"`
	Algorithm            string `env:"TOKEN_ALGORITHM,              default=HS256"`
	AccessSecret         string `env:"ACCESS_TOKEN_SECRET,          required"`
	RefreshSecret        string `env:"REFRESH_TOKEN_SECRET,         required"`
	Issuer               string `env:"TOKEN_ISS,                    default=task-tracker"`
	Audience             string `env:"TOKEN_AUD,                    default=task-tracker-clients"`
	Subject              string `env:"TOKEN_SUB,                    default=session"`
	AccessExpirySeconds  int    `env:"ACCESS_TOKEN_EXPIRY_SECONDS,  default=3600"`
	RefreshExpirySeconds int    `env:"REFRESH_TOKEN_EXPIRY_SECONDS, default=86400"`
}

// AccessTTL returns the access token validity window.
func (t TokenConfig) AccessTTL() time.Duration {
	return time.Duration(t.AccessExpirySeconds) * time.Second
}

// RefreshTTL returns the refresh token validity window.
func (t TokenConfig) RefreshTTL() time.Duration {
	return time.Duration(t.RefreshExpirySeconds) * time.Second
}

type PostgresConfig struct {
	URL string `env:"POSTGRES_URL, default=postgres://localhost:5432/task_tracker"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// RateLimitConfig controls the fixed-window login rate limiter.
type RateLimitConfig struct {
	LoginAttempts int `env:"LOGIN_RATE_LIMIT,       default=10"`
	WindowSeconds int `env:"LOGIN_RATE_WINDOW_SECS, default=60"`
}

// Window returns the rate-limit window duration.
func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
