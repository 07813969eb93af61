package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected default config to be valid, got error: %v", err)
	}
	if cfg.Server.Address != ":4000" {
		t.Errorf("expected default address :4000, got %q", cfg.Server.Address)
	}
	if cfg.Presence.StaleThreshold != 10*time.Second {
		t.Errorf("expected default stale threshold 10s, got %v", cfg.Presence.StaleThreshold)
	}
	if cfg.Presence.SweepInterval != 5*time.Second {
		t.Errorf("expected default sweep interval 5s, got %v", cfg.Presence.SweepInterval)
	}
	if cfg.Postgres.Enabled || cfg.Redis.Enabled {
		t.Error("expected remote stores to be disabled by default")
	}
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("expected defaults for missing file, got error: %v", err)
	}
	if cfg.Server.Address != ":4000" {
		t.Errorf("expected default address, got %q", cfg.Server.Address)
	}
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  address: ":9999"
presence:
  stale_threshold: 20s
auth:
  jwt_secret: "file-secret"
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected config to load, got error: %v", err)
	}
	if cfg.Server.Address != ":9999" {
		t.Errorf("expected address from file, got %q", cfg.Server.Address)
	}
	if cfg.Presence.StaleThreshold != 20*time.Second {
		t.Errorf("expected stale threshold from file, got %v", cfg.Presence.StaleThreshold)
	}
	if cfg.Auth.JWTSecret != "file-secret" {
		t.Errorf("expected secret from file, got %q", cfg.Auth.JWTSecret)
	}
	// Untouched fields keep their defaults.
	if cfg.Presence.SweepInterval != 5*time.Second {
		t.Errorf("expected default sweep interval, got %v", cfg.Presence.SweepInterval)
	}
}

func TestLoad_InvalidFileRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  address: ""
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for empty server address, got nil")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("BOARDSYNC_SERVER_ADDRESS", ":7777")
	t.Setenv("BOARDSYNC_LOG_LEVEL", "debug")
	t.Setenv("BOARDSYNC_JWT_SECRET", "env-secret")
	t.Setenv("BOARDSYNC_REDIS_ADDRESS", "redis.internal:6379")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("expected config to load, got error: %v", err)
	}

	if cfg.Server.Address != ":7777" {
		t.Errorf("expected env address, got %q", cfg.Server.Address)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected env log level, got %q", cfg.Logging.Level)
	}
	if cfg.Auth.JWTSecret != "env-secret" {
		t.Errorf("expected env secret, got %q", cfg.Auth.JWTSecret)
	}
	if !cfg.Redis.Enabled || cfg.Redis.Address != "redis.internal:6379" {
		t.Errorf("expected redis enabled via env, got enabled=%v address=%q", cfg.Redis.Enabled, cfg.Redis.Address)
	}
}

func TestValidate_RateLimitingDisabled_AllowsZeroValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimiting.Enabled = false
	// Zero out rate limiting values to ensure they are ignored when disabled.
	cfg.RateLimiting.HTTP.RequestsPerSecond = 0
	cfg.RateLimiting.HTTP.Burst = 0
	cfg.RateLimiting.WebSocket.MessagesPerSecond = 0
	cfg.RateLimiting.WebSocket.Burst = 0
	cfg.RateLimiting.WebSocket.MaxMessageSizeBytes = 0

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected config to be valid when rate limiting disabled, got error: %v", err)
	}
}

func TestValidate_InvalidValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name: "empty server address",
			mutate: func(c *Config) {
				c.Server.Address = ""
			},
		},
		{
			name: "non-positive ping interval",
			mutate: func(c *Config) {
				c.Realtime.PingInterval = 0
			},
		},
		{
			name: "non-positive stale threshold",
			mutate: func(c *Config) {
				c.Presence.StaleThreshold = 0
			},
		},
		{
			name: "non-positive sweep interval",
			mutate: func(c *Config) {
				c.Presence.SweepInterval = -time.Second
			},
		},
		{
			name: "empty jwt secret",
			mutate: func(c *Config) {
				c.Auth.JWTSecret = ""
			},
		},
		{
			name: "postgres enabled without url",
			mutate: func(c *Config) {
				c.Postgres.Enabled = true
				c.Postgres.URL = ""
			},
		},
		{
			name: "redis enabled without address",
			mutate: func(c *Config) {
				c.Redis.Enabled = true
				c.Redis.Address = ""
			},
		},
		{
			name: "http rps must be > 0",
			mutate: func(c *Config) {
				c.RateLimiting.Enabled = true
				c.RateLimiting.HTTP.RequestsPerSecond = 0
			},
		},
		{
			name: "ws burst must be > 0",
			mutate: func(c *Config) {
				c.RateLimiting.Enabled = true
				c.RateLimiting.WebSocket.Burst = 0
			},
		},
		{
			name: "ws max message size must be >= 0",
			mutate: func(c *Config) {
				c.RateLimiting.Enabled = true
				c.RateLimiting.WebSocket.MaxMessageSizeBytes = -1
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)

			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error for case %q, got nil", tc.name)
			}
		})
	}
}
