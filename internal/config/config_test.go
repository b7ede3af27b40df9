package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadEnvOnlyDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Addr != ":8000" {
		t.Fatalf("addr = %q", cfg.Server.Addr)
	}
	if cfg.RateLimit.Backend != "memory" || cfg.RateLimit.RequestsPerMin != 100 || cfg.RateLimit.BurstSize != 20 {
		t.Fatalf("rate limit defaults wrong: %+v", cfg.RateLimit)
	}
	if cfg.RateLimit.CleanupSeconds != 300 {
		t.Fatalf("cleanup = %d", cfg.RateLimit.CleanupSeconds)
	}
	if cfg.Proxy.TimeoutSeconds != 30 || cfg.Aggregate.TimeoutSeconds != 5 {
		t.Fatalf("timeout defaults wrong: proxy=%d aggregate=%d", cfg.Proxy.TimeoutSeconds, cfg.Aggregate.TimeoutSeconds)
	}
	if cfg.Auth.JWTAlgorithm != "HS256" {
		t.Fatalf("algorithm = %q", cfg.Auth.JWTAlgorithm)
	}
	if cfg.Services.Radio != "http://radio-streaming:8000" {
		t.Fatalf("radio default = %q", cfg.Services.Radio)
	}
	if len(cfg.Services.Map()) != 7 {
		t.Fatalf("expected 7 services, got %d", len(cfg.Services.Map()))
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("GATEWAY_ADDR", ":9090")
	t.Setenv("RATE_LIMIT_RPM", "30")
	t.Setenv("RATE_LIMIT_BURST", "5")
	t.Setenv("RADIO_STREAMING_URL", "http://localhost:8101")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Fatalf("addr = %q", cfg.Server.Addr)
	}
	if cfg.RateLimit.RequestsPerMin != 30 || cfg.RateLimit.BurstSize != 5 {
		t.Fatalf("rate limit overrides lost: %+v", cfg.RateLimit)
	}
	if cfg.Services.Radio != "http://localhost:8101" {
		t.Fatalf("radio = %q", cfg.Services.Radio)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log level = %q", cfg.Log.Level)
	}
}

func TestLoadFileWithEnvOnTop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gateway.yaml")
	doc := `
server:
  addr: ":7070"
auth:
  jwt_secret: file-secret
rate_limit:
  requests_per_minute: 40
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RATE_LIMIT_RPM", "55")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Addr != ":7070" {
		t.Fatalf("addr = %q, want file value", cfg.Server.Addr)
	}
	if cfg.Auth.JWTSecret != "file-secret" {
		t.Fatalf("secret = %q", cfg.Auth.JWTSecret)
	}
	if cfg.RateLimit.RequestsPerMin != 55 {
		t.Fatalf("env must win over file, got %d", cfg.RateLimit.RequestsPerMin)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{"missing secret", func(c *Config) { c.Auth.JWTSecret = "" }, "jwt_secret"},
		{"bad algorithm", func(c *Config) { c.Auth.JWTAlgorithm = "RS256" }, "jwt_algorithm"},
		{"bad backend", func(c *Config) { c.RateLimit.Backend = "memcached" }, "backend"},
		{"redis without addr", func(c *Config) { c.RateLimit.Backend = "redis" }, "redis.addr"},
		{"zero rpm", func(c *Config) { c.RateLimit.RequestsPerMin = -1 }, "requests_per_minute"},
		{"zero burst", func(c *Config) { c.RateLimit.BurstSize = -1 }, "burst_size"},
		{"bad service url", func(c *Config) { c.Services.Events = "not a url" }, "services.events"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{Auth: AuthConfig{JWTSecret: "s"}}
			applyDefaults(cfg)
			tc.mutate(cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("error %q does not mention %q", err, tc.wantSub)
			}
		})
	}
}
