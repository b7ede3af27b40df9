package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	App       AppConfig       `yaml:"app"`
	Log       LogConfig       `yaml:"log"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Proxy     ProxyConfig     `yaml:"proxy"`
	Aggregate AggregateConfig `yaml:"aggregate"`
	Services  ServicesConfig  `yaml:"services"`
}

type ServerConfig struct {
	Addr                     string `yaml:"addr"`
	MaxHeaderBytes           int    `yaml:"max_header_bytes"`
	MaxBodyBytes             int64  `yaml:"max_body_bytes"`
	ReadTimeoutSeconds       int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds      int    `yaml:"write_timeout_seconds"`
	IdleTimeoutSeconds       int    `yaml:"idle_timeout_seconds"`
	ReadHeaderTimeoutSeconds int    `yaml:"read_header_timeout_seconds"`
}

type AppConfig struct {
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type AuthConfig struct {
	JWTSecret    string `yaml:"jwt_secret"`
	JWTAlgorithm string `yaml:"jwt_algorithm"`
}

type RateLimitConfig struct {
	Backend        string      `yaml:"backend"` // "memory" | "redis"
	RequestsPerMin int         `yaml:"requests_per_minute"`
	BurstSize      int         `yaml:"burst_size"`
	CleanupSeconds int         `yaml:"cleanup_seconds"`
	Redis          RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type ProxyConfig struct {
	TimeoutSeconds               int `yaml:"timeout_seconds"`
	DialTimeoutSeconds           int `yaml:"dial_timeout_seconds"`
	TLSHandshakeTimeoutSeconds   int `yaml:"tls_handshake_timeout_seconds"`
	ResponseHeaderTimeoutSeconds int `yaml:"response_header_timeout_seconds"`
	IdleConnTimeoutSeconds       int `yaml:"idle_conn_timeout_seconds"`
	MaxIdleConns                 int `yaml:"max_idle_conns"`
	MaxIdleConnsPerHost          int `yaml:"max_idle_conns_per_host"`
}

type AggregateConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// ServicesConfig holds the backend base URL for every registered service.
type ServicesConfig struct {
	Radio     string `yaml:"radio"`
	Concerts  string `yaml:"concerts"`
	Auth      string `yaml:"auth"`
	Analytics string `yaml:"analytics"`
	Discovery string `yaml:"discovery"`
	Events    string `yaml:"events"`
	Admin     string `yaml:"admin"`
}

// Map returns the service name -> base URL mapping.
func (s ServicesConfig) Map() map[string]string {
	return map[string]string{
		"radio":     s.Radio,
		"concerts":  s.Concerts,
		"auth":      s.Auth,
		"analytics": s.Analytics,
		"discovery": s.Discovery,
		"events":    s.Events,
		"admin":     s.Admin,
	}
}

// Load reads the optional YAML file at path, layers environment variables on
// top, applies defaults, and validates. An empty path means env-only.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	envStr(&cfg.Server.Addr, "GATEWAY_ADDR")
	envStr(&cfg.App.Version, "APP_VERSION")
	envStr(&cfg.App.Environment, "ENVIRONMENT")
	envStr(&cfg.Log.Level, "LOG_LEVEL")
	envStr(&cfg.Log.Format, "LOG_FORMAT")

	envStr(&cfg.Auth.JWTSecret, "JWT_SECRET")
	envStr(&cfg.Auth.JWTAlgorithm, "JWT_ALGORITHM")

	envStr(&cfg.RateLimit.Backend, "RATE_LIMIT_BACKEND")
	envInt(&cfg.RateLimit.RequestsPerMin, "RATE_LIMIT_RPM")
	envInt(&cfg.RateLimit.BurstSize, "RATE_LIMIT_BURST")
	envInt(&cfg.RateLimit.CleanupSeconds, "RATE_LIMIT_CLEANUP")
	envStr(&cfg.RateLimit.Redis.Addr, "REDIS_ADDR")
	envStr(&cfg.RateLimit.Redis.Password, "REDIS_PASSWORD")
	envInt(&cfg.RateLimit.Redis.DB, "REDIS_DB")

	envInt(&cfg.Proxy.TimeoutSeconds, "PROXY_TIMEOUT")
	envInt(&cfg.Aggregate.TimeoutSeconds, "AGGREGATE_TIMEOUT")

	envStr(&cfg.Services.Radio, "RADIO_STREAMING_URL")
	envStr(&cfg.Services.Concerts, "CONCERT_MANAGEMENT_URL")
	envStr(&cfg.Services.Auth, "AUTHENTICATION_URL")
	envStr(&cfg.Services.Analytics, "ANALYTICS_URL")
	envStr(&cfg.Services.Discovery, "MUSIC_DISCOVERY_URL")
	envStr(&cfg.Services.Events, "EVENT_MANAGER_URL")
	envStr(&cfg.Services.Admin, "ADMIN_MANAGEMENT_URL")
}

func envStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8000"
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = 1 << 20 // 1 MiB
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 10 << 20 // 10 MiB
	}
	if cfg.Server.ReadHeaderTimeoutSeconds == 0 {
		cfg.Server.ReadHeaderTimeoutSeconds = 5
	}
	if cfg.Server.ReadTimeoutSeconds == 0 {
		cfg.Server.ReadTimeoutSeconds = 15
	}
	if cfg.Server.WriteTimeoutSeconds == 0 {
		cfg.Server.WriteTimeoutSeconds = 60
	}
	if cfg.Server.IdleTimeoutSeconds == 0 {
		cfg.Server.IdleTimeoutSeconds = 60
	}

	if cfg.App.Version == "" {
		cfg.App.Version = "1.0.0"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}

	if cfg.Auth.JWTAlgorithm == "" {
		cfg.Auth.JWTAlgorithm = "HS256"
	}

	if cfg.RateLimit.Backend == "" {
		cfg.RateLimit.Backend = "memory"
	}
	if cfg.RateLimit.RequestsPerMin == 0 {
		cfg.RateLimit.RequestsPerMin = 100
	}
	if cfg.RateLimit.BurstSize == 0 {
		cfg.RateLimit.BurstSize = 20
	}
	if cfg.RateLimit.CleanupSeconds == 0 {
		cfg.RateLimit.CleanupSeconds = 300
	}

	if cfg.Proxy.TimeoutSeconds == 0 {
		cfg.Proxy.TimeoutSeconds = 30
	}
	if cfg.Proxy.DialTimeoutSeconds == 0 {
		cfg.Proxy.DialTimeoutSeconds = 5
	}
	if cfg.Proxy.TLSHandshakeTimeoutSeconds == 0 {
		cfg.Proxy.TLSHandshakeTimeoutSeconds = 5
	}
	if cfg.Proxy.ResponseHeaderTimeoutSeconds == 0 {
		cfg.Proxy.ResponseHeaderTimeoutSeconds = 15
	}
	if cfg.Proxy.IdleConnTimeoutSeconds == 0 {
		cfg.Proxy.IdleConnTimeoutSeconds = 90
	}
	if cfg.Proxy.MaxIdleConns == 0 {
		cfg.Proxy.MaxIdleConns = 256
	}
	if cfg.Proxy.MaxIdleConnsPerHost == 0 {
		cfg.Proxy.MaxIdleConnsPerHost = 64
	}

	if cfg.Aggregate.TimeoutSeconds == 0 {
		cfg.Aggregate.TimeoutSeconds = 5
	}

	applyServiceDefaults(&cfg.Services)
}

func applyServiceDefaults(s *ServicesConfig) {
	defaults := []struct {
		dst *string
		url string
	}{
		{&s.Radio, "http://radio-streaming:8000"},
		{&s.Concerts, "http://concert-management:8000"},
		{&s.Auth, "http://authentication:8000"},
		{&s.Analytics, "http://analytics:8000"},
		{&s.Discovery, "http://music-discovery:8000"},
		{&s.Events, "http://event-manager:8000"},
		{&s.Admin, "http://admin-management:8000"},
	}
	for _, d := range defaults {
		if *d.dst == "" {
			*d.dst = d.url
		}
	}
}

func Validate(cfg *Config) error {
	if cfg.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return fmt.Errorf("auth.jwt_secret (JWT_SECRET) is required")
	}
	switch cfg.Auth.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("auth.jwt_algorithm must be one of HS256, HS384, HS512")
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.RateLimit.Backend))
	if backend != "memory" && backend != "redis" {
		return fmt.Errorf("rate_limit.backend must be 'memory' or 'redis'")
	}
	if backend == "redis" && strings.TrimSpace(cfg.RateLimit.Redis.Addr) == "" {
		return fmt.Errorf("rate_limit.redis.addr (REDIS_ADDR) is required when backend is redis")
	}
	if cfg.RateLimit.RequestsPerMin <= 0 {
		return fmt.Errorf("rate_limit.requests_per_minute must be > 0")
	}
	if cfg.RateLimit.BurstSize <= 0 {
		return fmt.Errorf("rate_limit.burst_size must be > 0")
	}
	if cfg.RateLimit.CleanupSeconds <= 0 {
		return fmt.Errorf("rate_limit.cleanup_seconds must be > 0")
	}
	if cfg.Proxy.TimeoutSeconds <= 0 {
		return fmt.Errorf("proxy.timeout_seconds must be > 0")
	}
	if cfg.Aggregate.TimeoutSeconds <= 0 {
		return fmt.Errorf("aggregate.timeout_seconds must be > 0")
	}

	for name, raw := range cfg.Services.Map() {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("services.%s: invalid base url %q", name, raw)
		}
	}
	return nil
}
