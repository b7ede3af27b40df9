package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cloudsound/gateway/internal/aggregate"
	"github.com/cloudsound/gateway/internal/auth"
	"github.com/cloudsound/gateway/internal/config"
	"github.com/cloudsound/gateway/internal/handlers"
	"github.com/cloudsound/gateway/internal/logging"
	"github.com/cloudsound/gateway/internal/metrics"
	"github.com/cloudsound/gateway/internal/proxy"
	"github.com/cloudsound/gateway/internal/ratelimit"
	"github.com/cloudsound/gateway/internal/registry"
)

func main() {
	var configPath string
	var validateOnly bool
	flag.StringVar(&configPath, "config", "", "path to optional yaml config (env vars override)")
	flag.BoolVar(&validateOnly, "validate-config", false, "validate config and exit")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logging.New(cfg.Log.Level, cfg.Log.Format)
	if validateOnly {
		log.Info("config ok")
		return
	}

	log.Info("api_gateway_starting",
		slog.String("version", cfg.App.Version),
		slog.String("environment", cfg.App.Environment),
	)

	// ---- Rate limiter backend
	cleanup := time.Duration(cfg.RateLimit.CleanupSeconds) * time.Second
	var limiter ratelimit.Limiter
	switch strings.ToLower(cfg.RateLimit.Backend) {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RateLimit.Redis.Addr,
			Password: cfg.RateLimit.Redis.Password,
			DB:       cfg.RateLimit.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			log.Warn("redis unreachable; falling back to memory limiter", slog.String("error", err.Error()))
			limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.RequestsPerMin, cfg.RateLimit.BurstSize, cleanup)
		} else {
			limiter = ratelimit.NewRedisLimiter(rdb, cfg.RateLimit.RequestsPerMin, cfg.RateLimit.BurstSize, cleanup)
		}
	default:
		limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.RequestsPerMin, cfg.RateLimit.BurstSize, cleanup)
	}
	defer limiter.Close()

	// ---- Shared pieces
	m := metrics.New(cfg.App.Version)
	verifier := auth.NewVerifier([]byte(cfg.Auth.JWTSecret), cfg.Auth.JWTAlgorithm)
	reg := registry.New(cfg.Services.Map())

	transport := proxy.NewTransport(cfg.Proxy)
	fwd := proxy.NewForwarder(log, m, transport, time.Duration(cfg.Proxy.TimeoutSeconds)*time.Second)
	agg := aggregate.New(log, transport, time.Duration(cfg.Aggregate.TimeoutSeconds)*time.Second)

	handler := handlers.Router(handlers.Deps{
		Config:    cfg,
		Log:       log,
		Metrics:   m,
		Verifier:  verifier,
		Limiter:   limiter,
		Registry:  reg,
		Forwarder: fwd,
		Handlers:  handlers.New(cfg, reg, agg, log),
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: time.Duration(cfg.Server.ReadHeaderTimeoutSeconds) * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:       time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
		MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
	}

	go func() {
		log.Info("api_gateway_started", slog.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("api_gateway_shutdown")
}
