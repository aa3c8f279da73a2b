package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/l0p7/fipegate/internal/config"
	"github.com/l0p7/fipegate/internal/gateway/cache"
	"github.com/l0p7/fipegate/internal/logging"
	"github.com/l0p7/fipegate/internal/metrics"
	"github.com/l0p7/fipegate/internal/server"
)

type configWatcher interface {
	Stop()
}

type configLoader interface {
	Load(ctx context.Context) (config.Config, error)
	Watch(ctx context.Context, onChange func(config.Config), onError func(error)) (configWatcher, error)
}

type runnableServer interface {
	Run(ctx context.Context) error
}

type fileLoader struct {
	*config.Loader
}

func (l fileLoader) Watch(ctx context.Context, onChange func(config.Config), onError func(error)) (configWatcher, error) {
	return l.Loader.Watch(ctx, onChange, onError)
}

var (
	newConfigLoader = func(envPrefix, path string) configLoader {
		return fileLoader{config.NewLoader(envPrefix, path)}
	}
	newHTTPServer = func(cfg config.Config, logger *slog.Logger, handler http.Handler) (runnableServer, error) {
		return server.New(cfg, logger, handler)
	}
)

func main() {
	var (
		configFile = flag.String("config", "", "path to configuration file (yaml, json or toml)")
		envPrefix  = flag.String("env-prefix", config.DefaultEnvPrefix, "environment variable prefix")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *envPrefix, *configFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, envPrefix, configFile string) error {
	loader := newConfigLoader(envPrefix, configFile)
	cfg, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger, err := logging.New(cfg.Server.Logging)
	if err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}

	recorder := metrics.NewRecorder(prometheus.NewRegistry())

	store := buildCache(logger.With(slog.String("agent", "cache_factory")), cfg.Cache)

	ledger, closeLedger, err := buildLedger(ctx, logger.With(slog.String("agent", "quota_factory")), cfg.Quota)
	if err != nil {
		_ = store.Close(context.Background())
		return fmt.Errorf("build quota ledger: %w", err)
	}
	defer closeLedger()

	gw, err := buildGateway(cfg, logger, recorder, store, ledger)
	if err != nil {
		_ = store.Close(context.Background())
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := gw.Close(shutdownCtx); err != nil {
			logger.Error("cache shutdown failed", slog.Any("error", err))
		}
	}()

	if cfg.Watch && cfg.Source != "" {
		watcher, err := loader.Watch(ctx, func(next config.Config) {
			applyReload(logger, gw, ledger, next)
		}, func(err error) {
			logger.Error("config watcher error", slog.Any("error", err))
		})
		if err != nil {
			logger.Error("config watcher setup failed", slog.Any("error", err))
		} else {
			defer watcher.Stop()
		}
	}

	handler := server.NewHandler(gw, server.HandlerOptions{
		Logger:            logger,
		Metrics:           recorder,
		CorrelationHeader: cfg.Server.Logging.CorrelationHeader,
	})

	srv, err := newHTTPServer(cfg, logger, handler)
	if err != nil {
		return fmt.Errorf("construct server: %w", err)
	}

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server terminated: %w", err)
	}

	logger.Info("server shutdown complete")
	return nil
}

// reloadTarget is the part of the gateway a config reload may touch.
type reloadTarget interface {
	SetTTLPolicy(policy cache.TTLPolicy)
}

type dailyLimitSetter interface {
	SetDailyLimit(limit int64)
}

// applyReload pushes the live-tunable settings from a reloaded config. Every
// other field needs a restart.
func applyReload(logger *slog.Logger, gw reloadTarget, ledger dailyLimitSetter, cfg config.Config) {
	policy, err := ttlPolicy(cfg.Cache.TTL)
	if err != nil {
		logger.Error("config reload rejected", slog.Any("error", err))
		return
	}
	gw.SetTTLPolicy(policy)
	ledger.SetDailyLimit(cfg.Quota.DailyLimit)
	logger.Info("config reloaded",
		slog.Int64("daily_limit", cfg.Quota.DailyLimit),
		slog.Duration("ttl_references", policy.References),
		slog.Duration("ttl_catalog", policy.Catalog),
		slog.Duration("ttl_price", policy.Price),
	)
}
