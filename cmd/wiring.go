package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/l0p7/fipegate/internal/config"
	"github.com/l0p7/fipegate/internal/gateway"
	"github.com/l0p7/fipegate/internal/gateway/cache"
	"github.com/l0p7/fipegate/internal/gateway/quota"
	"github.com/l0p7/fipegate/internal/gateway/upstream"
	"github.com/l0p7/fipegate/internal/metrics"
)

// buildCache returns the configured store. A redis store that cannot be
// constructed falls back to memory.
func buildCache(logger *slog.Logger, cfg config.CacheConfig) cache.Store {
	backend := strings.TrimSpace(strings.ToLower(cfg.Backend))
	switch backend {
	case "", "memory":
		logger.Info("using memory cache")
		return cache.NewMemory()
	case "redis":
		store, err := cache.NewRedis(cache.RedisConfig{
			Address:   cfg.Redis.Address,
			Username:  cfg.Redis.Username,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			Namespace: cfg.Namespace,
			TLS: cache.RedisTLSConfig{
				Enabled: cfg.Redis.TLS.Enabled,
				CAFile:  cfg.Redis.TLS.CAFile,
			},
		})
		if err != nil {
			logger.Error("redis cache initialization failed", slog.Any("error", err))
			logger.Info("falling back to memory cache")
			return cache.NewMemory()
		}
		logger.Info("using redis cache", slog.String("address", cfg.Redis.Address))
		return store
	default:
		logger.Warn("unsupported cache backend, defaulting to memory", slog.String("backend", cfg.Backend))
		return cache.NewMemory()
	}
}

// buildLedger returns the configured ledger and its release func. Networked
// ledgers must be reachable at startup and never fall back to memory.
func buildLedger(ctx context.Context, logger *slog.Logger, cfg config.QuotaConfig) (quota.Ledger, func(), error) {
	opts := []quota.Option{}
	if tz := strings.TrimSpace(cfg.Timezone); tz != "" {
		opts = append(opts, quota.WithLocation(quota.ProviderLocation(tz)))
	}

	switch strings.TrimSpace(strings.ToLower(cfg.Backend)) {
	case "", "memory":
		logger.Info("using memory quota ledger", slog.Int64("daily_limit", cfg.DailyLimit))
		return quota.NewMemory(cfg.DailyLimit, opts...), func() {}, nil
	case "redis":
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("quota redis ping: %w", err)
		}
		opts = append(opts, quota.WithKeyPrefix(cfg.Redis.KeyPrefix))
		logger.Info("using redis quota ledger", slog.String("address", cfg.Redis.Address), slog.Int64("daily_limit", cfg.DailyLimit))
		return quota.NewRedis(client, cfg.DailyLimit, opts...), func() { _ = client.Close() }, nil
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("quota postgres pool: %w", err)
		}
		opts = append(opts, quota.WithTablePrefix(cfg.Postgres.TablePrefix))
		ledger := quota.NewPostgres(pool, cfg.DailyLimit, opts...)
		if err := ledger.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		pruned, err := ledger.Prune(ctx)
		if err != nil {
			logger.Warn("quota prune failed", slog.Any("error", err))
		}
		logger.Info("using postgres quota ledger", slog.Int64("daily_limit", cfg.DailyLimit), slog.Int64("pruned_days", pruned))
		return ledger, pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported quota backend %q", cfg.Backend)
	}
}

func buildGateway(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder, store cache.Store, ledger quota.Ledger) (*gateway.Gateway, error) {
	timeout, err := cfg.UpstreamTimeout()
	if err != nil {
		return nil, err
	}
	client, err := upstream.NewHTTP(cfg.Upstream.BaseURL,
		upstream.WithToken(cfg.Upstream.Token),
		upstream.WithTimeout(timeout),
		upstream.WithRoutes(upstream.Routes{
			References:  cfg.Upstream.Routes.References,
			Brands:      cfg.Upstream.Routes.Brands,
			Models:      cfg.Upstream.Routes.Models,
			Years:       cfg.Upstream.Routes.Years,
			VehicleInfo: cfg.Upstream.Routes.VehicleInfo,
			ByCode:      cfg.Upstream.Routes.ByCode,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("build upstream client: %w", err)
	}

	policy, err := ttlPolicy(cfg.Cache.TTL)
	if err != nil {
		return nil, err
	}

	opts := []gateway.Option{
		gateway.WithCache(store),
		gateway.WithLedger(ledger),
		gateway.WithMetrics(recorder),
		gateway.WithLogger(logger),
		gateway.WithTTLPolicy(policy),
	}
	if pacer := buildPacer(cfg.Upstream); pacer != nil {
		opts = append(opts, gateway.WithPacer(pacer))
	}
	// A flight covers pacing plus one upstream round-trip.
	if timeout > 0 {
		opts = append(opts, gateway.WithFlightTimeout(2*timeout))
	}
	return gateway.New(client, opts...)
}

// buildPacer returns nil when pacing is disabled.
func buildPacer(cfg config.UpstreamConfig) *rate.Limiter {
	if cfg.RatePerSecond <= 0 {
		return nil
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
}

func ttlPolicy(cfg config.CacheTTLConfig) (cache.TTLPolicy, error) {
	return cache.ParseTTLPolicy(
		strings.TrimSpace(cfg.References),
		strings.TrimSpace(cfg.Catalog),
		strings.TrimSpace(cfg.Price),
	)
}
