package gateway

import (
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/l0p7/fipegate/internal/gateway/cache"
	"github.com/l0p7/fipegate/internal/gateway/quota"
)

// DefaultDailyLimit matches the pricing API's free plan.
const DefaultDailyLimit = 500

const defaultFlightTimeout = 10 * time.Second

// Option configures a Gateway.
type Option func(*Gateway)

// WithCache sets the cache store (default: in-memory).
func WithCache(store cache.Store) Option {
	return func(g *Gateway) {
		if store != nil {
			g.cache = store
		}
	}
}

// WithLedger sets the quota ledger (default: in-memory with DefaultDailyLimit).
func WithLedger(ledger quota.Ledger) Option {
	return func(g *Gateway) {
		if ledger != nil {
			g.ledger = ledger
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(g *Gateway) {
		if m != nil {
			g.metrics = m
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithTTLPolicy sets the initial TTL policy.
func WithTTLPolicy(policy cache.TTLPolicy) Option {
	return func(g *Gateway) { g.ttl.Store(&policy) }
}

// WithPacer throttles upstream calls. The limiter is waited on before quota is
// spent.
func WithPacer(limiter *rate.Limiter) Option {
	return func(g *Gateway) { g.pacer = limiter }
}

// WithFlightTimeout bounds a coalesced miss, including pacing, quota and the
// upstream round-trip. It is independent of any single caller's deadline.
func WithFlightTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.flightTimeout = d
		}
	}
}
