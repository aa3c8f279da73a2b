// Package gateway mediates every access to the pricing API: it resolves the
// reference month, answers from the cache when it can, spends daily quota
// before any upstream call and caches only successful answers.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/l0p7/fipegate/internal/fipe"
	"github.com/l0p7/fipegate/internal/gateway/cache"
	"github.com/l0p7/fipegate/internal/gateway/quota"
	"github.com/l0p7/fipegate/internal/gateway/upstream"
	"github.com/l0p7/fipegate/internal/metrics"
)

// Metrics is the subset of the recorder the gateway reports to. A nil
// *metrics.Recorder is a valid no-op implementation.
type Metrics interface {
	ObserveLookup(operation string, result metrics.LookupOutcome, duration time.Duration)
	ObserveUpstream(operation, outcome string, duration time.Duration)
	ObserveQuotaDecision(decision string)
	SetQuotaUsage(used, limit int64)
	ObserveCache(operation metrics.CacheOperation, result metrics.CacheResult, duration time.Duration)
	ObserveCacheEvicted(n int64)
}

// Gateway is the public facade. It is safe for concurrent use.
type Gateway struct {
	client  upstream.Client
	cache   cache.Store
	ledger  quota.Ledger
	metrics Metrics
	logger  *slog.Logger
	pacer   *rate.Limiter

	flightTimeout time.Duration
	ttl           atomic.Pointer[cache.TTLPolicy]
	flights       singleflight.Group
	resolver      *Resolver
}

// ClearResult reports an explicit cache clear.
type ClearResult struct {
	Message      string `json:"message"`
	EvictedCount int64  `json:"evictedCount"`
}

// Health summarizes the gateway's shared state.
type Health struct {
	Status       string          `json:"status"`
	CacheEntries int64           `json:"cacheEntries"`
	Quota        fipe.UsageStats `json:"quota"`
}

// New wires a gateway around client. Unset dependencies default to in-memory
// implementations.
func New(client upstream.Client, opts ...Option) (*Gateway, error) {
	if client == nil {
		return nil, errors.New("gateway: upstream client required")
	}
	g := &Gateway{
		client:        client,
		metrics:       (*metrics.Recorder)(nil),
		logger:        slog.Default(),
		flightTimeout: defaultFlightTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.cache == nil {
		g.cache = cache.NewMemory()
	}
	if g.ledger == nil {
		g.ledger = quota.NewMemory(DefaultDailyLimit)
	}
	if g.ttl.Load() == nil {
		policy := cache.DefaultTTLPolicy()
		g.ttl.Store(&policy)
	}
	g.logger = g.logger.With(slog.String("agent", "gateway"))
	g.resolver = NewResolver(g)
	return g, nil
}

// SetTTLPolicy replaces the TTL policy for subsequent cache writes.
func (g *Gateway) SetTTLPolicy(policy cache.TTLPolicy) {
	g.ttl.Store(&policy)
}

// TTLPolicy returns the policy currently applied to cache writes.
func (g *Gateway) TTLPolicy() cache.TTLPolicy {
	return *g.ttl.Load()
}

// Resolve exposes the reference resolver.
func (g *Gateway) Resolve(ctx context.Context, requested string) (fipe.Reference, error) {
	return g.resolver.Resolve(ctx, requested)
}

// GetReferences lists reference months, most recent first.
func (g *Gateway) GetReferences(ctx context.Context) ([]fipe.Reference, error) {
	return lookup(ctx, g, cache.OpReferences, fipe.Query{}, func(ctx context.Context, _ fipe.Query) ([]fipe.Reference, error) {
		refs, err := g.client.FetchReferences(ctx)
		if err != nil {
			return nil, err
		}
		// Every default lookup resolves through this list, so an empty one
		// is an outage and must not be cached.
		if len(refs) == 0 {
			return nil, &fipe.UpstreamError{
				Operation: string(cache.OpReferences),
				Err:       fmt.Errorf("%w: empty reference list", fipe.ErrUpstreamUnavailable),
			}
		}
		return refs, nil
	})
}

// GetBrands lists brands for q.VehicleType.
func (g *Gateway) GetBrands(ctx context.Context, q fipe.Query) ([]fipe.NamedCode, error) {
	q, err := g.prepare(ctx, q, requireVehicleType)
	if err != nil {
		return nil, err
	}
	return lookup(ctx, g, cache.OpBrands, q, listFetch(g.client.FetchBrands))
}

// GetModels lists models for q.VehicleType and q.BrandID.
func (g *Gateway) GetModels(ctx context.Context, q fipe.Query) ([]fipe.NamedCode, error) {
	q, err := g.prepare(ctx, q, requireVehicleType, requireBrand)
	if err != nil {
		return nil, err
	}
	return lookup(ctx, g, cache.OpModels, q, listFetch(g.client.FetchModels))
}

// GetYears lists model years for q.VehicleType, q.BrandID and q.ModelID.
func (g *Gateway) GetYears(ctx context.Context, q fipe.Query) ([]fipe.NamedCode, error) {
	q, err := g.prepare(ctx, q, requireVehicleType, requireBrand, requireModel)
	if err != nil {
		return nil, err
	}
	return lookup(ctx, g, cache.OpYears, q, listFetch(g.client.FetchYears))
}

// GetVehicleInfo prices one vehicle year.
func (g *Gateway) GetVehicleInfo(ctx context.Context, q fipe.Query) (fipe.VehicleInfo, error) {
	q, err := g.prepare(ctx, q, requireVehicleType, requireBrand, requireModel, requireYear)
	if err != nil {
		return fipe.VehicleInfo{}, err
	}
	return lookup(ctx, g, cache.OpVehicleInfo, q, g.client.FetchVehicleInfo)
}

// SearchVehicleByCode prices a vehicle by its FIPE code.
func (g *Gateway) SearchVehicleByCode(ctx context.Context, q fipe.Query) (fipe.VehicleInfo, error) {
	q, err := g.prepare(ctx, q, requireCode)
	if err != nil {
		return fipe.VehicleInfo{}, err
	}
	return lookup(ctx, g, cache.OpByCode, q, g.client.FetchByCode)
}

// HasAvailableCalls reports whether today's quota has budget left. It never
// consumes quota and never reads the cache. A ledger failure reads as false.
func (g *Gateway) HasAvailableCalls(ctx context.Context) bool {
	remaining, err := g.ledger.Remaining(ctx)
	if err != nil {
		g.logger.WarnContext(ctx, "quota remaining failed", slog.String("error", err.Error()))
		return false
	}
	return remaining > 0
}

// UsageStats reads the ledger for the current quota day.
func (g *Gateway) UsageStats(ctx context.Context) (fipe.UsageStats, error) {
	day := g.ledger.Today()
	used, err := g.ledger.UsedToday(ctx)
	if err != nil {
		return fipe.UsageStats{}, fmt.Errorf("%w: %w", fipe.ErrLedgerUnavailable, err)
	}
	limit := g.ledger.DailyLimit()
	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	g.metrics.SetQuotaUsage(used, limit)
	return fipe.UsageStats{
		Date:           day.Date,
		TotalCalls:     used,
		RemainingCalls: remaining,
		RateLimit:      limit,
		ResetsAt:       day.End,
	}, nil
}

// QuotaResetsAt returns when the current quota day ends.
func (g *Gateway) QuotaResetsAt() time.Time {
	return g.ledger.Today().End
}

// ClearCache evicts every cached entry.
func (g *Gateway) ClearCache(ctx context.Context) (ClearResult, error) {
	start := time.Now()
	evicted, err := g.cache.ClearAll(ctx)
	if err != nil {
		g.metrics.ObserveCache(metrics.CacheOperationClear, metrics.CacheError, time.Since(start))
		return ClearResult{}, fmt.Errorf("gateway: clear cache: %w", err)
	}
	g.metrics.ObserveCache(metrics.CacheOperationClear, metrics.CacheOK, time.Since(start))
	g.metrics.ObserveCacheEvicted(evicted)
	g.logger.InfoContext(ctx, "cache cleared", slog.Int64("evicted", evicted))
	return ClearResult{
		Message:      fmt.Sprintf("cache cleared: %d entries evicted", evicted),
		EvictedCount: evicted,
	}, nil
}

// Health reports cache size and quota usage. Status is "degraded" once the
// day's quota is spent.
func (g *Gateway) Health(ctx context.Context) (Health, error) {
	usage, err := g.UsageStats(ctx)
	if err != nil {
		return Health{Status: "unavailable"}, err
	}
	size, err := g.cache.Size(ctx)
	if err != nil {
		return Health{Status: "unavailable", Quota: usage}, fmt.Errorf("gateway: cache size: %w", err)
	}
	status := "ok"
	if usage.RemainingCalls == 0 {
		status = "degraded"
	}
	return Health{Status: status, CacheEntries: size, Quota: usage}, nil
}

// Close releases the cache store.
func (g *Gateway) Close(ctx context.Context) error {
	return g.cache.Close(ctx)
}

type requirement func(q *fipe.Query) error

func requireVehicleType(q *fipe.Query) error {
	vt, err := fipe.ParseVehicleType(string(q.VehicleType))
	if err != nil {
		return err
	}
	q.VehicleType = vt
	return nil
}

func requireField(name string, field func(q *fipe.Query) *string) requirement {
	return func(q *fipe.Query) error {
		v := field(q)
		*v = strings.TrimSpace(*v)
		if *v == "" {
			return fmt.Errorf("%w: %s is required", fipe.ErrInvalidParameter, name)
		}
		return nil
	}
}

var (
	requireBrand = requireField("brand id", func(q *fipe.Query) *string { return &q.BrandID })
	requireModel = requireField("model id", func(q *fipe.Query) *string { return &q.ModelID })
	requireYear  = requireField("year id", func(q *fipe.Query) *string { return &q.YearID })
	requireCode  = requireField("fipe code", func(q *fipe.Query) *string { return &q.CodeFipe })
)

// prepare validates q, rejecting bad input before any cache or quota
// interaction, then resolves the reference.
func (g *Gateway) prepare(ctx context.Context, q fipe.Query, reqs ...requirement) (fipe.Query, error) {
	for _, req := range reqs {
		if err := req(&q); err != nil {
			return fipe.Query{}, err
		}
	}
	ref, err := g.resolver.Resolve(ctx, q.Reference)
	if err != nil {
		return fipe.Query{}, err
	}
	q.Reference = ref.Code
	return q, nil
}

type fetchFunc[T any] func(ctx context.Context, q fipe.Query) (T, error)

func listFetch[E any](fetch fetchFunc[[]E]) fetchFunc[[]E] {
	return func(ctx context.Context, q fipe.Query) ([]E, error) {
		items, err := fetch(ctx, q)
		return nonNil(items), err
	}
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[E any](items []E) []E {
	if items == nil {
		return []E{}
	}
	return items
}

type flightResult struct {
	payload []byte
	cached  bool
}

// lookup runs the cache, quota, upstream decision tree for one operation.
// Concurrent misses on the same key share a single flight; a caller whose
// context ends stops waiting while the flight carries on and fills the cache.
func lookup[T any](ctx context.Context, g *Gateway, op cache.Operation, q fipe.Query, fetch fetchFunc[T]) (T, error) {
	var zero T
	start := time.Now()
	key := cache.NewKey(op, q)
	logger := g.logger.With(slog.String("operation", string(op)), slog.String("cache_key", key.String()))

	recheck := true
	if payload, ok := g.cached(ctx, key, logger); ok {
		var out T
		if err := json.Unmarshal(payload, &out); err == nil {
			logger.DebugContext(ctx, "cache hit")
			g.metrics.ObserveLookup(string(op), metrics.LookupHit, time.Since(start))
			return out, nil
		}
		// The flight must overwrite the entry rather than read it back.
		logger.WarnContext(ctx, "cached entry undecodable, refetching")
		recheck = false
	}

	ch := g.flights.DoChan(key.String(), func() (any, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.flightTimeout)
		defer cancel()
		return g.fill(flightCtx, key, q, recheck, logger, func(ctx context.Context) (any, error) {
			value, err := fetch(ctx, q)
			return value, err
		})
	})

	select {
	case <-ctx.Done():
		g.metrics.ObserveLookup(string(op), metrics.LookupError, time.Since(start))
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			g.metrics.ObserveLookup(string(op), metrics.LookupError, time.Since(start))
			return zero, res.Err
		}
		flight := res.Val.(flightResult)
		var out T
		if err := json.Unmarshal(flight.payload, &out); err != nil {
			g.metrics.ObserveLookup(string(op), metrics.LookupError, time.Since(start))
			return zero, fmt.Errorf("gateway: decode %s: %w", op, err)
		}
		outcome := metrics.LookupMiss
		if flight.cached {
			outcome = metrics.LookupHit
		}
		logger.DebugContext(ctx, "lookup served", slog.String("result", string(outcome)), slog.Bool("shared", res.Shared))
		g.metrics.ObserveLookup(string(op), outcome, time.Since(start))
		return out, nil
	}
}

// fill is the body of a flight: re-check the cache unless told not to, pace,
// spend quota, fetch and store. Failures are never cached and spent quota is
// never refunded.
func (g *Gateway) fill(ctx context.Context, key cache.Key, q fipe.Query, recheck bool, logger *slog.Logger, fetch func(context.Context) (any, error)) (flightResult, error) {
	if recheck {
		if payload, ok := g.cached(ctx, key, logger); ok {
			return flightResult{payload: payload, cached: true}, nil
		}
	}

	if g.pacer != nil {
		if err := g.pacer.Wait(ctx); err != nil {
			return flightResult{}, fmt.Errorf("%w: pacing: %w", fipe.ErrUpstreamUnavailable, err)
		}
	}

	decision, err := g.ledger.TryConsume(ctx)
	if err != nil {
		g.metrics.ObserveQuotaDecision("error")
		logger.WarnContext(ctx, "quota ledger failed", slog.String("error", err.Error()))
		return flightResult{}, fmt.Errorf("%w: %w", fipe.ErrLedgerUnavailable, err)
	}
	g.metrics.ObserveQuotaDecision(decision.String())
	if decision == quota.Denied {
		limit := g.ledger.DailyLimit()
		g.metrics.SetQuotaUsage(limit, limit)
		logger.InfoContext(ctx, "daily quota exhausted", slog.Int64("limit", limit))
		return flightResult{}, fipe.ErrQuotaExhausted
	}

	op := string(key.Operation)
	start := time.Now()
	value, err := fetch(ctx)
	if err != nil {
		err = asUpstreamFailure(op, err)
		g.metrics.ObserveUpstream(op, upstreamOutcome(err), time.Since(start))
		logger.WarnContext(ctx, "upstream lookup failed",
			slog.String("reference", q.Reference),
			slog.String("error", err.Error()),
		)
		return flightResult{}, err
	}
	g.metrics.ObserveUpstream(op, "ok", time.Since(start))

	payload, err := json.Marshal(value)
	if err != nil {
		return flightResult{}, fmt.Errorf("gateway: encode %s: %w", op, err)
	}

	ttl := g.TTLPolicy().For(key.Operation)
	storeStart := time.Now()
	if err := g.cache.Put(ctx, key, payload, ttl); err != nil {
		g.metrics.ObserveCache(metrics.CacheOperationStore, metrics.CacheError, time.Since(storeStart))
		logger.WarnContext(ctx, "cache store failed", slog.String("error", err.Error()))
	} else {
		g.metrics.ObserveCache(metrics.CacheOperationStore, metrics.CacheStored, time.Since(storeStart))
	}
	return flightResult{payload: payload}, nil
}

// cached reads key from the store, degrading store errors to a miss.
func (g *Gateway) cached(ctx context.Context, key cache.Key, logger *slog.Logger) ([]byte, bool) {
	start := time.Now()
	entry, ok, err := g.cache.Get(ctx, key)
	switch {
	case err != nil:
		g.metrics.ObserveCache(metrics.CacheOperationLookup, metrics.CacheError, time.Since(start))
		logger.WarnContext(ctx, "cache lookup failed", slog.String("error", err.Error()))
		return nil, false
	case !ok:
		g.metrics.ObserveCache(metrics.CacheOperationLookup, metrics.CacheMiss, time.Since(start))
		return nil, false
	default:
		g.metrics.ObserveCache(metrics.CacheOperationLookup, metrics.CacheHit, time.Since(start))
		return entry.Value, true
	}
}

// asUpstreamFailure keeps typed failures as they are and wraps anything else
// as an upstream outage.
func asUpstreamFailure(op string, err error) error {
	if errors.Is(err, fipe.ErrUpstreamUnavailable) || errors.Is(err, fipe.ErrNotFound) || fipe.IsClientError(err) {
		return err
	}
	return &fipe.UpstreamError{Operation: op, Err: fmt.Errorf("%w: %w", fipe.ErrUpstreamUnavailable, err)}
}

func upstreamOutcome(err error) string {
	switch {
	case errors.Is(err, fipe.ErrNotFound):
		return "not_found"
	case fipe.IsClientError(err):
		return "rejected"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}
