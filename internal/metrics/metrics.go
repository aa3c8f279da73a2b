package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fipegate"

// LookupOutcome captures how a gateway lookup was answered.
type LookupOutcome string

const (
	// LookupHit indicates the answer came from the cache.
	LookupHit LookupOutcome = "hit"
	// LookupMiss indicates the answer was fetched from the upstream.
	LookupMiss LookupOutcome = "miss"
	// LookupError indicates the lookup failed.
	LookupError LookupOutcome = "error"
)

// CacheOperation identifies the cache method being instrumented.
type CacheOperation string

const (
	CacheOperationLookup CacheOperation = "lookup"
	CacheOperationStore  CacheOperation = "store"
	CacheOperationClear  CacheOperation = "clear"
)

// CacheResult captures the result of a cache operation.
type CacheResult string

const (
	CacheHit    CacheResult = "hit"
	CacheMiss   CacheResult = "miss"
	CacheStored CacheResult = "stored"
	CacheOK     CacheResult = "ok"
	CacheError  CacheResult = "error"
)

// Recorder publishes Prometheus metrics for gateway activity.
type Recorder struct {
	gatherer prometheus.Gatherer
	handler  http.Handler

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	lookups       *prometheus.CounterVec
	lookupLatency *prometheus.HistogramVec

	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec

	quotaDecisions *prometheus.CounterVec
	quotaUsed      prometheus.Gauge
	quotaLimit     prometheus.Gauge

	cacheOperations *prometheus.CounterVec
	cacheLatency    *prometheus.HistogramVec
	cacheEvicted    prometheus.Counter
}

// NewRecorder constructs a Prometheus-backed Recorder. When reg is nil a dedicated
// registry is created so multiple recorders can coexist without conflicting with
// the global default registerer.
func NewRecorder(reg *prometheus.Registry) *Recorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	reg.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	r := &Recorder{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests served, by route and status.",
		}, []string{"route", "method", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency distribution for served HTTP requests.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"route"}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "lookups_total",
			Help:      "Gateway lookups by operation and how they were answered.",
		}, []string{"operation", "result"}),
		lookupLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "lookup_duration_seconds",
			Help:      "Latency distribution for gateway lookups, by answer source.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"operation", "source"}),
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Round-trips issued to the pricing API.",
		}, []string{"operation", "outcome"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Latency distribution for pricing API round-trips.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"operation"}),
		quotaDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "quota",
			Name:      "decisions_total",
			Help:      "Quota ledger consume decisions.",
		}, []string{"decision"}),
		quotaUsed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "quota",
			Name:      "used",
			Help:      "Upstream calls spent in the current quota day.",
		}),
		quotaLimit: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "quota",
			Name:      "limit",
			Help:      "Configured daily upstream call limit.",
		}),
		cacheOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "operations_total",
			Help:      "Cache store operations executed by the gateway.",
		}, []string{"operation", "result"}),
		cacheLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "operation_duration_seconds",
			Help:      "Latency distribution for cache store operations.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}, []string{"operation", "result"}),
		cacheEvicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "evicted_entries_total",
			Help:      "Entries removed by explicit cache clears.",
		}),
	}

	reg.MustRegister(
		r.httpRequests, r.httpLatency,
		r.lookups, r.lookupLatency,
		r.upstreamRequests, r.upstreamLatency,
		r.quotaDecisions, r.quotaUsed, r.quotaLimit,
		r.cacheOperations, r.cacheLatency, r.cacheEvicted,
	)

	r.gatherer = reg
	r.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	return r
}

// Handler exposes the Prometheus HTTP handler for the recorder's registry.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "metrics unavailable", http.StatusServiceUnavailable)
		})
	}
	return r.handler
}

// Gatherer returns the underlying Prometheus gatherer for tests and advanced
// integrations.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.gatherer
}

// ObserveHTTP records a served request.
func (r *Recorder) ObserveHTTP(route, method string, statusCode int, duration time.Duration) {
	if r == nil {
		return
	}
	routeLabel := normalizeLabel(route)
	statusLabel := strconv.Itoa(statusCode)
	if statusCode <= 0 {
		statusLabel = "unknown"
	}
	r.httpRequests.WithLabelValues(routeLabel, normalizeLabel(method), statusLabel).Inc()
	r.httpLatency.WithLabelValues(routeLabel).Observe(duration.Seconds())
}

// ObserveLookup records a completed gateway lookup. Hits are timed under the
// cache source, everything else under upstream.
func (r *Recorder) ObserveLookup(operation string, result LookupOutcome, duration time.Duration) {
	if r == nil {
		return
	}
	opLabel := normalizeLabel(operation)
	resultLabel := string(result)
	if resultLabel == "" {
		resultLabel = string(LookupError)
	}
	source := "upstream"
	if result == LookupHit {
		source = "cache"
	}
	r.lookups.WithLabelValues(opLabel, resultLabel).Inc()
	r.lookupLatency.WithLabelValues(opLabel, source).Observe(duration.Seconds())
}

// ObserveUpstream records one pricing API round-trip.
func (r *Recorder) ObserveUpstream(operation, outcome string, duration time.Duration) {
	if r == nil {
		return
	}
	opLabel := normalizeLabel(operation)
	r.upstreamRequests.WithLabelValues(opLabel, normalizeLabel(outcome)).Inc()
	r.upstreamLatency.WithLabelValues(opLabel).Observe(duration.Seconds())
}

// ObserveQuotaDecision records a ledger decision (allowed, denied or error).
func (r *Recorder) ObserveQuotaDecision(decision string) {
	if r == nil {
		return
	}
	r.quotaDecisions.WithLabelValues(normalizeLabel(decision)).Inc()
}

// SetQuotaUsage publishes the ledger's current day usage.
func (r *Recorder) SetQuotaUsage(used, limit int64) {
	if r == nil {
		return
	}
	r.quotaUsed.Set(float64(used))
	r.quotaLimit.Set(float64(limit))
}

// ObserveCache records a cache store operation.
func (r *Recorder) ObserveCache(operation CacheOperation, result CacheResult, duration time.Duration) {
	if r == nil {
		return
	}
	opLabel := string(operation)
	if opLabel == "" {
		opLabel = string(CacheOperationLookup)
	}
	resLabel := normalizeLabel(string(result))
	r.cacheOperations.WithLabelValues(opLabel, resLabel).Inc()
	r.cacheLatency.WithLabelValues(opLabel, resLabel).Observe(duration.Seconds())
}

// ObserveCacheEvicted adds entries removed by a cache clear.
func (r *Recorder) ObserveCacheEvicted(n int64) {
	if r == nil || n <= 0 {
		return
	}
	r.cacheEvicted.Add(float64(n))
}

func normalizeLabel(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "unknown"
	}
	return trimmed
}
