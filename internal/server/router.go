package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/l0p7/fipegate/internal/fipe"
	"github.com/l0p7/fipegate/internal/gateway"
	"github.com/l0p7/fipegate/internal/metrics"
)

// Facade is the gateway surface the HTTP layer exposes.
type Facade interface {
	GetReferences(ctx context.Context) ([]fipe.Reference, error)
	GetBrands(ctx context.Context, q fipe.Query) ([]fipe.NamedCode, error)
	GetModels(ctx context.Context, q fipe.Query) ([]fipe.NamedCode, error)
	GetYears(ctx context.Context, q fipe.Query) ([]fipe.NamedCode, error)
	GetVehicleInfo(ctx context.Context, q fipe.Query) (fipe.VehicleInfo, error)
	SearchVehicleByCode(ctx context.Context, q fipe.Query) (fipe.VehicleInfo, error)
	HasAvailableCalls(ctx context.Context) bool
	UsageStats(ctx context.Context) (fipe.UsageStats, error)
	QuotaResetsAt() time.Time
	ClearCache(ctx context.Context) (gateway.ClearResult, error)
	Health(ctx context.Context) (gateway.Health, error)
}

// HandlerOptions carries the HTTP layer's ambient dependencies. Every field is
// optional.
type HandlerOptions struct {
	Logger            *slog.Logger
	Metrics           *metrics.Recorder
	CorrelationHeader string
	Now               func() time.Time
}

type handler struct {
	facade  Facade
	logger  *slog.Logger
	metrics *metrics.Recorder
	now     func() time.Time
}

// NewHandler routes the JSON API onto the facade and wraps it with request
// ids, access logging and HTTP metrics.
func NewHandler(facade Facade, opts HandlerOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("agent", "http"))
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	if facade == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, logger, http.StatusServiceUnavailable, errorBody{Error: "gateway unavailable"})
		})
	}

	h := &handler{facade: facade, logger: logger, metrics: opts.Metrics, now: now}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /fipe/references", h.references)
	mux.HandleFunc("GET /fipe/search", h.search)
	mux.HandleFunc("GET /fipe/usage", h.usage)
	mux.HandleFunc("GET /fipe/available", h.available)
	mux.HandleFunc("POST /fipe/cache/clear", h.clearCache)
	mux.HandleFunc("GET /fipe/{vehicleType}/brands", h.brands)
	mux.HandleFunc("GET /fipe/{vehicleType}/brands/{brandId}/models", h.models)
	mux.HandleFunc("GET /fipe/{vehicleType}/brands/{brandId}/models/{modelId}/years", h.years)
	mux.HandleFunc("GET /fipe/{vehicleType}/brands/{brandId}/models/{modelId}/years/{yearId}", h.vehicleInfo)
	mux.HandleFunc("GET /healthz", h.health)
	mux.Handle("GET /metrics", opts.Metrics.Handler())

	return withRequestContext(mux, logger, opts.Metrics, opts.CorrelationHeader)
}

func queryFrom(r *http.Request) fipe.Query {
	return fipe.Query{
		VehicleType: fipe.VehicleType(r.PathValue("vehicleType")),
		BrandID:     r.PathValue("brandId"),
		ModelID:     r.PathValue("modelId"),
		YearID:      r.PathValue("yearId"),
		Reference:   r.URL.Query().Get("reference"),
	}
}

func (h *handler) references(w http.ResponseWriter, r *http.Request) {
	refs, err := h.facade.GetReferences(r.Context())
	h.respond(w, r, refs, err)
}

func (h *handler) brands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.facade.GetBrands(r.Context(), queryFrom(r))
	h.respond(w, r, brands, err)
}

func (h *handler) models(w http.ResponseWriter, r *http.Request) {
	models, err := h.facade.GetModels(r.Context(), queryFrom(r))
	h.respond(w, r, models, err)
}

func (h *handler) years(w http.ResponseWriter, r *http.Request) {
	years, err := h.facade.GetYears(r.Context(), queryFrom(r))
	h.respond(w, r, years, err)
}

func (h *handler) vehicleInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.facade.GetVehicleInfo(r.Context(), queryFrom(r))
	h.respond(w, r, info, err)
}

func (h *handler) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	info, err := h.facade.SearchVehicleByCode(r.Context(), fipe.Query{
		CodeFipe:  q.Get("code"),
		Reference: q.Get("reference"),
	})
	h.respond(w, r, info, err)
}

func (h *handler) usage(w http.ResponseWriter, r *http.Request) {
	stats, err := h.facade.UsageStats(r.Context())
	h.respond(w, r, stats, err)
}

func (h *handler) available(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, map[string]bool{"available": h.facade.HasAvailableCalls(r.Context())})
}

func (h *handler) clearCache(w http.ResponseWriter, r *http.Request) {
	result, err := h.facade.ClearCache(r.Context())
	h.respond(w, r, result, err)
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	report, err := h.facade.Health(r.Context())
	if err != nil {
		h.logger.WarnContext(r.Context(), "health check failed", slog.String("error", err.Error()))
		writeJSON(w, h.logger, http.StatusServiceUnavailable, report)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, report)
}

func (h *handler) respond(w http.ResponseWriter, r *http.Request, payload any, err error) {
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, payload)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("response encode failed", slog.Any("error", err))
	}
}
