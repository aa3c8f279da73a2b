package server

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/l0p7/fipegate/internal/fipe"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// classify maps a facade error onto a status and a stable error code. Quota
// exhaustion is checked before upstream unavailability because a failed
// default-reference lookup wraps both.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, fipe.ErrInvalidVehicleType):
		return http.StatusBadRequest, "invalid_vehicle_type"
	case errors.Is(err, fipe.ErrInvalidParameter):
		return http.StatusBadRequest, "invalid_parameter"
	case errors.Is(err, fipe.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, fipe.ErrQuotaExhausted):
		return http.StatusTooManyRequests, "quota_exhausted"
	case errors.Is(err, fipe.ErrLedgerUnavailable):
		return http.StatusServiceUnavailable, "ledger_unavailable"
	case errors.Is(err, fipe.ErrUpstreamUnavailable):
		return http.StatusBadGateway, "upstream_unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	message := err.Error()
	switch status {
	case http.StatusTooManyRequests:
		message = "daily upstream quota exhausted"
		w.Header().Set("Retry-After", strconv.Itoa(h.retryAfterSeconds()))
	case http.StatusInternalServerError:
		message = "internal error"
	}

	level := slog.LevelInfo
	if status >= http.StatusInternalServerError {
		level = slog.LevelWarn
	}
	h.logger.Log(r.Context(), level, "request failed",
		slog.String("code", code),
		slog.Int("status", status),
		slog.String("error", err.Error()),
	)
	writeJSON(w, h.logger, status, errorBody{Error: message, Code: code})
}

// retryAfterSeconds counts whole seconds until the quota day rolls over.
func (h *handler) retryAfterSeconds() int {
	wait := h.facade.QuotaResetsAt().Sub(h.now())
	seconds := int(math.Ceil(wait.Seconds()))
	if seconds < 1 {
		return 1
	}
	return seconds
}
