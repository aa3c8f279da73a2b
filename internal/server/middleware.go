package server

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/l0p7/fipegate/internal/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// withRequestContext echoes or mints the request id, then logs and counts
// every request once it completes.
func withRequestContext(next http.Handler, logger *slog.Logger, recorder *metrics.Recorder, correlationHeader string) http.Handler {
	correlationHeader = strings.TrimSpace(correlationHeader)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := ""
		if correlationHeader != "" {
			requestID = strings.TrimSpace(r.Header.Get(correlationHeader))
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(correlationHeader, requestID)
		}

		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		elapsed := time.Since(start)

		route := routeLabel(r.Pattern)
		recorder.ObserveHTTP(route, r.Method, rec.status, elapsed)

		attrs := []slog.Attr{
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("route", route),
			slog.Int("status", rec.status),
			slog.Float64("latency_ms", float64(elapsed)/float64(time.Millisecond)),
		}
		if requestID != "" {
			attrs = append(attrs, slog.String("request_id", requestID))
		}
		logger.LogAttrs(r.Context(), slog.LevelInfo, "request served", attrs...)
	})
}

// routeLabel drops the method from a mux pattern so metrics group by path
// template. Unmatched requests share one label.
func routeLabel(pattern string) string {
	if pattern == "" {
		return "unmatched"
	}
	if _, path, ok := strings.Cut(pattern, " "); ok {
		return path
	}
	return pattern
}
