package adminserver

import (
	"log/slog"
	"net/http"

	"github.com/yndnr/respkv/internal/infra/buildinfo"
	"github.com/yndnr/respkv/internal/telemetry/metric"
)

// RouterConfig holds what the admin routes serve.
type RouterConfig struct {
	// Metrics is exposed on /metrics. Required.
	Metrics *metric.Registry
	// Health reports an error when the server should be considered down.
	// Nil means always healthy.
	Health func() error
	Logger *slog.Logger
}

// NewRouter builds the admin handler.
func NewRouter(cfg *RouterConfig) http.Handler {
	l := cfg.Logger
	if l == nil {
		l = slog.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Health != nil {
			if err := cfg.Health(); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unavailable",
					"error":  err.Error(),
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", cfg.Metrics.Handler())
	mux.HandleFunc("GET /version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, buildinfo.Get())
	})

	return Chain(mux, RequestID(), AccessLog(l), Recover(l))
}
