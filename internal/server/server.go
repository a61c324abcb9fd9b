// internal/server/server.go
//
// Operational HTTP surface and hardened http.Server construction.
//
// Context
// -------
// The endpoint exposes the standard Dockerflow trio plus Prometheus:
//
//   • /__lbheartbeat__ – load-balancer liveness, always 200.
//   • /__heartbeat__   – pings the database; 200 when healthy, 503 when not.
//   • /__version__     – build metadata as JSON.
//   • /metrics         – Prometheus registry.
//
// Production hardening on the server itself:
//
//   • ReadTimeout   – abort slow-loris headers (10 s)
//   • WriteTimeout  – cap total response time (15 s)
//   • IdleTimeout   – close keep-alives on idle clients (60 s)

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mozilla-services/autoendpoint/internal/metrics"
)

// Pinger is the slice of the database pool the heartbeat needs.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// VersionInfo is served verbatim on /__version__.
type VersionInfo struct {
	Source  string `json:"source"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Build   string `json:"build"`
}

// Router builds the operational endpoint surface.
func Router(db Pinger, version VersionInfo) http.Handler {
	r := chi.NewRouter()

	r.Get("/__lbheartbeat__", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("{}"))
	})

	r.Get("/__heartbeat__", func(w http.ResponseWriter, req *http.Request) {
		metrics.HeartbeatTotal.Inc()
		w.Header().Set("Content-Type", "application/json")

		ctx, cancel := context.WithTimeout(req.Context(), 5*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			metrics.HeartbeatFailuresTotal.Inc()
			zap.S().Errorw("heartbeat database ping failed", "err", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "database": err.Error()})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "database": "ok"})
	})

	r.Get("/__version__", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(version)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// New constructs an *http.Server with sensible defaults.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
