package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/closet/pkg/metrics"
)

// HealthHandler serves liveness, readiness and the metrics exposition.
type HealthHandler struct {
	status  StatusProvider
	metrics http.Handler
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(status StatusProvider) *HealthHandler {
	return &HealthHandler{
		status:  status,
		metrics: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

// HandleHealth handles GET /healthz: the process is alive, and the body is the
// Prometheus exposition of the closet registry.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}

// HandleReady handles GET /readyz: 200 once the service is started, 503 before.
func (h *HealthHandler) HandleReady(w http.ResponseWriter, _ *http.Request) {
	if err := h.status.Ready(); err != nil {
		writeError(w, Wrap("api.ready", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
