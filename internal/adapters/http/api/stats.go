package api

import (
	"context"
	"net/http"
)

// StatusProvider reports service readiness and runtime statistics.
type StatusProvider interface {
	// Ready returns nil once the service accepts requests.
	Ready() error
	Stats(ctx context.Context) map[string]any
}

// StatsHandler serves GET /stats.
type StatsHandler struct {
	status StatusProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(status StatusProvider) *StatsHandler {
	return &StatsHandler{status: status}
}

// HandleStats reports counters of the catalogue, the search pool and the memo.
// Stats are served before Start too, with started=false.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.status.Stats(r.Context()))
}
