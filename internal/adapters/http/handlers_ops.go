package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"kitbox/internal/adapters/http/perf"
)

// perfWindow is how far back the perf dashboard aggregates.
const perfWindow = time.Hour

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// handleHealthz reports whether the credential database answers. The upstream API is not probed.
func (a *app) handleHealthz(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	resp := HealthResponse{Status: "ok"}

	if a.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.db.PingContext(ctx); err != nil {
			slog.ErrorContext(r.Context(), "health_check_failed", "error", err)
			status = http.StatusServiceUnavailable
			resp = HealthResponse{Status: "unavailable", Message: "database connection failed"}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// handlePerf renders the slowest pages, upstream endpoints and credential queries of the last hour.
func (a *app) handlePerf(w http.ResponseWriter, r *http.Request) {
	var snap perf.Snapshot
	enabled := a.collector != nil
	if enabled {
		snap = a.collector.Snapshot(time.Now().Add(-perfWindow), 10)
	}
	a.renderTemplate(w, r, "perf.html", map[string]any{
		"Enabled": enabled,
		"Snap":    snap,
		"Window":  perfWindow.String(),
	})
}
