// internal/handlers/stats.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/invenda/inventory-be/internal/core/ports"
)

// StatsHandler serves the inventory-wide aggregate snapshot
type StatsHandler struct {
	service ports.StatsService
	logger  *slog.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(service ports.StatsService, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "stats")),
	}
}

// GetStats handles GET /api/stats. Aggregates are computed fresh on
// every call.
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.service.Summary(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to compute stats",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}

	h.respondJSON(w, http.StatusOK, stats)
}

func (h *StatsHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *StatsHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
