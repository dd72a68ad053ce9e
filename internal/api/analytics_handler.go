package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/service"
)

// AnalyticsHandler serves the admin dashboard snapshot.
type AnalyticsHandler struct {
	analytics service.AnalyticsService
	logger    *slog.Logger
}

// NewAnalyticsHandler creates an AnalyticsHandler.
func NewAnalyticsHandler(analytics service.AnalyticsService, log *slog.Logger) *AnalyticsHandler {
	if analytics == nil {
		panic("analytics service cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &AnalyticsHandler{
		analytics: analytics,
		logger:    log.With(slog.String("component", "analytics_handler")),
	}
}

// Snapshot handles GET /api/admin/analytics.
func (h *AnalyticsHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	snap, err := h.analytics.Snapshot(r.Context(), actor)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, snap)
}
