package api

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/redact"
)

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

const healthCheckTimeout = 2 * time.Second

// HealthHandler serves GET /health.
type HealthHandler struct {
	checks map[string]HealthCheck
	logger *slog.Logger
}

// NewHealthHandler creates a HealthHandler running the named checks.
func NewHealthHandler(checks map[string]HealthCheck, log *slog.Logger) *HealthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &HealthHandler{
		checks: checks,
		logger: log.With(slog.String("component", "health_handler")),
	}
}

// Health reports "healthy" when every check passes, otherwise 503 with the
// failing checks named.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := HealthResponse{Status: "healthy"}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			logger.FromContextOrDefault(r.Context(), h.logger).Warn("health check failed",
				slog.String("check", name),
				slog.String("error", redact.Error(err)))
			resp.Failing = append(resp.Failing, name)
		}
	}

	status := http.StatusOK
	if len(resp.Failing) > 0 {
		resp.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	}
	shared.RespondWithJSON(w, r, status, resp)
}
