package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"parkwise/pkg/common"
)

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// HealthHandler serves /health and /ready.
type HealthHandler struct {
	ready  ReadinessCheck
	logger *zap.Logger
}

func NewHealthHandler(ready ReadinessCheck, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{ready: ready, logger: logger}
}

// Health always answers while the process is up.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Ready runs the readiness check with a short deadline.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.ready(ctx); err != nil {
			h.logger.Warn("Readiness check failed", zap.Error(err))
			common.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
