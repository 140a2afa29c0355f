package api

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// healthTimeout — сколько ждём ответа хранилища.
const healthTimeout = 2 * time.Second

// HealthResponse — тело ответа /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// Health проверяет доступность хранилища.
//
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /healthz [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.Svc.Health == nil {
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.Svc.Health.Ping(ctx); err != nil {
		h.Log.Warn("health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
