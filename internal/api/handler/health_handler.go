package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ornik8/incident-sync/internal/core/ports"
)

// HealthHandler serves GET /health (liveness) and GET /health/ready.
type HealthHandler struct {
	kv   ports.KV
	sync ports.SyncService
}

func NewHealthHandler(kv ports.KV, sync ports.SyncService) *HealthHandler {
	return &HealthHandler{kv: kv, sync: sync}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness checks the local medium and, when configured, the remote mirror.
// Only the local medium gates readiness; an unreachable remote is reported as
// degraded because the device keeps working offline.
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus, 2)
	status, code := "ok", http.StatusOK

	if err := h.kv.Ping(ctx); err != nil {
		deps["local_store"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		status, code = "unavailable", http.StatusServiceUnavailable
	} else {
		deps["local_store"] = dependencyStatus{Status: "ok"}
	}

	switch {
	case h.sync == nil || !h.sync.Settings().Configured():
		deps["remote"] = dependencyStatus{Status: "disabled"}
	default:
		if err := h.sync.Probe(ctx); err != nil {
			deps["remote"] = dependencyStatus{Status: "unreachable", Error: err.Error()}
			if code == http.StatusOK {
				status = "degraded"
			}
		} else {
			deps["remote"] = dependencyStatus{Status: "ok"}
		}
	}

	return c.JSON(code, readinessResponse{Status: status, Dependencies: deps, CheckedAt: time.Now().UTC()})
}
