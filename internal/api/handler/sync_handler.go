package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ornik8/incident-sync/internal/core/domain"
	"github.com/ornik8/incident-sync/internal/core/ports"
)

// SyncHandler manages the remote mirror settings.
type SyncHandler struct {
	service ports.SyncService
}

func NewSyncHandler(service ports.SyncService) *SyncHandler {
	return &SyncHandler{service: service}
}

// Test handles POST /v1/sync/test. A failed probe is a normal 200 answer
// with ok=false and the reason.
//
// @Summary      Test a remote connection
// @Tags         sync
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      remoteSettingsRequest  true  "Remote address and access key"
// @Success      200   {object}  ports.ConnectionResult
// @Failure      400   {object}  errorResponse
// @Router       /v1/sync/test [post]
func (h *SyncHandler) Test(c echo.Context) error {
	var req remoteSettingsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	res := h.service.TestConnection(c.Request().Context(), domain.RemoteSettings{URL: req.URL, AccessKey: req.AccessKey})
	return c.JSON(http.StatusOK, res)
}

// Configure handles PUT /v1/sync/settings. Settings are saved only when the
// connection test passes; otherwise 422 with the reason.
//
// @Summary      Save remote settings
// @Tags         sync
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      remoteSettingsRequest  true  "Remote address and access key"
// @Success      200   {object}  ports.ConnectionResult
// @Failure      422   {object}  ports.ConnectionResult
// @Failure      507   {object}  errorResponse
// @Router       /v1/sync/settings [put]
func (h *SyncHandler) Configure(c echo.Context) error {
	var req remoteSettingsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	res, err := h.service.Configure(c.Request().Context(), domain.RemoteSettings{URL: req.URL, AccessKey: req.AccessKey})
	if err != nil {
		return err
	}
	if !res.OK {
		return c.JSON(http.StatusUnprocessableEntity, res)
	}
	return c.JSON(http.StatusOK, res)
}

// Settings handles GET /v1/sync/settings. The access key is never returned.
//
// @Summary      Current remote settings
// @Tags         sync
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  remoteSettingsResponse
// @Router       /v1/sync/settings [get]
func (h *SyncHandler) Settings(c echo.Context) error {
	s := h.service.Settings()
	return c.JSON(http.StatusOK, remoteSettingsResponse{URL: s.URL, Configured: s.Configured()})
}
