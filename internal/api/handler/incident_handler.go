package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ornik8/incident-sync/internal/core/domain"
	"github.com/ornik8/incident-sync/internal/core/ports"
)

// IncidentHandler serves the incident dashboard and editor.
type IncidentHandler struct {
	service ports.RecordService
}

func NewIncidentHandler(service ports.RecordService) *IncidentHandler {
	return &IncidentHandler{service: service}
}

// List handles GET /v1/incidents.
//
// @Summary      List incidents
// @Tags         incidents
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"
// @Param        q       query     string  false  "Search sequence number, location or driver name"
// @Success      200     {object}  incidentListResponse
// @Router       /v1/incidents [get]
func (h *IncidentHandler) List(c echo.Context) error {
	items := h.service.List(c.Request().Context(), ports.ListIncidentsFilter{
		Status: c.QueryParam("status"),
		Search: c.QueryParam("q"),
	})
	return c.JSON(http.StatusOK, incidentListResponse{Items: items, Total: len(items)})
}

// Create handles POST /v1/incidents.
//
// @Summary      Create an incident report
// @Tags         incidents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      incidentRequest  true  "Status and report body"
// @Success      201   {object}  domain.IncidentRecord
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      507   {object}  errorResponse
// @Router       /v1/incidents [post]
func (h *IncidentHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req incidentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	rec, err := h.service.Create(c.Request().Context(), actor, domain.IncidentStatus(req.Status), req.Payload)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, rec)
}

// Get handles GET /v1/incidents/:id.
//
// @Summary      Get an incident
// @Tags         incidents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Record id"
// @Success      200  {object}  domain.IncidentRecord
// @Failure      404  {object}  errorResponse
// @Router       /v1/incidents/{id} [get]
func (h *IncidentHandler) Get(c echo.Context) error {
	rec, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}

// Update handles PUT /v1/incidents/:id. The whole record is replaced.
//
// @Summary      Save an incident
// @Tags         incidents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Record id"
// @Param        body  body      incidentRequest  true  "Status and report body"
// @Success      200   {object}  domain.IncidentRecord
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      507   {object}  errorResponse
// @Router       /v1/incidents/{id} [put]
func (h *IncidentHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req incidentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	rec, err := h.service.Save(c.Request().Context(), actor, domain.IncidentRecord{
		ID:      c.Param("id"),
		Status:  domain.IncidentStatus(req.Status),
		Payload: req.Payload,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}

// Delete handles DELETE /v1/incidents/:id. The remote copy is kept.
//
// @Summary      Delete an incident locally
// @Tags         incidents
// @Security     BearerAuth
// @Param        id   path  string  true  "Record id"
// @Success      204
// @Failure      507  {object}  errorResponse
// @Router       /v1/incidents/{id} [delete]
func (h *IncidentHandler) Delete(c echo.Context) error {
	if err := h.service.Remove(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Export handles GET /v1/incidents/export and downloads the backup file.
//
// @Summary      Export all incidents
// @Tags         incidents
// @Produce      json
// @Security     BearerAuth
// @Success      200
// @Router       /v1/incidents/export [get]
func (h *IncidentHandler) Export(c echo.Context) error {
	snap, err := h.service.Export(c.Request().Context())
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+snap.Name+`"`)
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, snap.Data)
}
