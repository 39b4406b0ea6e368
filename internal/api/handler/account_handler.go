package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ornik8/incident-sync/internal/core/domain"
	"github.com/ornik8/incident-sync/internal/core/ports"
)

// AccountHandler is the administrator's operator management.
type AccountHandler struct {
	service ports.AccountService
}

func NewAccountHandler(service ports.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// List handles GET /v1/accounts.
//
// @Summary      List accounts
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  accountListResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/accounts [get]
func (h *AccountHandler) List(c echo.Context) error {
	items := h.service.List(c.Request().Context())
	return c.JSON(http.StatusOK, accountListResponse{Items: items, Total: len(items)})
}

// Create handles POST /v1/accounts.
//
// @Summary      Create an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      accountRequest  true  "Account"
// @Success      201   {object}  domain.Account
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/accounts [post]
func (h *AccountHandler) Create(c echo.Context) error {
	var req accountRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	acc, err := h.service.Save(c.Request().Context(), req.toAccount(""))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, acc)
}

// Update handles PUT /v1/accounts/:id.
//
// @Summary      Update an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Account id"
// @Param        body  body      accountRequest  true  "Account"
// @Success      200   {object}  domain.Account
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/accounts/{id} [put]
func (h *AccountHandler) Update(c echo.Context) error {
	var req accountRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	id := c.Param("id")
	if _, err := h.service.Get(ctx, id); err != nil {
		return err
	}
	acc, err := h.service.Save(ctx, req.toAccount(id))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, acc)
}

// Delete handles DELETE /v1/accounts/:id.
//
// @Summary      Delete an account
// @Tags         accounts
// @Security     BearerAuth
// @Param        id   path  string  true  "Account id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Router       /v1/accounts/{id} [delete]
func (h *AccountHandler) Delete(c echo.Context) error {
	if err := h.service.Remove(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Toggle handles POST /v1/accounts/:id/toggle.
//
// @Summary      Activate or deactivate an account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Account id"
// @Success      200  {object}  domain.Account
// @Failure      404  {object}  errorResponse
// @Router       /v1/accounts/{id}/toggle [post]
func (h *AccountHandler) Toggle(c echo.Context) error {
	acc, err := h.service.ToggleActive(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if acc == nil {
		return domain.ErrAccountNotFound
	}
	return c.JSON(http.StatusOK, acc)
}

func (r accountRequest) toAccount(id string) domain.Account {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return domain.Account{
		ID:       id,
		FullName: strings.TrimSpace(r.FullName),
		Username: r.Username,
		Role:     domain.Role(r.Role),
		State:    r.State,
		Locality: r.Locality,
		IsActive: active,
	}
}
