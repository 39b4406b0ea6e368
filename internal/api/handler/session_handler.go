package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ornik8/incident-sync/internal/core/domain"
	"github.com/ornik8/incident-sync/internal/core/ports"
)

// TokenIssuer signs an API token for a freshly opened session.
type TokenIssuer func(s *domain.Session) (string, error)

type SessionHandler struct {
	sessions ports.SessionService
	issue    TokenIssuer
}

func NewSessionHandler(sessions ports.SessionService, issue TokenIssuer) *SessionHandler {
	return &SessionHandler{sessions: sessions, issue: issue}
}

// Login opens the device session for an operator.
//
// @Summary      Log in to a portal
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Username and portal"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      507   {object}  errorResponse
// @Router       /v1/session/login [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	account, err := h.sessions.Login(ctx, req.Username, domain.Role(req.Portal))
	if err != nil {
		return err
	}
	session, err := h.sessions.Current(ctx)
	if err != nil {
		return err
	}
	token, err := h.issue(session)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{Token: token, Account: account, Session: session})
}

// Logout ends the device session.
//
// @Summary      Log out
// @Tags         session
// @Security     BearerAuth
// @Success      204
// @Failure      507  {object}  errorResponse
// @Router       /v1/session/logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	if err := h.sessions.Logout(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Current returns the active session.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  domain.Session
// @Failure      401  {object}  errorResponse
// @Router       /v1/session [get]
func (h *SessionHandler) Current(c echo.Context) error {
	s, err := h.sessions.Current(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}
