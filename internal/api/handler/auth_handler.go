package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/corebank/portal-gateway/internal/api/middleware"
	"github.com/corebank/portal-gateway/internal/core/domain"
	"github.com/corebank/portal-gateway/internal/core/ports"
	"github.com/corebank/portal-gateway/internal/core/service"
	"github.com/corebank/portal-gateway/internal/pkg/metrics"
)

type AuthHandler struct {
	sessions ports.SessionService
}

func NewAuthHandler(sessions ports.SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// Login authenticates against the bank and opens a session partition.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, session, err := h.sessions.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.SessionEventsTotal.WithLabelValues("login_failed").Inc()
		return err
	}
	metrics.SessionEventsTotal.WithLabelValues("login").Inc()

	return c.JSON(http.StatusOK, loginResponse{
		Token:      token,
		Session:    session,
		Navigation: service.Navigation(session),
	})
}

// Logout revokes the bank tokens and clears the session partition. It always
// succeeds, even for an empty session.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	session := middleware.SessionFrom(c)
	if err := h.sessions.Logout(c.Request().Context(), session.ID); err != nil {
		return err
	}
	metrics.SessionEventsTotal.WithLabelValues("logout").Inc()

	return c.JSON(http.StatusOK, sessionResponse{
		Session:    domain.Anonymous(),
		Navigation: []service.MenuItem{},
	})
}

// Session returns the current session, or the empty session.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	session := middleware.SessionFrom(c)
	return c.JSON(http.StatusOK, sessionResponse{
		Session:    session,
		Navigation: service.Navigation(session),
	})
}
