package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/corebank/portal-gateway/internal/api/middleware"
	"github.com/corebank/portal-gateway/internal/core/service"
)

// ViewHandler resolves views against the registry and builds the menu.
type ViewHandler struct{}

func NewViewHandler() *ViewHandler {
	return &ViewHandler{}
}

// Show decides whether the session may open a view. Unknown views resolve to
// the login view.
//
// @Summary      Resolve a view
// @Tags         views
// @Produce      json
// @Security     BearerAuth
// @Param        view  path      string  true  "View name"
// @Success      200   {object}  viewResponse
// @Success      303   "Redirect to /login or /dashboard"
// @Router       /views/{view} [get]
func (h *ViewHandler) Show(c echo.Context) error {
	name := c.Param("view")
	view, ok := service.LookupView(name)
	if !ok {
		return c.Redirect(http.StatusSeeOther, "/"+service.LoginView)
	}

	if d := middleware.Decide(c, view.Resource); !d.Allowed {
		return middleware.Deny(c, d)
	}
	return c.JSON(http.StatusOK, viewResponse{View: view.Resource.Name, Allowed: true})
}

// Navigation returns the menu items the session may open, in registry order.
//
// @Summary      Navigation menu
// @Tags         views
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  navigationResponse
// @Router       /navigation [get]
func (h *ViewHandler) Navigation(c echo.Context) error {
	return c.JSON(http.StatusOK, navigationResponse{Items: service.Navigation(middleware.SessionFrom(c))})
}
