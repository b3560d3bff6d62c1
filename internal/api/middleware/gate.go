package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/corebank/portal-gateway/internal/core/domain"
	"github.com/corebank/portal-gateway/internal/core/service"
	"github.com/corebank/portal-gateway/internal/pkg/metrics"
)

// DenialResponse tells the shell where to go after a denied request.
type DenialResponse struct {
	Error    string `json:"error"`
	Reason   string `json:"reason"`
	Redirect string `json:"redirect"`
}

// Gate admits the request only if the loaded session is authorized for
// resource. Must run after Auth.
func Gate(resource domain.ProtectedResource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if d := Decide(c, resource); !d.Allowed {
				return Deny(c, d)
			}
			return next(c)
		}
	}
}

// Decide evaluates the gate for the request's session and records the
// decision.
func Decide(c echo.Context, resource domain.ProtectedResource) domain.Decision {
	d := service.Authorize(SessionFrom(c), resource)
	metrics.GateDecisionsTotal.WithLabelValues(resource.Name, decisionLabel(d)).Inc()
	return d
}

// Deny answers a denied decision with its redirect: 303 See Other for safe
// methods, a 401/403 JSON body otherwise.
func Deny(c echo.Context, d domain.Decision) error {
	target := service.RedirectFor(d)

	switch c.Request().Method {
	case http.MethodGet, http.MethodHead:
		return c.Redirect(http.StatusSeeOther, target)
	}

	status := http.StatusForbidden
	msg := domain.ErrForbidden.Error()
	if d.Reason == domain.ReasonUnauthenticated {
		status = http.StatusUnauthorized
		msg = domain.ErrUnauthenticated.Error()
	}
	return c.JSON(status, DenialResponse{Error: msg, Reason: string(d.Reason), Redirect: target})
}

func decisionLabel(d domain.Decision) string {
	if d.Allowed {
		return "allowed"
	}
	return string(d.Reason)
}
