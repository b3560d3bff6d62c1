package service

import "github.com/corebank/portal-gateway/internal/core/domain"

const (
	LoginView   = "login"
	LandingView = "dashboard"
)

// Authorize decides whether session may access resource. It is pure and is
// evaluated on every request so that login and logout take effect at once.
func Authorize(session *domain.Session, resource domain.ProtectedResource) domain.Decision {
	if !session.IsAuthenticated() {
		return domain.DeniedUnauthenticated
	}
	if !resource.Admits(session.Role()) {
		return domain.DeniedForbidden
	}
	return domain.Allowed
}

// RedirectFor returns the view a denied decision must navigate to, or "" if
// the decision is an allow.
func RedirectFor(d domain.Decision) string {
	switch d.Reason {
	case domain.ReasonUnauthenticated:
		return "/" + LoginView
	case domain.ReasonForbidden:
		return "/" + LandingView
	}
	return ""
}
