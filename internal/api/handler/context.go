package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/corebank/portal-gateway/internal/api/middleware"
	"github.com/corebank/portal-gateway/internal/core/domain"
)

// ctxSession returns the session the Auth middleware loaded. Handlers behind
// the gate always see an authenticated session; a torn state is reported as
// unauthenticated rather than trusted.
func ctxSession(c echo.Context) (*domain.Session, error) {
	s := middleware.SessionFrom(c)
	if !s.IsAuthenticated() {
		return nil, domain.ErrUnauthenticated
	}
	return s, nil
}

// bindAndValidate decodes the JSON body into req and runs the validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}
