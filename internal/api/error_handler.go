package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/corebank/portal-gateway/internal/api/middleware"
	"github.com/corebank/portal-gateway/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error       string              `json:"error"`
	Code        string              `json:"code,omitempty"`
	FieldErrors []domain.FieldError `json:"field_errors,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Answers authentication failures like the gate does, with a redirect.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if d, ok := denial(err); ok {
			_ = middleware.Deny(c, d)
			return
		}

		code, body := resolveError(err, log, c)
		_ = c.JSON(code, body)
	}
}

func denial(err error) (domain.Decision, bool) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrSessionNotFound):
		return domain.DeniedUnauthenticated, true
	case errors.Is(err, domain.ErrForbidden):
		return domain.DeniedForbidden, true
	}
	return domain.Decision{}, false
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return http.StatusUnprocessableEntity, errorResponse{Error: "validation failed", Code: "validation_failed", FieldErrors: verr.Fields}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials", Code: "invalid_credentials"}
	case errors.Is(err, domain.ErrIntentNotFound):
		return http.StatusNotFound, errorResponse{Error: "transfer not found", Code: "not_found"}
	case errors.Is(err, domain.ErrSubmissionInProgress):
		return http.StatusConflict, errorResponse{Error: err.Error(), Code: "submission_in_progress"}
	case errors.Is(err, domain.ErrIntentNotEditable):
		return http.StatusConflict, errorResponse{Error: err.Error(), Code: "intent_not_editable"}
	case errors.Is(err, domain.ErrNoEligibleAccounts):
		return http.StatusUnprocessableEntity, errorResponse{Error: "You need an approved account with an active card to make transfers.", Code: "no_eligible_accounts"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
