package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/corebank/portal-gateway/internal/core/domain"
)

const sessionContextKey = "session"

var errNoSessionClaim = errors.New("token carries no session id")

// SessionResolver loads the session for a partition ID. It returns the empty
// session when the partition does not exist.
type SessionResolver interface {
	Current(ctx context.Context, sessionID string) *domain.Session
}

// Auth validates the gateway JWT and loads the session it points to into the
// context. It never rejects a request: a missing or invalid token yields the
// empty session and the gate decides.
func Auth(jwtSecret string, sessions SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session := domain.Anonymous()

			if raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization)); ok {
				if sid, err := ParseSessionID(jwtSecret, raw); err == nil {
					session = sessions.Current(c.Request().Context(), sid)
				}
			}

			c.Set(sessionContextKey, session)
			return next(c)
		}
	}
}

// ParseSessionID verifies an HS256 gateway token and returns its sid claim.
func ParseSessionID(jwtSecret, raw string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return "", err
	}
	if !tkn.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}

	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", errNoSessionClaim
	}
	return sid, nil
}

// SessionFrom returns the session loaded by Auth, or the empty session.
func SessionFrom(c echo.Context) *domain.Session {
	if s, ok := c.Get(sessionContextKey).(*domain.Session); ok && s != nil {
		return s
	}
	return domain.Anonymous()
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
