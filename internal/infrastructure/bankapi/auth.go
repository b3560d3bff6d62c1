package bankapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/corebank/portal-gateway/internal/core/domain"
	"github.com/corebank/portal-gateway/internal/core/ports"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    struct {
		ID        json.Number `json:"id"`
		Email     string      `json:"email"`
		Role      domain.Role `json:"role"`
		FirstName string      `json:"first_name"`
		LastName  string      `json:"last_name"`
	} `json:"user"`
}

// Login exchanges credentials for bank tokens and the caller's identity.
func (c *Client) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	res, err := c.do(ctx, "login", http.MethodPost, "/auth/login/", "", loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("bank login: %w", err)
	}

	switch res.status {
	case http.StatusOK:
	case http.StatusBadRequest, http.StatusUnauthorized:
		return nil, domain.ErrInvalidCredentials
	default:
		return nil, fmt.Errorf("bank login: unexpected status %d", res.status)
	}

	var body loginResponse
	if err := json.Unmarshal(res.body, &body); err != nil {
		return nil, fmt.Errorf("bank login: decode: %w", err)
	}
	if body.Access == "" {
		return nil, fmt.Errorf("bank login: no access token in response")
	}

	return &ports.LoginResult{
		Identity: domain.Identity{
			ID:        body.User.ID.String(),
			Email:     body.User.Email,
			Role:      body.User.Role,
			FirstName: body.User.FirstName,
			LastName:  body.User.LastName,
		},
		Tokens: domain.Tokens{Access: body.Access, Refresh: body.Refresh},
	}, nil
}

// Logout blacklists the refresh token.
func (c *Client) Logout(ctx context.Context, tokens domain.Tokens) error {
	res, err := c.do(ctx, "logout", http.MethodPost, "/auth/logout/", tokens.Access, map[string]string{"refresh": tokens.Refresh})
	if err != nil {
		return fmt.Errorf("bank logout: %w", err)
	}
	if res.status != http.StatusOK && res.status != http.StatusNoContent {
		return fmt.Errorf("bank logout: unexpected status %d", res.status)
	}
	return nil
}
