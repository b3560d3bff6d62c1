package bankapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/corebank/portal-gateway/internal/core/domain"
	"github.com/corebank/portal-gateway/internal/core/ports"
)

type accountPage struct {
	Count   int              `json:"count"`
	Next    *string          `json:"next"`
	Results []domain.Account `json:"results"`
}

// ListAccounts fetches one page of the caller's accounts.
func (c *Client) ListAccounts(ctx context.Context, accessToken string, filter ports.AccountFilter) (*ports.AccountPage, error) {
	q := url.Values{}
	if filter.Page > 0 {
		q.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Status != "" {
		q.Set("status", string(filter.Status))
	}
	path := "/accounts/"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	res, err := c.do(ctx, "list_accounts", http.MethodGet, path, accessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	switch res.status {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, fmt.Errorf("list accounts: %w", domain.ErrUnauthenticated)
	default:
		return nil, fmt.Errorf("list accounts: unexpected status %d", res.status)
	}

	var page accountPage
	if err := json.Unmarshal(res.body, &page); err != nil {
		return nil, fmt.Errorf("list accounts: decode: %w", err)
	}
	return &ports.AccountPage{
		Count:    page.Count,
		HasNext:  page.Next != nil && *page.Next != "",
		Accounts: page.Results,
	}, nil
}
