package bankapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/corebank/portal-gateway/internal/core/domain"
)

// CreateTransaction presents a transfer to the bank and classifies the
// answer:
//
//	201                                     success
//	400/409, idempotency "already processed" *domain.KeyConflictError
//	other 400, 401, 403, 429, breaker open   *domain.RetryableTransferError
//	5xx, transport error, bad body, other    *domain.UnknownError
func (c *Client) CreateTransaction(ctx context.Context, accessToken string, req domain.TransferRequest) (*domain.Transaction, error) {
	res, err := c.do(ctx, "create_transaction", http.MethodPost, "/transactions/", accessToken, req)
	if errors.Is(err, errBreakerOpen) {
		return nil, &domain.RetryableTransferError{Message: msgUnavailable, Err: err}
	}
	if err != nil {
		return nil, &domain.UnknownError{Err: err}
	}

	switch res.status {
	case http.StatusCreated, http.StatusOK:
		var tx domain.Transaction
		if err := json.Unmarshal(res.body, &tx); err != nil {
			return nil, &domain.UnknownError{Err: fmt.Errorf("decode transaction: %w", err)}
		}
		if tx.ID == "" {
			return nil, &domain.UnknownError{Err: errors.New("transaction response without id")}
		}
		return &tx, nil

	case http.StatusBadRequest, http.StatusConflict:
		general, fields := errorBody(res.body)
		if msg, ok := keyConflict(fields); ok {
			return nil, &domain.KeyConflictError{Message: msg}
		}
		if res.status == http.StatusConflict {
			return nil, &domain.UnknownError{Err: fmt.Errorf("unexpected conflict: %s", truncate(string(res.body), 200))}
		}
		msg := msgFixFields
		if len(general) > 0 {
			msg = general[0]
		} else if len(fields) == 0 {
			return nil, &domain.UnknownError{Err: fmt.Errorf("undecodable 400: %s", truncate(string(res.body), 200))}
		}
		return nil, &domain.RetryableTransferError{Message: msg, Fields: fields, Rejected: true}

	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, &domain.RetryableTransferError{Message: msgNotAllowed, Err: fmt.Errorf("status %d", res.status)}

	case http.StatusTooManyRequests:
		return nil, &domain.RetryableTransferError{Message: msgThrottled, Err: fmt.Errorf("status %d", res.status)}
	}

	return nil, &domain.UnknownError{Err: fmt.Errorf("unexpected status %d", res.status)}
}
