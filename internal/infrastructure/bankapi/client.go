// Package bankapi is the JSON client for the bank REST service. Every call
// goes through one circuit breaker; only transport errors and 5xx responses
// count as failures.
package bankapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/corebank/portal-gateway/internal/pkg/metrics"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
	breakerName    = "bank-api"
)

// errBreakerOpen is returned without contacting the bank.
var errBreakerOpen = errors.New("bank api circuit breaker open")

// BreakerConfig tunes the circuit breaker.
type BreakerConfig struct {
	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
}

// Config captures the settings for the bank REST client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Breaker BreakerConfig
}

// Client talks to the bank REST service.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

// serverError is a 5xx answer. It trips the breaker.
type serverError struct {
	status int
	body   string
}

func (e *serverError) Error() string {
	return fmt.Sprintf("bank api: status %d: %s", e.status, e.body)
}

// response is any non-5xx answer.
type response struct {
	status int
	body   []byte
}

func New(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	bc := cfg.Breaker
	if bc.MaxRequests == 0 {
		bc.MaxRequests = 3
	}
	if bc.ConsecutiveFailures == 0 {
		bc.ConsecutiveFailures = 5
	}
	if bc.Timeout <= 0 {
		bc.Timeout = 30 * time.Second
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: bc.MaxRequests,
		Interval:    bc.Interval,
		Timeout:     bc.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= bc.ConsecutiveFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			metrics.BankBreakerState.WithLabelValues(name).Set(float64(to))
			c.log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("bank api breaker state changed")
		},
	})
	return c
}

// do sends one request through the breaker. A non-nil response is returned
// for every status below 500.
func (c *Client) do(ctx context.Context, op, method, path, accessToken string, payload any) (*response, error) {
	var body []byte
	if payload != nil {
		var err error
		if body, err = json.Marshal(payload); err != nil {
			return nil, fmt.Errorf("bank api: encode %s: %w", op, err)
		}
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if accessToken != "" {
			req.Header.Set("Authorization", "Bearer "+accessToken)
		}

		res, err := c.http.Do(req)
		if err != nil {
			metrics.BankRequestsTotal.WithLabelValues(op, "transport_error").Inc()
			return nil, err
		}
		defer res.Body.Close()

		raw, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
		if err != nil {
			metrics.BankRequestsTotal.WithLabelValues(op, "transport_error").Inc()
			return nil, fmt.Errorf("read body: %w", err)
		}
		metrics.BankRequestsTotal.WithLabelValues(op, statusClass(res.StatusCode)).Inc()

		if res.StatusCode >= http.StatusInternalServerError {
			return nil, &serverError{status: res.StatusCode, body: truncate(string(raw), 200)}
		}
		return &response{status: res.StatusCode, body: raw}, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.BankRequestsTotal.WithLabelValues(op, "breaker_open").Inc()
		return nil, errBreakerOpen
	}
	if err != nil {
		c.log.Warn().Err(err).Str("operation", op).Msg("bank api call failed")
		return nil, err
	}
	return out.(*response), nil
}

func statusClass(code int) string {
	return fmt.Sprintf("%dxx", code/100)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
