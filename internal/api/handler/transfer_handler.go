package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/corebank/portal-gateway/internal/core/domain"
	"github.com/corebank/portal-gateway/internal/core/ports"
	"github.com/corebank/portal-gateway/internal/pkg/metrics"
)

// TransferHandler exposes the transfer intent lifecycle.
type TransferHandler struct {
	service ports.TransferService
}

func NewTransferHandler(service ports.TransferService) *TransferHandler {
	return &TransferHandler{service: service}
}

// EligibleAccounts lists the accounts usable as a transfer source.
//
// @Summary      Eligible source accounts
// @Tags         transfers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  eligibleAccountsResponse
// @Failure      303  "Redirect when not authorized"
// @Router       /accounts/eligible [get]
func (h *TransferHandler) EligibleAccounts(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	accounts, err := h.service.EligibleAccounts(c.Request().Context(), session.ID)
	if err != nil {
		return err
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	return c.JSON(http.StatusOK, eligibleAccountsResponse{Accounts: accounts})
}

// Open creates a draft with a fresh idempotency key.
//
// @Summary      Open a transfer draft
// @Tags         transfers
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  domain.TransferIntent
// @Failure      401  {object}  middleware.DenialResponse
// @Failure      403  {object}  middleware.DenialResponse
// @Failure      422  {object}  errorResponse
// @Router       /transfers [post]
func (h *TransferHandler) Open(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	intent, err := h.service.Open(c.Request().Context(), session.ID)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderLocation, "/transfers/"+intent.ID)
	return c.JSON(http.StatusCreated, intent)
}

// Get returns the current state of a draft.
//
// @Summary      Get a transfer draft
// @Tags         transfers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Intent ID"
// @Success      200  {object}  domain.TransferIntent
// @Failure      404  {object}  errorResponse
// @Router       /transfers/{id} [get]
func (h *TransferHandler) Get(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	intent, err := h.service.Get(c.Request().Context(), session.ID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, intent)
}

// Edit updates draft fields. The idempotency key is not affected.
//
// @Summary      Edit a transfer draft
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Intent ID"
// @Param        body  body      draftRequest  true  "Fields to change"
// @Success      200   {object}  domain.TransferIntent
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /transfers/{id} [patch]
func (h *TransferHandler) Edit(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req draftRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	intent, err := h.service.Edit(c.Request().Context(), session.ID, c.Param("id"), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, intent)
}

// Submit validates the draft and presents it to the bank exactly once.
//
// @Summary      Submit a transfer
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         false  "Intent ID"
// @Param        body  body      submitRequest  false  "Final field values"
// @Success      201   {object}  submitResponse  "succeeded"
// @Failure      409   {object}  submitResponse  "key_conflict or submission in progress"
// @Failure      422   {object}  submitResponse  "local validation, or retryable_failure rejected by the bank"
// @Failure      503   {object}  submitResponse  "retryable_failure, bank unavailable"
// @Router       /transfers/{id}/submit [post]
func (h *TransferHandler) Submit(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req submitRequest
	if c.Request().ContentLength != 0 {
		if err := bindAndValidate(c, &req); err != nil {
			return err
		}
	}

	start := time.Now()
	res, err := h.service.Submit(c.Request().Context(), session.ID, c.Param("id"), req.input())
	if err != nil {
		metrics.TransferRejectionsTotal.WithLabelValues(rejectionReason(err)).Inc()
		return err
	}
	metrics.TransferSubmitDuration.WithLabelValues(string(res.Outcome)).Observe(time.Since(start).Seconds())

	body := submitResponse{
		Outcome:     res.Outcome,
		Message:     res.Message,
		FieldErrors: res.Fields,
		Transaction: res.Transaction,
	}
	switch res.Outcome {
	case domain.OutcomeSucceeded:
		body.NextIntent = res.Intent
		return c.JSON(http.StatusCreated, body)
	case domain.OutcomeKeyConflict:
		body.Intent = res.Intent
		return c.JSON(http.StatusConflict, body)
	default:
		body.Intent = res.Intent
		if res.Rejected {
			return c.JSON(http.StatusUnprocessableEntity, body)
		}
		return c.JSON(http.StatusServiceUnavailable, body)
	}
}

// Cancel discards a draft. A bank response still in flight is dropped.
//
// @Summary      Cancel a transfer draft
// @Tags         transfers
// @Security     BearerAuth
// @Param        id   path  string  true  "Intent ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /transfers/{id} [delete]
func (h *TransferHandler) Cancel(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.service.Cancel(c.Request().Context(), session.ID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func rejectionReason(err error) string {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return "validation"
	case errors.Is(err, domain.ErrSubmissionInProgress):
		return "in_progress"
	}
	return "other"
}
