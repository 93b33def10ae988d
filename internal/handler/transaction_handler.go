package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"finhealth/internal/auth"
	apperrors "finhealth/internal/errors"
	"finhealth/internal/model"
	"finhealth/internal/repository"
	"finhealth/internal/respond"
	"finhealth/internal/service"
)

// TransactionHandler handles ledger endpoints.
type TransactionHandler struct {
	transactionService service.TransactionService
}

// NewTransactionHandler creates a new transaction handler.
func NewTransactionHandler(transactionService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// TransactionRequest represents a create or update payload. Amount binds
// from either a JSON number or a quoted string.
type TransactionRequest struct {
	Type        string          `json:"type" validate:"required,oneof=income expense"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Category    string          `json:"category" validate:"required"`
	Description string          `json:"description"`
	Date        string          `json:"date"` // RFC 3339, optional
}

func (r *TransactionRequest) toInput() (service.TransactionInput, error) {
	var date time.Time
	if r.Date != "" {
		var err error
		date, err = time.Parse(time.RFC3339, r.Date)
		if err != nil {
			return service.TransactionInput{}, apperrors.Validation("invalid date, expected RFC 3339")
		}
	}

	return service.TransactionInput{
		Type:        model.TransactionType(r.Type),
		Amount:      r.Amount,
		Category:    r.Category,
		Description: r.Description,
		Date:        date,
	}, nil
}

// List godoc
// @Summary List the caller's transactions
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param type query string false "Filter by type (income or expense)"
// @Param category query string false "Filter by category"
// @Success 200 {object} respond.Envelope
// @Failure 401 {object} respond.Envelope
// @Failure 503 {object} respond.Envelope
// @Router /transactions [get]
func (h *TransactionHandler) List(c echo.Context) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.ErrUnauthorized
	}

	filter := repository.TransactionFilter{
		Type:     model.TransactionType(c.QueryParam("type")),
		Category: c.QueryParam("category"),
	}

	txs, err := h.transactionService.List(c.Request().Context(), user.ID, filter)
	if err != nil {
		return err
	}
	return respond.JSON(c, http.StatusOK, "ok", echo.Map{"transactions": txs})
}

// Create godoc
// @Summary Record a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TransactionRequest true "Transaction data"
// @Success 201 {object} respond.Envelope
// @Failure 400 {object} respond.Envelope
// @Failure 401 {object} respond.Envelope
// @Failure 503 {object} respond.Envelope
// @Router /transactions [post]
func (h *TransactionHandler) Create(c echo.Context) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.ErrUnauthorized
	}

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.Validation("type, amount and category are required")
	}

	input, err := req.toInput()
	if err != nil {
		return err
	}

	tx, err := h.transactionService.Create(c.Request().Context(), user.ID, input)
	if err != nil {
		return err
	}
	return respond.Created(c, "transaction recorded", echo.Map{"transaction": tx})
}

// Update godoc
// @Summary Update a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Param request body TransactionRequest true "Transaction data"
// @Success 200 {object} respond.Envelope
// @Failure 400 {object} respond.Envelope
// @Failure 401 {object} respond.Envelope
// @Failure 404 {object} respond.Envelope
// @Failure 503 {object} respond.Envelope
// @Router /transactions/{id} [put]
func (h *TransactionHandler) Update(c echo.Context) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.ErrUnauthorized
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.Validation("invalid transaction id")
	}

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.Validation("type, amount and category are required")
	}

	input, err := req.toInput()
	if err != nil {
		return err
	}

	tx, err := h.transactionService.Update(c.Request().Context(), user.ID, id, input)
	if err != nil {
		return err
	}
	return respond.JSON(c, http.StatusOK, "transaction updated", echo.Map{"transaction": tx})
}

// Delete godoc
// @Summary Delete a transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} respond.Envelope
// @Failure 401 {object} respond.Envelope
// @Failure 404 {object} respond.Envelope
// @Failure 503 {object} respond.Envelope
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) Delete(c echo.Context) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.ErrUnauthorized
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.Validation("invalid transaction id")
	}

	if err := h.transactionService.Delete(c.Request().Context(), user.ID, id); err != nil {
		return err
	}
	return respond.JSON(c, http.StatusOK, "transaction deleted", nil)
}
