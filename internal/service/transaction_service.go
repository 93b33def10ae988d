package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"finhealth/internal/cache"
	apperrors "finhealth/internal/errors"
	"finhealth/internal/model"
	"finhealth/internal/repository"
)

// TransactionInput carries validated fields for a create or update.
type TransactionInput struct {
	Type        model.TransactionType
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        time.Time // zero means "now"
}

// TransactionService exposes the per-user ledger. All operations are
// scoped to the owning user; rows belonging to someone else behave as if
// they do not exist.
type TransactionService interface {
	Create(ctx context.Context, userID uint, input TransactionInput) (*model.Transaction, error)
	List(ctx context.Context, userID uint, filter repository.TransactionFilter) ([]model.Transaction, error)
	Update(ctx context.Context, userID uint, id uuid.UUID, input TransactionInput) (*model.Transaction, error)
	Delete(ctx context.Context, userID uint, id uuid.UUID) error
}

type transactionService struct {
	transactions repository.TransactionRepository
	cache        *cache.Client
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(transactions repository.TransactionRepository, cache *cache.Client) TransactionService {
	return &transactionService{transactions: transactions, cache: cache}
}

func (s *transactionService) Create(ctx context.Context, userID uint, input TransactionInput) (*model.Transaction, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	tx := &model.Transaction{
		UserID:      userID,
		Type:        input.Type,
		Amount:      input.Amount,
		Category:    input.Category,
		Description: input.Description,
		Date:        date,
	}
	if err := s.transactions.Create(ctx, tx); err != nil {
		return nil, apperrors.FromStorage("create transaction", err)
	}

	_ = s.cache.Delete(ctx, dashboardCacheKey(userID))
	return tx, nil
}

func (s *transactionService) List(ctx context.Context, userID uint, filter repository.TransactionFilter) ([]model.Transaction, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, apperrors.ErrValidation
	}
	txs, err := s.transactions.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, apperrors.FromStorage("list transactions", err)
	}
	return txs, nil
}

func (s *transactionService) Update(ctx context.Context, userID uint, id uuid.UUID, input TransactionInput) (*model.Transaction, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	tx, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	tx.Type = input.Type
	tx.Amount = input.Amount
	tx.Category = input.Category
	tx.Description = input.Description
	if !input.Date.IsZero() {
		tx.Date = input.Date
	}

	if err := s.transactions.Update(ctx, tx); err != nil {
		return nil, apperrors.FromStorage("update transaction", err)
	}

	_ = s.cache.Delete(ctx, dashboardCacheKey(userID))
	return tx, nil
}

func (s *transactionService) Delete(ctx context.Context, userID uint, id uuid.UUID) error {
	if _, err := s.findOwned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.transactions.Delete(ctx, id); err != nil {
		return apperrors.FromStorage("delete transaction", err)
	}

	_ = s.cache.Delete(ctx, dashboardCacheKey(userID))
	return nil
}

func (s *transactionService) findOwned(ctx context.Context, userID uint, id uuid.UUID) (*model.Transaction, error) {
	tx, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.FromStorage("find transaction", err)
	}
	if tx.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	return tx, nil
}

func validateInput(input TransactionInput) error {
	if !input.Type.Valid() {
		return apperrors.ErrValidation
	}
	if input.Amount.IsNegative() {
		return apperrors.ErrValidation
	}
	if input.Category == "" {
		return apperrors.ErrValidation
	}
	return nil
}
