package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"finhealth/internal/cache"
	apperrors "finhealth/internal/errors"
	"finhealth/internal/model"
	"finhealth/internal/repository"
)

const (
	dashboardCacheTTL  = time.Minute
	recentTransactions = 5
)

// Scorer rates financial health on a 0-100 scale from aggregate totals.
type Scorer interface {
	Score(income, expense decimal.Decimal) int
}

// BalanceRatioScorer is the default heuristic: 70 plus up to 30 for the
// saved share of income, floored at 30 when nothing is saved. A zero
// income also floors the score instead of dividing by it.
type BalanceRatioScorer struct{}

// Score implements Scorer.
func (BalanceRatioScorer) Score(income, expense decimal.Decimal) int {
	balance := income.Sub(expense)
	if income.Sign() <= 0 || balance.Sign() <= 0 {
		return 30
	}
	ratio, _ := balance.Div(income).Float64()
	score := 70 + ratio*30
	return int(math.Round(math.Min(100, math.Max(0, score))))
}

// GradeFor buckets a score into a display grade.
func GradeFor(score int) string {
	switch {
	case score >= 80:
		return "excellent"
	case score >= 60:
		return "good"
	case score >= 40:
		return "fair"
	default:
		return "needs improvement"
	}
}

// Summary is the aggregated dashboard payload.
type Summary struct {
	TotalIncome        decimal.Decimal     `json:"total_income"`
	TotalExpense       decimal.Decimal     `json:"total_expense"`
	Balance            decimal.Decimal     `json:"balance"`
	TransactionCount   int                 `json:"transaction_count"`
	HealthScore        int                 `json:"health_score"`
	HealthGrade        string              `json:"health_grade"`
	RecentTransactions []model.Transaction `json:"recent_transactions"`
}

// DashboardService aggregates a user's ledger into the dashboard summary.
type DashboardService interface {
	Summary(ctx context.Context, userID uint) (*Summary, error)
}

type dashboardService struct {
	transactions repository.TransactionRepository
	cache        *cache.Client
	scorer       Scorer
}

// NewDashboardService creates a dashboard service. A nil scorer falls back
// to BalanceRatioScorer.
func NewDashboardService(transactions repository.TransactionRepository, cache *cache.Client, scorer Scorer) DashboardService {
	if scorer == nil {
		scorer = BalanceRatioScorer{}
	}
	return &dashboardService{transactions: transactions, cache: cache, scorer: scorer}
}

func dashboardCacheKey(userID uint) string {
	return fmt.Sprintf("dashboard:%d", userID)
}

// Summary computes the aggregated view, cache-aside with a short TTL.
// Ledger mutations invalidate the key.
func (s *dashboardService) Summary(ctx context.Context, userID uint) (*Summary, error) {
	key := dashboardCacheKey(userID)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached Summary
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	txs, err := s.transactions.ListByUser(ctx, userID, repository.TransactionFilter{})
	if err != nil {
		return nil, apperrors.FromStorage("load transactions", err)
	}

	income := decimal.Zero
	expense := decimal.Zero
	for _, tx := range txs {
		switch tx.Type {
		case model.TransactionTypeIncome:
			income = income.Add(tx.Amount)
		case model.TransactionTypeExpense:
			expense = expense.Add(tx.Amount)
		}
	}

	score := s.scorer.Score(income, expense)
	recent := txs
	if len(recent) > recentTransactions {
		recent = recent[:recentTransactions]
	}

	summary := &Summary{
		TotalIncome:        income,
		TotalExpense:       expense,
		Balance:            income.Sub(expense),
		TransactionCount:   len(txs),
		HealthScore:        score,
		HealthGrade:        GradeFor(score),
		RecentTransactions: recent,
	}

	if payload, err := json.Marshal(summary); err == nil {
		_ = s.cache.Set(ctx, key, payload, dashboardCacheTTL)
	}
	return summary, nil
}
