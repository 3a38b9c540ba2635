// Package statsservice assembles dashboard summaries from the credits
// ledger. It is a read-only aggregation collaborator, not part of the
// ledger core: aggregate failures deliberately degrade to zeroed figures
// with a logged warning instead of failing the whole summary.
package statsservice

import (
	"context"
	"time"

	"github.com/ncibb/credit-ledger/internal/domain"
	"github.com/rs/zerolog"
)

const (
	monthlyWindow   = 30 * 24 * time.Hour
	recentListLimit = 10
)

// Repo provides data access layer interface needed by stats service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package statsservice
type Repo interface {
	GetOrCreateBalance(ctx context.Context, accountID int32) (domain.AccountBalance, error)
	ListTransactions(ctx context.Context, arg domain.ListTransactionsParams) ([]domain.Transaction, error)
	SumTransactionsSince(ctx context.Context, accountID int32, kind domain.Kind, since time.Time) (string, error)
}

// Service facilitates stats aggregation logic.
type Service struct {
	repo Repo
}

// New returns stats service struct.
func New(lr Repo) *Service {
	return &Service{repo: lr}
}

// Stats returns the dashboard summary for the given account: current
// balance and totals, earned and spent sums over the trailing 30 days,
// and the most recent transactions.
func (s *Service) Stats(ctx context.Context, accountID int32) (domain.CreditStats, error) {
	l := zerolog.Ctx(ctx)

	balance, err := s.repo.GetOrCreateBalance(ctx, accountID)
	if err != nil {
		return domain.CreditStats{}, err
	}

	since := time.Now().Add(-monthlyWindow)

	monthlyEarned, err := s.repo.SumTransactionsSince(ctx, accountID, domain.KindEarned, since)
	if err != nil {
		l.Warn().Err(err).Msg("monthly earned aggregate failed, falling back to zero")
		monthlyEarned = "0.00"
	}

	monthlySpent, err := s.repo.SumTransactionsSince(ctx, accountID, domain.KindSpent, since)
	if err != nil {
		l.Warn().Err(err).Msg("monthly spent aggregate failed, falling back to zero")
		monthlySpent = "0.00"
	}

	recent, err := s.repo.ListTransactions(ctx, domain.ListTransactionsParams{
		AccountID: accountID,
		OrderBy:   domain.OrderByCreatedAt,
		Order:     domain.OrderDesc,
		Limit:     recentListLimit,
	})
	if err != nil {
		l.Warn().Err(err).Msg("recent transactions lookup failed, falling back to empty")
		recent = []domain.Transaction{}
	}

	stats := domain.CreditStats{
		Balance:            balance.Balance,
		TotalEarned:        balance.TotalEarned,
		TotalSpent:         balance.TotalSpent,
		MonthlyEarned:      monthlyEarned,
		MonthlySpent:       monthlySpent,
		RecentTransactions: recent,
	}

	return stats, nil
}
