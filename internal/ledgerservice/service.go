// Package ledgerservice manages business logic layer of the credits ledger.
package ledgerservice

import (
	"context"

	"github.com/ncibb/credit-ledger/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Repo provides data access layer interface needed by ledger service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package ledgerservice
type Repo interface {
	Credit(ctx context.Context, arg domain.CreateTransactionParams) (domain.LedgerTxResult, error)
	Debit(ctx context.Context, arg domain.CreateTransactionParams) (domain.LedgerTxResult, error)
	GetOrCreateBalance(ctx context.Context, accountID int32) (domain.AccountBalance, error)
	ListTransactions(ctx context.Context, arg domain.ListTransactionsParams) ([]domain.Transaction, error)
}

// Publisher announces completed ledger operations to interested
// consumers. Publishing is best-effort and never affects the operation
// outcome.
type Publisher interface {
	Publish(ctx context.Context, event domain.TransactionCompleted) error
}

// Service facilitates ledger service layer logic. It is the only code
// path permitted to mutate account balances.
type Service struct {
	repo      Repo
	publisher Publisher
}

// New returns ledger service struct to manage ledger bussines logic.
// The publisher may be nil when event publishing is disabled.
func New(lr Repo, pub Publisher) *Service {
	return &Service{repo: lr, publisher: pub}
}

// validAmount parses and validates a monetary amount. Amounts must be
// positive decimals with at most 2 fractional digits.
func validAmount(amount string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Decimal{}, domain.ErrInvalidAmount
	}

	if d.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, domain.ErrNonPositiveAmount
	}

	if d.Exponent() < -2 {
		return decimal.Decimal{}, domain.ErrAmountPrecision
	}

	return d, nil
}

// Credit adds the given amount to the account balance and appends the
// matching transaction record. The default kind is earned; bonus and
// refund may be requested by the caller.
func (s *Service) Credit(ctx context.Context, arg domain.CreateTransactionParams) (domain.LedgerTxResult, error) {
	l := zerolog.Ctx(ctx)

	amount, err := validAmount(arg.Amount)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.LedgerTxResult{}, err
	}

	switch arg.Kind {
	case "":
		arg.Kind = domain.KindEarned
	case domain.KindEarned, domain.KindBonus, domain.KindRefund:
	default:
		l.Info().Msgf("credit with kind %q rejected", arg.Kind)
		return domain.LedgerTxResult{}, domain.ErrInvalidKind
	}

	arg.Amount = amount.StringFixed(2)

	result, err := s.repo.Credit(ctx, arg)
	if err != nil {
		return result, err
	}

	s.publish(ctx, result)

	return result, nil
}

// Debit subtracts the given amount from the account balance and appends
// the matching transaction record. A debit exceeding the balance mutates
// nothing and returns an InsufficientFundsError.
func (s *Service) Debit(ctx context.Context, arg domain.CreateTransactionParams) (domain.LedgerTxResult, error) {
	l := zerolog.Ctx(ctx)

	amount, err := validAmount(arg.Amount)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.LedgerTxResult{}, err
	}

	if arg.Kind != "" && arg.Kind != domain.KindSpent {
		l.Info().Msgf("debit with kind %q rejected", arg.Kind)
		return domain.LedgerTxResult{}, domain.ErrInvalidKind
	}

	arg.Kind = domain.KindSpent
	arg.Amount = amount.StringFixed(2)

	result, err := s.repo.Debit(ctx, arg)
	if err != nil {
		return result, err
	}

	s.publish(ctx, result)

	return result, nil
}

// GetOrCreateBalance returns the balance record for the given account,
// creating a zeroed record on first access.
func (s *Service) GetOrCreateBalance(ctx context.Context, accountID int32) (domain.AccountBalance, error) {
	return s.repo.GetOrCreateBalance(ctx, accountID)
}

// ListTransactions returns the requested page of transaction records.
func (s *Service) ListTransactions(ctx context.Context, arg domain.ListTransactionsParams, pageSize, pageID int32) ([]domain.Transaction, error) {
	arg.Limit = pageSize
	arg.Offset = (pageID - 1) * pageSize

	return s.repo.ListTransactions(ctx, arg)
}

func (s *Service) publish(ctx context.Context, result domain.LedgerTxResult) {
	if s.publisher == nil {
		return
	}

	event := domain.TransactionCompleted{
		TransactionID: result.Transaction.ID,
		AccountID:     result.Transaction.AccountID,
		Kind:          result.Transaction.Kind,
		Amount:        result.Transaction.Amount,
		Balance:       result.Balance.Balance,
		ReferenceID:   result.Transaction.ReferenceID,
		CreatedAt:     result.Transaction.CreatedAt,
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("transaction event publish failed")
	}
}
