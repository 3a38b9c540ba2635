// Package ledgerrepo manages the storage layer of the credits ledger.
//
// Credit and Debit run inside a single database transaction that locks
// the balance row for the affected account, so concurrent operations on
// one account are serialized while distinct accounts proceed
// independently.
package ledgerrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/ncibb/credit-ledger/internal/balancerepo"
	"github.com/ncibb/credit-ledger/internal/domain"
	"github.com/ncibb/credit-ledger/internal/transactionrepo"
	"github.com/ncibb/credit-ledger/pkg/errorspkg"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// RepoPGS facilitates ledger repository layer logic.
type RepoPGS struct {
	conn     *sql.DB
	balances *balancerepo.RepoPGS
	records  *transactionrepo.RepoPGS
}

// NewRepoPGS returns ledger RepoPGS with a connection to start transactions.
func NewRepoPGS(conn *sql.DB) *RepoPGS {
	return &RepoPGS{
		conn:     conn,
		balances: balancerepo.NewRepoPGS(conn),
		records:  transactionrepo.NewRepoPGS(conn),
	}
}

// GetOrCreateBalance returns the balance record for the given account,
// creating a zeroed record on first access.
func (r *RepoPGS) GetOrCreateBalance(ctx context.Context, accountID int32) (domain.AccountBalance, error) {
	return r.balances.GetOrCreate(ctx, accountID)
}

// ListTransactions returns transaction records matching the given filters.
func (r *RepoPGS) ListTransactions(ctx context.Context, arg domain.ListTransactionsParams) ([]domain.Transaction, error) {
	return r.records.List(ctx, arg)
}

// SumTransactionsSince returns the total amount of the given kind for the
// account since the given time.
func (r *RepoPGS) SumTransactionsSince(ctx context.Context, accountID int32, kind domain.Kind, since time.Time) (string, error) {
	return r.records.SumSince(ctx, accountID, kind, since)
}

// Credit increases the account balance and appends the matching
// transaction record within a single database transaction.
func (r *RepoPGS) Credit(ctx context.Context, arg domain.CreateTransactionParams) (domain.LedgerTxResult, error) {
	return r.applyTx(ctx, arg, false)
}

// Debit decreases the account balance and appends the matching
// transaction record within a single database transaction. If the locked
// balance is lower than the requested amount nothing is mutated and an
// InsufficientFundsError carrying both figures is returned.
func (r *RepoPGS) Debit(ctx context.Context, arg domain.CreateTransactionParams) (domain.LedgerTxResult, error) {
	return r.applyTx(ctx, arg, true)
}

func (r *RepoPGS) applyTx(ctx context.Context, arg domain.CreateTransactionParams, debit bool) (domain.LedgerTxResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.LedgerTxResult

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	balanceRepo := balancerepo.NewRepoPGS(tx)
	recordRepo := transactionrepo.NewRepoPGS(tx)

	// The upsert locks the balance row until commit.
	current, err := balanceRepo.GetOrCreate(ctx, arg.AccountID)
	if err != nil {
		return result, err
	}

	if debit {
		balance, err := decimal.NewFromString(current.Balance)
		if err != nil {
			l.Error().Err(err).Send()
			return result, errorspkg.ErrInternal
		}

		amount, err := decimal.NewFromString(arg.Amount)
		if err != nil {
			l.Error().Err(err).Send()
			return result, errorspkg.ErrInternal
		}

		if balance.LessThan(amount) {
			return result, &domain.InsufficientFundsError{
				Balance:   current.Balance,
				Requested: arg.Amount,
			}
		}

		result.Balance, err = balanceRepo.ApplyDebit(ctx, arg.Amount, arg.AccountID)
		if err != nil {
			return result, err
		}
	} else {
		result.Balance, err = balanceRepo.ApplyCredit(ctx, arg.Amount, arg.AccountID)
		if err != nil {
			return result, err
		}
	}

	result.Transaction, err = recordRepo.Create(ctx, arg)
	if err != nil {
		return result, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return domain.LedgerTxResult{}, errorspkg.ErrInternal
	}

	return result, nil
}
