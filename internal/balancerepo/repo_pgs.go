// Package balancerepo manages repository layer of account balances.
package balancerepo

import (
	"context"

	"github.com/lib/pq"
	"github.com/ncibb/credit-ledger/internal/domain"
	"github.com/ncibb/credit-ledger/pkg/dbpkg"
	"github.com/ncibb/credit-ledger/pkg/errorspkg"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates account balance repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns balance RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const getOrCreateQuery = `
INSERT INTO account_balances (account_id)
VALUES ($1)
ON CONFLICT (account_id) DO UPDATE SET account_id = EXCLUDED.account_id
RETURNING account_id, balance, total_earned, total_spent, created_at, updated_at
`

// GetOrCreate returns the balance record for the given account, creating
// a zeroed record on first access. Inside a transaction the returned row
// stays locked until commit, serializing mutations per account.
func (r *RepoPGS) GetOrCreate(ctx context.Context, accountID int32) (domain.AccountBalance, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getOrCreateQuery, accountID)

	var b domain.AccountBalance

	err := row.Scan(
		&b.AccountID,
		&b.Balance,
		&b.TotalEarned,
		&b.TotalSpent,
		&b.CreatedAt,
		&b.UpdatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "account_balances_account_id_fkey" {
				return b, domain.ErrAccountNotFound
			}
		}

		return b, errorspkg.ErrInternal
	}

	return b, nil
}

const applyCreditQuery = `
UPDATE account_balances
SET balance = balance + $1,
    total_earned = total_earned + $1,
    updated_at = now()
WHERE account_id = $2
RETURNING account_id, balance, total_earned, total_spent, created_at, updated_at
`

// ApplyCredit increases the balance and total_earned by the given amount
// and returns the changed record.
func (r *RepoPGS) ApplyCredit(ctx context.Context, amount string, accountID int32) (domain.AccountBalance, error) {
	return r.apply(ctx, applyCreditQuery, amount, accountID)
}

const applyDebitQuery = `
UPDATE account_balances
SET balance = balance - $1,
    total_spent = total_spent + $1,
    updated_at = now()
WHERE account_id = $2
RETURNING account_id, balance, total_earned, total_spent, created_at, updated_at
`

// ApplyDebit decreases the balance and increases total_spent by the given
// amount and returns the changed record. The caller must have verified
// sufficiency under a row lock; the balance CHECK constraint backstops it.
func (r *RepoPGS) ApplyDebit(ctx context.Context, amount string, accountID int32) (domain.AccountBalance, error) {
	return r.apply(ctx, applyDebitQuery, amount, accountID)
}

func (r *RepoPGS) apply(ctx context.Context, query, amount string, accountID int32) (domain.AccountBalance, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, query, amount, accountID)

	var b domain.AccountBalance

	err := row.Scan(
		&b.AccountID,
		&b.Balance,
		&b.TotalEarned,
		&b.TotalSpent,
		&b.CreatedAt,
		&b.UpdatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()
		return b, errorspkg.ErrInternal
	}

	return b, nil
}
