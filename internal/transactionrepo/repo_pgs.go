// Package transactionrepo manages repository layer of transaction records.
package transactionrepo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/ncibb/credit-ledger/internal/domain"
	"github.com/ncibb/credit-ledger/pkg/dbpkg"
	"github.com/ncibb/credit-ledger/pkg/errorspkg"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates transaction record repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns transaction RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const createQuery = `
INSERT INTO
    credit_transactions (account_id, amount, kind, description, reference_id)
VALUES
    ($1, $2, $3, $4, $5)
RETURNING id, account_id, amount, kind, description, reference_id, created_at
`

// Create appends the transaction record and then returns it. Records are
// never mutated or deleted afterwards.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateTransactionParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.AccountID,
		arg.Amount,
		arg.Kind,
		arg.Description,
		arg.ReferenceID,
	)

	var t domain.Transaction

	err := row.Scan(
		&t.ID,
		&t.AccountID,
		&t.Amount,
		&t.Kind,
		&t.Description,
		&t.ReferenceID,
		&t.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx context.Context, %+v)", arg)

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "credit_transactions_account_id_fkey":
				return t, domain.ErrAccountNotFound
			case "credit_transactions_amount_check":
				return t, domain.ErrNonPositiveAmount
			case "credit_transactions_kind_check":
				return t, domain.ErrInvalidKind
			}
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const getQuery = `
SELECT id, account_id, amount, kind, description, reference_id, created_at
FROM credit_transactions
WHERE id = $1 LIMIT 1
`

// Get returns the transaction record with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	var t domain.Transaction

	err := row.Scan(
		&t.ID,
		&t.AccountID,
		&t.Amount,
		&t.Kind,
		&t.Description,
		&t.ReferenceID,
		&t.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()
		return t, errorspkg.ErrInternal
	}

	return t, nil
}

// List returns transaction records matching the given filters and ordering.
// A zero AccountID lists records across all accounts.
func (r *RepoPGS) List(ctx context.Context, arg domain.ListTransactionsParams) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	var (
		conds []string
		args  []interface{}
	)

	if arg.AccountID != 0 {
		args = append(args, arg.AccountID)
		conds = append(conds, fmt.Sprintf("account_id = $%d", len(args)))
	}

	if arg.Kind != "" {
		args = append(args, arg.Kind)
		conds = append(conds, fmt.Sprintf("kind = $%d", len(args)))
	}

	if arg.Search != "" {
		args = append(args, arg.Search)
		conds = append(conds, fmt.Sprintf("description ILIKE '%%' || $%d || '%%'", len(args)))
	}

	query := "SELECT id, account_id, amount, kind, description, reference_id, created_at FROM credit_transactions"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	// Ordering columns are whitelisted, never interpolated from user input.
	orderBy := domain.OrderByCreatedAt
	if arg.OrderBy == domain.OrderByAmount {
		orderBy = domain.OrderByAmount
	}

	order := "DESC"
	if arg.Order == domain.OrderAsc {
		order = "ASC"
	}

	args = append(args, arg.Limit)
	limitPos := len(args)
	args = append(args, arg.Offset)

	query += fmt.Sprintf(" ORDER BY %s %s LIMIT $%d OFFSET $%d", orderBy, order, limitPos, limitPos+1)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(
			&t.ID,
			&t.AccountID,
			&t.Amount,
			&t.Kind,
			&t.Description,
			&t.ReferenceID,
			&t.CreatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, t)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const sumSinceQuery = `
SELECT COALESCE(SUM(amount), 0)::numeric(12,2)
FROM credit_transactions
WHERE account_id = $1 AND kind = $2 AND created_at >= $3
`

// SumSince returns the total amount of the given kind for the account
// since the given time.
func (r *RepoPGS) SumSince(ctx context.Context, accountID int32, kind domain.Kind, since time.Time) (string, error) {
	l := zerolog.Ctx(ctx)

	var total string

	err := r.db.QueryRowContext(ctx, sumSinceQuery, accountID, kind, since).Scan(&total)
	if err != nil {
		l.Error().Err(err).Send()
		return "", errorspkg.ErrInternal
	}

	return total, nil
}
