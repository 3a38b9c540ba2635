// Package packagerepo manages repository layer of credit packages.
package packagerepo

import (
	"context"
	"database/sql"

	"github.com/ncibb/credit-ledger/internal/domain"
	"github.com/ncibb/credit-ledger/pkg/dbpkg"
	"github.com/ncibb/credit-ledger/pkg/errorspkg"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates credit package repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns package RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const listQuery = `
SELECT id, name, description, credits, price, is_active, created_at
FROM credit_packages
WHERE is_active
ORDER BY price
`

// List returns the active credit packages ordered by price.
func (r *RepoPGS) List(ctx context.Context) ([]domain.CreditPackage, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.CreditPackage{}

	for rows.Next() {
		var p domain.CreditPackage
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Credits,
			&p.Price,
			&p.IsActive,
			&p.CreatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, p)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const getQuery = `
SELECT id, name, description, credits, price, is_active, created_at
FROM credit_packages
WHERE id = $1 AND is_active
`

// Get returns the active credit package with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int32) (domain.CreditPackage, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	var p domain.CreditPackage

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Credits,
		&p.Price,
		&p.IsActive,
		&p.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return p, domain.ErrPackageNotFound
		}

		l.Error().Err(err).Send()

		return p, errorspkg.ErrInternal
	}

	return p, nil
}
