// Package directoryrepo manages read-only access to the account
// directory owned by the external identity system.
package directoryrepo

import (
	"context"
	"database/sql"

	"github.com/ncibb/credit-ledger/internal/domain"
	"github.com/ncibb/credit-ledger/pkg/dbpkg"
	"github.com/ncibb/credit-ledger/pkg/errorspkg"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates directory repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns directory RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const getQuery = `
SELECT id, username, full_name, email, role, created_at
FROM users
WHERE id = $1
`

// Get returns the account with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int32) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.Username,
		&a.FullName,
		&a.Email,
		&a.Role,
		&a.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}
