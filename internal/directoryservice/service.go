// Package directoryservice manages business logic layer of the account directory.
package directoryservice

import (
	"context"

	"github.com/ncibb/credit-ledger/internal/domain"
)

// Repo provides data access layer interface needed by directory service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package directoryservice
type Repo interface {
	Get(ctx context.Context, id int32) (domain.Account, error)
}

// Service facilitates directory service layer logic. The directory is
// consumed read-only; unresolvable accounts propagate ErrAccountNotFound
// untouched.
type Service struct {
	repo Repo
}

// New returns directory service struct.
func New(dr Repo) *Service {
	return &Service{repo: dr}
}

// Get returns the account with the given id.
func (s *Service) Get(ctx context.Context, id int32) (domain.Account, error) {
	account, err := s.repo.Get(ctx, id)
	if err != nil {
		return account, err
	}

	return account, nil
}
