// Package packageservice manages business logic layer of credit packages.
package packageservice

import (
	"context"

	"github.com/ncibb/credit-ledger/internal/domain"
)

// Repo provides data access layer interface needed by package service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package packageservice
type Repo interface {
	List(ctx context.Context) ([]domain.CreditPackage, error)
	Get(ctx context.Context, id int32) (domain.CreditPackage, error)
}

// Service facilitates credit package service layer logic. The catalog is
// read-only; purchases are settled by the external billing system.
type Service struct {
	repo Repo
}

// New returns package service struct.
func New(pr Repo) *Service {
	return &Service{repo: pr}
}

// List returns the active credit packages ordered by price.
func (s *Service) List(ctx context.Context) ([]domain.CreditPackage, error) {
	return s.repo.List(ctx)
}

// Get returns the active credit package with the given id.
func (s *Service) Get(ctx context.Context, id int32) (domain.CreditPackage, error) {
	return s.repo.Get(ctx, id)
}
