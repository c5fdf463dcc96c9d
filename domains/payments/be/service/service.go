package service

import (
	"context"
	"fmt"

	"github.com/rlst8/rlst8/platform/go/persistence"
	"github.com/rlst8/rlst8/platform/go/tenant"
)

// Store is the persistence surface the payments service needs.
type Store interface {
	List(ctx context.Context, scope tenant.Scope) ([]persistence.Payment, error)
}

// Service implements the payments operations.
type Service interface {
	List(ctx context.Context, scope tenant.Scope) ([]persistence.Payment, error)
}

type service struct {
	store Store
}

// New constructs a payments Service instance.
func New(store Store) Service {
	if store == nil {
		panic("payment store is required")
	}
	return &service{store: store}
}

func (s *service) List(ctx context.Context, scope tenant.Scope) ([]persistence.Payment, error) {
	payments, err := s.store.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}
