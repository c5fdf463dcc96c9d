package service

import (
	"context"
	"fmt"

	"github.com/rlst8/rlst8/platform/go/persistence"
	"github.com/rlst8/rlst8/platform/go/tenant"
)

// Store is the persistence surface the tenancies service needs.
type Store interface {
	List(ctx context.Context, scope tenant.Scope) ([]persistence.Tenancy, error)
}

// Service implements the tenancies operations.
type Service interface {
	List(ctx context.Context, scope tenant.Scope) ([]persistence.Tenancy, error)
}

type service struct {
	store Store
}

// New constructs a tenancies Service instance.
func New(store Store) Service {
	if store == nil {
		panic("tenancy store is required")
	}
	return &service{store: store}
}

func (s *service) List(ctx context.Context, scope tenant.Scope) ([]persistence.Tenancy, error) {
	tenancies, err := s.store.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list tenancies: %w", err)
	}
	return tenancies, nil
}
