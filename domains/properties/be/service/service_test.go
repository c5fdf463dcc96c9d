package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rlst8/rlst8/platform/go/persistence"
	"github.com/rlst8/rlst8/platform/go/tenant"
)

type mockStore struct {
	listFn   func(ctx context.Context, scope tenant.Scope) ([]persistence.Property, error)
	createFn func(ctx context.Context, scope tenant.Scope, params persistence.CreatePropertyParams) (persistence.Property, error)
	getFn    func(ctx context.Context, scope tenant.Scope, id uuid.UUID) (persistence.Property, error)
}

func (m *mockStore) ListActive(ctx context.Context, scope tenant.Scope) ([]persistence.Property, error) {
	if m.listFn == nil {
		panic("listFn not configured")
	}
	return m.listFn(ctx, scope)
}

func (m *mockStore) Create(ctx context.Context, scope tenant.Scope, params persistence.CreatePropertyParams) (persistence.Property, error) {
	if m.createFn == nil {
		panic("createFn not configured")
	}
	return m.createFn(ctx, scope, params)
}

func (m *mockStore) Get(ctx context.Context, scope tenant.Scope, id uuid.UUID) (persistence.Property, error) {
	if m.getFn == nil {
		panic("getFn not configured")
	}
	return m.getFn(ctx, scope, id)
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()

	svc := New(&mockStore{})

	_, err := svc.Create(context.Background(), tenant.Scope{}, CreateInput{
		TotalUnits:    5,
		OccupiedUnits: 9,
	})
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.Contains(t, validationErr.Fields, "name")
	require.Contains(t, validationErr.Fields, "address")
	require.Contains(t, validationErr.Fields, "occupiedUnits")
}

func TestCreatePassesScope(t *testing.T) {
	t.Parallel()

	scope := tenant.Scope{TenantID: uuid.New(), UserID: uuid.New()}

	svc := New(&mockStore{
		createFn: func(_ context.Context, gotScope tenant.Scope, params persistence.CreatePropertyParams) (persistence.Property, error) {
			require.Equal(t, scope.TenantID, gotScope.TenantID)
			require.Equal(t, "Sunset Apartments", params.Name)
			return persistence.Property{ID: uuid.New(), TenantID: scope.TenantID, Name: params.Name}, nil
		},
	})

	property, err := svc.Create(context.Background(), scope, CreateInput{
		Name:       " Sunset Apartments ",
		Address:    "1 Sunset Rd",
		TotalUnits: 10,
	})
	require.NoError(t, err)
	require.Equal(t, scope.TenantID, property.TenantID)
}

func TestGetMapsNotFound(t *testing.T) {
	t.Parallel()

	svc := New(&mockStore{
		getFn: func(_ context.Context, _ tenant.Scope, _ uuid.UUID) (persistence.Property, error) {
			return persistence.Property{}, persistence.ErrPropertyNotFound
		},
	})

	_, err := svc.Get(context.Background(), tenant.Scope{}, uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}
