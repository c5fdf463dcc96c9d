package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rlst8/rlst8/platform/go/persistence"
	"github.com/rlst8/rlst8/platform/go/tenant"
)

type mockSearchers struct {
	propertiesFn  func(ctx context.Context, scope tenant.Scope, term string, limit int) ([]persistence.Property, error)
	occupantsFn   func(ctx context.Context, scope tenant.Scope, term string, limit int) ([]persistence.User, error)
	paymentsFn    func(ctx context.Context, scope tenant.Scope, term string, limit int) ([]persistence.Payment, error)
	maintenanceFn func(ctx context.Context, scope tenant.Scope, term string, limit int) ([]persistence.MaintenanceRequest, error)
}

type mockPropertySearcher struct{ *mockSearchers }
type mockOccupantSearcher struct{ *mockSearchers }
type mockPaymentSearcher struct{ *mockSearchers }
type mockMaintenanceSearcher struct{ *mockSearchers }

func (m mockPropertySearcher) Search(ctx context.Context, scope tenant.Scope, term string, limit int) ([]persistence.Property, error) {
	if m.propertiesFn == nil {
		return nil, nil
	}
	return m.propertiesFn(ctx, scope, term, limit)
}

func (m mockOccupantSearcher) SearchOccupants(ctx context.Context, scope tenant.Scope, term string, limit int) ([]persistence.User, error) {
	if m.occupantsFn == nil {
		return nil, nil
	}
	return m.occupantsFn(ctx, scope, term, limit)
}

func (m mockPaymentSearcher) Search(ctx context.Context, scope tenant.Scope, term string, limit int) ([]persistence.Payment, error) {
	if m.paymentsFn == nil {
		return nil, nil
	}
	return m.paymentsFn(ctx, scope, term, limit)
}

func (m mockMaintenanceSearcher) Search(ctx context.Context, scope tenant.Scope, term string, limit int) ([]persistence.MaintenanceRequest, error) {
	if m.maintenanceFn == nil {
		return nil, nil
	}
	return m.maintenanceFn(ctx, scope, term, limit)
}

func newService(mocks *mockSearchers) Service {
	return New(Stores{
		Properties:  mockPropertySearcher{mocks},
		Occupants:   mockOccupantSearcher{mocks},
		Payments:    mockPaymentSearcher{mocks},
		Maintenance: mockMaintenanceSearcher{mocks},
	}, zap.NewNop())
}

func TestSearchMergesCategories(t *testing.T) {
	t.Parallel()

	scope := tenant.Scope{TenantID: uuid.New(), UserID: uuid.New()}

	svc := newService(&mockSearchers{
		propertiesFn: func(_ context.Context, gotScope tenant.Scope, term string, limit int) ([]persistence.Property, error) {
			require.Equal(t, scope.TenantID, gotScope.TenantID)
			require.Equal(t, "sunset", term)
			require.Equal(t, 10, limit)
			return []persistence.Property{{Name: "Sunset Apartments"}}, nil
		},
		occupantsFn: func(_ context.Context, _ tenant.Scope, _ string, _ int) ([]persistence.User, error) {
			return []persistence.User{{FullName: "Sunny Occupant"}, {FullName: "Other Occupant"}}, nil
		},
	})

	results, err := svc.Search(context.Background(), scope, " sunset ")
	require.NoError(t, err)
	require.Len(t, results.Properties, 1)
	require.Len(t, results.Occupants, 2)
	require.Empty(t, results.Payments)
	require.Empty(t, results.Maintenance)
	require.Equal(t, 3, results.Total)
}

func TestSearchSwallowsCategoryFailure(t *testing.T) {
	t.Parallel()

	svc := newService(&mockSearchers{
		paymentsFn: func(_ context.Context, _ tenant.Scope, _ string, _ int) ([]persistence.Payment, error) {
			return nil, errors.New("connection refused")
		},
		maintenanceFn: func(_ context.Context, _ tenant.Scope, _ string, _ int) ([]persistence.MaintenanceRequest, error) {
			return []persistence.MaintenanceRequest{{Title: "Broken pipe"}}, nil
		},
	})

	results, err := svc.Search(context.Background(), tenant.Scope{TenantID: uuid.New()}, "pipe")
	require.NoError(t, err)
	require.Empty(t, results.Payments)
	require.Len(t, results.Maintenance, 1)
	require.Equal(t, 1, results.Total)
}

func TestSearchEmptyTerm(t *testing.T) {
	t.Parallel()

	svc := newService(&mockSearchers{})

	results, err := svc.Search(context.Background(), tenant.Scope{TenantID: uuid.New()}, "   ")
	require.NoError(t, err)
	require.Zero(t, results.Total)
	require.NotNil(t, results.Properties)
}
