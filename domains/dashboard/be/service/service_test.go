package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rlst8/rlst8/platform/go/persistence"
	"github.com/rlst8/rlst8/platform/go/tenant"
)

type mockStores struct {
	propertiesFn  func(ctx context.Context, scope tenant.Scope) ([]persistence.Property, error)
	tenanciesFn   func(ctx context.Context, scope tenant.Scope) ([]persistence.Tenancy, error)
	paymentsFn    func(ctx context.Context, scope tenant.Scope) ([]persistence.Payment, error)
	maintenanceFn func(ctx context.Context, scope tenant.Scope) ([]persistence.MaintenanceRequest, error)
}

type mockProperties struct{ *mockStores }
type mockTenancies struct{ *mockStores }
type mockPayments struct{ *mockStores }
type mockMaintenance struct{ *mockStores }

func (m mockProperties) ListActive(ctx context.Context, scope tenant.Scope) ([]persistence.Property, error) {
	if m.propertiesFn == nil {
		return nil, nil
	}
	return m.propertiesFn(ctx, scope)
}

func (m mockTenancies) List(ctx context.Context, scope tenant.Scope) ([]persistence.Tenancy, error) {
	if m.tenanciesFn == nil {
		return nil, nil
	}
	return m.tenanciesFn(ctx, scope)
}

func (m mockPayments) List(ctx context.Context, scope tenant.Scope) ([]persistence.Payment, error) {
	if m.paymentsFn == nil {
		return nil, nil
	}
	return m.paymentsFn(ctx, scope)
}

func (m mockMaintenance) List(ctx context.Context, scope tenant.Scope) ([]persistence.MaintenanceRequest, error) {
	if m.maintenanceFn == nil {
		return nil, nil
	}
	return m.maintenanceFn(ctx, scope)
}

func newService(t *testing.T, mocks *mockStores, opts ...Option) Service {
	t.Helper()
	return New(Stores{
		Properties:  mockProperties{mocks},
		Tenancies:   mockTenancies{mocks},
		Payments:    mockPayments{mocks},
		Maintenance: mockMaintenance{mocks},
	}, zap.NewNop(), opts...)
}

func testScope() tenant.Scope {
	return tenant.Scope{TenantID: uuid.New(), UserID: uuid.New(), Role: persistence.RoleCompanyAdmin}
}

func floatPtr(v float64) *float64 { return &v }
func timePtr(v time.Time) *time.Time { return &v }

func TestSummaryOccupancy(t *testing.T) {
	t.Parallel()

	svc := newService(t, &mockStores{
		propertiesFn: func(_ context.Context, _ tenant.Scope) ([]persistence.Property, error) {
			return []persistence.Property{
				{TotalUnits: 10, OccupiedUnits: 7},
			}, nil
		},
	})

	summary, err := svc.Summary(context.Background(), testScope())
	require.NoError(t, err)
	require.Equal(t, 1, summary.Occupancy.TotalProperties)
	require.Equal(t, 7, summary.Occupancy.OccupiedUnits)
	require.Equal(t, 3, summary.Occupancy.VacantUnits)
	require.InDelta(t, 70.0, summary.Occupancy.Rate, 0.001)
}

func TestSummaryOccupancyZeroUnits(t *testing.T) {
	t.Parallel()

	svc := newService(t, &mockStores{
		propertiesFn: func(_ context.Context, _ tenant.Scope) ([]persistence.Property, error) {
			return []persistence.Property{{TotalUnits: 0, OccupiedUnits: 0}}, nil
		},
	})

	summary, err := svc.Summary(context.Background(), testScope())
	require.NoError(t, err)
	require.Equal(t, 0.0, summary.Occupancy.Rate)
}

func TestSummaryPayments(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	lastMonth := time.Date(2026, time.February, 20, 0, 0, 0, 0, time.UTC)
	thisMonth := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	nextWeek := now.AddDate(0, 0, 7)

	svc := newService(t, &mockStores{
		paymentsFn: func(_ context.Context, _ tenant.Scope) ([]persistence.Payment, error) {
			return []persistence.Payment{
				{Status: persistence.PaymentStatusCompleted, Amount: 1000, PaymentDate: timePtr(thisMonth)},
				{Status: persistence.PaymentStatusCompleted, Amount: 500, PaymentDate: timePtr(lastMonth)},
				{Status: persistence.PaymentStatusPending, Amount: 300, DueDate: timePtr(yesterday)},
				{Status: persistence.PaymentStatusPending, Amount: 200, DueDate: timePtr(nextWeek)},
				{Status: persistence.PaymentStatusFailed, Amount: 900},
			}, nil
		},
	}, WithNowFunc(func() time.Time { return now }))

	summary, err := svc.Summary(context.Background(), testScope())
	require.NoError(t, err)
	require.InDelta(t, 1000.0, summary.Payments.ThisMonthRevenue, 0.001)
	require.InDelta(t, 1500.0, summary.Payments.TotalRevenue, 0.001)
	require.Equal(t, 2, summary.Payments.Pending)

	// A pending payment due in the future is not overdue.
	require.Equal(t, 1, summary.Payments.Overdue)
}

func TestSummaryTenanciesAndMaintenance(t *testing.T) {
	t.Parallel()

	svc := newService(t, &mockStores{
		tenanciesFn: func(_ context.Context, _ tenant.Scope) ([]persistence.Tenancy, error) {
			return []persistence.Tenancy{
				{Status: persistence.TenancyStatusActive},
				{Status: persistence.TenancyStatusActive},
				{Status: persistence.TenancyStatusOnNotice},
				{Status: persistence.TenancyStatusTerminated},
			}, nil
		},
		maintenanceFn: func(_ context.Context, _ tenant.Scope) ([]persistence.MaintenanceRequest, error) {
			return []persistence.MaintenanceRequest{
				{Status: persistence.MaintenanceStatusOpen, EstimatedCost: floatPtr(100)},
				{Status: persistence.MaintenanceStatusInProgress, EstimatedCost: floatPtr(50), ActualCost: floatPtr(75)},
				{Status: persistence.MaintenanceStatusCompleted},
			}, nil
		},
	})

	summary, err := svc.Summary(context.Background(), testScope())
	require.NoError(t, err)
	require.Equal(t, 4, summary.Tenancies.Total)
	require.Equal(t, 2, summary.Tenancies.Active)
	require.Equal(t, 1, summary.Tenancies.OnNotice)

	require.Equal(t, 1, summary.Maintenance.Open)
	require.Equal(t, 1, summary.Maintenance.InProgress)
	require.Equal(t, 1, summary.Maintenance.Completed)

	// Actual cost wins over estimate; missing both counts as zero.
	require.InDelta(t, 175.0, summary.Maintenance.TotalCost, 0.001)
}

func TestSummaryPartialZero(t *testing.T) {
	t.Parallel()

	svc := newService(t, &mockStores{
		propertiesFn: func(_ context.Context, _ tenant.Scope) ([]persistence.Property, error) {
			return nil, errors.New("connection refused")
		},
		tenanciesFn: func(_ context.Context, _ tenant.Scope) ([]persistence.Tenancy, error) {
			return []persistence.Tenancy{{Status: persistence.TenancyStatusActive}}, nil
		},
	})

	summary, err := svc.Summary(context.Background(), testScope())
	require.NoError(t, err)

	// The failed section is zeroed, the others still load.
	require.Equal(t, Occupancy{}, summary.Occupancy)
	require.Equal(t, 1, summary.Tenancies.Active)
	require.Empty(t, summary.Degraded)
}

func TestSummaryPartialWarn(t *testing.T) {
	t.Parallel()

	svc := newService(t, &mockStores{
		paymentsFn: func(_ context.Context, _ tenant.Scope) ([]persistence.Payment, error) {
			return nil, errors.New("connection refused")
		},
	}, WithPartialPolicy(PartialWarn))

	summary, err := svc.Summary(context.Background(), testScope())
	require.NoError(t, err)
	require.Equal(t, []string{SectionPayments}, summary.Degraded)
}
