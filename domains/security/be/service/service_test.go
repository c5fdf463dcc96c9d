package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rlst8/rlst8/platform/go/persistence"
	"github.com/rlst8/rlst8/platform/go/tenant"
)

type mockVisitorStore struct {
	listFn     func(ctx context.Context, scope tenant.Scope, limit int) ([]persistence.VisitorLog, error)
	insertFn   func(ctx context.Context, scope tenant.Scope, params persistence.CreateVisitorLogParams) (persistence.VisitorLog, error)
	markExitFn func(ctx context.Context, scope tenant.Scope, id uuid.UUID) (persistence.VisitorLog, error)
}

func (m *mockVisitorStore) List(ctx context.Context, scope tenant.Scope, limit int) ([]persistence.VisitorLog, error) {
	if m.listFn == nil {
		return nil, nil
	}
	return m.listFn(ctx, scope, limit)
}

func (m *mockVisitorStore) Insert(ctx context.Context, scope tenant.Scope, params persistence.CreateVisitorLogParams) (persistence.VisitorLog, error) {
	if m.insertFn == nil {
		panic("insertFn not configured")
	}
	return m.insertFn(ctx, scope, params)
}

func (m *mockVisitorStore) MarkExit(ctx context.Context, scope tenant.Scope, id uuid.UUID) (persistence.VisitorLog, error) {
	if m.markExitFn == nil {
		panic("markExitFn not configured")
	}
	return m.markExitFn(ctx, scope, id)
}

type mockParkingStore struct {
	listFn func(ctx context.Context, scope tenant.Scope) ([]persistence.ParkingSlot, error)
}

func (m *mockParkingStore) List(ctx context.Context, scope tenant.Scope) ([]persistence.ParkingSlot, error) {
	if m.listFn == nil {
		return nil, nil
	}
	return m.listFn(ctx, scope)
}

func TestRegisterEntryValidation(t *testing.T) {
	t.Parallel()

	svc := New(&mockVisitorStore{}, &mockParkingStore{})

	_, err := svc.RegisterEntry(context.Background(), tenant.Scope{}, EntryInput{})
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.Contains(t, validationErr.Fields, "visitorName")
	require.Contains(t, validationErr.Fields, "visitingUnit")
}

func TestRegisterEntryStartsEntered(t *testing.T) {
	t.Parallel()

	visitors := &mockVisitorStore{
		insertFn: func(_ context.Context, _ tenant.Scope, params persistence.CreateVisitorLogParams) (persistence.VisitorLog, error) {
			require.Equal(t, "John Visitor", params.VisitorName)
			require.Equal(t, "A-101", params.VisitingUnit)
			return persistence.VisitorLog{
				ID:           uuid.New(),
				VisitorName:  params.VisitorName,
				VisitingUnit: params.VisitingUnit,
				Status:       persistence.VisitorStatusEntered,
				EntryTime:    time.Now(),
			}, nil
		},
	}

	svc := New(visitors, &mockParkingStore{})

	log, err := svc.RegisterEntry(context.Background(), tenant.Scope{}, EntryInput{
		VisitorName:  " John Visitor ",
		VisitingUnit: " A-101 ",
	})
	require.NoError(t, err)
	require.Equal(t, persistence.VisitorStatusEntered, log.Status)
	require.Nil(t, log.ExitTime)
}

func TestRecordExitOneDirectional(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	visitors := &mockVisitorStore{
		markExitFn: func(_ context.Context, _ tenant.Scope, gotID uuid.UUID) (persistence.VisitorLog, error) {
			require.Equal(t, id, gotID)
			return persistence.VisitorLog{}, persistence.ErrVisitorExited
		},
	}

	svc := New(visitors, &mockParkingStore{})

	_, err := svc.RecordExit(context.Background(), tenant.Scope{}, id)
	require.ErrorIs(t, err, ErrAlreadyExited)
}

func TestRecordExitUnknownLog(t *testing.T) {
	t.Parallel()

	visitors := &mockVisitorStore{
		markExitFn: func(_ context.Context, _ tenant.Scope, _ uuid.UUID) (persistence.VisitorLog, error) {
			return persistence.VisitorLog{}, persistence.ErrVisitorNotFound
		},
	}

	svc := New(visitors, &mockParkingStore{})

	_, err := svc.RecordExit(context.Background(), tenant.Scope{}, uuid.New())
	require.ErrorIs(t, err, ErrLogNotFound)
}

func TestSummaryCounters(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 15, 14, 0, 0, 0, time.UTC)
	thisMorning := time.Date(2026, time.March, 15, 8, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)

	visitors := &mockVisitorStore{
		listFn: func(_ context.Context, _ tenant.Scope, limit int) ([]persistence.VisitorLog, error) {
			require.Equal(t, 50, limit)
			return []persistence.VisitorLog{
				{Status: persistence.VisitorStatusEntered, EntryTime: thisMorning},
				{Status: persistence.VisitorStatusExited, EntryTime: thisMorning},
				{Status: persistence.VisitorStatusExited, EntryTime: yesterday},
			}, nil
		},
	}
	parking := &mockParkingStore{
		listFn: func(_ context.Context, _ tenant.Scope) ([]persistence.ParkingSlot, error) {
			return []persistence.ParkingSlot{
				{SlotNumber: "P-1", IsOccupied: true},
				{SlotNumber: "P-2"},
				{SlotNumber: "P-3", IsOccupied: true},
			}, nil
		},
	}

	svc := New(visitors, parking, WithNowFunc(func() time.Time { return now }))

	overview, err := svc.Summary(context.Background(), tenant.Scope{TenantID: uuid.New()})
	require.NoError(t, err)
	require.Equal(t, 1, overview.ActiveVisitors)
	require.Equal(t, 2, overview.TodaysVisitors)
	require.Equal(t, 2, overview.OccupiedSlots)
	require.Equal(t, 3, overview.TotalSlots)
}
