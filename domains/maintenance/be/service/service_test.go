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
	listFn   func(ctx context.Context, scope tenant.Scope) ([]persistence.MaintenanceRequest, error)
	createFn func(ctx context.Context, scope tenant.Scope, params persistence.CreateMaintenanceRequestParams) (persistence.MaintenanceRequest, error)
}

func (m *mockStore) List(ctx context.Context, scope tenant.Scope) ([]persistence.MaintenanceRequest, error) {
	if m.listFn == nil {
		panic("listFn not configured")
	}
	return m.listFn(ctx, scope)
}

func (m *mockStore) Create(ctx context.Context, scope tenant.Scope, params persistence.CreateMaintenanceRequestParams) (persistence.MaintenanceRequest, error) {
	if m.createFn == nil {
		panic("createFn not configured")
	}
	return m.createFn(ctx, scope, params)
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()

	svc := New(&mockStore{})

	_, err := svc.Create(context.Background(), tenant.Scope{}, CreateInput{Priority: "whenever"})
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.Contains(t, validationErr.Fields, "propertyId")
	require.Contains(t, validationErr.Fields, "title")
	require.Contains(t, validationErr.Fields, "priority")
}

func TestCreateDefaultsPriority(t *testing.T) {
	t.Parallel()

	svc := New(&mockStore{
		createFn: func(_ context.Context, _ tenant.Scope, params persistence.CreateMaintenanceRequestParams) (persistence.MaintenanceRequest, error) {
			require.Equal(t, "medium", params.Priority)
			require.Equal(t, "Leaking tap", params.Title)
			return persistence.MaintenanceRequest{
				ID:       uuid.New(),
				Title:    params.Title,
				Priority: params.Priority,
				Status:   persistence.MaintenanceStatusOpen,
			}, nil
		},
	})

	request, err := svc.Create(context.Background(), tenant.Scope{}, CreateInput{
		PropertyID: uuid.New(),
		Title:      " Leaking tap ",
	})
	require.NoError(t, err)
	require.Equal(t, persistence.MaintenanceStatusOpen, request.Status)
}

func TestCreateRejectsForeignProperty(t *testing.T) {
	t.Parallel()

	svc := New(&mockStore{
		createFn: func(_ context.Context, _ tenant.Scope, _ persistence.CreateMaintenanceRequestParams) (persistence.MaintenanceRequest, error) {
			return persistence.MaintenanceRequest{}, persistence.ErrPropertyNotFound
		},
	})

	_, err := svc.Create(context.Background(), tenant.Scope{TenantID: uuid.New()}, CreateInput{
		PropertyID: uuid.New(),
		Title:      "Broken gate",
	})
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.Contains(t, validationErr.Fields, "propertyId")
	require.NotErrorIs(t, err, persistence.ErrPropertyNotFound)
}
