package service

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rlst8/rlst8/platform/go/persistence"
	"github.com/rlst8/rlst8/platform/go/tenant"
)

// Each category is capped independently; no ranking beyond relation order.
const categoryLimit = 10

// Results groups the matches per category.
type Results struct {
	Properties  []persistence.Property           `json:"properties"`
	Occupants   []persistence.User               `json:"occupants"`
	Payments    []persistence.Payment            `json:"payments"`
	Maintenance []persistence.MaintenanceRequest `json:"maintenance"`
	Total       int                              `json:"total"`
}

// Stores is the persistence surface the search fans out over.
type Stores struct {
	Properties  PropertySearcher
	Occupants   OccupantSearcher
	Payments    PaymentSearcher
	Maintenance MaintenanceSearcher
}

type PropertySearcher interface {
	Search(ctx context.Context, scope tenant.Scope, term string, limit int) ([]persistence.Property, error)
}

type OccupantSearcher interface {
	SearchOccupants(ctx context.Context, scope tenant.Scope, term string, limit int) ([]persistence.User, error)
}

type PaymentSearcher interface {
	Search(ctx context.Context, scope tenant.Scope, term string, limit int) ([]persistence.Payment, error)
}

type MaintenanceSearcher interface {
	Search(ctx context.Context, scope tenant.Scope, term string, limit int) ([]persistence.MaintenanceRequest, error)
}

// Service runs the global search.
type Service interface {
	Search(ctx context.Context, scope tenant.Scope, term string) (Results, error)
}

type service struct {
	stores Stores
	logger *zap.Logger
}

// New constructs a search Service instance.
func New(stores Stores, logger *zap.Logger) Service {
	if stores.Properties == nil || stores.Occupants == nil || stores.Payments == nil || stores.Maintenance == nil {
		panic("all search stores are required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &service{stores: stores, logger: logger}
}

// Search issues the four category queries concurrently and merges the
// results. A failed category returns empty rather than failing the whole
// search.
func (s *service) Search(ctx context.Context, scope tenant.Scope, term string) (Results, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return Results{
			Properties:  []persistence.Property{},
			Occupants:   []persistence.User{},
			Payments:    []persistence.Payment{},
			Maintenance: []persistence.MaintenanceRequest{},
		}, nil
	}

	results := Results{}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		rows, err := s.stores.Properties.Search(groupCtx, scope, term, categoryLimit)
		if err != nil {
			s.logCategoryFailure("properties", scope, err)
			rows = nil
		}
		results.Properties = emptyIfNil(rows)
		return nil
	})
	group.Go(func() error {
		rows, err := s.stores.Occupants.SearchOccupants(groupCtx, scope, term, categoryLimit)
		if err != nil {
			s.logCategoryFailure("occupants", scope, err)
			rows = nil
		}
		results.Occupants = emptyIfNil(rows)
		return nil
	})
	group.Go(func() error {
		rows, err := s.stores.Payments.Search(groupCtx, scope, term, categoryLimit)
		if err != nil {
			s.logCategoryFailure("payments", scope, err)
			rows = nil
		}
		results.Payments = emptyIfNil(rows)
		return nil
	})
	group.Go(func() error {
		rows, err := s.stores.Maintenance.Search(groupCtx, scope, term, categoryLimit)
		if err != nil {
			s.logCategoryFailure("maintenance", scope, err)
			rows = nil
		}
		results.Maintenance = emptyIfNil(rows)
		return nil
	})

	_ = group.Wait()

	results.Total = len(results.Properties) + len(results.Occupants) + len(results.Payments) + len(results.Maintenance)
	return results, nil
}

func (s *service) logCategoryFailure(category string, scope tenant.Scope, err error) {
	s.logger.Warn("search category failed",
		zap.String("category", category),
		zap.String("tenant_id", scope.TenantID.String()),
		zap.Error(err))
}

func emptyIfNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
