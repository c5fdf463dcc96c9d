package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rlst8/rlst8/platform/go/persistence"
	"github.com/rlst8/rlst8/platform/go/tenant"
)

// PartialPolicy controls what happens when a dashboard section fails to load.
type PartialPolicy int

const (
	// PartialZero zeroes the failed section and says nothing to the caller.
	// Matches the historical behavior of the product.
	PartialZero PartialPolicy = iota
	// PartialWarn zeroes the failed section and names it in Summary.Degraded
	// so clients can flag stale numbers.
	PartialWarn
)

// Section names reported under PartialWarn.
const (
	SectionProperties  = "properties"
	SectionTenancies   = "tenancies"
	SectionPayments    = "payments"
	SectionMaintenance = "maintenance"
)

// Occupancy summarizes unit usage across all active properties.
type Occupancy struct {
	TotalProperties int     `json:"total_properties"`
	TotalUnits      int     `json:"total_units"`
	OccupiedUnits   int     `json:"occupied_units"`
	VacantUnits     int     `json:"vacant_units"`
	Rate            float64 `json:"rate"`
}

// TenancyCounts summarizes leases by status.
type TenancyCounts struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	OnNotice int `json:"on_notice"`
}

// PaymentTotals summarizes revenue and outstanding payments.
type PaymentTotals struct {
	ThisMonthRevenue float64 `json:"this_month_revenue"`
	TotalRevenue     float64 `json:"total_revenue"`
	Pending          int     `json:"pending"`
	Overdue          int     `json:"overdue"`
}

// MaintenanceTotals summarizes requests by status plus the projected cost.
type MaintenanceTotals struct {
	Open       int     `json:"open"`
	InProgress int     `json:"in_progress"`
	Completed  int     `json:"completed"`
	TotalCost  float64 `json:"total_cost"`
}

// Summary is the dashboard payload.
type Summary struct {
	Occupancy   Occupancy         `json:"occupancy"`
	Tenancies   TenancyCounts     `json:"tenancies"`
	Payments    PaymentTotals     `json:"payments"`
	Maintenance MaintenanceTotals `json:"maintenance"`
	Degraded    []string          `json:"degraded,omitempty"`
}

// Stores is the persistence surface the dashboard reads from.
type Stores struct {
	Properties  PropertyLister
	Tenancies   TenancyLister
	Payments    PaymentLister
	Maintenance MaintenanceLister
}

type PropertyLister interface {
	ListActive(ctx context.Context, scope tenant.Scope) ([]persistence.Property, error)
}

type TenancyLister interface {
	List(ctx context.Context, scope tenant.Scope) ([]persistence.Tenancy, error)
}

type PaymentLister interface {
	List(ctx context.Context, scope tenant.Scope) ([]persistence.Payment, error)
}

type MaintenanceLister interface {
	List(ctx context.Context, scope tenant.Scope) ([]persistence.MaintenanceRequest, error)
}

// Service computes the dashboard summary.
type Service interface {
	Summary(ctx context.Context, scope tenant.Scope) (Summary, error)
}

type service struct {
	stores Stores
	policy PartialPolicy
	logger *zap.Logger
	nowFn  func() time.Time
}

// Option configures the service.
type Option func(*service)

// WithPartialPolicy overrides the default silent-degradation behavior.
func WithPartialPolicy(policy PartialPolicy) Option {
	return func(s *service) { s.policy = policy }
}

// WithNowFunc overrides the clock. Used by tests.
func WithNowFunc(nowFn func() time.Time) Option {
	return func(s *service) { s.nowFn = nowFn }
}

// New constructs a dashboard Service instance.
func New(stores Stores, logger *zap.Logger, opts ...Option) Service {
	if stores.Properties == nil || stores.Tenancies == nil || stores.Payments == nil || stores.Maintenance == nil {
		panic("all dashboard stores are required")
	}
	if logger == nil {
		panic("logger is required")
	}

	svc := &service{stores: stores, policy: PartialZero, logger: logger, nowFn: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Summary issues the four section queries concurrently and reduces the rows
// into counters. A failed section never fails the whole summary: it is zeroed
// and, depending on the policy, reported in Degraded.
func (s *service) Summary(ctx context.Context, scope tenant.Scope) (Summary, error) {
	var (
		properties  []persistence.Property
		tenancies   []persistence.Tenancy
		payments    []persistence.Payment
		maintenance []persistence.MaintenanceRequest

		failed = make([]string, 0, 4)
	)

	group, groupCtx := errgroup.WithContext(ctx)

	var sectionResults [4]error
	group.Go(func() error {
		var err error
		properties, err = s.stores.Properties.ListActive(groupCtx, scope)
		sectionResults[0] = err
		return nil
	})
	group.Go(func() error {
		var err error
		tenancies, err = s.stores.Tenancies.List(groupCtx, scope)
		sectionResults[1] = err
		return nil
	})
	group.Go(func() error {
		var err error
		payments, err = s.stores.Payments.List(groupCtx, scope)
		sectionResults[2] = err
		return nil
	})
	group.Go(func() error {
		var err error
		maintenance, err = s.stores.Maintenance.List(groupCtx, scope)
		sectionResults[3] = err
		return nil
	})

	_ = group.Wait()

	sectionNames := [4]string{SectionProperties, SectionTenancies, SectionPayments, SectionMaintenance}
	for i, err := range sectionResults {
		if err != nil {
			s.logger.Warn("dashboard section failed",
				zap.String("section", sectionNames[i]),
				zap.String("tenant_id", scope.TenantID.String()),
				zap.Error(err))
			failed = append(failed, sectionNames[i])
		}
	}

	summary := Summary{
		Occupancy:   reduceOccupancy(properties),
		Tenancies:   reduceTenancies(tenancies),
		Payments:    reducePayments(payments, s.nowFn()),
		Maintenance: reduceMaintenance(maintenance),
	}

	if s.policy == PartialWarn && len(failed) > 0 {
		summary.Degraded = failed
	}

	return summary, nil
}

func reduceOccupancy(properties []persistence.Property) Occupancy {
	occ := Occupancy{TotalProperties: len(properties)}
	for _, p := range properties {
		occ.TotalUnits += p.TotalUnits
		occ.OccupiedUnits += p.OccupiedUnits
	}
	occ.VacantUnits = occ.TotalUnits - occ.OccupiedUnits
	if occ.TotalUnits > 0 {
		occ.Rate = float64(occ.OccupiedUnits) / float64(occ.TotalUnits) * 100
	}
	return occ
}

func reduceTenancies(tenancies []persistence.Tenancy) TenancyCounts {
	counts := TenancyCounts{Total: len(tenancies)}
	for _, t := range tenancies {
		switch t.Status {
		case persistence.TenancyStatusActive:
			counts.Active++
		case persistence.TenancyStatusOnNotice:
			counts.OnNotice++
		}
	}
	return counts
}

func reducePayments(payments []persistence.Payment, now time.Time) PaymentTotals {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var totals PaymentTotals
	for _, p := range payments {
		switch p.Status {
		case persistence.PaymentStatusCompleted:
			totals.TotalRevenue += p.Amount
			if p.PaymentDate != nil && !p.PaymentDate.Before(monthStart) {
				totals.ThisMonthRevenue += p.Amount
			}
		case persistence.PaymentStatusPending:
			totals.Pending++
			if p.DueDate != nil && p.DueDate.Before(now) {
				totals.Overdue++
			}
		}
	}
	return totals
}

func reduceMaintenance(requests []persistence.MaintenanceRequest) MaintenanceTotals {
	var totals MaintenanceTotals
	for _, m := range requests {
		switch m.Status {
		case persistence.MaintenanceStatusOpen:
			totals.Open++
		case persistence.MaintenanceStatusInProgress:
			totals.InProgress++
		case persistence.MaintenanceStatusCompleted:
			totals.Completed++
		}

		switch {
		case m.ActualCost != nil:
			totals.TotalCost += *m.ActualCost
		case m.EstimatedCost != nil:
			totals.TotalCost += *m.EstimatedCost
		}
	}
	return totals
}
