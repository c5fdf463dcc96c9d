package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rlst8/rlst8/platform/go/persistence"
	"github.com/rlst8/rlst8/platform/go/tenant"
)

// FieldErrors maps request fields to validation issues.
type FieldErrors map[string][]string

// ValidationError is returned when the input payload is invalid.
type ValidationError struct {
	Fields FieldErrors
}

func (v *ValidationError) Error() string {
	return "validation error"
}

// Domain sentinel errors.
var (
	ErrLogNotFound   = errors.New("visitor log not found")
	ErrAlreadyExited = errors.New("visitor already exited")
)

const visitorListLimit = 50

// VisitorStore is the persistence surface for gate logs.
type VisitorStore interface {
	List(ctx context.Context, scope tenant.Scope, limit int) ([]persistence.VisitorLog, error)
	Insert(ctx context.Context, scope tenant.Scope, params persistence.CreateVisitorLogParams) (persistence.VisitorLog, error)
	MarkExit(ctx context.Context, scope tenant.Scope, id uuid.UUID) (persistence.VisitorLog, error)
}

// ParkingStore is the persistence surface for parking slots.
type ParkingStore interface {
	List(ctx context.Context, scope tenant.Scope) ([]persistence.ParkingSlot, error)
}

// EntryInput is the gate entry payload.
type EntryInput struct {
	VisitorName  string
	VisitorPhone *string
	VisitingUnit string
	HostName     *string
	Purpose      *string
	VehiclePlate *string
}

// Overview is the security page summary.
type Overview struct {
	ActiveVisitors int `json:"active_visitors"`
	TodaysVisitors int `json:"todays_visitors"`
	OccupiedSlots  int `json:"occupied_slots"`
	TotalSlots     int `json:"total_slots"`
}

// Service implements the gate workflows.
type Service interface {
	RegisterEntry(ctx context.Context, scope tenant.Scope, input EntryInput) (persistence.VisitorLog, error)
	RecordExit(ctx context.Context, scope tenant.Scope, id uuid.UUID) (persistence.VisitorLog, error)
	Visitors(ctx context.Context, scope tenant.Scope) ([]persistence.VisitorLog, error)
	ParkingSlots(ctx context.Context, scope tenant.Scope) ([]persistence.ParkingSlot, error)
	Summary(ctx context.Context, scope tenant.Scope) (Overview, error)
}

type service struct {
	visitors VisitorStore
	parking  ParkingStore
	nowFn    func() time.Time
}

// Option configures the service.
type Option func(*service)

// WithNowFunc overrides the clock. Used by tests.
func WithNowFunc(nowFn func() time.Time) Option {
	return func(s *service) { s.nowFn = nowFn }
}

// New constructs a security Service instance.
func New(visitors VisitorStore, parking ParkingStore, opts ...Option) Service {
	if visitors == nil {
		panic("visitor store is required")
	}
	if parking == nil {
		panic("parking store is required")
	}

	svc := &service{visitors: visitors, parking: parking, nowFn: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// RegisterEntry logs a visitor at the gate. New logs always start in the
// entered state.
func (s *service) RegisterEntry(ctx context.Context, scope tenant.Scope, input EntryInput) (persistence.VisitorLog, error) {
	fields := FieldErrors{}
	if strings.TrimSpace(input.VisitorName) == "" {
		fields["visitorName"] = append(fields["visitorName"], "visitor name is required")
	}
	if strings.TrimSpace(input.VisitingUnit) == "" {
		fields["visitingUnit"] = append(fields["visitingUnit"], "visiting unit is required")
	}
	if len(fields) > 0 {
		return persistence.VisitorLog{}, &ValidationError{Fields: fields}
	}

	log, err := s.visitors.Insert(ctx, scope, persistence.CreateVisitorLogParams{
		VisitorName:  strings.TrimSpace(input.VisitorName),
		VisitorPhone: input.VisitorPhone,
		VisitingUnit: strings.TrimSpace(input.VisitingUnit),
		HostName:     input.HostName,
		Purpose:      input.Purpose,
		VehiclePlate: input.VehiclePlate,
	})
	if err != nil {
		return persistence.VisitorLog{}, fmt.Errorf("register entry: %w", err)
	}
	return log, nil
}

// RecordExit transitions a log from entered to exited. The transition is
// one-directional; exiting an already exited log fails with
// ErrAlreadyExited.
func (s *service) RecordExit(ctx context.Context, scope tenant.Scope, id uuid.UUID) (persistence.VisitorLog, error) {
	log, err := s.visitors.MarkExit(ctx, scope, id)
	if err != nil {
		switch {
		case errors.Is(err, persistence.ErrVisitorExited):
			return persistence.VisitorLog{}, ErrAlreadyExited
		case errors.Is(err, persistence.ErrVisitorNotFound):
			return persistence.VisitorLog{}, ErrLogNotFound
		}
		return persistence.VisitorLog{}, fmt.Errorf("record exit: %w", err)
	}
	return log, nil
}

// Visitors lists recent gate logs.
func (s *service) Visitors(ctx context.Context, scope tenant.Scope) ([]persistence.VisitorLog, error) {
	logs, err := s.visitors.List(ctx, scope, visitorListLimit)
	if err != nil {
		return nil, fmt.Errorf("list visitors: %w", err)
	}
	return logs, nil
}

// ParkingSlots lists the tenant's slots.
func (s *service) ParkingSlots(ctx context.Context, scope tenant.Scope) ([]persistence.ParkingSlot, error) {
	slots, err := s.parking.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list parking slots: %w", err)
	}
	return slots, nil
}

// Summary reduces the gate logs and parking slots into the page counters.
func (s *service) Summary(ctx context.Context, scope tenant.Scope) (Overview, error) {
	logs, err := s.visitors.List(ctx, scope, visitorListLimit)
	if err != nil {
		return Overview{}, fmt.Errorf("summarize visitors: %w", err)
	}
	slots, err := s.parking.List(ctx, scope)
	if err != nil {
		return Overview{}, fmt.Errorf("summarize parking: %w", err)
	}

	now := s.nowFn()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	overview := Overview{TotalSlots: len(slots)}
	for _, log := range logs {
		if log.Status == persistence.VisitorStatusEntered {
			overview.ActiveVisitors++
		}
		if !log.EntryTime.Before(dayStart) {
			overview.TodaysVisitors++
		}
	}
	for _, slot := range slots {
		if slot.IsOccupied {
			overview.OccupiedSlots++
		}
	}
	return overview, nil
}
