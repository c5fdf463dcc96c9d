package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

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
	ErrNotFound = errors.New("property not found")
)

// Store is the persistence surface the properties service needs.
type Store interface {
	ListActive(ctx context.Context, scope tenant.Scope) ([]persistence.Property, error)
	Create(ctx context.Context, scope tenant.Scope, params persistence.CreatePropertyParams) (persistence.Property, error)
	Get(ctx context.Context, scope tenant.Scope, id uuid.UUID) (persistence.Property, error)
}

// CreateInput is the new-property payload.
type CreateInput struct {
	Name          string
	Address       string
	PropertyType  string
	TotalUnits    int
	OccupiedUnits int
	MonthlyRent   *float64
}

// Service implements the properties operations.
type Service interface {
	List(ctx context.Context, scope tenant.Scope) ([]persistence.Property, error)
	Create(ctx context.Context, scope tenant.Scope, input CreateInput) (persistence.Property, error)
	Get(ctx context.Context, scope tenant.Scope, id uuid.UUID) (persistence.Property, error)
}

type service struct {
	store Store
}

// New constructs a properties Service instance.
func New(store Store) Service {
	if store == nil {
		panic("property store is required")
	}
	return &service{store: store}
}

func (s *service) List(ctx context.Context, scope tenant.Scope) ([]persistence.Property, error) {
	properties, err := s.store.ListActive(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	return properties, nil
}

func (s *service) Create(ctx context.Context, scope tenant.Scope, input CreateInput) (persistence.Property, error) {
	if err := validateCreateInput(input); err != nil {
		return persistence.Property{}, err
	}

	property, err := s.store.Create(ctx, scope, persistence.CreatePropertyParams{
		Name:          strings.TrimSpace(input.Name),
		Address:       strings.TrimSpace(input.Address),
		PropertyType:  input.PropertyType,
		TotalUnits:    input.TotalUnits,
		OccupiedUnits: input.OccupiedUnits,
		MonthlyRent:   input.MonthlyRent,
	})
	if err != nil {
		return persistence.Property{}, fmt.Errorf("create property: %w", err)
	}
	return property, nil
}

func (s *service) Get(ctx context.Context, scope tenant.Scope, id uuid.UUID) (persistence.Property, error) {
	property, err := s.store.Get(ctx, scope, id)
	if err != nil {
		if errors.Is(err, persistence.ErrPropertyNotFound) {
			return persistence.Property{}, ErrNotFound
		}
		return persistence.Property{}, fmt.Errorf("get property: %w", err)
	}
	return property, nil
}

func validateCreateInput(input CreateInput) error {
	fields := FieldErrors{}

	if strings.TrimSpace(input.Name) == "" {
		fields["name"] = append(fields["name"], "name is required")
	}
	if strings.TrimSpace(input.Address) == "" {
		fields["address"] = append(fields["address"], "address is required")
	}
	if input.TotalUnits < 0 {
		fields["totalUnits"] = append(fields["totalUnits"], "total units cannot be negative")
	}
	if input.OccupiedUnits < 0 {
		fields["occupiedUnits"] = append(fields["occupiedUnits"], "occupied units cannot be negative")
	}
	if input.OccupiedUnits > input.TotalUnits {
		fields["occupiedUnits"] = append(fields["occupiedUnits"], "occupied units cannot exceed total units")
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
