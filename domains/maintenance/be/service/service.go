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

// Request priorities accepted on creation.
var validPriorities = map[string]struct{}{
	"low":    {},
	"medium": {},
	"high":   {},
	"urgent": {},
}

// Store is the persistence surface the maintenance service needs.
type Store interface {
	List(ctx context.Context, scope tenant.Scope) ([]persistence.MaintenanceRequest, error)
	Create(ctx context.Context, scope tenant.Scope, params persistence.CreateMaintenanceRequestParams) (persistence.MaintenanceRequest, error)
}

// CreateInput is the new-request payload.
type CreateInput struct {
	PropertyID  uuid.UUID
	Title       string
	Description *string
	Category    *string
	Priority    string
}

// Service implements the maintenance operations.
type Service interface {
	List(ctx context.Context, scope tenant.Scope) ([]persistence.MaintenanceRequest, error)
	Create(ctx context.Context, scope tenant.Scope, input CreateInput) (persistence.MaintenanceRequest, error)
}

type service struct {
	store Store
}

// New constructs a maintenance Service instance.
func New(store Store) Service {
	if store == nil {
		panic("maintenance store is required")
	}
	return &service{store: store}
}

func (s *service) List(ctx context.Context, scope tenant.Scope) ([]persistence.MaintenanceRequest, error) {
	requests, err := s.store.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list maintenance requests: %w", err)
	}
	return requests, nil
}

func (s *service) Create(ctx context.Context, scope tenant.Scope, input CreateInput) (persistence.MaintenanceRequest, error) {
	fields := FieldErrors{}
	if input.PropertyID == uuid.Nil {
		fields["propertyId"] = append(fields["propertyId"], "property id is required")
	}
	if strings.TrimSpace(input.Title) == "" {
		fields["title"] = append(fields["title"], "title is required")
	}

	priority := input.Priority
	if priority == "" {
		priority = "medium"
	}
	if _, ok := validPriorities[priority]; !ok {
		fields["priority"] = append(fields["priority"], "priority must be one of low, medium, high, urgent")
	}

	if len(fields) > 0 {
		return persistence.MaintenanceRequest{}, &ValidationError{Fields: fields}
	}

	request, err := s.store.Create(ctx, scope, persistence.CreateMaintenanceRequestParams{
		PropertyID:  input.PropertyID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Category:    input.Category,
		Priority:    priority,
	})
	if err != nil {
		if errors.Is(err, persistence.ErrPropertyNotFound) {
			return persistence.MaintenanceRequest{}, &ValidationError{Fields: FieldErrors{
				"propertyId": {"unknown property"},
			}}
		}
		return persistence.MaintenanceRequest{}, fmt.Errorf("create maintenance request: %w", err)
	}
	return request, nil
}
