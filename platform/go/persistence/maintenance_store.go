package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rlst8/rlst8/platform/go/tenant"
)

const MaintenanceRequestsTable = "maintenance_requests"

// Maintenance request statuses.
const (
	MaintenanceStatusOpen       = "open"
	MaintenanceStatusInProgress = "in_progress"
	MaintenanceStatusCompleted  = "completed"
	MaintenanceStatusCancelled  = "cancelled"
)

// MaintenanceRequest is a reported issue against a property. PropertyName is
// joined in for list views.
type MaintenanceRequest struct {
	ID            uuid.UUID  `db:"id"`
	TenantID      uuid.UUID  `db:"tenant_id"`
	PropertyID    uuid.UUID  `db:"property_id"`
	Title         string     `db:"title"`
	Description   *string    `db:"description"`
	Category      *string    `db:"category"`
	Priority      string     `db:"priority"`
	Status        string     `db:"status"`
	ReportedBy    *uuid.UUID `db:"reported_by"`
	AssignedTo    *uuid.UUID `db:"assigned_to"`
	EstimatedCost *float64   `db:"estimated_cost"`
	ActualCost    *float64   `db:"actual_cost"`
	CompletedAt   *time.Time `db:"completed_at"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
	PropertyName  string     `db:"property_name"`
}

type MaintenanceStore struct {
	pool *pgxpool.Pool
}

func NewMaintenanceStore(pool *pgxpool.Pool) (*MaintenanceStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &MaintenanceStore{pool: pool}, nil
}

const maintenanceSelect = `
        SELECT m.id, m.tenant_id, m.property_id, m.title, m.description, m.category,
               m.priority, m.status, m.reported_by, m.assigned_to,
               m.estimated_cost, m.actual_cost, m.completed_at, m.created_at, m.updated_at,
               p.name AS property_name
        FROM maintenance_requests m
        JOIN properties p ON p.id = m.property_id`

// List returns the scope's maintenance requests, newest first.
func (s *MaintenanceStore) List(ctx context.Context, scope tenant.Scope) ([]MaintenanceRequest, error) {
	rows, err := s.pool.Query(ctx, maintenanceSelect+`
        WHERE m.tenant_id = $1
        ORDER BY m.created_at DESC
    `, scope.TenantID)
	if err != nil {
		return nil, fmt.Errorf("list maintenance requests: %w", err)
	}
	defer rows.Close()

	return collectMaintenanceRequests(rows)
}

type CreateMaintenanceRequestParams struct {
	PropertyID  uuid.UUID
	Title       string
	Description *string
	Category    *string
	Priority    string
}

// Create inserts a new open request reported by the scope's user. The insert
// selects from properties under the same tenant_id, so a property id from
// another scope inserts zero rows and surfaces as ErrPropertyNotFound.
func (s *MaintenanceStore) Create(ctx context.Context, scope tenant.Scope, params CreateMaintenanceRequestParams) (MaintenanceRequest, error) {
	row := s.pool.QueryRow(ctx, `
        INSERT INTO maintenance_requests (tenant_id, property_id, title, description, category, priority, status, reported_by)
        SELECT $1, p.id, $3, $4, $5, $6, $7, $8
        FROM properties p
        WHERE p.id = $2 AND p.tenant_id = $1
        RETURNING id, tenant_id, property_id, title, description, category,
                  priority, status, reported_by, assigned_to,
                  estimated_cost, actual_cost, completed_at, created_at, updated_at
    `, scope.TenantID, params.PropertyID, params.Title, params.Description,
		params.Category, params.Priority, MaintenanceStatusOpen, scope.UserID)

	var m MaintenanceRequest
	if err := row.Scan(&m.ID, &m.TenantID, &m.PropertyID, &m.Title, &m.Description, &m.Category,
		&m.Priority, &m.Status, &m.ReportedBy, &m.AssignedTo,
		&m.EstimatedCost, &m.ActualCost, &m.CompletedAt, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MaintenanceRequest{}, ErrPropertyNotFound
		}
		return MaintenanceRequest{}, fmt.Errorf("create maintenance request: %w", err)
	}
	return m, nil
}

// Search finds requests whose title or description matches the term.
func (s *MaintenanceStore) Search(ctx context.Context, scope tenant.Scope, term string, limit int) ([]MaintenanceRequest, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"

	rows, err := s.pool.Query(ctx, maintenanceSelect+`
        WHERE m.tenant_id = $1
          AND (LOWER(m.title) LIKE $2 OR LOWER(COALESCE(m.description, '')) LIKE $2)
        ORDER BY m.created_at DESC
        LIMIT $3
    `, scope.TenantID, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search maintenance requests: %w", err)
	}
	defer rows.Close()

	return collectMaintenanceRequests(rows)
}

func collectMaintenanceRequests(rows pgx.Rows) ([]MaintenanceRequest, error) {
	requests := make([]MaintenanceRequest, 0)
	for rows.Next() {
		var m MaintenanceRequest
		if err := rows.Scan(&m.ID, &m.TenantID, &m.PropertyID, &m.Title, &m.Description, &m.Category,
			&m.Priority, &m.Status, &m.ReportedBy, &m.AssignedTo,
			&m.EstimatedCost, &m.ActualCost, &m.CompletedAt, &m.CreatedAt, &m.UpdatedAt,
			&m.PropertyName); err != nil {
			return nil, fmt.Errorf("scan maintenance request: %w", err)
		}
		requests = append(requests, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate maintenance requests: %w", err)
	}
	return requests, nil
}
