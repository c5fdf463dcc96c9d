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

const PropertiesTable = "properties"

// Property is one managed building/estate within an organization.
type Property struct {
	ID            uuid.UUID `db:"id"`
	TenantID      uuid.UUID `db:"tenant_id"`
	Name          string    `db:"name"`
	Address       string    `db:"address"`
	PropertyType  string    `db:"property_type"`
	TotalUnits    int       `db:"total_units"`
	OccupiedUnits int       `db:"occupied_units"`
	MonthlyRent   *float64  `db:"monthly_rent"`
	IsActive      bool      `db:"is_active"`
	CreatedAt     time.Time `db:"created_at"`
}

type PropertyStore struct {
	pool *pgxpool.Pool
}

func NewPropertyStore(pool *pgxpool.Pool) (*PropertyStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &PropertyStore{pool: pool}, nil
}

const propertyColumns = "id, tenant_id, name, address, property_type, total_units, occupied_units, monthly_rent, is_active, created_at"

// ListActive returns the scope's active properties, newest first.
func (s *PropertyStore) ListActive(ctx context.Context, scope tenant.Scope) ([]Property, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
        SELECT %s FROM %s
        WHERE tenant_id = $1 AND is_active = TRUE
        ORDER BY created_at DESC
    `, propertyColumns, PropertiesTable), scope.TenantID)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()

	return collectProperties(rows)
}

// CreatePropertyParams captures the fields for a new property row.
type CreatePropertyParams struct {
	Name          string
	Address       string
	PropertyType  string
	TotalUnits    int
	OccupiedUnits int
	MonthlyRent   *float64
}

// Create inserts a property into the scope and returns the persisted row.
func (s *PropertyStore) Create(ctx context.Context, scope tenant.Scope, params CreatePropertyParams) (Property, error) {
	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
        INSERT INTO %s (id, tenant_id, name, address, property_type, total_units, occupied_units, monthly_rent, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
        RETURNING %s
    `, PropertiesTable, propertyColumns),
		uuid.New(), scope.TenantID, strings.TrimSpace(params.Name), strings.TrimSpace(params.Address),
		params.PropertyType, params.TotalUnits, params.OccupiedUnits, params.MonthlyRent,
	)

	return scanProperty(row)
}

// Get returns a property within the scope.
func (s *PropertyStore) Get(ctx context.Context, scope tenant.Scope, id uuid.UUID) (Property, error) {
	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
        SELECT %s FROM %s WHERE tenant_id = $1 AND id = $2
    `, propertyColumns, PropertiesTable), scope.TenantID, id)

	property, err := scanProperty(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Property{}, ErrPropertyNotFound
		}
		return Property{}, err
	}
	return property, nil
}

// Search finds active properties matching the term on name or address.
func (s *PropertyStore) Search(ctx context.Context, scope tenant.Scope, term string, limit int) ([]Property, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"

	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
        SELECT %s FROM %s
        WHERE tenant_id = $1
          AND (LOWER(name) LIKE $2 OR LOWER(address) LIKE $2)
        ORDER BY name
        LIMIT $3
    `, propertyColumns, PropertiesTable), scope.TenantID, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search properties: %w", err)
	}
	defer rows.Close()

	return collectProperties(rows)
}

func collectProperties(rows pgx.Rows) ([]Property, error) {
	properties := make([]Property, 0)
	for rows.Next() {
		property, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		properties = append(properties, property)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate properties: %w", err)
	}
	return properties, nil
}

func scanProperty(row pgx.Row) (Property, error) {
	var p Property
	if err := row.Scan(&p.ID, &p.TenantID, &p.Name, &p.Address, &p.PropertyType,
		&p.TotalUnits, &p.OccupiedUnits, &p.MonthlyRent, &p.IsActive, &p.CreatedAt); err != nil {
		return Property{}, err
	}
	return p, nil
}
