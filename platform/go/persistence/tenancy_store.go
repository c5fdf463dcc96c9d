package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rlst8/rlst8/platform/go/tenant"
)

const TenanciesTable = "tenancies"

// Tenancy statuses. Transitions are not validated beyond filters.
const (
	TenancyStatusActive     = "active"
	TenancyStatusOnNotice   = "on_notice"
	TenancyStatusPending    = "pending"
	TenancyStatusTerminated = "terminated"
)

// Tenancy is a lease agreement linking an occupant to a unit within a
// property. PropertyName is joined in for list views.
type Tenancy struct {
	ID              uuid.UUID  `db:"id"`
	TenantID        uuid.UUID  `db:"tenant_id"`
	PropertyID      uuid.UUID  `db:"property_id"`
	UnitNumber      string     `db:"unit_number"`
	OccupantUserID  *uuid.UUID `db:"occupant_user_id"`
	FirstName       string     `db:"first_name"`
	LastName        string     `db:"last_name"`
	Email           *string    `db:"email"`
	Phone           *string    `db:"phone"`
	Status          string     `db:"status"`
	LeaseStart      *time.Time `db:"lease_start"`
	LeaseEnd        *time.Time `db:"lease_end"`
	MonthlyRent     *float64   `db:"monthly_rent"`
	SecurityDeposit *float64   `db:"security_deposit"`
	CreatedAt       time.Time  `db:"created_at"`
	PropertyName    string     `db:"property_name"`
}

type TenancyStore struct {
	pool *pgxpool.Pool
}

func NewTenancyStore(pool *pgxpool.Pool) (*TenancyStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &TenancyStore{pool: pool}, nil
}

// List returns all tenancies in the scope with the owning property name,
// newest first. Dashboards reduce the status counts from these rows.
func (s *TenancyStore) List(ctx context.Context, scope tenant.Scope) ([]Tenancy, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
        SELECT t.id, t.tenant_id, t.property_id, t.unit_number, t.occupant_user_id,
               t.first_name, t.last_name, t.email, t.phone, t.status,
               t.lease_start, t.lease_end, t.monthly_rent, t.security_deposit, t.created_at,
               p.name AS property_name
        FROM %s t
        JOIN %s p ON p.id = t.property_id
        WHERE t.tenant_id = $1
        ORDER BY t.created_at DESC
    `, TenanciesTable, PropertiesTable), scope.TenantID)
	if err != nil {
		return nil, fmt.Errorf("list tenancies: %w", err)
	}
	defer rows.Close()

	tenancies := make([]Tenancy, 0)
	for rows.Next() {
		tenancy, err := scanTenancy(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tenancy: %w", err)
		}
		tenancies = append(tenancies, tenancy)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tenancies: %w", err)
	}
	return tenancies, nil
}

func scanTenancy(row pgx.Row) (Tenancy, error) {
	var t Tenancy
	if err := row.Scan(&t.ID, &t.TenantID, &t.PropertyID, &t.UnitNumber, &t.OccupantUserID,
		&t.FirstName, &t.LastName, &t.Email, &t.Phone, &t.Status,
		&t.LeaseStart, &t.LeaseEnd, &t.MonthlyRent, &t.SecurityDeposit, &t.CreatedAt,
		&t.PropertyName); err != nil {
		return Tenancy{}, err
	}
	return t, nil
}
