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
)

// OrganizationsTable holds one row per customer organization (the root of
// the multi-tenant partition; every business table carries its id as
// tenant_id).
const OrganizationsTable = "organizations"

// Organization is the owning company, the "tenant" of the multi-tenant
// partition. Named organization here to avoid colliding with lease-holding
// occupants.
type Organization struct {
	ID                 uuid.UUID `db:"id"`
	Name               string    `db:"name"`
	ContactEmail       *string   `db:"contact_email"`
	ContactPhone       *string   `db:"contact_phone"`
	RegistrationNumber *string   `db:"registration_number"`
	Address            *string   `db:"address"`
	CreatedAt          time.Time `db:"created_at"`
}

// OrgStore provides access to the organizations table. Organizations are
// created during onboarding and essentially never mutated, so the surface
// is deliberately small.
type OrgStore struct {
	pool *pgxpool.Pool
}

func NewOrgStore(pool *pgxpool.Pool) (*OrgStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &OrgStore{pool: pool}, nil
}

// CreateOrgParams captures the onboarding payload for the organization row.
type CreateOrgParams struct {
	Name               string
	ContactEmail       *string
	ContactPhone       *string
	RegistrationNumber *string
	Address            *string
}

// CreateAdminParams captures the first user row created alongside the
// organization. Role is fixed to company_admin by the caller.
type CreateAdminParams struct {
	AuthUserID string
	Email      string
	FullName   string
	Phone      *string
	Role       string
}

// CreateOrgWithAdmin inserts the organization and its first user in a single
// transaction. Either both rows land or neither does, which is what makes
// the registration compensation path a single auth-principal delete.
func (s *OrgStore) CreateOrgWithAdmin(ctx context.Context, org CreateOrgParams, admin CreateAdminParams) (Organization, User, error) {
	if strings.TrimSpace(org.Name) == "" {
		return Organization{}, User{}, errors.New("organization name is required")
	}
	if strings.TrimSpace(admin.AuthUserID) == "" {
		return Organization{}, User{}, errors.New("auth user id is required")
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Organization{}, User{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	orgRow := tx.QueryRow(ctx, fmt.Sprintf(`
        INSERT INTO %s (id, name, contact_email, contact_phone, registration_number, address)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, name, contact_email, contact_phone, registration_number, address, created_at
    `, OrganizationsTable),
		uuid.New(), strings.TrimSpace(org.Name), org.ContactEmail, org.ContactPhone,
		org.RegistrationNumber, org.Address,
	)

	created, err := scanOrganization(orgRow)
	if err != nil {
		return Organization{}, User{}, fmt.Errorf("insert organization: %w", err)
	}

	userRow := tx.QueryRow(ctx, fmt.Sprintf(`
        INSERT INTO %s (id, auth_user_id, tenant_id, role, full_name, email, phone)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, auth_user_id, tenant_id, role, full_name, email, phone, created_at, updated_at
    `, UsersTable),
		uuid.New(), admin.AuthUserID, created.ID, admin.Role,
		strings.TrimSpace(admin.FullName), strings.ToLower(strings.TrimSpace(admin.Email)), admin.Phone,
	)

	adminUser, err := scanUser(userRow)
	if err != nil {
		if isUniqueViolation(err) {
			return Organization{}, User{}, ErrUserConflict
		}
		return Organization{}, User{}, fmt.Errorf("insert admin user: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Organization{}, User{}, fmt.Errorf("commit registration: %w", err)
	}

	return created, adminUser, nil
}

// GetOrg returns an organization by id.
func (s *OrgStore) GetOrg(ctx context.Context, id uuid.UUID) (Organization, error) {
	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
        SELECT id, name, contact_email, contact_phone, registration_number, address, created_at
        FROM %s WHERE id = $1
    `, OrganizationsTable), id)

	org, err := scanOrganization(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Organization{}, ErrOrgNotFound
		}
		return Organization{}, err
	}
	return org, nil
}

func scanOrganization(row pgx.Row) (Organization, error) {
	var org Organization
	if err := row.Scan(&org.ID, &org.Name, &org.ContactEmail, &org.ContactPhone,
		&org.RegistrationNumber, &org.Address, &org.CreatedAt); err != nil {
		return Organization{}, err
	}
	return org, nil
}
