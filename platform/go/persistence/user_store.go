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

const UsersTable = "users"

// Application roles. Stored as plain strings; RoleValid gates writes.
const (
	RoleCompanyAdmin        = "company_admin"
	RoleAgent               = "agent"
	RoleLandlord            = "landlord"
	RoleOccupant            = "tenant"
	RoleMaintenanceProvider = "maintenance_provider"
	RoleSecurityGuard       = "security_guard"
	RoleCaretaker           = "caretaker"
)

// RoleValid reports whether role is one of the fixed application roles.
func RoleValid(role string) bool {
	switch role {
	case RoleCompanyAdmin, RoleAgent, RoleLandlord, RoleOccupant,
		RoleMaintenanceProvider, RoleSecurityGuard, RoleCaretaker:
		return true
	}
	return false
}

// User is an application user row, keyed to the external auth principal via
// AuthUserID and to its organization via TenantID.
type User struct {
	ID         uuid.UUID `db:"id"`
	AuthUserID string    `db:"auth_user_id"`
	TenantID   uuid.UUID `db:"tenant_id"`
	Role       string    `db:"role"`
	FullName   string    `db:"full_name"`
	Email      string    `db:"email"`
	Phone      *string   `db:"phone"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// UserStore exposes lookups against the users table. The two Get methods are
// deliberately unscoped: they are what session resolution uses to discover
// the tenant in the first place. Everything else takes a Scope.
type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) (*UserStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &UserStore{pool: pool}, nil
}

const userColumns = "id, auth_user_id, tenant_id, role, full_name, email, phone, created_at, updated_at"

// GetByAuthUserID returns the user row linked to the external auth principal.
func (s *UserStore) GetByAuthUserID(ctx context.Context, authUserID string) (User, error) {
	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
        SELECT %s FROM %s WHERE auth_user_id = $1
    `, userColumns, UsersTable), authUserID)

	return scanUserNotFound(row)
}

// GetByEmail returns the user row for an email address (sign-in lookup).
func (s *UserStore) GetByEmail(ctx context.Context, email string) (User, error) {
	row := s.pool.QueryRow(ctx, fmt.Sprintf(`
        SELECT %s FROM %s WHERE email = $1
    `, userColumns, UsersTable), strings.ToLower(strings.TrimSpace(email)))

	return scanUserNotFound(row)
}

// SearchOccupants finds tenant-role users within the scope whose name, email
// or phone matches the term. Capped by limit.
func (s *UserStore) SearchOccupants(ctx context.Context, scope tenant.Scope, term string, limit int) ([]User, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"

	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
        SELECT %s FROM %s
        WHERE tenant_id = $1
          AND role = $2
          AND (LOWER(full_name) LIKE $3 OR LOWER(email) LIKE $3 OR COALESCE(phone, '') LIKE $3)
        ORDER BY full_name
        LIMIT $4
    `, userColumns, UsersTable), scope.TenantID, RoleOccupant, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search occupants: %w", err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

func collectUsers(rows pgx.Rows) ([]User, error) {
	users := make([]User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func scanUserNotFound(row pgx.Row) (User, error) {
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return user, nil
}

func scanUser(row pgx.Row) (User, error) {
	var user User
	if err := row.Scan(&user.ID, &user.AuthUserID, &user.TenantID, &user.Role,
		&user.FullName, &user.Email, &user.Phone, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return User{}, err
	}
	return user, nil
}
