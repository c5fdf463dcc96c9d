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

// Domain sentinel errors.
var (
	// ErrUnauthenticated is returned when a principal has no usable account
	// row, either because it does not exist or because it is missing the
	// fields a session needs.
	ErrUnauthenticated = errors.New("user is not provisioned")
)

// CurrentUser is the session view of an account: the authenticated user
// enriched with the organization it belongs to.
type CurrentUser struct {
	ID       uuid.UUID
	Email    string
	TenantID uuid.UUID
	Role     string
	FullName string
	Phone    *string
}

// Store is the persistence surface the users service needs.
type Store interface {
	GetByAuthUserID(ctx context.Context, authUserID string) (persistence.User, error)
	GetByEmail(ctx context.Context, email string) (persistence.User, error)
}

// Service resolves authenticated principals onto organization-scoped users.
type Service interface {
	Resolve(ctx context.Context, authUserID string) (CurrentUser, error)
	ResolveScope(ctx context.Context, authUserID string) (tenant.Scope, error)
	ByEmail(ctx context.Context, email string) (CurrentUser, error)
}

type service struct {
	store Store
}

// New constructs a users Service instance backed by the provided store.
func New(store Store) Service {
	if store == nil {
		panic("users store is required")
	}
	return &service{store: store}
}

// Resolve maps an auth provider uid onto the account row. A principal whose
// row is missing or incomplete cannot hold a session.
func (s *service) Resolve(ctx context.Context, authUserID string) (CurrentUser, error) {
	if strings.TrimSpace(authUserID) == "" {
		return CurrentUser{}, ErrUnauthenticated
	}

	user, err := s.store.GetByAuthUserID(ctx, authUserID)
	if err != nil {
		if errors.Is(err, persistence.ErrUserNotFound) {
			return CurrentUser{}, ErrUnauthenticated
		}
		return CurrentUser{}, fmt.Errorf("resolve user: %w", err)
	}

	return toCurrentUser(user)
}

// ResolveScope is Resolve narrowed to the scope triple, used by the HTTP
// middleware.
func (s *service) ResolveScope(ctx context.Context, authUserID string) (tenant.Scope, error) {
	user, err := s.Resolve(ctx, authUserID)
	if err != nil {
		return tenant.Scope{}, err
	}
	return tenant.Scope{TenantID: user.TenantID, UserID: user.ID, Role: user.Role}, nil
}

// ByEmail looks up the account row for a signed-in email.
func (s *service) ByEmail(ctx context.Context, email string) (CurrentUser, error) {
	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, persistence.ErrUserNotFound) {
			return CurrentUser{}, ErrUnauthenticated
		}
		return CurrentUser{}, fmt.Errorf("resolve user by email: %w", err)
	}

	return toCurrentUser(user)
}

func toCurrentUser(user persistence.User) (CurrentUser, error) {
	if user.TenantID == uuid.Nil || user.Role == "" {
		return CurrentUser{}, ErrUnauthenticated
	}

	return CurrentUser{
		ID:       user.ID,
		Email:    user.Email,
		TenantID: user.TenantID,
		Role:     user.Role,
		FullName: user.FullName,
		Phone:    user.Phone,
	}, nil
}
