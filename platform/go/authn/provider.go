// Package authn wraps the hosted authentication service. The rest of the
// codebase talks to the Provider interface; the Firebase implementation is
// the only production one.
package authn

import (
	"context"
	"errors"
)

// Principal is the external auth identity as returned by the provider.
type Principal struct {
	UID           string
	Email         string
	EmailVerified bool
}

// Errors surfaced by providers. Callers branch on these to pick HTTP codes;
// everything else is treated as a provider outage.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("auth user already exists")
	ErrUserNotFound       = errors.New("auth user not found")
)

// Provider is the hosted auth surface the application consumes, never
// implements: admin-side principal lifecycle plus password sign-in.
type Provider interface {
	// CreateUser provisions a principal with a confirmed email.
	CreateUser(ctx context.Context, email, password string) (Principal, error)
	// DeleteUser removes a principal. Used by the registration compensation
	// path, so implementations should be tolerant of repeated calls.
	DeleteUser(ctx context.Context, uid string) error
	// SignInWithPassword validates credentials and returns the principal.
	SignInWithPassword(ctx context.Context, email, password string) (Principal, error)
}
