package tenant

import (
	"context"

	"github.com/google/uuid"
)

// Scope captures the resolved tenant partition for a request.
// It is attached to the context by middleware once the session has been
// resolved, and every persistence call takes it explicitly: a query that
// cannot name a Scope cannot run, which keeps tenant filtering from being a
// per-call-site convention.
type Scope struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	Role     string
}

type ctxKey string

const scopeKey ctxKey = "RLST8_TENANT_SCOPE"

// WithScope returns a derived context carrying the tenant Scope.
func WithScope(ctx context.Context, scope Scope) context.Context {
	return context.WithValue(ctx, scopeKey, scope)
}

// FromContext extracts the tenant Scope and a boolean indicating presence.
func FromContext(ctx context.Context) (Scope, bool) {
	v := ctx.Value(scopeKey)
	if v == nil {
		return Scope{}, false
	}

	scope, ok := v.(Scope)
	return scope, ok
}
