package tenant

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestScopeRoundTrip(t *testing.T) {
	t.Parallel()

	scope := Scope{TenantID: uuid.New(), UserID: uuid.New(), Role: "company_admin"}
	ctx := WithScope(context.Background(), scope)

	got, ok := FromContext(ctx)
	require.True(t, ok)
	require.Equal(t, scope, got)
}

func TestScopeAbsent(t *testing.T) {
	t.Parallel()

	_, ok := FromContext(context.Background())
	require.False(t, ok)
}
