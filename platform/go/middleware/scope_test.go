package middleware

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	platformauth "github.com/rlst8/rlst8/platform/go/auth"
	"github.com/rlst8/rlst8/platform/go/tenant"
)

type mockResolver struct {
	calls     int
	resolveFn func(ctx context.Context, authUserID string) (tenant.Scope, error)
}

func (m *mockResolver) ResolveScope(ctx context.Context, authUserID string) (tenant.Scope, error) {
	m.calls++
	if m.resolveFn == nil {
		panic("resolveFn not configured")
	}
	return m.resolveFn(ctx, authUserID)
}

// unsignedToken builds a JWT-shaped token with the given claims and no
// signature, suitable for the unsigned dev verifier.
func unsignedToken(t *testing.T, claims map[string]interface{}) string {
	t.Helper()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + "."
}

func scopedHandler(t *testing.T, captured *tenant.Scope) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scope, ok := tenant.FromContext(r.Context())
		require.True(t, ok)
		*captured = scope
		w.WriteHeader(http.StatusOK)
	})
}

func TestWithScopeRejectsUnauthenticated(t *testing.T) {
	t.Parallel()

	resolver := &mockResolver{}
	handler := WithScope(resolver, ScopeConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without credentials")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Body.String(), "authentication required")
	require.Zero(t, resolver.calls)
}

func TestWithScopeRejectsUnprovisionedAccount(t *testing.T) {
	t.Parallel()

	resolver := &mockResolver{
		resolveFn: func(ctx context.Context, authUserID string) (tenant.Scope, error) {
			return tenant.Scope{}, errors.New("no user row")
		},
	}

	handler := platformauth.JWT(platformauth.UnsignedTokenVerifier())(
		WithScope(resolver, ScopeConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run without a resolved scope")
		})),
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+unsignedToken(t, map[string]interface{}{"sub": "fb-ghost"}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Body.String(), "account not provisioned")
}

func TestWithScopeAttachesResolvedScope(t *testing.T) {
	t.Parallel()

	want := tenant.Scope{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
		Role:     "company_admin",
	}
	resolver := &mockResolver{
		resolveFn: func(ctx context.Context, authUserID string) (tenant.Scope, error) {
			require.Equal(t, "fb-123", authUserID)
			return want, nil
		},
	}

	var got tenant.Scope
	handler := platformauth.JWT(platformauth.UnsignedTokenVerifier())(
		WithScope(resolver, ScopeConfig{})(scopedHandler(t, &got)),
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+unsignedToken(t, map[string]interface{}{"sub": "fb-123"}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, want, got)
}

func TestWithScopeCachesResolution(t *testing.T) {
	t.Parallel()

	scope := tenant.Scope{TenantID: uuid.New(), UserID: uuid.New(), Role: "agent"}
	resolver := &mockResolver{
		resolveFn: func(ctx context.Context, authUserID string) (tenant.Scope, error) {
			return scope, nil
		},
	}

	var got tenant.Scope
	handler := platformauth.JWT(platformauth.UnsignedTokenVerifier())(
		WithScope(resolver, ScopeConfig{CacheTTL: time.Minute})(scopedHandler(t, &got)),
	)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+unsignedToken(t, map[string]interface{}{"sub": "fb-123"}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	require.Equal(t, 1, resolver.calls)
	require.Equal(t, scope, got)
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guarded := RequireRole("company_admin", "security_guard")(next)

	t.Run("allowed role passes", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := tenant.WithScope(req.Context(), tenant.Scope{TenantID: uuid.New(), UserID: uuid.New(), Role: "security_guard"})
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req.WithContext(ctx))

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("other role is forbidden", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := tenant.WithScope(req.Context(), tenant.Scope{TenantID: uuid.New(), UserID: uuid.New(), Role: "tenant"})
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req.WithContext(ctx))

		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
		require.Contains(t, rec.Body.String(), "insufficient role")
	})

	t.Run("missing scope is unauthorized", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
