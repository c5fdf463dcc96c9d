package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	platformauth "github.com/rlst8/rlst8/platform/go/auth"
	"github.com/rlst8/rlst8/platform/go/httpjson"
	"github.com/rlst8/rlst8/platform/go/logging"
	"github.com/rlst8/rlst8/platform/go/tenant"
)

// Resolver maps an authenticated principal onto an organization scope.
// Implemented by the users service.
type Resolver interface {
	ResolveScope(ctx context.Context, authUserID string) (tenant.Scope, error)
}

// ScopeConfig controls middleware behavior.
type ScopeConfig struct {
	// Optional small in-memory TTL cache to avoid a users lookup per request;
	// zero disables caching.
	CacheTTL time.Duration
}

// WithScope resolves the organization scope for the authenticated user and
// attaches it to the request context. Requests without resolvable scope are
// rejected; every handler behind this middleware can rely on the scope being
// present.
func WithScope(resolver Resolver, cfg ScopeConfig) func(http.Handler) http.Handler {
	if resolver == nil {
		panic("scope middleware: resolver is required")
	}

	var cache *scopeCache
	if cfg.CacheTTL > 0 {
		cache = newScopeCache(cfg.CacheTTL)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			creds, ok := platformauth.UserFromContext(r.Context())
			if !ok || creds == nil || creds.UID == "" {
				httpjson.WriteUnauthorized(w, "authentication required")
				return
			}

			scope, ok := cacheGet(cache, creds.UID)
			if !ok {
				resolved, err := resolver.ResolveScope(r.Context(), creds.UID)
				if err != nil {
					httpjson.WriteUnauthorized(w, "account not provisioned")
					return
				}
				scope = resolved
				cachePut(cache, creds.UID, scope)
			}

			ctx := tenant.WithScope(r.Context(), scope)
			if logger, found := logging.FromContext(ctx); found {
				ctx = logging.WithLogger(ctx, logger.With(
					zap.String("user_id", scope.UserID.String()),
					zap.String("tenant_id", scope.TenantID.String()),
				))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a subtree on the scope's role.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope, ok := tenant.FromContext(r.Context())
			if !ok {
				httpjson.WriteUnauthorized(w, "authentication required")
				return
			}
			if _, ok := allowed[scope.Role]; !ok {
				httpjson.WriteForbidden(w, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type scopeCache struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[string]scopeCacheItem
}

type scopeCacheItem struct {
	scope     tenant.Scope
	expiresAt time.Time
}

func newScopeCache(ttl time.Duration) *scopeCache {
	return &scopeCache{ttl: ttl, items: make(map[string]scopeCacheItem)}
}

func cacheGet(c *scopeCache, uid string) (tenant.Scope, bool) {
	if c == nil {
		return tenant.Scope{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[uid]
	if !ok || time.Now().After(item.expiresAt) {
		return tenant.Scope{}, false
	}
	return item.scope, true
}

func cachePut(c *scopeCache, uid string, scope tenant.Scope) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[uid] = scopeCacheItem{scope: scope, expiresAt: time.Now().Add(c.ttl)}
}
