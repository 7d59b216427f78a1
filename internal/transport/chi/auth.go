// Package chi is the HTTP transport: routing, auth, DTO mapping.
package chi

import (
	"context"
	"net/http"
	"strings"
)

type orgCtxKey struct{}

// ContextWithOrg stores the tenant identifier in the context.
func ContextWithOrg(ctx context.Context, orgID string) context.Context {
	return context.WithValue(ctx, orgCtxKey{}, orgID)
}

// OrgFromContext extracts the tenant identifier. ok is false when the request
// carried no tenant scope.
func OrgFromContext(ctx context.Context) (string, bool) {
	orgID, ok := ctx.Value(orgCtxKey{}).(string)
	return orgID, ok && orgID != ""
}

// exemptPaths bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// BearerAuthMiddleware validates Bearer tokens and resolves them to an
// organization id, the mandatory tenant scope for every search. apiKeys maps
// key -> org id. Unlike open endpoints, an empty key set locks everything out:
// tenant scoping is never defaulted.
func BearerAuthMiddleware(apiKeys map[string]string) func(http.Handler) http.Handler {
	keys := make(map[string]string, len(apiKeys))
	for k, org := range apiKeys {
		if k != "" && org != "" {
			keys[k] = org
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				writeError(w, http.StatusUnauthorized, "unauthorized", "authorization header must use Bearer scheme")
				return
			}

			orgID, ok := keys[auth[len(bearerPrefix):]]
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid api key")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithOrg(r.Context(), orgID)))
		})
	}
}
