package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/slotwise/slotwise-saas/platform/go/auth/session"
	"github.com/slotwise/slotwise-saas/platform/go/httpjson"
	"github.com/slotwise/slotwise-saas/platform/go/persistence"
)

// PrincipalLookup is the subset of the directory the session middleware needs.
type PrincipalLookup interface {
	GetPrincipal(ctx context.Context, id int64) (persistence.PrincipalRecord, error)
}

// Sessions authenticates requests via Bearer session tokens. A valid token
// resolves to a sanitized Principal on the context; a missing header passes
// through unauthenticated so public routes can share the middleware chain,
// while a present-but-invalid token is rejected outright.
func Sessions(store session.Store, lookup PrincipalLookup) func(http.Handler) http.Handler {
	if store == nil {
		panic("auth.Sessions: session store is required")
	}
	if lookup == nil {
		panic("auth.Sessions: principal lookup is required")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			token, found := bearerToken(r)
			if !found {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := store.Get(r.Context(), token)
			if err != nil {
				httpjson.WriteError(w, http.StatusUnauthorized, "invalid session token")
				return
			}

			rec, err := lookup.GetPrincipal(r.Context(), sess.PrincipalID)
			if err != nil {
				// Cascade deletes can orphan sessions of removed admins.
				if errors.Is(err, persistence.ErrNotFound) {
					httpjson.WriteError(w, http.StatusUnauthorized, "invalid session token")
					return
				}
				httpjson.WriteError(w, http.StatusInternalServerError, "session lookup failed")
				return
			}

			ctx := WithPrincipal(r.Context(), FromRecord(rec))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuthenticated rejects requests that carry no principal.
func RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFromContext(r.Context()); !ok {
			httpjson.WriteError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole gates a route subtree on the principal's role.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				httpjson.WriteError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if p.Role != role {
				httpjson.WriteError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return strings.TrimSpace(parts[1]), parts[1] != ""
}
