package middleware

import (
	"errors"
	"net/http"

	platformauth "github.com/slotwise/slotwise-saas/platform/go/auth"
	"github.com/slotwise/slotwise-saas/platform/go/httpjson"
	"github.com/slotwise/slotwise-saas/platform/go/tenant"
)

// WithScope resolves the authoritative tenant for tenant-scoped routes and
// attaches it to the context. The `tenant` query parameter is only a hint;
// the resolver decides whether it is honored.
func WithScope(resolver *tenant.Resolver) func(http.Handler) http.Handler {
	if resolver == nil {
		panic("tenant middleware: resolver is required")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hint := r.URL.Query().Get("tenant")

			var principal *platformauth.Principal
			if p, ok := platformauth.PrincipalFromContext(r.Context()); ok {
				principal = &p
			}

			scope, err := resolver.Resolve(r.Context(), principal, hint)
			if err != nil {
				switch {
				case errors.Is(err, tenant.ErrTenantNotFound):
					httpjson.WriteError(w, http.StatusNotFound, "tenant not found")
				case errors.Is(err, tenant.ErrTenantRequired):
					httpjson.WriteError(w, http.StatusBadRequest, "tenant parameter required")
				case errors.Is(err, tenant.ErrForbidden):
					httpjson.WriteError(w, http.StatusForbidden, "forbidden")
				default:
					httpjson.WriteError(w, http.StatusInternalServerError, "tenant resolution failed")
				}
				return
			}

			ctx := tenant.WithScope(r.Context(), scope)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
