// Package tenant centralizes the decision of which tenant's data a request
// may touch. Handlers never derive tenant scope themselves; they read the
// Scope that the resolver middleware attached to the context.
package tenant

import "context"

// Access describes what the resolved scope permits inside the tenant partition.
type Access int

const (
	// AccessFull allows list, create, and delete on the tenant's records.
	// Granted to the tenant's own admin and to super-admins.
	AccessFull Access = iota
	// AccessBookOnly allows booking creation only. Granted to anonymous
	// widget callers, who must not enumerate tenant data.
	AccessBookOnly
)

// Scope is the authoritative tenant resolution for a request.
type Scope struct {
	TenantID string
	Access   Access
}

type ctxKey string

const scopeKey ctxKey = "SLOTWISE_TENANT_SCOPE"

// WithScope returns a derived context carrying the resolved Scope.
func WithScope(ctx context.Context, scope Scope) context.Context {
	return context.WithValue(ctx, scopeKey, scope)
}

// FromContext extracts the Scope and a boolean indicating presence.
func FromContext(ctx context.Context) (Scope, bool) {
	v := ctx.Value(scopeKey)
	if v == nil {
		return Scope{}, false
	}
	scope, ok := v.(Scope)
	return scope, ok
}
