package auth

import (
	"context"

	"github.com/slotwise/slotwise-saas/platform/go/persistence"
)

type ctxKey string

const ctxPrincipal ctxKey = "SLOTWISE_PRINCIPAL"

// Principal is the sanitized view of an authenticated login principal. It
// never carries credential material and is the only identity shape that
// crosses into handlers and services.
type Principal struct {
	ID         int64   `json:"id"`
	Username   string  `json:"username"`
	Role       string  `json:"role"`
	TenantID   *string `json:"tenantId"`
	TenantName string  `json:"tenantName"`
}

// IsSuperAdmin reports whether the principal holds the platform-wide role.
func (p Principal) IsSuperAdmin() bool {
	return p.Role == persistence.RoleSuperAdmin
}

// FromRecord strips credential material from a stored principal.
func FromRecord(rec persistence.PrincipalRecord) Principal {
	return Principal{
		ID:         rec.ID,
		Username:   rec.Username,
		Role:       rec.Role,
		TenantID:   rec.TenantID,
		TenantName: rec.TenantName,
	}
}

// WithPrincipal returns a derived context carrying the authenticated principal.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxPrincipal, p)
}

// PrincipalFromContext extracts the principal and a boolean indicating presence.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	v := ctx.Value(ctxPrincipal)
	if v == nil {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}
