package requesttrace

import (
	"context"

	"github.com/google/uuid"

	platformauth "github.com/slotwise/slotwise-saas/platform/go/auth"
)

type contextKey string

const ctxAuditInfo contextKey = "SLOTWISE_REQUEST_TRACE"

// ActorKind represents who initiated a request.
type ActorKind string

const (
	ActorKindPrincipal ActorKind = "principal"
	ActorKindAnonymous ActorKind = "anonymous"
	ActorKindSystem    ActorKind = "system"
)

// AuditInfo captures request-scoped metadata for traceability. PrincipalID is
// set only when ActorKind is principal; TenantID mirrors the principal's home
// tenant when it has one.
type AuditInfo struct {
	ActorKind   ActorKind
	PrincipalID *int64
	TenantID    *string
	RequestID   string
}

// IntoContext stores the AuditInfo in the provided context.
func IntoContext(ctx context.Context, audit AuditInfo) context.Context {
	return context.WithValue(ctx, ctxAuditInfo, audit)
}

// FromContext extracts the AuditInfo from context, returning false when not present.
func FromContext(ctx context.Context) (AuditInfo, bool) {
	if ctx == nil {
		return AuditInfo{}, false
	}
	v := ctx.Value(ctxAuditInfo)
	if v == nil {
		return AuditInfo{}, false
	}
	audit, ok := v.(AuditInfo)
	return audit, ok
}

// FromPrincipal builds an AuditInfo for an authenticated request.
func FromPrincipal(p platformauth.Principal, requestID string) AuditInfo {
	id := p.ID
	return AuditInfo{
		ActorKind:   ActorKindPrincipal,
		PrincipalID: &id,
		TenantID:    p.TenantID,
		RequestID:   ensureRequestID(requestID),
	}
}

// Anonymous builds an AuditInfo for unauthenticated requests (login, widget).
func Anonymous(requestID string) AuditInfo {
	return AuditInfo{ActorKind: ActorKindAnonymous, RequestID: ensureRequestID(requestID)}
}

// System builds an AuditInfo for background/CLI operations.
func System(requestID string) AuditInfo {
	return AuditInfo{ActorKind: ActorKindSystem, RequestID: ensureRequestID(requestID)}
}

func ensureRequestID(requestID string) string {
	if requestID != "" {
		return requestID
	}
	return uuid.NewString()
}
