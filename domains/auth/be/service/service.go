package service

import (
	"context"
	"errors"
	"fmt"

	platformauth "github.com/slotwise/slotwise-saas/platform/go/auth"
	"github.com/slotwise/slotwise-saas/platform/go/auth/session"
	"github.com/slotwise/slotwise-saas/platform/go/persistence"
)

// Errors returned by the authenticator. Both map to 401; the distinction
// matters because InvalidTenant must fire even when the password is correct.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidTenant      = errors.New("invalid business id")
)

// PrincipalFinder is the directory subset the authenticator needs.
type PrincipalFinder interface {
	FindPrincipalByUsername(ctx context.Context, username string) (persistence.PrincipalRecord, error)
}

// LoginInput carries a login attempt. TenantHint is the business id the
// caller claims to belong to; it is mandatory for business admins and
// ignored for super-admins.
type LoginInput struct {
	Username   string
	Password   string
	TenantHint string
}

// LoginResult is the sanitized outcome of a successful login. The principal
// view never includes credential material.
type LoginResult struct {
	Principal platformauth.Principal
	Token     string
}

// Service authenticates principals and issues opaque session tokens.
type Service struct {
	principals PrincipalFinder
	sessions   session.Store
}

// New constructs the authenticator.
func New(principals PrincipalFinder, sessions session.Store) *Service {
	if principals == nil {
		panic("principal finder is required")
	}
	if sessions == nil {
		panic("session store is required")
	}
	return &Service{principals: principals, sessions: sessions}
}

// Login validates the credential pair, enforces the tenant hint for business
// admins, and registers a fresh session. Lookup misses and hash mismatches
// collapse into ErrInvalidCredentials so usernames cannot be probed.
func (s *Service) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	rec, err := s.principals.FindPrincipalByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("find principal: %w", err)
	}

	if !platformauth.CheckPassword(rec.PasswordHash, input.Password) {
		return LoginResult{}, ErrInvalidCredentials
	}

	if rec.Role == persistence.RoleBusinessAdmin {
		if input.TenantHint == "" || rec.TenantID == nil || *rec.TenantID != input.TenantHint {
			return LoginResult{}, ErrInvalidTenant
		}
	}

	sess, err := s.sessions.Issue(ctx, rec.ID)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue session: %w", err)
	}

	return LoginResult{
		Principal: platformauth.FromRecord(rec),
		Token:     sess.Token,
	}, nil
}

// Logout revokes the session for the given token. Unknown tokens are a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}
