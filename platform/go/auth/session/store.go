package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"
)

// ErrNotFound indicates the presented token maps to no live session.
var ErrNotFound = errors.New("session not found")

// Session binds an opaque token to a principal. Sessions carry no expiry;
// logout is a boundary-side Revoke.
type Session struct {
	Token       string
	PrincipalID int64
	IssuedAt    time.Time
}

// Store abstracts session state so the in-process map can be swapped for a
// shared Redis backend when the API runs with more than one replica.
type Store interface {
	// Issue creates and registers a fresh session for the principal.
	Issue(ctx context.Context, principalID int64) (Session, error)
	// Get returns the session for the token, or ErrNotFound.
	Get(ctx context.Context, token string) (Session, error)
	// Revoke discards the session; revoking an unknown token is a no-op.
	Revoke(ctx context.Context, token string) error
}

// NewToken returns an opaque session token backed by 256 bits of CSPRNG output.
func NewToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
