package service

import (
	"context"
	"errors"
)

// ErrCacheMiss is returned by SessionCache.Get when no value is stored for
// the key. A miss on a revocation lookup means the key has no live session.
var ErrCacheMiss = errors.New("session cache miss")

// SessionCache is the shared cache holding the single active session token
// per API key. It is the source of truth for "who currently owns this key's
// session" and must be consulted on every authenticated request; the most
// recent successful bind wins.
type SessionCache interface {
	// Get returns the active session token for the key, or ErrCacheMiss.
	Get(ctx context.Context, key string) (string, error)

	// Set binds a session token to the key, replacing any previous binding.
	Set(ctx context.Context, key, value string) error

	// Delete removes the binding for the key.
	Delete(ctx context.Context, key string) error
}
