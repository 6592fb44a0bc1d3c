// Package entity contains the core business objects of the project.
package entity

import "github.com/google/uuid"

// Identity is the post-authentication view of a user: the session attributes
// materialized by the identity binder on a successful attempt, plus the API
// key authorizing subsequent requests. It exists only while its session
// binding is the active one for the API key.
type Identity struct {
	UserID   uuid.UUID
	Email    string
	Username string
	Status   UserStatus
	Role     Role
	APIKey   string // Newly minted or reused per-(user, application) key.
}

// SessionStatus is the outcome of the per-request revocation check.
type SessionStatus string

const (
	// SessionValid means the presented session is the active one for its API key.
	SessionValid SessionStatus = "valid"
	// SessionRevoked means the binding was stale and has been invalidated.
	SessionRevoked SessionStatus = "revoked"
)
