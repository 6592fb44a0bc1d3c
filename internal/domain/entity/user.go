// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core entity in the system, representing a unique account.
// The email is the identifying attribute used at login; the password hash is
// opaque to everything except the password verifier.
type User struct {
	ID           uuid.UUID  // The Global Unique Identifier (GUID) for the user.
	Email        string     // The user's primary contact email, used as the login identifier.
	Username     string     // The user's display name.
	PasswordHash string     // Adaptive (bcrypt) password hash. Mutated only by the rehash-on-verify path.
	Status       UserStatus // Account status gate; anything but StatusActive blocks sign-in.
	Role         Role       // The user's role in the system.
	CreatedAt    time.Time  // Timestamp of when this user account was created.
	UpdatedAt    time.Time  // Timestamp of the last modification to this user's data.
}

// CanAuthenticate reports whether the account status permits signing in.
// Banned, inactive and pending-invitation accounts are rejected regardless of
// password correctness.
func (u *User) CanAuthenticate() bool {
	return u.Status == StatusActive
}
