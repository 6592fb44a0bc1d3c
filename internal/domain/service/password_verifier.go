// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// PasswordVerifier defines the interface for adaptive password hashing.
// This abstracts the underlying algorithm (bcrypt), keeping the domain pure.
type PasswordVerifier interface {
	// Hash generates a salted hash from a plaintext password at the
	// configured target cost.
	Hash(password string) (string, error)

	// Verify compares a plaintext password with a stored hash.
	// It has no side effects; rehash persistence is the caller's concern.
	Verify(password, hash string) bool

	// NeedsRehash reports whether the stored hash's embedded work factor is
	// below the configured target and should be recomputed on next login.
	NeedsRehash(hash string) bool
}
