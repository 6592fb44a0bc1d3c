// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"golang.org/x/crypto/bcrypt"

	"gatehouse/config"
	"gatehouse/internal/domain/service"
)

// bcryptVerifier is a concrete implementation of the PasswordVerifier
// interface using bcrypt. The cost is the configured target work factor;
// hashes stored at a lower cost report NeedsRehash so the login path can
// upgrade them.
type bcryptVerifier struct {
	cost int
}

// NewBcryptVerifier is the constructor for bcryptVerifier.
// It returns the implementation as a service.PasswordVerifier interface.
func NewBcryptVerifier(cfg *config.Config) service.PasswordVerifier {
	cost := bcrypt.DefaultCost
	if cfg != nil && cfg.Auth != nil && cfg.Auth.BcryptCost > 0 {
		cost = cfg.Auth.BcryptCost
	}

	return &bcryptVerifier{cost: cost}
}

// Hash generates a salted hash from a plaintext password at the target cost.
// bcrypt automatically handles salt generation.
func (v *bcryptVerifier) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), v.cost)

	return string(bytes), err
}

// Verify compares a plaintext password with a bcrypt hash.
func (v *bcryptVerifier) Verify(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	// err is nil if the password and hash match.
	return err == nil
}

// NeedsRehash reports whether the stored hash was computed at a cost below
// the configured target. An unparseable hash reports false; verification
// would have already rejected it.
func (v *bcryptVerifier) NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return false
	}

	return cost < v.cost
}
