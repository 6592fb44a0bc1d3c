// Package entity contains the core business objects of the project.
package entity

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Well-known user metadata keys. Metadata rows are created lazily with a
// typed default the first time they are looked up.
const (
	// MetaKeyPasswordAttempts keys the brute-force attempt counter.
	MetaKeyPasswordAttempts = "passwordAttempts"
	// MetaKeyOTPSeed keys the TOTP shared secret. A non-empty value means the
	// user requires two-factor authentication.
	MetaKeyOTPSeed = "OTPSeed"
	// MetaKeyAPIKeyPrefix prefixes the per-application API key rows,
	// e.g. "api_key.dashboard".
	MetaKeyAPIKeyPrefix = "api_key."
)

// UserMetadata is a generic per-user key/value row. It backs the attempt
// counter, the TOTP seed and the per-application API keys.
type UserMetadata struct {
	UserID    uuid.UUID // Links this row to the User it belongs to.
	Key       string    // Row discriminator, e.g. "passwordAttempts".
	Value     string    // Opaque string value; numeric rows store the decimal form.
	CreatedAt time.Time // Timestamp of when this row was first created.
	UpdatedAt time.Time // Timestamp of the last save; the lockout window is measured from here.
}

// IntValue parses the row value as an integer, returning 0 for anything
// unparseable. Counter rows rely on this default.
func (m *UserMetadata) IntValue() int {
	v, err := strconv.Atoi(m.Value)
	if err != nil {
		return 0
	}

	return v
}

// SetIntValue stores an integer as the row value.
func (m *UserMetadata) SetIntValue(v int) {
	m.Value = strconv.Itoa(v)
}

// APIKeyMetaKey builds the metadata key for an application's API key row.
func APIKeyMetaKey(appName string) string {
	return MetaKeyAPIKeyPrefix + appName
}
