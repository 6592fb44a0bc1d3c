package auth

import (
	"testing"
	"time"

	"gatehouse/config"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTOTPValidator(t *testing.T) *totpValidator {
	t.Helper()

	cfg := &config.Config{TOTP: &config.TOTPConfig{
		Issuer: "gatehouse-test",
		Digits: 6,
		Period: 30,
	}}

	return NewTOTPValidator(cfg).(*totpValidator)
}

func TestTOTPValidator_GenerateSeed(t *testing.T) {
	validator := newTestTOTPValidator(t)

	seed, uri, err := validator.GenerateSeed("user@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, seed)
	assert.Contains(t, uri, "otpauth://totp/")
	assert.Contains(t, uri, "gatehouse-test")
}

func TestTOTPValidator_ValidateCurrentCode(t *testing.T) {
	validator := newTestTOTPValidator(t)

	seed, _, err := validator.GenerateSeed("user@example.com")
	require.NoError(t, err)

	code, err := totp.GenerateCode(seed, time.Now().UTC())
	require.NoError(t, err)

	assert.True(t, validator.Validate(code, seed))
}

func TestTOTPValidator_ValidateAdjacentStep(t *testing.T) {
	validator := newTestTOTPValidator(t)

	seed, _, err := validator.GenerateSeed("user@example.com")
	require.NoError(t, err)

	// Codes one step away stay valid under the ±1 skew tolerance.
	previous, err := totp.GenerateCode(seed, time.Now().UTC().Add(-30*time.Second))
	require.NoError(t, err)

	assert.True(t, validator.Validate(previous, seed))
}

func TestTOTPValidator_RejectsBadCode(t *testing.T) {
	validator := newTestTOTPValidator(t)

	seed, _, err := validator.GenerateSeed("user@example.com")
	require.NoError(t, err)

	assert.False(t, validator.Validate("000000", seed))
	assert.False(t, validator.Validate("", seed))
	assert.False(t, validator.Validate("not-a-code", seed))
}
