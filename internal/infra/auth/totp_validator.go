package auth

import (
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"gatehouse/config"
	"gatehouse/internal/domain/service"
)

// totpValidator implements TwoFactorValidator with standard TOTP codes.
// Validation tolerates one time step of clock skew in either direction.
type totpValidator struct {
	issuer string
	digits otp.Digits
	period uint
}

// NewTOTPValidator is the constructor for totpValidator.
func NewTOTPValidator(cfg *config.Config) service.TwoFactorValidator {
	return &totpValidator{
		issuer: cfg.TOTP.Issuer,
		digits: otp.Digits(cfg.TOTP.Digits),
		period: cfg.TOTP.Period,
	}
}

// Validate checks a one-time code against the seed at the current time.
func (v *totpValidator) Validate(code, seed string) bool {
	ok, err := totp.ValidateCustom(code, seed, time.Now().UTC(), totp.ValidateOpts{
		Period:    v.period,
		Skew:      1,
		Digits:    v.digits,
		Algorithm: otp.AlgorithmSHA1,
	})

	return err == nil && ok
}

// GenerateSeed mints a new TOTP secret for the account and returns it with
// its otpauth provisioning URI.
func (v *totpValidator) GenerateSeed(accountName string) (string, string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      v.issuer,
		AccountName: accountName,
		Period:      v.period,
		Digits:      v.digits,
	})
	if err != nil {
		return "", "", err
	}

	return key.Secret(), key.URL(), nil
}
