package service

// TwoFactorValidator defines the interface for time-based one-time code
// validation and enrollment. Validation is a pure function of the code, the
// seed and the clock; it never persists anything.
type TwoFactorValidator interface {
	// Validate checks a one-time code against the user's secret seed,
	// tolerating ±1 time step of clock skew.
	Validate(code, seed string) bool

	// GenerateSeed mints a new secret seed for the given account and returns
	// the seed plus its otpauth:// provisioning URI.
	GenerateSeed(accountName string) (seed string, provisioningURI string, err error)
}
