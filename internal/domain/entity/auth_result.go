// Package entity contains the core business objects of the project.
package entity

// AuthResult is the closed set of terminal outcomes an authentication
// attempt can produce. Exactly one result is produced per attempt;
// ResultNone is the only success value. Infrastructure failures are regular
// errors and never appear in this set.
type AuthResult string

const (
	// ResultNone indicates successful authentication.
	ResultNone AuthResult = "NONE"
	// ResultUnknownIdentity indicates no account matched the identifier. In
	// production it also stands in for password and lockout failures.
	ResultUnknownIdentity AuthResult = "UNKNOWN_IDENTITY"
	// ResultPasswordInvalid indicates the password did not verify.
	ResultPasswordInvalid AuthResult = "PASSWORD_INVALID"
	// ResultPasswordLockout indicates the account is inside its lockout window.
	ResultPasswordLockout AuthResult = "PASSWORD_LOCKOUT"
	// ResultRequireTwoFactor prompts the caller to resubmit with a one-time code.
	ResultRequireTwoFactor AuthResult = "REQUIRE_TWO_FACTOR"
	// ResultInvalidTwoFactor indicates the supplied one-time code did not validate.
	ResultInvalidTwoFactor AuthResult = "INVALID_TWO_FACTOR"
)

// String returns the string representation of the AuthResult.
func (r AuthResult) String() string {
	return string(r)
}

// OK reports whether the result is the success value.
func (r AuthResult) OK() bool {
	return r == ResultNone
}
