package impl

import "gatehouse/internal/domain/entity"

// redactResult applies the production error-verbosity policy to a terminal
// authentication result. Outside debug deployments the password-family codes
// collapse into UNKNOWN_IDENTITY so an external observer cannot distinguish
// "no such user" from "wrong password" from "locked out". The two-factor
// codes always pass through: the caller must be able to prompt for a code.
func redactResult(code entity.AuthResult, debug bool) entity.AuthResult {
	if debug {
		return code
	}

	switch code {
	case entity.ResultPasswordInvalid, entity.ResultPasswordLockout:
		return entity.ResultUnknownIdentity
	default:
		return code
	}
}
