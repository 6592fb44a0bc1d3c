package impl

import (
	"testing"

	"gatehouse/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func TestRedactResult(t *testing.T) {
	tests := []struct {
		name  string
		code  entity.AuthResult
		debug bool
		want  entity.AuthResult
	}{
		{"password invalid collapses in production", entity.ResultPasswordInvalid, false, entity.ResultUnknownIdentity},
		{"lockout collapses in production", entity.ResultPasswordLockout, false, entity.ResultUnknownIdentity},
		{"unknown identity unchanged in production", entity.ResultUnknownIdentity, false, entity.ResultUnknownIdentity},
		{"require two-factor always surfaced", entity.ResultRequireTwoFactor, false, entity.ResultRequireTwoFactor},
		{"invalid two-factor always surfaced", entity.ResultInvalidTwoFactor, false, entity.ResultInvalidTwoFactor},
		{"success unchanged", entity.ResultNone, false, entity.ResultNone},
		{"password invalid surfaced in debug", entity.ResultPasswordInvalid, true, entity.ResultPasswordInvalid},
		{"lockout surfaced in debug", entity.ResultPasswordLockout, true, entity.ResultPasswordLockout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, redactResult(tt.code, tt.debug))
		})
	}
}
