package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyGenerator_Length(t *testing.T) {
	gen := NewKeyGenerator()

	key, err := gen.Generate(16)
	require.NoError(t, err)
	assert.Len(t, key, 16)

	for _, r := range key {
		assert.Contains(t, apiKeyCharset, string(r))
	}
}

func TestKeyGenerator_Uniqueness(t *testing.T) {
	gen := NewKeyGenerator()

	seen := make(map[string]struct{})
	for range 100 {
		key, err := gen.Generate(16)
		require.NoError(t, err)

		_, dup := seen[key]
		require.False(t, dup, "generated a duplicate key: %s", key)
		seen[key] = struct{}{}
	}
}

func TestKeyGenerator_InvalidLength(t *testing.T) {
	gen := NewKeyGenerator()

	_, err := gen.Generate(0)
	assert.Error(t, err)

	_, err = gen.Generate(-4)
	assert.Error(t, err)
}
