package auth

import (
	"crypto/rand"

	"github.com/pkg/errors"

	"gatehouse/internal/domain/service"
)

// apiKeyCharset is the alphabet API keys are drawn from.
const apiKeyCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// randomKeyGenerator implements KeyGenerator over crypto/rand. Modulo bias
// over a 62-character alphabet is negligible for 16-character keys.
type randomKeyGenerator struct{}

// NewKeyGenerator is the constructor for randomKeyGenerator.
func NewKeyGenerator() service.KeyGenerator {
	return &randomKeyGenerator{}
}

// Generate returns a random string of exactly length characters.
func (g *randomKeyGenerator) Generate(length int) (string, error) {
	if length <= 0 {
		return "", errors.Errorf("invalid key length: %d", length)
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "failed to read random bytes")
	}

	for i, b := range buf {
		buf[i] = apiKeyCharset[int(b)%len(apiKeyCharset)]
	}

	return string(buf), nil
}
