package service

// KeyGenerator produces cryptographically strong random strings for API
// keys. Generation failure is a hard error; callers must never fall back to
// a weaker source.
type KeyGenerator interface {
	// Generate returns a random string of exactly length characters.
	Generate(length int) (string, error)
}
