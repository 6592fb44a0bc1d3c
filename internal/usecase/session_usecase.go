package usecase

import (
	"context"

	"gatehouse/internal/domain/entity"
)

// SessionUsecase defines the per-request session integrity operations.
type SessionUsecase interface {
	// CheckSession compares the cached active session token for the API key
	// against the presented session identifier. A mismatch or a missing
	// binding revokes the cache entry and reports the session revoked. Runs
	// on every authenticated request.
	CheckSession(ctx context.Context, apiKey, sessionID string) (entity.SessionStatus, error)

	// Logout removes the session binding for the API key.
	Logout(ctx context.Context, apiKey string) error
}
