// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"gatehouse/internal/domain/entity"

	"github.com/google/uuid"
)

// MetadataRepository defines the operations for per-user key/value rows.
// Attempt counters, TOTP seeds and API keys all live here.
type MetadataRepository interface {
	// GetOrCreate retrieves the row for (userID, key), creating it in place
	// with the given default value when absent. The lazy default replaces ad
	// hoc existence checks in the authentication flow.
	GetOrCreate(ctx context.Context, userID uuid.UUID, key string, defaultValue string) (*entity.UserMetadata, error)

	// Save persists the row. The UpdatedAt timestamp is refreshed on every
	// save; the lockout window is measured against it.
	Save(ctx context.Context, meta *entity.UserMetadata) error
}
