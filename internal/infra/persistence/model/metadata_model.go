package model

import (
	"time"

	"github.com/google/uuid"
)

// UserMetadataModel mirrors the 'user_metadata' table: lazy-created per-user
// key/value rows (attempt counters, OTP seeds, API keys).
type UserMetadataModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Key       string    `gorm:"type:varchar(128);primaryKey"`
	Value     string    `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserMetadataModel) TableName() string {
	return "user_metadata"
}
