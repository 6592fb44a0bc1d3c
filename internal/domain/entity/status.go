// Package entity contains the core business objects of the project.
package entity

// UserStatus represents the lifecycle state of a user account.
type UserStatus string

const (
	// StatusActive indicates a normal, sign-in capable account.
	StatusActive UserStatus = "active"
	// StatusBanned indicates an account blocked by an administrator.
	StatusBanned UserStatus = "banned"
	// StatusInactive indicates a deactivated account.
	StatusInactive UserStatus = "inactive"
	// StatusPendingInvitation indicates an invited account that has not been claimed yet.
	StatusPendingInvitation UserStatus = "pending_invitation"
)

// String returns the string representation of the UserStatus.
func (s UserStatus) String() string {
	return string(s)
}

// IsValid checks if the UserStatus is a valid value.
func (s UserStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusBanned, StatusInactive, StatusPendingInvitation:
		return true
	default:
		return false
	}
}
