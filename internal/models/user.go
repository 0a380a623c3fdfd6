package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique). Used for login.
	Email string

	// DisplayName is shown next to the user's votes in standings.
	DisplayName string

	// AvatarURL is an optional profile picture.
	AvatarURL string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last profile change.
	UpdatedAt int64
}

// NewUser builds a user with a fresh ID and timestamps.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Profile is the public part of a user, used for vote attribution.
type Profile struct {
	UserID      string
	DisplayName string
	AvatarURL   string
}

// Profile returns the public attribution view of the user.
func (u *User) Profile() Profile {
	return Profile{UserID: u.ID, DisplayName: u.DisplayName, AvatarURL: u.AvatarURL}
}
