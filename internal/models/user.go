package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account backing one of the two Participants.
// Registration is restricted to the configured pair allow-list.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Email is the user's email address (unique, allow-listed).
	Email string `json:"email"`

	// DisplayName is the name shown next to the user's records.
	DisplayName string `json:"display_name"`

	// Photo is an avatar URL. May be empty.
	Photo string `json:"photo,omitempty"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized.
	PasswordHash string `json:"-"`

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// NewUser creates a user with a fresh ID and timestamps.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Email:        NormalizeEmail(email),
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Participant projects the user onto its ledger identity.
func (u *User) Participant() Participant {
	return Participant{Email: u.Email, DisplayName: u.DisplayName, Photo: u.Photo}
}
