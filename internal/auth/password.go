package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"pairbook/internal/models"
)

var (
	// ErrInvalidCredentials covers both unknown emails and bad passwords.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrWeakPassword rejects passwords below the minimum length.
	ErrWeakPassword = errors.New("password must be at least 8 characters")

	// ErrEmailExists rejects a second registration for the same email.
	ErrEmailExists = errors.New("email already registered")

	// ErrNotAllowed rejects any identity outside the configured pair.
	// The ledger assumes exactly two participants; a third account would
	// silently break the balance math, so it is refused here at the door.
	ErrNotAllowed = errors.New("this ledger is limited to its two configured participants")
)

// UserStorage defines the interface for user persistence operations.
// This allows the authenticator to be independent of the storage
// implementation.
type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// PasswordAuthenticator implements password-based authentication using
// bcrypt, restricted to the pair allow-list.
type PasswordAuthenticator struct {
	storage UserStorage
	pair    models.Pair
}

// NewPasswordAuthenticator creates a new password-based authenticator for
// the given pair.
func NewPasswordAuthenticator(storage UserStorage, pair models.Pair) *PasswordAuthenticator {
	return &PasswordAuthenticator{
		storage: storage,
		pair:    pair,
	}
}

// ValidateCredential checks if the password meets minimum requirements.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if len(credential) < 8 {
		return ErrWeakPassword
	}
	return nil
}

// Register creates a new user account with a hashed password.
// Only the two allow-listed emails are accepted.
func (a *PasswordAuthenticator) Register(ctx context.Context, email, displayName, credential string) (*models.User, error) {
	if !a.pair.Contains(email) {
		return nil, ErrNotAllowed
	}

	if err := a.ValidateCredential(credential); err != nil {
		return nil, err
	}

	existingUser, err := a.storage.GetUserByEmail(ctx, email)
	if err == nil && existingUser != nil {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.NewUser(email, displayName, string(hashedPassword))

	if err := a.storage.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate verifies the email and password, returning the user if valid.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, credential string) (*models.User, error) {
	if !a.pair.Contains(email) {
		return nil, ErrNotAllowed
	}

	user, err := a.storage.GetUserByEmail(ctx, email)
	if err != nil || user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credential)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
