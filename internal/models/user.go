package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account. Users own houses; they are not
// members themselves.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// FullName is the display name of the user.
	FullName string

	// Email is the user's email address (unique).
	// Used for login.
	Email string

	// Phone is the user's contact phone.
	Phone string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last change.
	UpdatedAt int64
}

// NewUser builds a user with a fresh ID and creation timestamps.
func NewUser(email, fullName, phone, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		FullName:     fullName,
		Email:        email,
		Phone:        phone,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
