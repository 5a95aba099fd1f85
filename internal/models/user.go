package models

import (
	"time"

	"github.com/google/uuid"
)

// Role distinguishes the two kinds of accounts the original application has.
type Role string

const (
	RoleEmployee Role = "Employee"
	RoleAdmin    Role = "Admin"
)

// User represents a registered account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique). Used for login and as the
	// owner key on bills.
	Email string

	// Type is the account role: Employee or Admin.
	Type Role

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}

// NewUser creates a User with a fresh ID and creation timestamp.
func NewUser(email string, role Role, passwordHash string) *User {
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		Type:         role,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}

// Session is the logged-in identity the client-side components read.
// They only ever consume Email; the role is carried for the router/view
// layer, which shows different pages to admins.
type Session struct {
	Type  Role   `json:"type"`
	Email string `json:"email"`
}
