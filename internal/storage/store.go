// Package storage provides abstractions for the backend's persistent data.
package storage

import (
	"context"

	"github.com/billed-app/billed/internal/models"
)

// Store defines the interface for server-side persistence. This abstraction
// allows swapping storage backends (SQLite, PostgreSQL, etc.) without
// changing the handlers.
type Store interface {
	// CreateBill persists a new bill. The ID and CreatedAt fields are
	// populated by the store; an empty status defaults to pending.
	CreateBill(ctx context.Context, bill *models.Bill) error

	// GetBill retrieves a bill by its ID.
	// Returns nil and an error if the bill is not found.
	GetBill(ctx context.Context, billID string) (*models.Bill, error)

	// ListBillsByEmail returns every bill owned by the given email, in
	// insertion order.
	ListBillsByEmail(ctx context.Context, email string) ([]models.Bill, error)

	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email. Returns (nil, nil) when no
	// such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
