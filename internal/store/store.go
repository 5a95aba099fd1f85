// Package store defines the client contract for the remote bill store.
package store

import (
	"context"
	"fmt"

	"github.com/billed-app/billed/internal/models"
)

// File is a user-selected attachment handed to UploadFile.
type File struct {
	// Name is the filename as selected, extension included.
	Name string

	// ContentType is the MIME type reported for the file.
	ContentType string

	// Data is the raw file content.
	Data []byte
}

// Upload is the persisted reference the store returns for an uploaded file.
type Upload struct {
	FileURL  string `json:"fileUrl"`
	FileName string `json:"fileName"`
}

// Client is the capability set the remote store exposes to the application.
// Listing is implicitly scoped to the session identity the client was built
// with. All three operations fail with *TransportError on network or server
// failure; implementations must not invent other error kinds.
//
// This abstraction allows swapping transports (REST backend, in-memory fake
// for tests) without changing the components that consume it.
type Client interface {
	// ListBills returns every bill visible to the current session.
	ListBills(ctx context.Context) ([]models.Bill, error)

	// CreateBill persists a new bill and returns it with store-assigned
	// fields (ID, CreatedAt) populated.
	CreateBill(ctx context.Context, bill models.Bill) (*models.Bill, error)

	// UploadFile stores an attachment and returns its persisted reference.
	UploadFile(ctx context.Context, file File) (*Upload, error)
}

// TransportError reports a network or server failure from the store. The
// message is preserved verbatim so callers can show it to the user.
type TransportError struct {
	Op  string // operation that failed: "list bills", "create bill", "upload file"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
