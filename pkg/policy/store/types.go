package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no document exists under the requested name
// or version.
var ErrNotFound = errors.New("store: document not found")

// Backend defines the interface for policy document persistence.
// Implementations must be thread-safe and support concurrent access.
type Backend interface {
	// Save appends a new version of the named document and returns the
	// assigned version number. Versions start at 1 and increase by one.
	Save(ctx context.Context, name string, document []byte) (int64, error)

	// Load retrieves the newest version of the named document.
	// Returns ErrNotFound if the document has never been saved.
	Load(ctx context.Context, name string) (*Record, error)

	// LoadVersion retrieves a specific version of the named document.
	// Returns ErrNotFound if that version does not exist.
	LoadVersion(ctx context.Context, name string, version int64) (*Record, error)

	// Versions returns the stored versions of the named document, newest
	// first, without document bodies. Returns an empty slice if the
	// document has never been saved.
	Versions(ctx context.Context, name string) ([]*Record, error)

	// Prune removes versions of the named document older than keep,
	// always retaining the newest one. Returns the number removed.
	Prune(ctx context.Context, name string, keep int) (int, error)

	// Close releases any resources held by the backend.
	// The backend should not be used after calling Close.
	Close() error
}

// Record is a stored version of a policy document.
type Record struct {
	// Name identifies the document.
	Name string

	// Version is the monotonically increasing version number.
	Version int64

	// Document is the serialized document body. Versions() leaves it nil.
	Document []byte

	// SavedAt is when this version was written.
	SavedAt time.Time
}
