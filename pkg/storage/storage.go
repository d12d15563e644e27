package storage

import (
	"context"

	"github.com/JaimeStill/mcp-endpoints/pkg/lifecycle"
)

// Entry describes a stored object.
type Entry struct {
	Key  string
	Size int64
}

// System defines key-addressed blob operations over the content tree.
// Keys are slash-separated paths relative to the storage root.
type System interface {
	// Store writes data at key atomically, creating parent directories.
	Store(ctx context.Context, key string, data []byte) error

	// Create writes data at key only if nothing is stored there yet,
	// returning ErrExists otherwise. The check and the write are atomic.
	Create(ctx context.Context, key string, data []byte) error

	// Retrieve returns the data at key, or ErrNotFound.
	Retrieve(ctx context.Context, key string) ([]byte, error)

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every object under prefix and the prefix directory itself.
	DeletePrefix(ctx context.Context, prefix string) error

	// Validate reports whether key exists.
	Validate(ctx context.Context, key string) (bool, error)

	// List returns every object under prefix, recursively, sorted by key.
	List(ctx context.Context, prefix string) ([]Entry, error)

	// Children returns the immediate child names under prefix (files and directories).
	Children(ctx context.Context, prefix string) ([]string, error)

	// Path returns the absolute filesystem path for key.
	Path(ctx context.Context, key string) (string, error)

	// Root returns the absolute storage root.
	Root() string

	// Start registers lifecycle hooks with the coordinator.
	Start(lc *lifecycle.Coordinator) error
}
