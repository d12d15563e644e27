// Package storage provides the content filesystem abstraction used for plugins,
// themes, uploads and core packages, with a local filesystem implementation.
package storage

import "errors"

// Storage errors returned by System implementations.
var (
	// ErrNotFound indicates the requested key does not exist in storage.
	ErrNotFound = errors.New("storage: key not found")

	// ErrPermissionDenied indicates insufficient permissions to access the key.
	ErrPermissionDenied = errors.New("storage: permission denied")

	// ErrExists indicates Create found an object already stored at the key.
	ErrExists = errors.New("storage: key already exists")

	// ErrInvalidKey indicates the key is malformed or escapes the base path.
	ErrInvalidKey = errors.New("storage: invalid key")
)
