// Package options manages the site option store and exposes it over REST.
// Option values are stored as JSON text in wp_options.option_value.
package options

import "context"

// Option is a stored option with its decoded value.
type Option struct {
	Key      string `json:"key"`
	Value    any    `json:"value"`
	Autoload bool   `json:"autoload"`
}

// UpdateFunc computes the new value of an option from its current value,
// which Update has decoded into the caller's destination. exists is false
// when the option is absent. A nil value leaves the option unchanged. The
// function must not call back into the store.
type UpdateFunc func(exists bool) (any, error)

// System is the option store shared by every domain that keeps state in options.
type System interface {
	// Get returns the decoded value of key or ErrNotFound.
	Get(ctx context.Context, key string) (any, error)

	// Decode unmarshals the value of key into dst. It reports false when the option is absent.
	Decode(ctx context.Context, key string, dst any) (bool, error)

	// Set stores value under key and reports whether the option was created.
	Set(ctx context.Context, key string, value any, autoload bool) (bool, error)

	// Update decodes key into dst and stores the value fn returns. Updates,
	// Set and Delete of the same key are serialized, so concurrent
	// read-modify-write cycles never lose a write.
	Update(ctx context.Context, key string, dst any, autoload bool, fn UpdateFunc) error

	// Delete removes key or returns ErrNotFound.
	Delete(ctx context.Context, key string) error

	// List returns options whose name starts with prefix, ordered by name.
	List(ctx context.Context, prefix string, limit int) ([]Option, error)

	// Bulk returns the values of keys. Absent keys map to false.
	Bulk(ctx context.Context, keys []string) (map[string]any, error)

	// DeletePrefixed removes every option whose name starts with one of prefixes.
	DeletePrefixed(ctx context.Context, prefixes ...string) (int64, error)
}
