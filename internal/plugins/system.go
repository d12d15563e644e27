// Package plugins installs, updates, activates and removes plugins in the
// content filesystem and tracks their state in site options.
package plugins

import "context"

// System manages installed plugins.
type System interface {
	List(ctx context.Context) ([]Plugin, error)
	Find(ctx context.Context, file string) (*Plugin, error)
	Install(ctx context.Context, slug string, activate bool) (*InstallResult, error)
	Update(ctx context.Context, file string) (bool, error)
	UpdateAll(ctx context.Context) (*BulkResult, error)
	Search(ctx context.Context, search string, perPage int) (*SearchResult, error)
	Activate(ctx context.Context, file string) error
	Deactivate(ctx context.Context, file string) error
	Delete(ctx context.Context, file string) error

	// CheckUpdates refreshes the update transient from the directory and returns the number of pending updates.
	CheckUpdates(ctx context.Context) (int, error)

	// Updates returns pending updates from the last check, keyed by plugin file.
	Updates(ctx context.Context) (map[string]Update, error)
}
