// Package themes installs, updates and switches themes stored under the
// themes/ directory of the content filesystem.
package themes

import "context"

// System manages installed themes and the active theme selection.
type System interface {
	List(ctx context.Context) ([]Theme, error)
	Find(ctx context.Context, stylesheet string) (*Theme, error)
	Active(ctx context.Context) (string, error)
	Install(ctx context.Context, slug string, activate bool) (*InstallResult, error)
	Update(ctx context.Context, stylesheet string) (bool, error)
	UpdateAll(ctx context.Context) (*BulkResult, error)
	Search(ctx context.Context, search string, perPage int) (*SearchResult, error)
	Activate(ctx context.Context, stylesheet string) (*Theme, error)
	Delete(ctx context.Context, stylesheet string) error

	// CheckUpdates refreshes the update transient and returns the number of pending updates.
	CheckUpdates(ctx context.Context) (int, error)
	Updates(ctx context.Context) (map[string]Update, error)
}
