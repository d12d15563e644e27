// Package dbadmin exposes maintenance operations over the site database:
// table statistics, vacuuming, search and replace, and revision and comment cleanup.
package dbadmin

import "context"

// Table describes the storage used by one table.
type Table struct {
	Name    string  `json:"name"`
	DataMB  float64 `json:"data_mb"`
	IndexMB float64 `json:"index_mb"`
	Rows    int64   `json:"rows"`
}

// SearchReplace is a search-and-replace request.
type SearchReplace struct {
	Search  string
	Replace string
	Tables  []string
	DryRun  bool
}

// SearchReplaceResult reports matching rows per table. Tables without matches are omitted.
type SearchReplaceResult struct {
	DryRun       bool             `json:"dry_run"`
	Search       string           `json:"search"`
	Replace      string           `json:"replace"`
	TotalChanges int64            `json:"total_changes"`
	Tables       map[string]int64 `json:"tables"`
}

// CommentCleanup reports removed comments.
type CommentCleanup struct {
	SpamDeleted  int64 `json:"spam_deleted"`
	TrashDeleted int64 `json:"trash_deleted"`
}

type System interface {
	Tables(ctx context.Context) ([]Table, error)
	Optimize(ctx context.Context) ([]string, error)
	SearchReplace(ctx context.Context, req SearchReplace) (*SearchReplaceResult, error)

	// CleanRevisions deletes all but the newest keep revisions of every post.
	CleanRevisions(ctx context.Context, keep int) (int64, error)
	CleanComments(ctx context.Context) (*CommentCleanup, error)
}
