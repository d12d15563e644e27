package core

import (
	"context"
	"database/sql"

	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
)

type dbStats struct {
	db *sql.DB
}

// NewStats reads database facts from db.
func NewStats(db *sql.DB) Stats {
	return &dbStats{db: db}
}

func (s *dbStats) DatabaseVersion(ctx context.Context) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, "SELECT current_setting('server_version')").Scan(&v)
	return v, handlers.Host(handlers.ErrDatabase, err)
}

func (s *dbStats) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM wp_posts WHERE post_type = 'post' AND post_status = 'publish'),
			(SELECT COUNT(*) FROM wp_posts WHERE post_type = 'page' AND post_status = 'publish'),
			(SELECT COUNT(*) FROM wp_users)`,
	).Scan(&c.Posts, &c.Pages, &c.Users)
	return c, handlers.Host(handlers.ErrDatabase, err)
}
