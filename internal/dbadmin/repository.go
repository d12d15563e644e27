package dbadmin

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
	"github.com/JaimeStill/mcp-endpoints/pkg/query"
	"github.com/JaimeStill/mcp-endpoints/pkg/repository"
)

type repo struct {
	db     *sql.DB
	prefix string
	logger *slog.Logger
}

// New creates the maintenance system. prefix selects the default tables for search and replace.
func New(db *sql.DB, prefix string, logger *slog.Logger) System {
	return &repo{
		db:     db,
		prefix: prefix,
		logger: logger.With("system", "dbadmin"),
	}
}

func (r *repo) Tables(ctx context.Context) ([]Table, error) {
	tables, err := repository.QueryMany(ctx, r.db, `
		SELECT c.relname, pg_table_size(c.oid), pg_indexes_size(c.oid), GREATEST(c.reltuples, 0)::bigint
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = current_schema() AND c.relkind = 'r'
		ORDER BY pg_table_size(c.oid) DESC, c.relname`,
		nil,
		func(s repository.Scanner) (Table, error) {
			var t Table
			var data, index int64
			err := s.Scan(&t.Name, &data, &index, &t.Rows)
			t.DataMB = toMB(data)
			t.IndexMB = toMB(index)
			return t, err
		},
	)
	return tables, handlers.Host(handlers.ErrDatabase, err)
}

func (r *repo) tableNames(ctx context.Context) ([]string, error) {
	names, err := repository.QueryMany(ctx, r.db, `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_type = 'BASE TABLE'
		ORDER BY table_name`,
		nil,
		func(s repository.Scanner) (string, error) {
			var n string
			err := s.Scan(&n)
			return n, err
		},
	)
	return names, handlers.Host(handlers.ErrDatabase, err)
}

func (r *repo) Optimize(ctx context.Context) ([]string, error) {
	names, err := r.tableNames(ctx)
	if err != nil {
		return nil, err
	}
	tables, _ := SelectTables(nil, names, r.prefix)

	optimized := make([]string, 0, len(tables))
	for _, t := range tables {
		if _, err := r.db.ExecContext(ctx, "VACUUM ANALYZE "+ident(t)); err != nil {
			return nil, handlers.Host(handlers.ErrDatabase, fmt.Errorf("vacuum %s: %w", t, err))
		}
		optimized = append(optimized, t)
	}

	r.logger.Info("tables optimized", "count", len(optimized))
	return optimized, nil
}

func (r *repo) textColumns(ctx context.Context, q repository.Querier, table string) ([]string, error) {
	return repository.QueryMany(ctx, q, `
		SELECT column_name FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1
		  AND data_type IN ('text', 'character varying', 'character')
		ORDER BY ordinal_position`,
		[]any{table},
		func(s repository.Scanner) (string, error) {
			var c string
			err := s.Scan(&c)
			return c, err
		},
	)
}

func (r *repo) SearchReplace(ctx context.Context, req SearchReplace) (*SearchReplaceResult, error) {
	if req.Search == "" {
		return nil, ErrEmptySearch
	}

	names, err := r.tableNames(ctx)
	if err != nil {
		return nil, err
	}
	tables, err := SelectTables(req.Tables, names, r.prefix)
	if err != nil {
		return nil, err
	}

	pattern := "%" + query.EscapeLike(req.Search) + "%"

	result, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (*SearchReplaceResult, error) {
		res := &SearchReplaceResult{
			DryRun:  req.DryRun,
			Search:  req.Search,
			Replace: req.Replace,
			Tables:  map[string]int64{},
		}

		for _, table := range tables {
			columns, err := r.textColumns(ctx, tx, table)
			if err != nil {
				return nil, err
			}

			var changes int64
			for _, col := range columns {
				n, err := r.replaceColumn(ctx, tx, table, col, pattern, req)
				if err != nil {
					return nil, err
				}
				changes += n
			}

			if changes > 0 {
				res.Tables[table] = changes
				res.TotalChanges += changes
			}
		}
		return res, nil
	})
	if err != nil {
		return nil, handlers.Host(handlers.ErrDatabase, err)
	}

	r.logger.Info("search replace complete",
		"dry_run", req.DryRun,
		"tables", len(tables),
		"changes", result.TotalChanges,
	)
	return result, nil
}

func (r *repo) replaceColumn(ctx context.Context, tx *sql.Tx, table, col, pattern string, req SearchReplace) (int64, error) {
	t, c := ident(table), ident(col)

	if req.DryRun {
		var n int64
		err := tx.QueryRowContext(ctx,
			fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s LIKE $1 ESCAPE '\'`, t, c),
			pattern,
		).Scan(&n)
		return n, err
	}

	res, err := tx.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET %s = REPLACE(%s, $1, $2) WHERE %s LIKE $3 ESCAPE '\'`, t, c, c, c),
		req.Search, req.Replace, pattern,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repo) CleanRevisions(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		return 0, handlers.Invalid("keep", "must not be negative")
	}

	res, err := r.db.ExecContext(ctx, `
		DELETE FROM wp_posts WHERE id IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (PARTITION BY post_parent ORDER BY post_date DESC, id DESC) AS rn
				FROM wp_posts WHERE post_type = 'revision'
			) ranked WHERE rn > $1
		)`, keep)
	if err != nil {
		return 0, handlers.Host(handlers.ErrDatabase, err)
	}

	n, _ := res.RowsAffected()
	r.logger.Info("revisions cleaned", "deleted", n, "kept_per_post", keep)
	return n, nil
}

func (r *repo) CleanComments(ctx context.Context) (*CommentCleanup, error) {
	result, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (*CommentCleanup, error) {
		var out CommentCleanup
		for status, dst := range map[string]*int64{"spam": &out.SpamDeleted, "trash": &out.TrashDeleted} {
			res, err := tx.ExecContext(ctx, "DELETE FROM wp_comments WHERE comment_approved = $1", status)
			if err != nil {
				return nil, err
			}
			*dst, _ = res.RowsAffected()
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE wp_posts p SET comment_count = (
				SELECT COUNT(*) FROM wp_comments c
				WHERE c.comment_post_id = p.id AND c.comment_approved = '1'
			)`); err != nil {
			return nil, err
		}
		return &out, nil
	})
	if err != nil {
		return nil, handlers.Host(handlers.ErrDatabase, err)
	}

	r.logger.Info("comments cleaned", "spam", result.SpamDeleted, "trash", result.TrashDeleted)
	return result, nil
}

