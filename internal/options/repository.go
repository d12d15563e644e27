package options

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
	"github.com/JaimeStill/mcp-endpoints/pkg/query"
	"github.com/JaimeStill/mcp-endpoints/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates the option store over db.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "options"),
	}
}

func readRaw(ctx context.Context, q repository.Querier, key string) (string, error) {
	var raw string
	err := q.QueryRowContext(ctx,
		"SELECT option_value FROM wp_options WHERE option_name = $1", key,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return raw, handlers.Host(handlers.ErrDatabase, err)
}

func decode(ctx context.Context, q repository.Querier, key string, dst any) (bool, error) {
	raw, err := readRaw(ctx, q, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if raw == "" {
		return true, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return true, fmt.Errorf("decode option %s: %w", key, err)
	}
	return true, nil
}

// lock takes the transaction-scoped advisory lock of key.
func lock(ctx context.Context, tx *sql.Tx, key string) error {
	_, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", "wp_options:"+key)
	return handlers.Host(handlers.ErrDatabase, err)
}

func upsert(ctx context.Context, q repository.Querier, key string, value any, autoload bool) (bool, error) {
	encoded, err := EncodeValue(value)
	if err != nil {
		return false, handlers.Invalid("value", "not JSON encodable")
	}

	var created bool
	err = q.QueryRowContext(ctx, `
		INSERT INTO wp_options (option_name, option_value, autoload)
		VALUES ($1, $2, $3)
		ON CONFLICT (option_name) DO UPDATE
		SET option_value = EXCLUDED.option_value, autoload = EXCLUDED.autoload
		RETURNING (xmax = 0)`,
		key, encoded, autoloadFlag(autoload),
	).Scan(&created)
	return created, handlers.Host(handlers.ErrDatabase, err)
}

func (r *repo) Get(ctx context.Context, key string) (any, error) {
	raw, err := readRaw(ctx, r.db, key)
	if err != nil {
		return nil, err
	}
	return DecodeValue(raw), nil
}

func (r *repo) Decode(ctx context.Context, key string, dst any) (bool, error) {
	return decode(ctx, r.db, key, dst)
}

func (r *repo) Set(ctx context.Context, key string, value any, autoload bool) (bool, error) {
	created, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (bool, error) {
		if err := lock(ctx, tx, key); err != nil {
			return false, err
		}
		return upsert(ctx, tx, key, value, autoload)
	})
	if err != nil {
		return false, handlers.Host(handlers.ErrDatabase, err)
	}

	r.logger.Debug("option stored", "key", key, "created", created)
	return created, nil
}

func (r *repo) Update(ctx context.Context, key string, dst any, autoload bool, fn UpdateFunc) error {
	written, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (bool, error) {
		if err := lock(ctx, tx, key); err != nil {
			return false, err
		}
		exists, err := decode(ctx, tx, key, dst)
		if err != nil {
			return false, err
		}
		value, err := fn(exists)
		if err != nil || value == nil {
			return false, err
		}
		_, err = upsert(ctx, tx, key, value, autoload)
		return err == nil, err
	})
	if err != nil {
		return handlers.Host(handlers.ErrDatabase, err)
	}

	if written {
		r.logger.Debug("option updated", "key", key)
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, key string) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := lock(ctx, tx, key); err != nil {
			return struct{}{}, err
		}
		err := repository.ExecExpectOne(ctx, tx, "DELETE FROM wp_options WHERE option_name = $1", key)
		if errors.Is(err, sql.ErrNoRows) {
			return struct{}{}, ErrNotFound
		}
		return struct{}{}, err
	})
	return handlers.Host(handlers.ErrDatabase, err)
}

func (r *repo) List(ctx context.Context, prefix string, limit int) ([]Option, error) {
	q, args := query.NewBuilder(projection, "key").
		WherePrefix("key", prefix).
		BuildPage(1, limit)

	opts, err := repository.QueryMany(ctx, r.db, q, args, scanOption)
	if err != nil {
		return nil, handlers.Host(handlers.ErrDatabase, err)
	}
	return opts, nil
}

func (r *repo) Bulk(ctx context.Context, keys []string) (map[string]any, error) {
	result := make(map[string]any, len(keys))
	if len(keys) == 0 {
		return result, nil
	}

	values := make([]any, len(keys))
	for i, k := range keys {
		values[i] = k
		result[k] = false
	}

	q, args := query.NewBuilder(projection, "key").WhereIn("key", values).Build()
	opts, err := repository.QueryMany(ctx, r.db, q, args, scanOption)
	if err != nil {
		return nil, handlers.Host(handlers.ErrDatabase, err)
	}
	for _, o := range opts {
		result[o.Key] = o.Value
	}
	return result, nil
}

func (r *repo) DeletePrefixed(ctx context.Context, prefixes ...string) (int64, error) {
	var total int64
	for _, p := range prefixes {
		res, err := r.db.ExecContext(ctx,
			"DELETE FROM wp_options WHERE option_name LIKE $1", query.EscapeLike(p)+"%",
		)
		if err != nil {
			return total, handlers.Host(handlers.ErrDatabase, err)
		}
		n, _ := res.RowsAffected()
		total += n
	}
	return total, nil
}
