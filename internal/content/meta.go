package content

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
	"github.com/JaimeStill/mcp-endpoints/pkg/repository"
)

// MetaTable is a key/value side table owned by posts, users or terms.
type MetaTable struct {
	table string
	owner string
	id    string
}

var (
	PostMeta = MetaTable{table: "wp_postmeta", owner: "post_id", id: "meta_id"}
	UserMeta = MetaTable{table: "wp_usermeta", owner: "user_id", id: "umeta_id"}
	TermMeta = MetaTable{table: "wp_termmeta", owner: "term_id", id: "meta_id"}
)

// All returns every meta value of owner. When a key repeats the latest row wins.
func (m MetaTable) All(ctx context.Context, q repository.Querier, owner int64) (map[string]string, error) {
	type pair struct{ k, v string }
	rows, err := repository.QueryMany(ctx, q,
		fmt.Sprintf("SELECT meta_key, meta_value FROM %s WHERE %s = $1 ORDER BY %s", m.table, m.owner, m.id),
		[]any{owner},
		func(s repository.Scanner) (pair, error) {
			var p pair
			err := s.Scan(&p.k, &p.v)
			return p, err
		},
	)
	if err != nil {
		return nil, handlers.Host(handlers.ErrDatabase, err)
	}

	out := make(map[string]string, len(rows))
	for _, p := range rows {
		out[p.k] = p.v
	}
	return out, nil
}

// Get returns the latest value of key for owner.
func (m MetaTable) Get(ctx context.Context, q repository.Querier, owner int64, key string) (string, bool, error) {
	all, err := m.Values(ctx, q, owner, key)
	if err != nil || len(all) == 0 {
		return "", false, err
	}
	return all[len(all)-1], true, nil
}

// Values returns every value stored under key for owner in insertion order.
func (m MetaTable) Values(ctx context.Context, q repository.Querier, owner int64, key string) ([]string, error) {
	vals, err := repository.QueryMany(ctx, q,
		fmt.Sprintf("SELECT meta_value FROM %s WHERE %s = $1 AND meta_key = $2 ORDER BY %s", m.table, m.owner, m.id),
		[]any{owner, key},
		func(s repository.Scanner) (string, error) {
			var v string
			err := s.Scan(&v)
			return v, err
		},
	)
	return vals, handlers.Host(handlers.ErrDatabase, err)
}

// Set replaces every value of key for owner with value.
func (m MetaTable) Set(ctx context.Context, q repository.Querier, owner int64, key, value string) error {
	if err := m.Delete(ctx, q, owner, key); err != nil {
		return err
	}
	return m.Add(ctx, q, owner, key, value)
}

// Add appends a value under key without removing existing ones.
func (m MetaTable) Add(ctx context.Context, q repository.Querier, owner int64, key, value string) error {
	_, err := q.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (%s, meta_key, meta_value) VALUES ($1, $2, $3)", m.table, m.owner),
		owner, key, value,
	)
	return handlers.Host(handlers.ErrDatabase, err)
}

// Delete removes every value of key for owner.
func (m MetaTable) Delete(ctx context.Context, q repository.Querier, owner int64, key string) error {
	_, err := q.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE %s = $1 AND meta_key = $2", m.table, m.owner),
		owner, key,
	)
	return handlers.Host(handlers.ErrDatabase, err)
}

// SetJSON stores value encoded as JSON.
func (m MetaTable) SetJSON(ctx context.Context, q repository.Querier, owner int64, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode meta %s: %w", key, err)
	}
	return m.Set(ctx, q, owner, key, string(data))
}

// GetJSON decodes the JSON value of key into dst. It reports false when the key is absent.
func (m MetaTable) GetJSON(ctx context.Context, q repository.Querier, owner int64, key string, dst any) (bool, error) {
	raw, ok, err := m.Get(ctx, q, owner, key)
	if err != nil || !ok || raw == "" {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return true, fmt.Errorf("decode meta %s: %w", key, err)
	}
	return true, nil
}

// EncodeMeta stores strings verbatim and everything else as JSON.
func EncodeMeta(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case nil:
		return "", nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeMeta returns objects and arrays decoded from JSON and every other value as its stored string.
func DecodeMeta(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		var v any
		if err := json.Unmarshal([]byte(trimmed), &v); err == nil {
			return v
		}
	}
	return raw
}

// IsProtectedMeta reports whether key is private to the platform.
func IsProtectedMeta(key string) bool {
	return strings.HasPrefix(key, "_")
}
