// Package optionstest provides an in-memory options.System for tests.
package optionstest

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"github.com/JaimeStill/mcp-endpoints/internal/options"
)

type entry struct {
	raw      string
	autoload bool
}

// Memory is a goroutine-safe in-memory option store.
type Memory struct {
	mu   sync.Mutex
	data map[string]entry
}

// New returns an empty store.
func New() *Memory {
	return &Memory{data: make(map[string]entry)}
}

// Seed stores value without reporting creation. It panics when value cannot be encoded.
func (m *Memory) Seed(key string, value any) *Memory {
	if _, err := m.Set(context.Background(), key, value, true); err != nil {
		panic(err)
	}
	return m
}

// Raw returns the stored JSON text of key.
func (m *Memory) Raw(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.data[key]
	return e.raw, ok
}

func (m *Memory) Get(ctx context.Context, key string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.data[key]
	if !ok {
		return nil, options.ErrNotFound
	}
	return options.DecodeValue(e.raw), nil
}

func (m *Memory) Decode(ctx context.Context, key string, dst any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal([]byte(e.raw), dst)
}

func (m *Memory) Set(ctx context.Context, key string, value any, autoload bool) (bool, error) {
	raw, err := options.EncodeValue(value)
	if err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, existed := m.data[key]
	m.data[key] = entry{raw: raw, autoload: autoload}
	return !existed, nil
}

func (m *Memory) Update(ctx context.Context, key string, dst any, autoload bool, fn options.UpdateFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, exists := m.data[key]
	if exists && e.raw != "" {
		if err := json.Unmarshal([]byte(e.raw), dst); err != nil {
			return err
		}
	}
	value, err := fn(exists)
	if err != nil || value == nil {
		return err
	}
	raw, err := options.EncodeValue(value)
	if err != nil {
		return err
	}
	m.data[key] = entry{raw: raw, autoload: autoload}
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; !ok {
		return options.ErrNotFound
	}
	delete(m.data, key)
	return nil
}

func (m *Memory) List(ctx context.Context, prefix string, limit int) ([]options.Option, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}

	out := make([]options.Option, 0, len(keys))
	for _, k := range keys {
		e := m.data[k]
		out = append(out, options.Option{Key: k, Value: options.DecodeValue(e.raw), Autoload: e.autoload})
	}
	return out, nil
}

func (m *Memory) Bulk(ctx context.Context, keys []string) (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		if e, ok := m.data[k]; ok {
			out[k] = options.DecodeValue(e.raw)
		} else {
			out[k] = false
		}
	}
	return out, nil
}

func (m *Memory) DeletePrefixed(ctx context.Context, prefixes ...string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k := range m.data {
		for _, p := range prefixes {
			if strings.HasPrefix(k, p) {
				delete(m.data, k)
				n++
				break
			}
		}
	}
	return n, nil
}
