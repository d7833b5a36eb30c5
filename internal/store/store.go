// Package store is the durable key-value store of strings: the enabled flag, the
// cached emoji index, snippets and panel state all live here.
package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

// KV is a string key-value store.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Lister can enumerate keys by prefix.
type Lister interface {
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Well-known keys.
const (
	KeyEnabled   = "ezmoji.enabled"
	KeySnippets  = "ezmoji.snippets.v1"
	KeyActiveTab = "ezmoji.active_tab"
)

// Enabled reads the feature flag; anything but "0" counts as enabled, and a
// missing key means enabled.
func Enabled(ctx context.Context, kv KV) (bool, error) {
	v, err := kv.Get(ctx, KeyEnabled)
	if errors.Is(err, ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return true, err
	}
	return v != "0", nil
}

// SetEnabled persists the feature flag as "1" or "0".
func SetEnabled(ctx context.Context, kv KV, on bool) error {
	v := "0"
	if on {
		v = "1"
	}
	return kv.Set(ctx, KeyEnabled, v)
}

// Memory is an in-process KV, used for tests and --ephemeral runs.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", errors.Wrapf(ErrNotFound, "%q", key)
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *Memory) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *Memory) Close() error { return nil }

func (m *Memory) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fmt.Sprintf("memory(%d keys)", len(m.data))
}
