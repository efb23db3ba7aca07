// Package cache is the agent's key-value cache layer: a Manager that
// adds typed JSON (de)serialization and per-entry expiry on top of a
// pluggable Backend (in-process map, filesystem, or the relational
// store's cache table). Reads fail open: a missing, corrupt, or
// expired entry is reported as absent, never as an error.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// Backend is a raw string key-value store. Which backend backs the
// manager is a configuration decision made by the runtime factory.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// SetOptions carries optional write parameters. A zero Expires means
// the entry never expires.
type SetOptions struct {
	Expires time.Time
}

// envelope is the serialized form of every managed entry.
type envelope struct {
	Value     json.RawMessage `json:"value"`
	ExpiresAt int64           `json:"expiresAt,omitempty"` // epoch ms, 0 = none
}

// Manager wraps a Backend with serialization and expiry semantics.
type Manager struct {
	backend Backend
	now     func() time.Time
}

func NewManager(backend Backend) *Manager {
	return &Manager{backend: backend, now: time.Now}
}

// Get deserializes the entry under key into dest and reports whether
// a live entry was found. Expired entries are deleted best-effort and
// reported absent; corrupt entries are reported absent.
func (m *Manager) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, ok, err := m.backend.Get(ctx, key)
	if err != nil {
		return false, goerr.Wrap(err, "cache get", goerr.V("key", key))
	}
	if !ok {
		return false, nil
	}
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return false, nil
	}
	if env.ExpiresAt > 0 && m.now().UnixMilli() > env.ExpiresAt {
		_ = m.backend.Delete(ctx, key) // best-effort
		return false, nil
	}
	if dest != nil {
		if err := json.Unmarshal(env.Value, dest); err != nil {
			return false, nil
		}
	}
	return true, nil
}

// Set serializes value (with the optional expiry) under key. Write
// failures surface to the caller.
func (m *Manager) Set(ctx context.Context, key string, value interface{}, opts SetOptions) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return goerr.Wrap(err, "cache marshal", goerr.V("key", key))
	}
	env := envelope{Value: raw}
	if !opts.Expires.IsZero() {
		env.ExpiresAt = opts.Expires.UnixMilli()
	}
	buf, err := json.Marshal(env)
	if err != nil {
		return goerr.Wrap(err, "cache marshal envelope", goerr.V("key", key))
	}
	if err := m.backend.Set(ctx, key, string(buf)); err != nil {
		return goerr.Wrap(err, "cache set", goerr.V("key", key))
	}
	return nil
}

func (m *Manager) Delete(ctx context.Context, key string) error {
	return m.backend.Delete(ctx, key)
}
