package cache

import (
	"context"
	"sync"
)

// MemoryBackend is a non-persistent in-process backend with process
// lifetime. A mutex-guarded map rather than an admission-policy cache:
// the manager's contract needs deterministic read-after-write.
type MemoryBackend struct {
	mu sync.RWMutex
	m  map[string]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{m: make(map[string]string)}
}

func (b *MemoryBackend) Get(_ context.Context, key string) (string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.m[key]
	return v, ok, nil
}

func (b *MemoryBackend) Set(_ context.Context, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.m[key] = value
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.m, key)
	return nil
}
