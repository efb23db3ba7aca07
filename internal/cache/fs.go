package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
)

// FSBackend stores one file per key under a directory. Keys are
// hashed into filenames so arbitrary key strings stay path-safe.
// Missing files read as absent; delete failures are swallowed.
type FSBackend struct {
	dir string
}

func NewFSBackend(dir string) (*FSBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, goerr.Wrap(err, "create cache dir", goerr.V("dir", dir))
	}
	return &FSBackend{dir: dir}, nil
}

func (b *FSBackend) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(b.dir, hex.EncodeToString(sum[:])+".json")
}

func (b *FSBackend) Get(_ context.Context, key string) (string, bool, error) {
	buf, err := os.ReadFile(b.path(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, goerr.Wrap(err, "read cache file", goerr.V("key", key))
	}
	return string(buf), true, nil
}

func (b *FSBackend) Set(_ context.Context, key, value string) error {
	if err := os.WriteFile(b.path(key), []byte(value), 0o644); err != nil {
		return goerr.Wrap(err, "write cache file", goerr.V("key", key))
	}
	return nil
}

func (b *FSBackend) Delete(_ context.Context, key string) error {
	// best-effort; a missing file is not a failure
	_ = os.Remove(b.path(key))
	return nil
}
