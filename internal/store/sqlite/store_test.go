package sqlite

import (
	"testing"

	"github.com/embermind/agentstore/internal/store"
)

// newTestStore opens a private in-memory database with the schema
// applied. dim is the embedding dimensionality under test; the small
// values keep vector math readable.
func newTestStore(t *testing.T, dim int) store.Store {
	t.Helper()
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("open memory db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := EnsureSchema(db); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return NewWithDB(db, dim)
}
