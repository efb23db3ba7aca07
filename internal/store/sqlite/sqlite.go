// Package sqlite implements store.Store on an embedded SQLite
// database (modernc.org/sqlite). Similarity search is a brute-force
// L2 scan over the scoped candidate rows; the engine's single-writer
// semantics are the only serialization point.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	sqlitelib "modernc.org/sqlite"

	"github.com/embermind/agentstore/internal/store"
)

type sqliteStore struct {
	db  *sql.DB
	dim int
}

// New opens (or creates) the database file, applies the schema and
// returns the store. dim is the configured embedding dimensionality.
func New(path string, dim int) (store.Store, error) {
	var db *sql.DB
	var err error
	if path == ":memory:" {
		db, err = OpenInMemory()
	} else {
		db, err = Open(path)
	}
	if err != nil {
		return nil, err
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewWithDB(db, dim), nil
}

// NewWithDB wires the store onto an existing connection. The caller
// is responsible for the schema being present.
func NewWithDB(db *sql.DB, dim int) store.Store {
	return &sqliteStore{db: db, dim: dim}
}

func (s *sqliteStore) Accounts() store.Accounts           { return &accounts{db: s.db} }
func (s *sqliteStore) Rooms() store.Rooms                 { return &rooms{db: s.db} }
func (s *sqliteStore) Participants() store.Participants   { return &participants{db: s.db} }
func (s *sqliteStore) Memories() store.Memories           { return &memories{db: s.db, dim: s.dim} }
func (s *sqliteStore) Knowledge() store.Knowledge         { return &knowledge{db: s.db} }
func (s *sqliteStore) Goals() store.Goals                 { return &goals{db: s.db} }
func (s *sqliteStore) Relationships() store.Relationships { return &relationships{db: s.db} }
func (s *sqliteStore) Cache() store.Cache                 { return &cacheTable{db: s.db} }
func (s *sqliteStore) Logs() store.Logs                   { return &logs{db: s.db} }

func (s *sqliteStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqliteStore) Close() error { return s.db.Close() }

// isConstraintErr reports whether err is a SQLITE_CONSTRAINT failure
// (primary-key or unique violation).
func isConstraintErr(err error) bool {
	var se *sqlitelib.Error
	if errors.As(err, &se) {
		return se.Code()&0xff == 19 // SQLITE_CONSTRAINT family
	}
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "constraint")
}
