package cache

import (
	"context"

	"github.com/embermind/agentstore/internal/store"
)

// DBBackend delegates to the relational store's cache table, scoping
// every key by the owning agent.
type DBBackend struct {
	table   store.Cache
	agentID string
}

func NewDBBackend(table store.Cache, agentID string) *DBBackend {
	return &DBBackend{table: table, agentID: agentID}
}

func (b *DBBackend) Get(ctx context.Context, key string) (string, bool, error) {
	return b.table.Get(ctx, key, b.agentID)
}

func (b *DBBackend) Set(ctx context.Context, key, value string) error {
	return b.table.Set(ctx, key, b.agentID, value)
}

func (b *DBBackend) Delete(ctx context.Context, key string) error {
	return b.table.Delete(ctx, key, b.agentID)
}
