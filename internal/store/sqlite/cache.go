package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// cacheTable is the raw database cache backend: an upsert table keyed
// by (key, agent_id). Expiry lives in the cache.Manager above it.
type cacheTable struct {
	db *sql.DB
}

func (c *cacheTable) Get(ctx context.Context, key, agentID string) (string, bool, error) {
	var value string
	err := c.db.QueryRowContext(ctx, `SELECT value FROM cache WHERE key = ? AND agent_id = ?`, key, agentID).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, goerr.Wrap(err, "get cache entry", goerr.V("key", key))
	}
	return value, true, nil
}

func (c *cacheTable) Set(ctx context.Context, key, agentID, value string) error {
	_, err := c.db.ExecContext(ctx, `INSERT OR REPLACE INTO cache (key, agent_id, value, created_at) VALUES (?,?,?,?)`,
		key, agentID, value, time.Now().UnixMilli())
	if err != nil {
		return goerr.Wrap(err, "set cache entry", goerr.V("key", key))
	}
	return nil
}

func (c *cacheTable) Delete(ctx context.Context, key, agentID string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM cache WHERE key = ? AND agent_id = ?`, key, agentID)
	if err != nil {
		return goerr.Wrap(err, "delete cache entry", goerr.V("key", key))
	}
	return nil
}
