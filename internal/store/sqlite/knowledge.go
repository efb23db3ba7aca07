package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/embermind/agentstore/internal/model"
	"github.com/embermind/agentstore/internal/vector"
)

type knowledge struct {
	db *sql.DB
}

const knowledgeCols = `id, agent_id, content, embedding, created_at`

func (k *knowledge) Get(ctx context.Context, req model.GetKnowledgeRequest) ([]*model.KnowledgeItem, error) {
	if req.AgentID == "" {
		return nil, goerr.Wrap(model.ErrValidation, "agentId is required")
	}
	q := `SELECT ` + knowledgeCols + ` FROM knowledge WHERE (agent_id = ? OR is_shared = 1)`
	args := []interface{}{req.AgentID}
	if req.ID != "" {
		q += ` AND id = ?`
		args = append(args, req.ID)
	}
	if req.Limit > 0 {
		q += fmt.Sprintf(` LIMIT %d`, req.Limit)
	}
	return k.query(ctx, q, args...)
}

// Create inserts the row in a single transaction. A primary-key
// conflict is reported wrapping model.ErrConflict so the service
// layer can apply its idempotency rules.
func (k *knowledge) Create(ctx context.Context, item *model.KnowledgeItem) error {
	if item.ID == "" {
		return goerr.Wrap(model.ErrValidation, "knowledge id is required")
	}
	if item.CreatedAt == 0 {
		item.CreatedAt = time.Now().UnixMilli()
	}
	content, err := json.Marshal(item.Content)
	if err != nil {
		return goerr.Wrap(err, "marshal knowledge content", goerr.V("id", item.ID))
	}

	var emb interface{}
	if len(item.Embedding) > 0 {
		emb = vector.Encode(item.Embedding)
	}
	// shared rows carry a null agent_id regardless of the item's owner
	var agentID interface{}
	if !item.Content.Metadata.IsShared && item.AgentID != "" {
		agentID = item.AgentID
	}

	tx, err := k.db.BeginTx(ctx, nil)
	if err != nil {
		return goerr.Wrap(err, "begin knowledge insert")
	}
	meta := item.Content.Metadata
	_, err = tx.ExecContext(ctx, `INSERT INTO knowledge
		(id, agent_id, content, embedding, created_at, is_main, original_id, chunk_index, is_shared)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		item.ID, agentID, string(content), emb, item.CreatedAt,
		boolToInt(meta.IsMain), nullable(meta.OriginalID), meta.ChunkIndex, boolToInt(meta.IsShared))
	if err != nil {
		_ = tx.Rollback()
		if isConstraintErr(err) {
			return goerr.Wrap(model.ErrConflict, "knowledge id already exists", goerr.V("id", item.ID))
		}
		return goerr.Wrap(err, "insert knowledge", goerr.V("id", item.ID))
	}
	return tx.Commit()
}

// ListCandidates returns the rows visible to agentID that carry an
// embedding, for in-process hybrid ranking.
func (k *knowledge) ListCandidates(ctx context.Context, agentID string) ([]*model.KnowledgeItem, error) {
	q := `SELECT ` + knowledgeCols + ` FROM knowledge WHERE (agent_id = ? OR is_shared = 1) AND embedding IS NOT NULL`
	return k.query(ctx, q, agentID)
}

func (k *knowledge) Remove(ctx context.Context, id string) error {
	_, err := k.db.ExecContext(ctx, `DELETE FROM knowledge WHERE id = ?`, id)
	if err != nil {
		return goerr.Wrap(err, "remove knowledge", goerr.V("id", id))
	}
	return nil
}

func (k *knowledge) Clear(ctx context.Context, agentID string, shared bool) error {
	if _, err := k.db.ExecContext(ctx, `DELETE FROM knowledge WHERE agent_id = ?`, agentID); err != nil {
		return goerr.Wrap(err, "clear agent knowledge", goerr.V("agentId", agentID))
	}
	if shared {
		if _, err := k.db.ExecContext(ctx, `DELETE FROM knowledge WHERE is_shared = 1`); err != nil {
			return goerr.Wrap(err, "clear shared knowledge")
		}
	}
	return nil
}

func (k *knowledge) query(ctx context.Context, q string, args ...interface{}) ([]*model.KnowledgeItem, error) {
	rows, err := k.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "query knowledge")
	}
	defer func() { _ = rows.Close() }()
	var out []*model.KnowledgeItem
	for rows.Next() {
		item, err := scanKnowledge(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func scanKnowledge(rows *sql.Rows) (*model.KnowledgeItem, error) {
	var item model.KnowledgeItem
	var agentID sql.NullString
	var content string
	var emb []byte
	if err := rows.Scan(&item.ID, &agentID, &content, &emb, &item.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(content), &item.Content); err != nil {
		return nil, goerr.Wrap(err, "unmarshal knowledge content", goerr.V("id", item.ID))
	}
	if len(emb) > 0 {
		vec, err := vector.Decode(emb)
		if err != nil {
			return nil, goerr.Wrap(err, "decode knowledge embedding", goerr.V("id", item.ID))
		}
		item.Embedding = vec
	}
	item.AgentID = agentID.String
	return &item, nil
}
