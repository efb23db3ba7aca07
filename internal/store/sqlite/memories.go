package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/embermind/agentstore/internal/model"
	"github.com/embermind/agentstore/internal/vector"
)

type memories struct {
	db  *sql.DB
	dim int
}

const memoryCols = `id, type, content, embedding, user_id, room_id, agent_id, "unique", created_at`

func (m *memories) Create(ctx context.Context, mem *model.Memory, tableName string) error {
	typ := tableName
	if typ == "" {
		typ = mem.Type
	}
	if typ == "" {
		return goerr.Wrap(model.ErrValidation, "tableName is required")
	}
	if mem.ID == "" {
		mem.ID = uuid.New().String()
	}
	if mem.CreatedAt == 0 {
		mem.CreatedAt = time.Now().UnixMilli()
	}
	emb := mem.Embedding
	if len(emb) != m.dim {
		// absent or mismatched embeddings are stored as a zero vector
		// of the configured dimensionality, never a shorter column
		emb = vector.Zero(m.dim)
	}
	content, err := json.Marshal(mem.Content)
	if err != nil {
		return goerr.Wrap(err, "marshal memory content", goerr.V("id", mem.ID))
	}
	mem.Type = typ
	_, err = m.db.ExecContext(ctx, `INSERT OR REPLACE INTO memories
		(id, type, content, embedding, user_id, room_id, agent_id, "unique", created_at)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		mem.ID, typ, string(content), vector.Encode(emb),
		nullable(mem.UserID), mem.RoomID, nullable(mem.AgentID), boolToInt(mem.Unique), mem.CreatedAt)
	if err != nil {
		return goerr.Wrap(err, "insert memory", goerr.V("id", mem.ID), goerr.V("type", typ))
	}
	return nil
}

func (m *memories) GetByID(ctx context.Context, id string) (*model.Memory, error) {
	row := m.db.QueryRowContext(ctx, `SELECT `+memoryCols+` FROM memories WHERE id = ?`, id)
	mem, err := scanMemory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, goerr.Wrap(model.ErrNotFound, "memory not found", goerr.V("id", id))
	}
	return mem, err
}

func (m *memories) List(ctx context.Context, req model.GetMemoriesRequest) ([]*model.Memory, error) {
	if req.TableName == "" {
		return nil, goerr.Wrap(model.ErrValidation, "tableName is required")
	}
	if req.RoomID == "" {
		return nil, goerr.Wrap(model.ErrValidation, "roomId is required")
	}

	q := `SELECT ` + memoryCols + ` FROM memories WHERE type = ? AND room_id = ?`
	args := []interface{}{req.TableName, req.RoomID}
	if req.AgentID != "" {
		q += ` AND agent_id = ?`
		args = append(args, req.AgentID)
	}
	if req.Unique {
		q += ` AND "unique" = 1`
	}
	if req.Start > 0 {
		q += ` AND created_at >= ?`
		args = append(args, req.Start)
	}
	if req.End > 0 {
		q += ` AND created_at <= ?`
		args = append(args, req.End)
	}
	q += ` ORDER BY created_at DESC`
	if req.Count > 0 {
		q += fmt.Sprintf(` LIMIT %d`, req.Count)
	}
	return m.queryMemories(ctx, q, args...)
}

func (m *memories) ListByRoomIDs(ctx context.Context, req model.GetMemoriesByRoomIDsRequest) ([]*model.Memory, error) {
	if req.TableName == "" {
		return nil, goerr.Wrap(model.ErrValidation, "tableName is required")
	}
	if len(req.RoomIDs) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(req.RoomIDs)), ",")
	q := `SELECT ` + memoryCols + ` FROM memories WHERE type = ? AND room_id IN (` + placeholders + `)`
	args := []interface{}{req.TableName}
	for _, id := range req.RoomIDs {
		args = append(args, id)
	}
	if req.AgentID != "" {
		q += ` AND agent_id = ?`
		args = append(args, req.AgentID)
	}
	return m.queryMemories(ctx, q, args...)
}

func (m *memories) CountByRoom(ctx context.Context, roomID, tableName string, unique bool) (int, error) {
	if tableName == "" {
		return 0, goerr.Wrap(model.ErrValidation, "tableName is required")
	}
	if roomID == "" {
		return 0, goerr.Wrap(model.ErrValidation, "roomId is required")
	}
	q := `SELECT COUNT(*) FROM memories WHERE type = ? AND room_id = ?`
	if unique {
		q += ` AND "unique" = 1`
	}
	var n int
	if err := m.db.QueryRowContext(ctx, q, tableName, roomID).Scan(&n); err != nil {
		return 0, goerr.Wrap(err, "count memories", goerr.V("roomId", roomID))
	}
	return n, nil
}

// SearchByDistance returns matches ordered by ascending L2 distance.
// MatchCount caps the result after ordering. Rows farther than
// MaxDistance (when positive) are excluded.
func (m *memories) SearchByDistance(ctx context.Context, req model.SearchMemoriesByDistanceRequest) ([]*model.MemoryMatch, error) {
	if req.TableName == "" {
		return nil, goerr.Wrap(model.ErrValidation, "tableName is required")
	}
	if req.RoomID == "" {
		return nil, goerr.Wrap(model.ErrValidation, "roomId is required")
	}

	q := `SELECT ` + memoryCols + ` FROM memories WHERE type = ? AND room_id = ?`
	args := []interface{}{req.TableName, req.RoomID}
	if req.AgentID != "" {
		q += ` AND agent_id = ?`
		args = append(args, req.AgentID)
	}
	if req.Unique {
		q += ` AND "unique" = 1`
	}
	rows, err := m.queryMemories(ctx, q, args...)
	if err != nil {
		return nil, err
	}

	matches := make([]*model.MemoryMatch, 0, len(rows))
	for _, mem := range rows {
		if len(mem.Embedding) != len(req.Embedding) {
			continue
		}
		d := vector.L2(mem.Embedding, req.Embedding)
		if req.MaxDistance > 0 && d > req.MaxDistance {
			continue
		}
		matches = append(matches, &model.MemoryMatch{Memory: *mem, Distance: d})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Distance < matches[j].Distance })
	if req.MatchCount > 0 && len(matches) > req.MatchCount {
		matches = matches[:req.MatchCount]
	}
	return matches, nil
}

// SearchByEmbedding returns matches ordered by descending similarity
// score 1/(1+distance). Count caps the result after ordering.
func (m *memories) SearchByEmbedding(ctx context.Context, req model.SearchMemoriesByEmbeddingRequest) ([]*model.MemoryMatch, error) {
	if req.TableName == "" {
		return nil, goerr.Wrap(model.ErrValidation, "tableName is required")
	}

	q := `SELECT ` + memoryCols + ` FROM memories WHERE type = ?`
	args := []interface{}{req.TableName}
	if req.AgentID != "" {
		q += ` AND agent_id = ?`
		args = append(args, req.AgentID)
	}
	if req.RoomID != "" {
		q += ` AND room_id = ?`
		args = append(args, req.RoomID)
	}
	if req.Unique {
		q += ` AND "unique" = 1`
	}
	rows, err := m.queryMemories(ctx, q, args...)
	if err != nil {
		return nil, err
	}

	matches := make([]*model.MemoryMatch, 0, len(rows))
	for _, mem := range rows {
		if len(mem.Embedding) != len(req.Embedding) {
			continue
		}
		s := vector.Score(vector.L2(mem.Embedding, req.Embedding))
		matches = append(matches, &model.MemoryMatch{Memory: *mem, Score: s})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if req.Count > 0 && len(matches) > req.Count {
		matches = matches[:req.Count]
	}
	return matches, nil
}

func (m *memories) Remove(ctx context.Context, id, tableName string) error {
	if tableName == "" {
		return goerr.Wrap(model.ErrValidation, "tableName is required")
	}
	_, err := m.db.ExecContext(ctx, `DELETE FROM memories WHERE id = ? AND type = ?`, id, tableName)
	if err != nil {
		return goerr.Wrap(err, "remove memory", goerr.V("id", id))
	}
	return nil
}

func (m *memories) RemoveAllForRoom(ctx context.Context, roomID, tableName string) error {
	if tableName == "" {
		return goerr.Wrap(model.ErrValidation, "tableName is required")
	}
	_, err := m.db.ExecContext(ctx, `DELETE FROM memories WHERE room_id = ? AND type = ?`, roomID, tableName)
	if err != nil {
		return goerr.Wrap(err, "remove room memories", goerr.V("roomId", roomID))
	}
	return nil
}

func (m *memories) queryMemories(ctx context.Context, q string, args ...interface{}) ([]*model.Memory, error) {
	rows, err := m.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "query memories")
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Memory
	for rows.Next() {
		mem, err := scanMemory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, mem)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMemory(row rowScanner) (*model.Memory, error) {
	var mem model.Memory
	var content string
	var emb []byte
	var userID, agentID sql.NullString
	var uniq int
	if err := row.Scan(&mem.ID, &mem.Type, &content, &emb, &userID, &mem.RoomID, &agentID, &uniq, &mem.CreatedAt); err != nil {
		return nil, err
	}
	// corrupt content cannot be safely interpreted; propagate
	if err := json.Unmarshal([]byte(content), &mem.Content); err != nil {
		return nil, goerr.Wrap(err, "unmarshal memory content", goerr.V("id", mem.ID))
	}
	vec, err := vector.Decode(emb)
	if err != nil {
		return nil, goerr.Wrap(err, "decode memory embedding", goerr.V("id", mem.ID))
	}
	mem.Embedding = vec
	mem.UserID = userID.String
	mem.AgentID = agentID.String
	mem.Unique = uniq != 0
	return &mem, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
