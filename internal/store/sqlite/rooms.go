package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/embermind/agentstore/internal/model"
)

type rooms struct {
	db *sql.DB
}

func (r *rooms) Create(ctx context.Context, roomID string) (string, error) {
	if roomID == "" {
		roomID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO rooms (id) VALUES (?)`, roomID)
	if err != nil {
		return "", goerr.Wrap(err, "insert room", goerr.V("roomId", roomID))
	}
	return roomID, nil
}

func (r *rooms) Get(ctx context.Context, roomID string) (*model.Room, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `SELECT id FROM rooms WHERE id = ?`, roomID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, goerr.Wrap(model.ErrNotFound, "room not found", goerr.V("roomId", roomID))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "get room", goerr.V("roomId", roomID))
	}
	return &model.Room{ID: id}, nil
}

// Remove deletes the room row only; dependent participants and
// memories are the caller's responsibility to remove.
func (r *rooms) Remove(ctx context.Context, roomID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, roomID)
	if err != nil {
		return goerr.Wrap(err, "remove room", goerr.V("roomId", roomID))
	}
	return nil
}

func (r *rooms) ListForParticipant(ctx context.Context, userID string) ([]string, error) {
	return r.queryIDs(ctx, `SELECT DISTINCT room_id FROM participants WHERE user_id = ?`, userID)
}

func (r *rooms) ListForParticipants(ctx context.Context, userIDs []string) ([]string, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(userIDs)), ",")
	args := make([]interface{}, len(userIDs))
	for i, id := range userIDs {
		args[i] = id
	}
	return r.queryIDs(ctx, `SELECT DISTINCT room_id FROM participants WHERE user_id IN (`+placeholders+`)`, args...)
}

func (r *rooms) queryIDs(ctx context.Context, q string, args ...interface{}) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "query rooms")
	}
	defer func() { _ = rows.Close() }()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
