package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/embermind/agentstore/internal/model"
)

// logs is append-only; no read path exists in this subsystem.
type logs struct {
	db *sql.DB
}

func (l *logs) Create(ctx context.Context, entry *model.Log) error {
	if entry.Type == "" {
		return goerr.Wrap(model.ErrValidation, "log type is required")
	}
	body, err := json.Marshal(entry.Body)
	if err != nil {
		return goerr.Wrap(err, "marshal log body")
	}
	_, err = l.db.ExecContext(ctx, `INSERT INTO logs (id, body, user_id, room_id, type, created_at) VALUES (?,?,?,?,?,?)`,
		uuid.New().String(), string(body), nullable(entry.UserID), nullable(entry.RoomID), entry.Type, time.Now().UnixMilli())
	if err != nil {
		return goerr.Wrap(err, "insert log", goerr.V("type", entry.Type))
	}
	return nil
}
