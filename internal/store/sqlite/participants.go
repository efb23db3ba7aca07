package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/embermind/agentstore/internal/model"
)

type participants struct {
	db *sql.DB
}

func (p *participants) Create(ctx context.Context, part *model.Participant) error {
	if part.ID == "" {
		part.ID = uuid.New().String()
	}
	_, err := p.db.ExecContext(ctx, `INSERT INTO participants (id, user_id, room_id, last_message_read, user_state) VALUES (?,?,?,?,?)`,
		part.ID, part.UserID, part.RoomID, nullable(part.LastMessageRead), nullableState(part.UserState))
	if err != nil {
		if isConstraintErr(err) {
			return goerr.Wrap(model.ErrConflict, "participant already exists", goerr.V("id", part.ID))
		}
		return goerr.Wrap(err, "insert participant", goerr.V("userId", part.UserID), goerr.V("roomId", part.RoomID))
	}
	return nil
}

func (p *participants) ListForAccount(ctx context.Context, userID string) ([]*model.Participant, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id, user_id, room_id, last_message_read, user_state FROM participants WHERE user_id = ?`, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "query participants", goerr.V("userId", userID))
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Participant
	for rows.Next() {
		var part model.Participant
		var lastRead, state sql.NullString
		if err := rows.Scan(&part.ID, &part.UserID, &part.RoomID, &lastRead, &state); err != nil {
			return nil, err
		}
		part.LastMessageRead = lastRead.String
		if state.Valid {
			s := state.String
			part.UserState = &s
		}
		out = append(out, &part)
	}
	return out, rows.Err()
}

func (p *participants) ListForRoom(ctx context.Context, roomID string) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT user_id FROM participants WHERE room_id = ?`, roomID)
	if err != nil {
		return nil, goerr.Wrap(err, "query room participants", goerr.V("roomId", roomID))
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

// UserState returns nil when the participant row is absent or carries
// no state; absence is not an error.
func (p *participants) UserState(ctx context.Context, roomID, userID string) (*string, error) {
	var state sql.NullString
	err := p.db.QueryRowContext(ctx, `SELECT user_state FROM participants WHERE room_id = ? AND user_id = ?`, roomID, userID).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "get participant state", goerr.V("roomId", roomID), goerr.V("userId", userID))
	}
	if !state.Valid {
		return nil, nil
	}
	s := state.String
	return &s, nil
}

func (p *participants) SetUserState(ctx context.Context, roomID, userID string, state *string) error {
	_, err := p.db.ExecContext(ctx, `UPDATE participants SET user_state = ? WHERE room_id = ? AND user_id = ?`,
		nullableState(state), roomID, userID)
	if err != nil {
		return goerr.Wrap(err, "set participant state", goerr.V("roomId", roomID), goerr.V("userId", userID))
	}
	return nil
}

func (p *participants) Remove(ctx context.Context, roomID, userID string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM participants WHERE room_id = ? AND user_id = ?`, roomID, userID)
	if err != nil {
		return goerr.Wrap(err, "remove participant", goerr.V("roomId", roomID), goerr.V("userId", userID))
	}
	return nil
}

func nullableState(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
