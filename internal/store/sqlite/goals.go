package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/embermind/agentstore/internal/model"
)

type goals struct {
	db *sql.DB
}

func (g *goals) List(ctx context.Context, req model.GetGoalsRequest) ([]*model.Goal, error) {
	if req.RoomID == "" {
		return nil, goerr.Wrap(model.ErrValidation, "roomId is required")
	}
	q := `SELECT id, room_id, user_id, name, status, objectives FROM goals WHERE room_id = ?`
	args := []interface{}{req.RoomID}
	if req.UserID != "" {
		q += ` AND user_id = ?`
		args = append(args, req.UserID)
	}
	if req.OnlyInProgress {
		q += ` AND status = ?`
		args = append(args, model.GoalStatusInProgress)
	}
	if req.Count > 0 {
		q += fmt.Sprintf(` LIMIT %d`, req.Count)
	}

	rows, err := g.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "query goals", goerr.V("roomId", req.RoomID))
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Goal
	for rows.Next() {
		var goal model.Goal
		var userID sql.NullString
		var objectives string
		if err := rows.Scan(&goal.ID, &goal.RoomID, &userID, &goal.Name, &goal.Status, &objectives); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(objectives), &goal.Objectives); err != nil {
			return nil, goerr.Wrap(err, "unmarshal objectives", goerr.V("id", goal.ID))
		}
		goal.UserID = userID.String
		out = append(out, &goal)
	}
	return out, rows.Err()
}

func (g *goals) Create(ctx context.Context, goal *model.Goal) error {
	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}
	objectives, err := json.Marshal(goal.Objectives)
	if err != nil {
		return goerr.Wrap(err, "marshal objectives", goerr.V("id", goal.ID))
	}
	_, err = g.db.ExecContext(ctx, `INSERT INTO goals (id, room_id, user_id, name, status, objectives) VALUES (?,?,?,?,?,?)`,
		goal.ID, goal.RoomID, nullable(goal.UserID), goal.Name, goal.Status, string(objectives))
	if err != nil {
		if isConstraintErr(err) {
			return goerr.Wrap(model.ErrConflict, "goal already exists", goerr.V("id", goal.ID))
		}
		return goerr.Wrap(err, "insert goal", goerr.V("id", goal.ID))
	}
	return nil
}

func (g *goals) Update(ctx context.Context, goal *model.Goal) error {
	objectives, err := json.Marshal(goal.Objectives)
	if err != nil {
		return goerr.Wrap(err, "marshal objectives", goerr.V("id", goal.ID))
	}
	res, err := g.db.ExecContext(ctx, `UPDATE goals SET name = ?, status = ?, objectives = ? WHERE id = ?`,
		goal.Name, goal.Status, string(objectives), goal.ID)
	if err != nil {
		return goerr.Wrap(err, "update goal", goerr.V("id", goal.ID))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return goerr.Wrap(model.ErrNotFound, "goal not found", goerr.V("id", goal.ID))
	}
	return nil
}

func (g *goals) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := g.db.ExecContext(ctx, `UPDATE goals SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return goerr.Wrap(err, "update goal status", goerr.V("id", id))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return goerr.Wrap(model.ErrNotFound, "goal not found", goerr.V("id", id))
	}
	return nil
}

func (g *goals) Remove(ctx context.Context, id string) error {
	_, err := g.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return goerr.Wrap(err, "remove goal", goerr.V("id", id))
	}
	return nil
}

func (g *goals) RemoveAllForRoom(ctx context.Context, roomID string) error {
	_, err := g.db.ExecContext(ctx, `DELETE FROM goals WHERE room_id = ?`, roomID)
	if err != nil {
		return goerr.Wrap(err, "remove room goals", goerr.V("roomId", roomID))
	}
	return nil
}
