package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/embermind/agentstore/internal/model"
)

type relationships struct {
	db *sql.DB
}

func (r *relationships) Create(ctx context.Context, rel *model.Relationship) error {
	if rel.UserA == "" || rel.UserB == "" {
		return goerr.Wrap(model.ErrValidation, "userA and userB are required")
	}
	if rel.ID == "" {
		rel.ID = uuid.New().String()
	}
	if rel.UserID == "" {
		rel.UserID = rel.UserA
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO relationships (id, user_a, user_b, user_id) VALUES (?,?,?,?)`,
		rel.ID, rel.UserA, rel.UserB, rel.UserID)
	if err != nil {
		if isConstraintErr(err) {
			return goerr.Wrap(model.ErrConflict, "relationship already exists", goerr.V("id", rel.ID))
		}
		return goerr.Wrap(err, "insert relationship", goerr.V("id", rel.ID))
	}
	return nil
}

// GetByPair matches (A,B) in either stored order.
func (r *relationships) GetByPair(ctx context.Context, req model.GetRelationshipRequest) (*model.Relationship, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, user_a, user_b, user_id FROM relationships
		WHERE (user_a = ? AND user_b = ?) OR (user_a = ? AND user_b = ?) LIMIT 1`,
		req.UserA, req.UserB, req.UserB, req.UserA)
	rel, err := scanRelationship(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, goerr.Wrap(model.ErrNotFound, "relationship not found",
			goerr.V("userA", req.UserA), goerr.V("userB", req.UserB))
	}
	return rel, err
}

func (r *relationships) ListForUser(ctx context.Context, userID string) ([]*model.Relationship, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, user_a, user_b, user_id FROM relationships
		WHERE user_a = ? OR user_b = ?`, userID, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "query relationships", goerr.V("userId", userID))
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Relationship
	for rows.Next() {
		rel, err := scanRelationship(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rel)
	}
	return out, rows.Err()
}

func scanRelationship(row rowScanner) (*model.Relationship, error) {
	var rel model.Relationship
	if err := row.Scan(&rel.ID, &rel.UserA, &rel.UserB, &rel.UserID); err != nil {
		return nil, err
	}
	return &rel, nil
}
