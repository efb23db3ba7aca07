package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/embermind/agentstore/internal/model"
)

type accounts struct {
	db *sql.DB
}

func (a *accounts) Create(ctx context.Context, acc *model.Account) error {
	if acc.ID == "" {
		acc.ID = uuid.New().String()
	}
	details, err := json.Marshal(acc.Details)
	if err != nil {
		return goerr.Wrap(err, "marshal account details", goerr.V("id", acc.ID))
	}
	_, err = a.db.ExecContext(ctx, `INSERT INTO accounts (id, name, username, email, avatar_url, details) VALUES (?,?,?,?,?,?)`,
		acc.ID, acc.Name, acc.Username, acc.Email, acc.AvatarURL, string(details))
	if err != nil {
		if isConstraintErr(err) {
			return goerr.Wrap(model.ErrConflict, "account already exists", goerr.V("id", acc.ID))
		}
		return goerr.Wrap(err, "insert account", goerr.V("id", acc.ID))
	}
	return nil
}

func (a *accounts) GetByID(ctx context.Context, id string) (*model.Account, error) {
	row := a.db.QueryRowContext(ctx, `SELECT id, name, username, email, avatar_url, details FROM accounts WHERE id = ?`, id)
	var acc model.Account
	var details string
	err := row.Scan(&acc.ID, &acc.Name, &acc.Username, &acc.Email, &acc.AvatarURL, &details)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, goerr.Wrap(model.ErrNotFound, "account not found", goerr.V("id", id))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "get account", goerr.V("id", id))
	}
	if err := json.Unmarshal([]byte(details), &acc.Details); err != nil {
		return nil, goerr.Wrap(err, "unmarshal account details", goerr.V("id", id))
	}
	return &acc, nil
}
