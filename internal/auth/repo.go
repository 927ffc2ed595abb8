package auth

import (
	"context"
	"time"

	"github.com/MikeMC777/kasir-pos/internal/db"
)

// Repository stores access tokens by id. Ids are canonical UUID strings;
// callers parse untrusted ids first.
type Repository interface {
	Create(ctx context.Context, t *Token) error
	Get(ctx context.Context, id string) (*Token, error)
	Touch(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

type PGRepo struct{ db db.DBTX }

func NewPGRepo(q db.DBTX) *PGRepo { return &PGRepo{db: q} }

func (r *PGRepo) Create(ctx context.Context, t *Token) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.db.QueryRow(ctx, `
		INSERT INTO access_tokens (id, user_id, abilities, expires_at, created_at)
		VALUES ($1::uuid,$2,$3,$4,NOW())
		RETURNING created_at
	`, t.ID, t.UserID, t.Abilities, t.ExpiresAt).Scan(&t.CreatedAt)
}

func (r *PGRepo) Get(ctx context.Context, id string) (*Token, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var t Token
	err := r.db.QueryRow(ctx, `
		SELECT id::text, user_id, abilities, last_used_at, expires_at, created_at
		FROM access_tokens WHERE id=$1::uuid
	`, id).Scan(&t.ID, &t.UserID, &t.Abilities, &t.LastUsedAt, &t.ExpiresAt, &t.CreatedAt)
	if db.IsNoRows(err) {
		return nil, errTokenNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PGRepo) Touch(ctx context.Context, id string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `UPDATE access_tokens SET last_used_at=$2 WHERE id=$1::uuid`, id, at)
	return err
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `DELETE FROM access_tokens WHERE id=$1::uuid`, id)
	return err
}
