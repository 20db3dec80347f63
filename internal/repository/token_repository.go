package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type RefreshToken struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// TokenRepository stores issued refresh tokens so they can be rotated and revoked.
type TokenRepository interface {
	Save(ctx context.Context, token *RefreshToken) error
	Find(ctx context.Context, token string) (*RefreshToken, error)
	Delete(ctx context.Context, token string) error
}

type pgTokenRepository struct {
	db DBTX
}

func NewTokenRepository(db DBTX) TokenRepository {
	return &pgTokenRepository{db: db}
}

func (r *pgTokenRepository) Save(ctx context.Context, token *RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (token, user_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query, token.Token, token.UserID, token.ExpiresAt).Scan(&token.CreatedAt)
	return classify(err)
}

func (r *pgTokenRepository) Find(ctx context.Context, token string) (*RefreshToken, error) {
	query := `SELECT token, user_id, expires_at, created_at FROM refresh_tokens WHERE token = $1`
	rt := &RefreshToken{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(&rt.Token, &rt.UserID, &rt.ExpiresAt, &rt.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *pgTokenRepository) Delete(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, token)
	return err
}
