package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const refreshKeyPrefix = "session:refresh:"

type redisTokenRepository struct {
	client *redis.Client
}

// NewRedisTokenRepository keeps refresh tokens as Redis keys expiring with the token.
func NewRedisTokenRepository(client *redis.Client) TokenRepository {
	return &redisTokenRepository{client: client}
}

type redisSession struct {
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *redisTokenRepository) Save(ctx context.Context, token *RefreshToken) error {
	ttl := time.Until(token.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("refresh token already expired")
	}
	token.CreatedAt = time.Now()

	data, err := json.Marshal(redisSession{
		UserID:    token.UserID,
		ExpiresAt: token.ExpiresAt,
		CreatedAt: token.CreatedAt,
	})
	if err != nil {
		return err
	}
	return r.client.Set(ctx, refreshKeyPrefix+token.Token, data, ttl).Err()
}

func (r *redisTokenRepository) Find(ctx context.Context, token string) (*RefreshToken, error) {
	data, err := r.client.Get(ctx, refreshKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var s redisSession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &RefreshToken{
		Token:     token,
		UserID:    s.UserID,
		ExpiresAt: s.ExpiresAt,
		CreatedAt: s.CreatedAt,
	}, nil
}

func (r *redisTokenRepository) Delete(ctx context.Context, token string) error {
	return r.client.Del(ctx, refreshKeyPrefix+token).Err()
}
