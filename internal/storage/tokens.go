package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrUploadTokenInvalid = fmt.Errorf("upload token %w", domain.ErrNotFound)
)

// TokenRegistry issues and redeems one-time upload tokens
type TokenRegistry interface {
	Issue(ctx context.Context, ttl time.Duration) (string, error)
	// Redeem consumes a token. A second redeem of the same token fails with
	// ErrUploadTokenInvalid, as does an expired or unknown token.
	Redeem(ctx context.Context, token string) error
}

type redisTokenRegistry struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisTokenRegistry stores tokens as expiring redis keys under keyPrefix
func NewRedisTokenRegistry(client *redis.Client, keyPrefix string) TokenRegistry {
	return &redisTokenRegistry{client: client, keyPrefix: keyPrefix}
}

func (r *redisTokenRegistry) Issue(ctx context.Context, ttl time.Duration) (string, error) {
	token := uuid.NewString()

	ok, err := r.client.SetNX(ctx, r.key(token), time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return "", fmt.Errorf("failed to store upload token: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("upload token collision")
	}

	return token, nil
}

func (r *redisTokenRegistry) Redeem(ctx context.Context, token string) error {
	if _, err := uuid.Parse(token); err != nil {
		return ErrUploadTokenInvalid
	}

	_, err := r.client.GetDel(ctx, r.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrUploadTokenInvalid
		}
		return fmt.Errorf("failed to redeem upload token: %w", err)
	}

	return nil
}

func (r *redisTokenRegistry) key(token string) string {
	return fmt.Sprintf("%s:%s", r.keyPrefix, token)
}
