// Package redisdb backs the token blacklist with Redis so logout survives
// restarts and is shared across API replicas. Revoked token IDs expire on
// their own once the token itself would no longer verify.
package redisdb

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/edutrack/backend/core"
	"github.com/edutrack/backend/core/user"
)

const keyPrefix = "auth:revoked:"

func Open(conf *core.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
}

type tokenBlacklist struct {
	client *redis.Client
}

var _ user.TokenBlacklist = (*tokenBlacklist)(nil) // interface compliance check

func NewTokenBlacklist(client *redis.Client) *tokenBlacklist {
	return &tokenBlacklist{client: client}
}

func (bl *tokenBlacklist) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil // already expired, nothing to revoke
	}
	return bl.client.Set(ctx, keyPrefix+jti, 1, ttl).Err()
}

func (bl *tokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := bl.client.Exists(ctx, keyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
