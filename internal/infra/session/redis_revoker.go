// Package session tracks revoked JWT ids in redis so logout takes effect
// before the token expires.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"stockflow/internal/pkg/config"
	"stockflow/internal/pkg/errs"
)

type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type RedisRevoker struct {
	rdb *redis.Client
}

func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, func(), error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, errs.Wrap(err, "failed to connect to redis")
	}
	cleanup := func() {
		_ = rdb.Close()
	}
	return rdb, cleanup, nil
}

func NewRedisRevoker(rdb *redis.Client) *RedisRevoker {
	return &RedisRevoker{rdb: rdb}
}

func revokedKey(jti string) string {
	return "revoked:" + jti
}

// Revoke denylists the token id for its remaining lifetime; the key then
// expires together with the token.
func (r *RedisRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.rdb.Set(ctx, revokedKey(jti), "1", ttl).Err(); err != nil {
		return errs.Wrap(err, "failed to revoke token")
	}
	return nil
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := r.rdb.Get(ctx, revokedKey(jti)).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	return false, errs.Wrap(err, "failed to check token revocation")
}
