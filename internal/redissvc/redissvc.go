// Package redissvc wraps the shared redis client together with its base
// context. OTP codes, refresh-token sessions, and the abuse ban log all go
// through the one instance handed out here.
package redissvc

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisService pairs a connected client with the context its callers should
// derive from.
type RedisService struct {
	rdb *redis.Client
	ctx context.Context
}

func NewRedisService(rdb *redis.Client, ctx context.Context) *RedisService {
	return &RedisService{
		rdb: rdb,
		ctx: ctx,
	}
}

func (s *RedisService) Rdb() *redis.Client {
	return s.rdb
}

func (s *RedisService) Ctx() context.Context {
	return s.ctx
}
