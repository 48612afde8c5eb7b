package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClients separates the session store (refresh tokens) from the
// read-through cache so cache flushes never touch live sessions.
type RedisClients struct {
	Sessions *redis.Client
	Cache    *redis.Client
}

func NewRedisClients(redisURL string) (*RedisClients, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sessionClient := redis.NewClient(opt)
	if err := sessionClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis (sessions): %w", err)
	}

	cacheOpt := *opt
	cacheOpt.DB = opt.DB + 1
	cacheClient := redis.NewClient(&cacheOpt)
	if err := cacheClient.Ping(ctx).Err(); err != nil {
		sessionClient.Close()
		return nil, fmt.Errorf("failed to ping Redis (cache): %w", err)
	}

	return &RedisClients{
		Sessions: sessionClient,
		Cache:    cacheClient,
	}, nil
}

func (r *RedisClients) Close() {
	r.Sessions.Close()
	r.Cache.Close()
}
