package infrastructure

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"contacts-api/internal/config"
	redisclient "contacts-api/pkg/redis"
)

func redisConfig(cfg *config.Config) redisclient.Config {
	return redisclient.Config{
		Host:        cfg.Redis.Host,
		Port:        cfg.Redis.Port,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		MaxRetries:  cfg.Redis.MaxRetries,
		PoolSize:    cfg.Redis.PoolSize,
		MinIdleConn: cfg.Redis.MinIdleConns,
	}
}

// NewRedisClient connects the Redis client backing the user cache.
func NewRedisClient(cfg *config.Config, l *zap.Logger) (*goredis.Client, error) {
	rdb, err := redisclient.NewClient(context.Background(), redisConfig(cfg), l)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return rdb, nil
}
