package infrastructure

import (
	"github.com/hibiken/asynq"

	"contacts-api/internal/config"
)

// QueueRedisOpt returns the asynq connection settings for the mail queue.
// The queue shares the Redis instance of the cache.
func QueueRedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return redisConfig(cfg).QueueOpt()
}

// NewQueueClient creates the asynq client used to enqueue mail tasks.
func NewQueueClient(cfg *config.Config) *asynq.Client {
	return asynq.NewClient(QueueRedisOpt(cfg))
}
