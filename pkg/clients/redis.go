package clients

import (
	"context"

	"github.com/jimlawless/whereami"
	"github.com/redis/go-redis/v9"
	config "github.com/storeforge/backend/internal/cfg"
	"github.com/storeforge/backend/pkg/e"
)

// RedisClient оборачивает клиент go-redis.
type RedisClient struct {
	Client *redis.Client
}

func NewRedisClient(cfg *config.RedisCfg) *RedisClient {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.User,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	return &RedisClient{Client: client}
}

func (r *RedisClient) Ping(ctx context.Context) error {
	if err := r.Client.Ping(ctx).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
