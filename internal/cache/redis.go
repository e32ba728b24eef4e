package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"movie-catalog/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RedisCache struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisCache(client *redis.Client, log *zap.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		log:    log.With(zap.String("cache", "redis")),
	}
}

// InitRedis connects to Redis and checks the connection
func InitRedis(config utils.RedisConfig, log *zap.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: ping redis %s: %w", ErrCache, config.Addr, err)
	}

	return NewRedisCache(client, log), nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		c.log.Error("Cache get failed", zap.Error(err), zap.String("key", key))
		return nil, false, fmt.Errorf("%w: get %s: %w", ErrCache, key, err)
	}
	return value, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.log.Error("Cache set failed", zap.Error(err), zap.String("key", key))
		return fmt.Errorf("%w: set %s: %w", ErrCache, key, err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: delete %s: %w", ErrCache, key, err)
	}
	return nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: ping: %w", ErrCache, err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
