package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aaravmahajanofficial/qkart-storefront/internal/config"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "qkart:session"

type redisSessionRepository struct {
	client *redis.Client
	key    string
}

func NewRedisClient(cfg *config.Config) (*redis.Client, error) {

	// Parse the Redis URL
	opt, err := redis.ParseURL(cfg.Session.RedisURL)
	if err != nil {
		slog.Error("Failed to parse Redis URL", slog.Any("error", err))
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	slog.Info("Connecting to Redis", slog.String("addr", opt.Addr), slog.Int("db", opt.DB))

	client := redis.NewClient(opt)

	// Connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Test the connection
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Error("Failed to connect to Redis", slog.Any("error", err))
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("✅ Successfully connected to Redis")
	return client, nil

}

// NewRedisSessionRepo stores all session keys of one namespace in a single
// hash, so logout is one DEL.
func NewRedisSessionRepo(client *redis.Client, namespace string) SessionRepository {
	return &redisSessionRepository{
		client: client,
		key:    SessionKey(namespace),
	}
}

func SessionKey(namespace string) string {
	return sessionKeyPrefix + ":" + namespace
}

func (r *redisSessionRepository) Get(ctx context.Context, key string) (string, bool, error) {

	ctx, cancel := withStoreTimeout(ctx)
	defer cancel()

	value, err := r.client.HGet(ctx, r.key, key).Result()
	if err != nil {

		if err == redis.Nil {
			return "", false, nil
		}

		return "", false, fmt.Errorf("failed to get session field %s from redis: %w", key, err)
	}

	return value, true, nil
}

func (r *redisSessionRepository) Set(ctx context.Context, key, value string) error {

	ctx, cancel := withStoreTimeout(ctx)
	defer cancel()

	if err := r.client.HSet(ctx, r.key, key, value).Err(); err != nil {
		return fmt.Errorf("failed to set session field %s in redis: %w", key, err)
	}

	return nil
}

func (r *redisSessionRepository) Clear(ctx context.Context) error {

	ctx, cancel := withStoreTimeout(ctx)
	defer cancel()

	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("failed to delete session %s from redis: %w", r.key, err)
	}

	return nil
}

func (r *redisSessionRepository) Close() error {
	return r.client.Close()
}
