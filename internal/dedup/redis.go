package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "hive:seen:"

// RedisStore keeps seen-post IDs in Redis, for deployments where several
// scraper instances share one cache.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection. Entries
// expire after ttl; zero means they never expire.
func NewRedisStore(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

// Seen reports whether the post ID has been recorded.
func (s *RedisStore) Seen(ctx context.Context, postID string) (bool, error) {
	n, err := s.client.Exists(ctx, redisKeyPrefix+postID).Result()
	if err != nil {
		return false, fmt.Errorf("checking seen key: %w", err)
	}
	return n > 0, nil
}

// MarkSeen records the post ID with the publish timestamp as value.
func (s *RedisStore) MarkSeen(ctx context.Context, postID string, at time.Time) error {
	if err := s.client.Set(ctx, redisKeyPrefix+postID, at.UTC().Format(time.RFC3339), s.ttl).Err(); err != nil {
		return fmt.Errorf("marking seen key: %w", err)
	}
	return nil
}

// Close shuts down the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
