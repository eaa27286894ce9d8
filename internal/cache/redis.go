package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisStore backs the roster cache with Redis. Cache misses on Redis
// errors are silent: a broken cache degrades to direct directory reads,
// never to a failed export.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisStore connects to redis with short timeouts.
func NewRedisStore(addr string, ttl time.Duration, logger zerolog.Logger) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	return &RedisStore{client: client, ttl: ttl, logger: logger}
}

// Healthy verifies redis connectivity.
func (s *RedisStore) Healthy(ctx context.Context) bool {
	return s.client.Ping(ctx).Err() == nil
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Get returns the cached payload for key, if present.
func (s *RedisStore) Get(ctx context.Context, key Key) ([]byte, bool) {
	payload, err := s.client.Get(ctx, key.String()).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("Cache read failed, treating as miss")
		}
		return nil, false
	}
	return payload, true
}

// Set stores a payload under key with the configured TTL.
func (s *RedisStore) Set(ctx context.Context, key Key, payload []byte) error {
	if err := s.client.Set(ctx, key.String(), payload, s.ttl).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("Cache write failed")
		return err
	}
	return nil
}

// InvalidateToken drops every entry belonging to a token fingerprint.
func (s *RedisStore) InvalidateToken(ctx context.Context, fingerprint string) error {
	iter := s.client.Scan(ctx, 0, tokenPattern(fingerprint), 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}
