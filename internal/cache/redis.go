// SPDX-License-Identifier: MIT

package cache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/drivecat/drivecat/internal/metainfo"
)

const redisKeyPrefix = "drivecat:meta:"

// RedisStore is a Redis-backed implementation of Store. Entries are written
// without expiry, matching the no-TTL cache contract.
type RedisStore struct {
	client *redis.Client
	logger zerolog.Logger
	stats  struct {
		hits          atomic.Int64
		misses        atomic.Int64
		sets          atomic.Int64
		invalidations atomic.Int64
	}
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string // Redis server address (host:port)
	Password string // Redis password (optional)
	DB       int    // Redis database number
}

// NewRedisStore creates a Redis-backed document store and verifies the
// connection before returning.
func NewRedisStore(config RedisConfig, logger zerolog.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	logger.Info().
		Str("addr", config.Addr).
		Int("db", config.DB).
		Msg("connected to Redis document cache")

	return &RedisStore{client: client, logger: logger}, nil
}

func (s *RedisStore) Get(root string) (*metainfo.Document, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	val, err := s.client.Get(ctx, redisKeyPrefix+root).Bytes()
	if err == redis.Nil {
		s.stats.misses.Add(1)
		return nil, false
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("root", root).Msg("redis get failed")
		s.stats.misses.Add(1)
		return nil, false
	}

	doc, err := metainfo.Parse(val)
	if err != nil {
		s.logger.Warn().Err(err).Str("root", root).Msg("cached document does not parse")
		s.stats.misses.Add(1)
		return nil, false
	}

	s.stats.hits.Add(1)
	return doc, true
}

func (s *RedisStore) Set(root string, doc *metainfo.Document) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	data, err := doc.Encode()
	if err != nil {
		s.logger.Warn().Err(err).Str("root", root).Msg("document encode failed")
		return
	}

	// TTL 0 stores the key without expiry.
	if err := s.client.Set(ctx, redisKeyPrefix+root, data, 0).Err(); err != nil {
		s.logger.Warn().Err(err).Str("root", root).Msg("redis set failed")
		return
	}

	s.stats.sets.Add(1)
}

func (s *RedisStore) Invalidate(root string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.client.Del(ctx, redisKeyPrefix+root).Err(); err != nil {
		s.logger.Warn().Err(err).Str("root", root).Msg("redis delete failed")
		return
	}
	s.stats.invalidations.Add(1)
}

func (s *RedisStore) Stats() Stats {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	size, err := s.client.DBSize(ctx).Result()
	if err != nil {
		s.logger.Warn().Err(err).Msg("redis dbsize failed")
		size = 0
	}

	return Stats{
		Hits:          s.stats.hits.Load(),
		Misses:        s.stats.misses.Load(),
		Sets:          s.stats.sets.Load(),
		Invalidations: s.stats.invalidations.Load(),
		CurrentSize:   int(size),
	}
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// HealthCheck checks if Redis is available.
func (s *RedisStore) HealthCheck(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
