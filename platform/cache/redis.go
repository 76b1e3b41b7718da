package cache

import (
	"context"
	"time"

	"github.com/gomodule/redigo/redis"
)

func CreateRedisPool(addr string) *redis.Pool {
	return &redis.Pool{
		MaxIdle:     10,
		IdleTimeout: 60 * time.Second,
		Dial:        func() (redis.Conn, error) { return redis.Dial("tcp", addr) },
	}
}

// RedisStore keeps values in redis, one key per value.
type RedisStore struct {
	pool *redis.Pool
}

func NewRedisStore(pool *redis.Pool) *RedisStore {
	return &RedisStore{pool: pool}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return "", err
	}
	defer conn.Close()
	return Get(key, conn)
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	return Set(key, value, conn)
}

func (s *RedisStore) Del(ctx context.Context, key string) error {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	return Del(key, conn)
}

func (s *RedisStore) Close() error {
	return s.pool.Close()
}
