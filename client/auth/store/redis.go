package store

import (
	"context"
	"github.com/redis/go-redis/v9"
	"time"
)

const (
	defaultRedisKey     = "caseflow:token"
	defaultRedisTimeout = 2 * time.Second
)

type RedisStoreOption func(*RedisStore)

// WithKey sets redis key holding the token
func WithKey(key string) RedisStoreOption {
	return func(s *RedisStore) {
		s.key = key
	}
}

// WithTTL expires persisted token after ttl, zero keeps it
func WithTTL(ttl time.Duration) RedisStoreOption {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

// WithTimeout sets per operation timeout
func WithTimeout(timeout time.Duration) RedisStoreOption {
	return func(s *RedisStore) {
		s.timeout = timeout
	}
}

// RedisStore keeps the token under a single redis key. Unlike the file
// stores it reads through on every call, the key may be changed by another host.
type RedisStore struct {
	client  redis.UniversalClient
	key     string
	ttl     time.Duration
	timeout time.Duration
}

func NewRedisStore(client redis.UniversalClient, options ...RedisStoreOption) *RedisStore {
	ret := &RedisStore{client: client, key: defaultRedisKey, timeout: defaultRedisTimeout}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

func (s *RedisStore) Read() (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	token, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		return "", false
	}
	return token, true
}

func (s *RedisStore) Write(token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Set(ctx, s.key, token, s.ttl).Err()
}

func (s *RedisStore) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Del(ctx, s.key).Err()
}
