// Package history persists per-user search queries and interaction records
// in a key-value store, bounded and most-recent-first, and assembles the
// personalization context consumed by the ranking pipeline.
package history

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

// KV is the minimal key-value surface the history store needs. Get returns
// (nil, nil) when the key is absent.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// InMemoryKV is a process-local KV for tests and development.
type InMemoryKV struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewInMemoryKV creates an empty in-memory KV.
func NewInMemoryKV() *InMemoryKV {
	return &InMemoryKV{values: make(map[string][]byte)}
}

// Get returns the stored value, or (nil, nil) when the key is absent.
func (s *InMemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set stores a copy of the value under key.
func (s *InMemoryKV) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	s.values[key] = v
	return nil
}

// RedisKV adapts a Redis client to the KV interface. Values are stored
// without expiry; the history store bounds them by length instead.
type RedisKV struct {
	client *redis.Client
}

// NewRedisKV creates a KV backed by the given Redis client.
func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

// Get returns the stored value, mapping redis.Nil to (nil, nil).
func (s *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Set stores the value under key.
func (s *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, key, value, 0).Err()
}
