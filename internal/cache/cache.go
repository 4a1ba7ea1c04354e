// Package cache keeps finished import results retrievable by import ID.
// Redis is used when configured; otherwise results live in process memory.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JonMunkholm/LeadImport/internal/core"
)

// Backend is a byte-oriented key/value store with expiry. Get returns
// nil, nil on a miss.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Close() error
}

// Redis is a Backend on a go-redis client.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to redisURL and pings the server.
func NewRedis(redisURL string) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Redis{client: client}, nil
}

func (c *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

func (c *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *Redis) Del(ctx context.Context, keys ...string) error {
	return c.client.Del(ctx, keys...).Err()
}

func (c *Redis) Close() error {
	return c.client.Close()
}

type memoryItem struct {
	value   []byte
	expires time.Time
}

// Memory is an in-process Backend. Expired keys are dropped on read and
// during Set once the map has grown past the last sweep.
type Memory struct {
	mu        sync.Mutex
	items     map[string]memoryItem
	lastSweep int
	now       func() time.Time
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string]memoryItem), now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[key]
	if !ok {
		return nil, nil
	}
	if !item.expires.IsZero() && !m.now().Before(item.expires) {
		delete(m.items, key)
		return nil, nil
	}
	return item.value, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item := memoryItem{value: append([]byte(nil), value...)}
	if ttl > 0 {
		item.expires = m.now().Add(ttl)
	}
	m.items[key] = item

	if len(m.items) > 2*m.lastSweep+64 {
		m.sweep()
	}
	return nil
}

func (m *Memory) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.items, k)
	}
	return nil
}

func (m *Memory) Close() error { return nil }

// Len returns the number of stored keys, expired ones included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// sweep must be called with mu held.
func (m *Memory) sweep() {
	now := m.now()
	for k, item := range m.items {
		if !item.expires.IsZero() && !now.Before(item.expires) {
			delete(m.items, k)
		}
	}
	m.lastSweep = len(m.items)
}

// DefaultResultTTL is used when NewResultCache gets a non-positive TTL.
const DefaultResultTTL = 24 * time.Hour

// ResultCache stores core.ImportResult values as JSON under "import:{id}".
// It implements core.ResultCache.
type ResultCache struct {
	backend Backend
	ttl     time.Duration
}

func NewResultCache(backend Backend, ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultResultTTL
	}
	return &ResultCache{backend: backend, ttl: ttl}
}

func resultKey(importID string) string {
	return "import:" + importID
}

func (c *ResultCache) SetResult(ctx context.Context, importID string, result core.ImportResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode import result: %w", err)
	}
	return c.backend.Set(ctx, resultKey(importID), data, c.ttl)
}

func (c *ResultCache) GetResult(ctx context.Context, importID string) (*core.ImportResult, error) {
	data, err := c.backend.Get(ctx, resultKey(importID))
	if err != nil || data == nil {
		return nil, err
	}
	var result core.ImportResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode import result: %w", err)
	}
	return &result, nil
}

// Close releases the backend.
func (c *ResultCache) Close() error {
	return c.backend.Close()
}
