package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss — ключа нет или он истёк.
var ErrMiss = errors.New("cache miss")

// Cache хранит отрендеренный HTML опубликованных постов.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// DeletePrefix удаляет все ключи с префиксом (все локали одного поста).
	DeletePrefix(ctx context.Context, prefix string) error
}

// ----- Redis -----

type RedisCache struct {
	rdb *redis.Client
	ns  string
}

func NewRedis(addr, password string) *RedisCache {
	return &RedisCache{
		rdb: redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: 0}),
		ns:  "sitecms:",
	}
}

func (c *RedisCache) Ping(ctx context.Context) error { return c.rdb.Ping(ctx).Err() }

func (c *RedisCache) Close() error { return c.rdb.Close() }

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	v, err := c.rdb.Get(ctx, c.ns+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	return v, err
}

func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.rdb.Set(ctx, c.ns+key, value, ttl).Err()
}

func (c *RedisCache) DeletePrefix(ctx context.Context, prefix string) error {
	iter := c.rdb.Scan(ctx, 0, c.ns+prefix+"*", 100).Iterator()
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
	return c.rdb.Del(ctx, keys...).Err()
}

// ----- In-memory -----

type entry struct {
	value string
	exp   time.Time
}

// Memory — процессный TTL-кэш; используется, когда REDIS_ADDR не задан.
type Memory struct {
	mu   sync.Mutex
	data map[string]entry
	now  func() time.Time
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]entry), now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.data[key]
	if !ok {
		return "", ErrMiss
	}
	if !e.exp.IsZero() && m.now().After(e.exp) {
		delete(m.data, key)
		return "", ErrMiss
	}
	return e.value, nil
}

func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := entry{value: value}
	if ttl > 0 {
		e.exp = m.now().Add(ttl)
	}
	m.data[key] = e
	return nil
}

func (m *Memory) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			delete(m.data, k)
		}
	}
	return nil
}

// Prune выкидывает истёкшие записи.
func (m *Memory) Prune() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	now := m.now()
	for k, e := range m.data {
		if !e.exp.IsZero() && now.After(e.exp) {
			delete(m.data, k)
			n++
		}
	}
	return n
}
