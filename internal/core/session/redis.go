package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tiendaonline-web/internal/domain"
)

// RedisStore 多实例部署时共享会话；过期交给 Redis 的 EX。
type RedisStore struct {
	RDB    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisClient(addr, pass string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})
}

func NewRedisStore(rdb *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{RDB: rdb, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) TTL() time.Duration { return s.ttl }

func (s *RedisStore) key(sid string) string { return s.prefix + sid }

func (s *RedisStore) Create(ctx context.Context, id domain.Identity) (string, error) {
	b, err := json.Marshal(id)
	if err != nil {
		return "", err
	}
	sid := newSID()
	if err := s.RDB.Set(ctx, s.key(sid), b, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}
	return sid, nil
}

func (s *RedisStore) Get(ctx context.Context, sid string) (*domain.Identity, error) {
	b, err := s.RDB.Get(ctx, s.key(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}
	var id domain.Identity
	if err := json.Unmarshal(b, &id); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}
	return &id, nil
}

func (s *RedisStore) Destroy(ctx context.Context, sid string) error {
	if err := s.RDB.Del(ctx, s.key(sid)).Err(); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}
	return nil
}
