package session

import (
	"context"
	"sync"
	"time"

	"tiendaonline-web/internal/domain"
)

type entry struct {
	id        domain.Identity
	expiresAt time.Time
}

// MemoryStore 单进程部署或测试用；过期项在读取时清理。
type MemoryStore struct {
	mu  sync.Mutex
	m   map[string]entry
	ttl time.Duration
	now func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{m: make(map[string]entry), ttl: ttl, now: time.Now}
}

func (s *MemoryStore) TTL() time.Duration { return s.ttl }

func (s *MemoryStore) Create(_ context.Context, id domain.Identity) (string, error) {
	sid := newSID()
	s.mu.Lock()
	s.m[sid] = entry{id: id, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return sid, nil
}

func (s *MemoryStore) Get(_ context.Context, sid string) (*domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[sid]
	if !ok {
		return nil, ErrNotFound
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.m, sid)
		return nil, ErrNotFound
	}
	id := e.id
	return &id, nil
}

func (s *MemoryStore) Destroy(_ context.Context, sid string) error {
	s.mu.Lock()
	delete(s.m, sid)
	s.mu.Unlock()
	return nil
}

// Sweep 清理所有过期会话，返回清理数量
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for k, e := range s.m {
		if !now.Before(e.expiresAt) {
			delete(s.m, k)
			n++
		}
	}
	return n
}
