package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-gin-blog/internal/domain"
)

type memEntry struct {
	user    domain.SessionUser
	expires time.Time
}

// MemoryStore 单实例部署 / 未配置 redis 时使用
type MemoryStore struct {
	mu  sync.Mutex
	m   map[string]memEntry
	ttl time.Duration
	now func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{m: map[string]memEntry{}, ttl: ttl, now: time.Now}
}

func (s *MemoryStore) Create(_ context.Context, u *domain.SessionUser) (string, error) {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gcLocked()
	s.m[id] = memEntry{user: *u, expires: s.now().Add(s.ttl)}
	return id, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*domain.SessionUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[id]
	if !ok {
		return nil, ErrNotFound
	}
	now := s.now()
	if !now.Before(e.expires) {
		delete(s.m, id)
		return nil, ErrNotFound
	}
	e.expires = now.Add(s.ttl)
	s.m[id] = e
	u := e.user
	return &u, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
	return nil
}

func (s *MemoryStore) gcLocked() {
	now := s.now()
	for id, e := range s.m {
		if !now.Before(e.expires) {
			delete(s.m, id)
		}
	}
}
