package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"go-gin-blog/internal/domain"
)

type RedisStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl, prefix: "session:"}
}

func (s *RedisStore) Create(ctx context.Context, u *domain.SessionUser) (string, error) {
	b, err := json.Marshal(u)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	if err := s.rdb.Set(ctx, s.prefix+id, b, s.ttl).Err(); err != nil {
		return "", err
	}
	return id, nil
}

// Get 命中即续期（滑动过期）
func (s *RedisStore) Get(ctx context.Context, id string) (*domain.SessionUser, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	b, err := s.rdb.GetEx(ctx, s.prefix+id, s.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var u domain.SessionUser
	if err := json.Unmarshal(b, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.rdb.Del(ctx, s.prefix+id).Err()
}
