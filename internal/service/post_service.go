package service

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"go-gin-blog/internal/core/cache"
	"go-gin-blog/internal/domain"
)

type PostService struct {
	posts domain.PostRepository
	cache *cache.Cache // 可为空：不走缓存
	ttl   time.Duration
	log   *zap.Logger
}

func NewPostService(posts domain.PostRepository, c *cache.Cache, ttl time.Duration, l *zap.Logger) *PostService {
	if l == nil {
		l = zap.NewNop()
	}
	return &PostService{posts: posts, cache: c, ttl: ttl, log: l.Named("posts")}
}

func postKey(id int64) string { return "post:" + strconv.FormatInt(id, 10) }

func (s *PostService) Save(ctx context.Context, req PostSaveRequest) (int64, error) {
	p := req.ToEntity()
	err := s.posts.Transaction(ctx, func(r domain.PostRepository) error {
		return r.Save(ctx, p)
	})
	if err != nil {
		return 0, err
	}
	return p.ID, nil
}

// Update 事务内 读取 -> 修改 -> 保存
func (s *PostService) Update(ctx context.Context, id int64, req PostUpdateRequest) (int64, error) {
	err := s.posts.Transaction(ctx, func(r domain.PostRepository) error {
		p, err := r.FindByID(ctx, id)
		if err != nil {
			return err
		}
		p.Update(req.Title, req.Content)
		return r.Save(ctx, p)
	})
	if err != nil {
		return 0, err
	}
	s.evict(ctx, id)
	return id, nil
}

func (s *PostService) FindByID(ctx context.Context, id int64) (*PostResponse, error) {
	load := func(ctx context.Context) (*PostResponse, error) {
		p, err := s.posts.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return NewPostResponse(p), nil
	}
	if s.cache == nil {
		return load(ctx)
	}
	return cache.GetOrLoadJSON(s.cache, ctx, postKey(id), s.ttl, load)
}

func (s *PostService) FindAllDesc(ctx context.Context) ([]PostListResponse, error) {
	ps, err := s.posts.FindAllDesc(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PostListResponse, 0, len(ps))
	for i := range ps {
		out = append(out, NewPostListResponse(&ps[i]))
	}
	return out, nil
}

func (s *PostService) Delete(ctx context.Context, id int64) error {
	err := s.posts.Transaction(ctx, func(r domain.PostRepository) error {
		p, err := r.FindByID(ctx, id)
		if err != nil {
			return err
		}
		return r.Delete(ctx, p)
	})
	if err != nil {
		return err
	}
	s.evict(ctx, id)
	return nil
}

func (s *PostService) evict(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, postKey(id)); err != nil {
		s.log.Warn("evict post cache failed", zap.Int64("id", id), zap.Error(err))
	}
}
