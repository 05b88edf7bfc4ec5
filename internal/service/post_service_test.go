package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-gin-blog/internal/core/cache"
	"go-gin-blog/internal/core/config"
	"go-gin-blog/internal/domain"
	"go-gin-blog/internal/repo"
)

func newPostServiceForTest(t *testing.T, c *cache.Cache) (*PostService, *repo.PostRepo) {
	t.Helper()
	r := repo.NewPostRepo(newServiceDBForTest(t))
	return NewPostService(r, c, time.Minute, nil), r
}

func TestPostServiceSaveAndFind(t *testing.T) {
	s, _ := newPostServiceForTest(t, nil)
	ctx := context.Background()

	id, err := s.Save(ctx, PostSaveRequest{Title: "title", Content: "content", Author: "author"})
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := s.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, &PostResponse{ID: id, Title: "title", Content: "content", Author: "author"}, got)
}

func TestPostServiceUpdateOnlyTargetedFields(t *testing.T) {
	s, r := newPostServiceForTest(t, nil)
	ctx := context.Background()
	id, err := s.Save(ctx, PostSaveRequest{Title: "title", Content: "content", Author: "author"})
	require.NoError(t, err)

	before, err := r.FindByID(ctx, id)
	require.NoError(t, err)

	got, err := s.Update(ctx, id, PostUpdateRequest{Title: strPtr("title2")})
	require.NoError(t, err)
	assert.Equal(t, id, got)

	p, err := r.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "title2", p.Title)
	assert.Equal(t, "content", p.Content)
	assert.Equal(t, "author", p.Author)
	assert.False(t, p.ModifiedDate.Before(before.ModifiedDate))

	_, err = s.Update(ctx, id, PostUpdateRequest{Title: strPtr("title3"), Content: strPtr("content3")})
	require.NoError(t, err)
	p, err = r.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "title3", p.Title)
	assert.Equal(t, "content3", p.Content)
}

func TestPostServiceNotFound(t *testing.T) {
	s, _ := newPostServiceForTest(t, nil)
	ctx := context.Background()

	_, err := s.FindByID(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrPostNotFound)
	_, err = s.Update(ctx, 404, PostUpdateRequest{Title: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrPostNotFound)
	err = s.Delete(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrPostNotFound)
}

func TestPostServiceDeleteRemovesFromListing(t *testing.T) {
	s, _ := newPostServiceForTest(t, nil)
	ctx := context.Background()
	id1, err := s.Save(ctx, PostSaveRequest{Title: "one", Content: "1"})
	require.NoError(t, err)
	id2, err := s.Save(ctx, PostSaveRequest{Title: "two", Content: "2"})
	require.NoError(t, err)

	list, err := s.FindAllDesc(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, id2, list[0].ID)

	require.NoError(t, s.Delete(ctx, id2))
	list, err = s.FindAllDesc(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id1, list[0].ID)
}

func TestPostServiceCacheInvalidatedOnWrite(t *testing.T) {
	m := miniredis.RunT(t)
	rdb := cache.NewClient(config.Redis{Addr: m.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	s, _ := newPostServiceForTest(t, cache.New(rdb, "blog:"))
	ctx := context.Background()

	id, err := s.Save(ctx, PostSaveRequest{Title: "cached", Content: "c"})
	require.NoError(t, err)

	_, err = s.FindByID(ctx, id)
	require.NoError(t, err)
	key := "blog:" + postKey(id)
	assert.True(t, m.Exists(key))

	_, err = s.Update(ctx, id, PostUpdateRequest{Title: strPtr("fresh")})
	require.NoError(t, err)
	assert.False(t, m.Exists(key))

	got, err := s.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "fresh", got.Title)

	require.NoError(t, s.Delete(ctx, id))
	assert.False(t, m.Exists(key))
	_, err = s.FindByID(ctx, id)
	assert.ErrorIs(t, err, domain.ErrPostNotFound)
}
