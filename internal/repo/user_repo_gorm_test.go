package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-gin-blog/internal/domain"
)

func TestUserRepoFindByEmail(t *testing.T) {
	r := NewUserRepo(newRepoDBForTest(t))
	ctx := context.Background()

	_, err := r.FindByEmail(ctx, "a@b.c")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	u := &domain.User{Name: "kim", Email: "a@b.c", Role: domain.RoleGuest}
	require.NoError(t, r.Save(ctx, u))
	require.NotZero(t, u.ID)

	got, err := r.FindByEmail(ctx, "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, domain.RoleGuest, got.Role)
}

func TestUserRepoDuplicateEmail(t *testing.T) {
	r := NewUserRepo(newRepoDBForTest(t))
	ctx := context.Background()
	require.NoError(t, r.Save(ctx, &domain.User{Name: "a", Email: "dup@x.y", Role: domain.RoleGuest}))

	err := r.Save(ctx, &domain.User{Name: "b", Email: "dup@x.y", Role: domain.RoleGuest})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestUserRepoListFilter(t *testing.T) {
	r := NewUserRepo(newRepoDBForTest(t))
	ctx := context.Background()
	for _, e := range []string{"kim@blog.io", "lee@blog.io", "park@other.io"} {
		require.NoError(t, r.Save(ctx, &domain.User{Name: e[:3], Email: e, Role: domain.RoleGuest}))
	}

	users, total, err := r.List(ctx, 0, 10, "blog.io")
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, users, 2)

	users, total, err = r.List(ctx, 0, 1, "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, users, 1)
}

func TestUserRepoFindByIDNotFound(t *testing.T) {
	r := NewUserRepo(newRepoDBForTest(t))
	_, err := r.FindByID(context.Background(), 9)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
