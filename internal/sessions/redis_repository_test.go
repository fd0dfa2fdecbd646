package sessions

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedisRepo(t *testing.T) (*RedisRepository, *mr.Miniredis) {
	t.Helper()
	m, err := mr.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return NewRedisRepository(redis.NewClient(&redis.Options{Addr: m.Addr()}), "test:session:"), m
}

func TestRedisRepositoryRoundTrip(t *testing.T) {
	repo, m := newRedisRepo(t)
	ctx := context.Background()
	created := time.Date(2021, time.June, 23, 22, 2, 34, 0, time.UTC)
	s := &Session{
		RefreshToken: "r1",
		UserID:       "60d3b41abdacab0026a733c6",
		CreatedAt:    created,
		ExpiresAt:    time.Now().UTC().Add(time.Hour).Truncate(time.Second),
	}
	require.NoError(t, repo.Create(ctx, s))
	require.Equal(t, "60d3b41abdacab0026a733c6", m.HGet("test:session:r1", "userId"))

	got, err := repo.GetByRefresh(ctx, "r1")
	require.NoError(t, err)
	require.Equal(t, s.UserID, got.UserID)
	require.True(t, created.Equal(got.CreatedAt))
	require.True(t, s.ExpiresAt.Equal(got.ExpiresAt))

	require.NoError(t, repo.DeleteByRefresh(ctx, "r1"))
	got, err = repo.GetByRefresh(ctx, "r1")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestRedisRepositoryExpiresWithSession(t *testing.T) {
	repo, m := newRedisRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &Session{
		RefreshToken: "r2",
		UserID:       "60d3b41abdacab0026a733c7",
		CreatedAt:    time.Now().UTC(),
		ExpiresAt:    time.Now().UTC().Add(2 * time.Second),
	}))

	got, err := repo.GetByRefresh(ctx, "r2")
	require.NoError(t, err)
	require.NotNil(t, got)

	m.FastForward(3 * time.Second)
	got, err = repo.GetByRefresh(ctx, "r2")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestRedisRepositorySkipsExpiredSession(t *testing.T) {
	repo, m := newRedisRepo(t)
	require.NoError(t, repo.Create(context.Background(), &Session{
		RefreshToken: "r3",
		ExpiresAt:    time.Now().Add(-time.Minute),
	}))
	require.False(t, m.Exists("test:session:r3"))
}
