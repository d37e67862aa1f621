package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dodream/blog-api/internal/domain"
)

func newTestCache(t *testing.T) (PostCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisPostCache(client, time.Minute), mr
}

func TestRedisPostCache_Posts(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t)

	_, err := cache.GetPosts(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)

	sub := "web"
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	posts := []domain.Post{{
		ID:          "1",
		Slug:        "hello",
		Title:       "Hello",
		Excerpt:     "hi",
		Content:     "body",
		Author:      "admin",
		Category:    "frontend",
		SubCategory: &sub,
		Tags:        []string{"react"},
		CreatedAt:   created,
		UpdatedAt:   created,
	}}
	gen, err := cache.Generation(ctx)
	require.NoError(t, err)
	assert.Zero(t, gen)

	require.NoError(t, cache.SetPosts(ctx, gen, posts))
	assert.True(t, mr.Exists(CacheKeyPostList))
	assert.Equal(t, time.Minute, mr.TTL(CacheKeyPostList))

	got, err := cache.GetPosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, posts, got)
}

func TestRedisPostCache_StringsAndInvalidate(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t)

	require.NoError(t, cache.SetStrings(ctx, 0, CacheKeyTags, []string{"a", "b"}))
	require.NoError(t, cache.SetStrings(ctx, 0, CacheKeyCategories, []string{"c"}))

	tags, err := cache.GetStrings(ctx, CacheKeyTags)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tags)

	require.NoError(t, cache.Invalidate(ctx))
	assert.False(t, mr.Exists(CacheKeyTags))
	assert.False(t, mr.Exists(CacheKeyCategories))

	_, err = cache.GetStrings(ctx, CacheKeyTags)
	assert.ErrorIs(t, err, ErrCacheMiss)

	gen, err := cache.Generation(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)
}

func TestRedisPostCache_SkipsWritesFromEarlierGeneration(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t)

	before, err := cache.Generation(ctx)
	require.NoError(t, err)

	// A post is written and the cache invalidated while a reader still holds
	// rows loaded under the previous generation.
	require.NoError(t, cache.Invalidate(ctx))

	stale := []domain.Post{{ID: "1", Slug: "old"}}
	require.NoError(t, cache.SetPosts(ctx, before, stale))
	require.NoError(t, cache.SetStrings(ctx, before, CacheKeyTags, []string{"old"}))
	assert.False(t, mr.Exists(CacheKeyPostList))
	assert.False(t, mr.Exists(CacheKeyTags))

	_, err = cache.GetPosts(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)

	current, err := cache.Generation(ctx)
	require.NoError(t, err)
	require.NoError(t, cache.SetPosts(ctx, current, stale))
	got, err := cache.GetPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestNoopPostCache(t *testing.T) {
	ctx := context.Background()
	cache := NewNoopPostCache()

	gen, err := cache.Generation(ctx)
	require.NoError(t, err)
	require.NoError(t, cache.SetStrings(ctx, gen, CacheKeyTags, []string{"a"}))
	_, err = cache.GetStrings(ctx, CacheKeyTags)
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, cache.Invalidate(ctx))
}
