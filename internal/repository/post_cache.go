package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dodream/blog-api/internal/domain"
)

// Cache keys for derived post reads.
const (
	CacheKeyPostList   = "posts:list"
	CacheKeyCategories = "posts:categories"
	CacheKeyTags       = "posts:tags"

	// CacheKeyGeneration is bumped on every invalidation. Writers only store
	// a value when the generation they read before loading it still holds.
	CacheKeyGeneration = "posts:generation"
)

// ErrCacheMiss is returned when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// PostCache stores the full post list and the category/tag aggregates.
//
// Callers read Generation before loading from the database and pass it to
// the setters; a set is dropped when an Invalidate happened in between.
type PostCache interface {
	Generation(ctx context.Context) (int64, error)
	GetPosts(ctx context.Context) ([]domain.Post, error)
	SetPosts(ctx context.Context, gen int64, posts []domain.Post) error
	GetStrings(ctx context.Context, key string) ([]string, error)
	SetStrings(ctx context.Context, gen int64, key string, values []string) error
	Invalidate(ctx context.Context) error
}

type redisPostCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisPostCache returns a Redis-backed PostCache.
func NewRedisPostCache(client *redis.Client, ttl time.Duration) PostCache {
	return &redisPostCache{client: client, ttl: ttl}
}

// cachedPost is the stored form; domain.Post has no wire tags.
type cachedPost struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content"`
	Author      string    `json:"author"`
	Category    string    `json:"category"`
	SubCategory *string   `json:"subCategory"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (c *redisPostCache) Generation(ctx context.Context) (int64, error) {
	return readGeneration(ctx, c.client)
}

func (c *redisPostCache) GetPosts(ctx context.Context) ([]domain.Post, error) {
	var stored []cachedPost
	if err := c.get(ctx, CacheKeyPostList, &stored); err != nil {
		return nil, err
	}
	posts := make([]domain.Post, 0, len(stored))
	for _, p := range stored {
		posts = append(posts, domain.Post(p))
	}
	return posts, nil
}

func (c *redisPostCache) SetPosts(ctx context.Context, gen int64, posts []domain.Post) error {
	stored := make([]cachedPost, 0, len(posts))
	for _, p := range posts {
		stored = append(stored, cachedPost(p))
	}
	return c.set(ctx, gen, CacheKeyPostList, stored)
}

func (c *redisPostCache) GetStrings(ctx context.Context, key string) ([]string, error) {
	var values []string
	if err := c.get(ctx, key, &values); err != nil {
		return nil, err
	}
	return values, nil
}

func (c *redisPostCache) SetStrings(ctx context.Context, gen int64, key string, values []string) error {
	return c.set(ctx, gen, key, values)
}

func (c *redisPostCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, CacheKeyPostList, CacheKeyCategories, CacheKeyTags)
		pipe.Incr(ctx, CacheKeyGeneration)
		return nil
	})
	return err
}

func (c *redisPostCache) get(ctx context.Context, key string, dst any) error {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

// set stores value under key inside a WATCH on the generation key, so a
// concurrent Invalidate either lands first and the write is skipped, or
// lands after and deletes it.
func (c *redisPostCache) set(ctx context.Context, gen int64, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(ctx, tx)
		if err != nil {
			return err
		}
		if current != gen {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, c.ttl)
			return nil
		})
		return err
	}, CacheKeyGeneration)

	if errors.Is(err, errStaleGeneration) || errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

var errStaleGeneration = errors.New("stale cache generation")

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readGeneration(ctx context.Context, cmd stringGetter) (int64, error) {
	gen, err := cmd.Get(ctx, CacheKeyGeneration).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

type noopPostCache struct{}

// NewNoopPostCache returns a cache that always misses.
func NewNoopPostCache() PostCache {
	return noopPostCache{}
}

func (noopPostCache) Generation(context.Context) (int64, error)                 { return 0, nil }
func (noopPostCache) GetPosts(context.Context) ([]domain.Post, error)           { return nil, ErrCacheMiss }
func (noopPostCache) SetPosts(context.Context, int64, []domain.Post) error      { return nil }
func (noopPostCache) GetStrings(context.Context, string) ([]string, error)      { return nil, ErrCacheMiss }
func (noopPostCache) SetStrings(context.Context, int64, string, []string) error { return nil }
func (noopPostCache) Invalidate(context.Context) error                          { return nil }
