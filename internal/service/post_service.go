package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dodream/blog-api/internal/domain"
	"github.com/dodream/blog-api/internal/events"
	"github.com/dodream/blog-api/internal/repository"
	"github.com/dodream/blog-api/internal/validation"
	apperrors "github.com/dodream/blog-api/pkg/util"
)

// PostService coordinates post workflows.
type PostService struct {
	posts      repository.PostRepository
	cache      repository.PostCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// PostDependencies bundles collaborators for the post service.
type PostDependencies struct {
	PostRepo   repository.PostRepository
	Cache      repository.PostCache
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// PostCreateInput describes post creation payload.
type PostCreateInput struct {
	Slug        string `validate:"required,max=200"`
	Title       string `validate:"required,max=200"`
	Excerpt     string `validate:"required,max=500"`
	Content     string `validate:"required"`
	Author      string `validate:"required"`
	Category    string `validate:"required"`
	SubCategory *string
	Tags        []string `validate:"required"`
}

// PostUpdateInput is a partial update; nil fields are left untouched.
type PostUpdateInput struct {
	Slug        *string `validate:"omitnil,min=1,max=200"`
	Title       *string `validate:"omitnil,min=1,max=200"`
	Excerpt     *string `validate:"omitnil,min=1,max=500"`
	Content     *string `validate:"omitnil,min=1"`
	Author      *string `validate:"omitnil,min=1"`
	Category    *string `validate:"omitnil,min=1"`
	SubCategory *string
	Tags        []string
}

// Fields lists the supplied field names.
func (in PostUpdateInput) Fields() []string {
	var fields []string
	add := func(set bool, name string) {
		if set {
			fields = append(fields, name)
		}
	}
	add(in.Slug != nil, "slug")
	add(in.Title != nil, "title")
	add(in.Excerpt != nil, "excerpt")
	add(in.Content != nil, "content")
	add(in.Author != nil, "author")
	add(in.Category != nil, "category")
	add(in.SubCategory != nil, "subCategory")
	add(in.Tags != nil, "tags")
	return fields
}

// NewPostService constructs the service.
func NewPostService(deps PostDependencies) *PostService {
	svc := &PostService{
		posts:      deps.PostRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
	if svc.cache == nil {
		svc.cache = repository.NewNoopPostCache()
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// Create validates and stores a new post.
func (s *PostService) Create(ctx context.Context, input PostCreateInput) (*domain.Post, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, input.Slug, ""); err != nil {
		return nil, err
	}

	post := &domain.Post{
		Slug:        input.Slug,
		Title:       input.Title,
		Excerpt:     input.Excerpt,
		Content:     input.Content,
		Author:      input.Author,
		Category:    input.Category,
		SubCategory: input.SubCategory,
		Tags:        input.Tags,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, mapPostWriteError(err, post.Slug)
	}

	s.publishEvent(ctx, events.Event{
		Type:   events.EventPostCreated,
		PostID: post.ID,
		Payload: events.PostChangedPayload{
			Slug:     post.Slug,
			Title:    post.Title,
			Category: post.Category,
		},
	})
	return post, nil
}

// List returns every post, newest first.
func (s *PostService) List(ctx context.Context) ([]domain.Post, error) {
	if cached, err := s.cache.GetPosts(ctx); err == nil {
		return cached, nil
	} else if !errors.Is(err, repository.ErrCacheMiss) {
		s.logger.Warn("post cache read failed", zap.Error(err))
	}

	gen, cacheable := s.cacheGeneration(ctx)
	posts, err := s.posts.List(ctx, repository.NewestFirst)
	if err != nil {
		return nil, err
	}
	if cacheable {
		if err := s.cache.SetPosts(ctx, gen, posts); err != nil {
			s.logger.Warn("post cache write failed", zap.Error(err))
		}
	}
	return posts, nil
}

// GetBySlug fetches a post by its slug.
func (s *PostService) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	post, err := s.posts.GetBySlug(ctx, slug)
	if err != nil {
		return nil, mapLookupError(err, "slug", slug)
	}
	return post, nil
}

// GetByID fetches a post by its id.
func (s *PostService) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err, "id", id)
	}
	return post, nil
}

// Update merges the supplied fields over the stored post.
func (s *PostService) Update(ctx context.Context, id string, input PostUpdateInput) (*domain.Post, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	post, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Slug != nil && *input.Slug != post.Slug {
		if err := s.ensureSlugFree(ctx, *input.Slug, post.ID); err != nil {
			return nil, err
		}
	}

	applyUpdate(post, input)
	if err := s.posts.Update(ctx, post); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, postNotFound("id", id)
		}
		return nil, mapPostWriteError(err, post.Slug)
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventPostUpdated,
		PostID:  post.ID,
		Payload: events.PostUpdatedPayload{Slug: post.Slug, Fields: input.Fields()},
	})
	return post, nil
}

// Delete removes a post; a missing id fails before anything is deleted.
func (s *PostService) Delete(ctx context.Context, id string) error {
	post, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, post.ID); err != nil {
		return mapLookupError(err, "id", id)
	}

	s.publishEvent(ctx, events.Event{
		Type:   events.EventPostDeleted,
		PostID: post.ID,
		Payload: events.PostChangedPayload{
			Slug:     post.Slug,
			Title:    post.Title,
			Category: post.Category,
		},
	})
	return nil
}

// Categories returns distinct categories in first-seen order.
func (s *PostService) Categories(ctx context.Context) ([]string, error) {
	return s.aggregate(ctx, repository.CacheKeyCategories, func(p domain.Post) []string {
		return []string{p.Category}
	})
}

// Tags returns distinct tags across all posts in first-seen order.
func (s *PostService) Tags(ctx context.Context) ([]string, error) {
	return s.aggregate(ctx, repository.CacheKeyTags, func(p domain.Post) []string {
		return p.Tags
	})
}

func (s *PostService) aggregate(ctx context.Context, key string, values func(domain.Post) []string) ([]string, error) {
	if cached, err := s.cache.GetStrings(ctx, key); err == nil {
		return cached, nil
	} else if !errors.Is(err, repository.ErrCacheMiss) {
		s.logger.Warn("post cache read failed", zap.String("key", key), zap.Error(err))
	}

	gen, cacheable := s.cacheGeneration(ctx)
	posts, err := s.posts.List(ctx, repository.OldestFirst)
	if err != nil {
		return nil, err
	}

	result := []string{}
	seen := make(map[string]struct{})
	for _, p := range posts {
		for _, v := range values(p) {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			result = append(result, v)
		}
	}

	if cacheable {
		if err := s.cache.SetStrings(ctx, gen, key, result); err != nil {
			s.logger.Warn("post cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return result, nil
}

// cacheGeneration must run before the database read it guards.
func (s *PostService) cacheGeneration(ctx context.Context) (int64, bool) {
	gen, err := s.cache.Generation(ctx)
	if err != nil {
		s.logger.Warn("post cache generation read failed", zap.Error(err))
		return 0, false
	}
	return gen, true
}

func (s *PostService) ensureSlugFree(ctx context.Context, slug, ownerID string) error {
	existing, err := s.posts.GetBySlug(ctx, slug)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID == ownerID:
		return nil
	default:
		return slugConflict(slug)
	}
}

func (s *PostService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("post event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.String("post_id", event.PostID),
			zap.Error(err))
	}
}

func applyUpdate(post *domain.Post, in PostUpdateInput) {
	if in.Slug != nil {
		post.Slug = *in.Slug
	}
	if in.Title != nil {
		post.Title = *in.Title
	}
	if in.Excerpt != nil {
		post.Excerpt = *in.Excerpt
	}
	if in.Content != nil {
		post.Content = *in.Content
	}
	if in.Author != nil {
		post.Author = *in.Author
	}
	if in.Category != nil {
		post.Category = *in.Category
	}
	if in.SubCategory != nil {
		post.SubCategory = in.SubCategory
	}
	if in.Tags != nil {
		post.Tags = in.Tags
	}
}

func postNotFound(key, value string) error {
	return apperrors.NewNotFound(fmt.Sprintf("post with %s %q", key, value), map[string]any{key: value})
}

func slugConflict(slug string) error {
	return apperrors.NewConflict(fmt.Sprintf("post with slug %q already exists", slug), map[string]any{"slug": slug})
}

func mapLookupError(err error, key, value string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return postNotFound(key, value)
	}
	return err
}

func mapPostWriteError(err error, slug string) error {
	if errors.Is(err, repository.ErrDuplicateSlug) {
		return slugConflict(slug)
	}
	return err
}
