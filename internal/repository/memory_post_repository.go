package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dodream/blog-api/internal/domain"
)

// memoryPostRepository keeps posts in insertion order. It backs local runs
// without POSTGRES_DSN and service tests.
type memoryPostRepository struct {
	mu    sync.RWMutex
	posts []domain.Post
	now   func() time.Time
}

// NewMemoryPostRepository returns an empty in-memory repository.
func NewMemoryPostRepository() PostRepository {
	return &memoryPostRepository{now: time.Now}
}

func (r *memoryPostRepository) Create(_ context.Context, post *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexBySlug(post.Slug) >= 0 {
		return ErrDuplicateSlug
	}

	now := r.now().UTC()
	post.ID = uuid.NewString()
	post.CreatedAt = now
	post.UpdatedAt = now
	r.posts = append(r.posts, clonePost(*post))
	return nil
}

func (r *memoryPostRepository) Update(_ context.Context, post *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexByID(post.ID)
	if idx < 0 {
		return ErrNotFound
	}
	if other := r.indexBySlug(post.Slug); other >= 0 && other != idx {
		return ErrDuplicateSlug
	}

	post.CreatedAt = r.posts[idx].CreatedAt
	post.UpdatedAt = r.now().UTC()
	r.posts[idx] = clonePost(*post)
	return nil
}

func (r *memoryPostRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexByID(id)
	if idx < 0 {
		return ErrNotFound
	}
	r.posts = append(r.posts[:idx], r.posts[idx+1:]...)
	return nil
}

func (r *memoryPostRepository) GetByID(_ context.Context, id string) (*domain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexByID(id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	post := clonePost(r.posts[idx])
	return &post, nil
}

func (r *memoryPostRepository) GetBySlug(_ context.Context, slug string) (*domain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexBySlug(slug)
	if idx < 0 {
		return nil, ErrNotFound
	}
	post := clonePost(r.posts[idx])
	return &post, nil
}

// List returns copies; ties on created_at keep insertion order.
func (r *memoryPostRepository) List(_ context.Context, order ListOrder) ([]domain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Post, 0, len(r.posts))
	if order == OldestFirst {
		for _, p := range r.posts {
			result = append(result, clonePost(p))
		}
		return result, nil
	}
	for i := len(r.posts) - 1; i >= 0; i-- {
		result = append(result, clonePost(r.posts[i]))
	}
	return result, nil
}

func (r *memoryPostRepository) indexByID(id string) int {
	for i := range r.posts {
		if r.posts[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *memoryPostRepository) indexBySlug(slug string) int {
	for i := range r.posts {
		if r.posts[i].Slug == slug {
			return i
		}
	}
	return -1
}

func clonePost(p domain.Post) domain.Post {
	if p.Tags != nil {
		p.Tags = append([]string(nil), p.Tags...)
	}
	if p.SubCategory != nil {
		sub := *p.SubCategory
		p.SubCategory = &sub
	}
	return p
}
