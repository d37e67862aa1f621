package dto

import (
	"time"

	"github.com/dodream/blog-api/internal/domain"
)

// CreatePostRequest payload.
type CreatePostRequest struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Excerpt     string   `json:"excerpt"`
	Content     string   `json:"content"`
	Author      string   `json:"author"`
	Category    string   `json:"category"`
	SubCategory *string  `json:"subCategory"`
	Tags        []string `json:"tags"`
}

// UpdatePostRequest is a partial payload; absent or null fields are left untouched.
type UpdatePostRequest struct {
	Slug        *string  `json:"slug"`
	Title       *string  `json:"title"`
	Excerpt     *string  `json:"excerpt"`
	Content     *string  `json:"content"`
	Author      *string  `json:"author"`
	Category    *string  `json:"category"`
	SubCategory *string  `json:"subCategory"`
	Tags        []string `json:"tags"`
}

// PostResponse is the wire form of a post.
type PostResponse struct {
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

// NewPostResponse converts a domain post.
func NewPostResponse(p *domain.Post) PostResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return PostResponse{
		ID:          p.ID,
		Slug:        p.Slug,
		Title:       p.Title,
		Excerpt:     p.Excerpt,
		Content:     p.Content,
		Author:      p.Author,
		Category:    p.Category,
		SubCategory: p.SubCategory,
		Tags:        tags,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// NewPostListResponse converts a slice of posts, never returning nil.
func NewPostListResponse(posts []domain.Post) []PostResponse {
	items := make([]PostResponse, 0, len(posts))
	for i := range posts {
		items = append(items, NewPostResponse(&posts[i]))
	}
	return items
}
