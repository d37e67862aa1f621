package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/dodream/blog-api/internal/api/dto"
	"github.com/dodream/blog-api/internal/service"
	apperrors "github.com/dodream/blog-api/pkg/util"
)

// PostsHandler manages post endpoints.
type PostsHandler struct {
	service *service.PostService
}

// NewPostsHandler constructs handler.
func NewPostsHandler(postService *service.PostService) *PostsHandler {
	return &PostsHandler{service: postService}
}

// CreatePost POST /posts.
func (h *PostsHandler) CreatePost(c *fiber.Ctx) error {
	var req dto.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	post, err := h.service.Create(c.UserContext(), service.PostCreateInput{
		Slug:        req.Slug,
		Title:       req.Title,
		Excerpt:     req.Excerpt,
		Content:     req.Content,
		Author:      req.Author,
		Category:    req.Category,
		SubCategory: req.SubCategory,
		Tags:        req.Tags,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewPostResponse(post))
}

// ListPosts GET /posts.
func (h *PostsHandler) ListPosts(c *fiber.Ctx) error {
	posts, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPostListResponse(posts))
}

// ListCategories GET /posts/categories.
func (h *PostsHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.service.Categories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(categories)
}

// ListTags GET /posts/tags.
func (h *PostsHandler) ListTags(c *fiber.Ctx) error {
	tags, err := h.service.Tags(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(tags)
}

// GetPostBySlug GET /posts/slug/:slug.
func (h *PostsHandler) GetPostBySlug(c *fiber.Ctx) error {
	post, err := h.service.GetBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPostResponse(post))
}

// GetPost GET /posts/:id.
func (h *PostsHandler) GetPost(c *fiber.Ctx) error {
	post, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPostResponse(post))
}

// UpdatePost PATCH /posts/:id.
func (h *PostsHandler) UpdatePost(c *fiber.Ctx) error {
	var req dto.UpdatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	post, err := h.service.Update(c.UserContext(), c.Params("id"), service.PostUpdateInput{
		Slug:        req.Slug,
		Title:       req.Title,
		Excerpt:     req.Excerpt,
		Content:     req.Content,
		Author:      req.Author,
		Category:    req.Category,
		SubCategory: req.SubCategory,
		Tags:        req.Tags,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPostResponse(post))
}

// DeletePost DELETE /posts/:id.
func (h *PostsHandler) DeletePost(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
