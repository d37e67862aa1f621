package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dodream/blog-api/internal/domain"
)

var (
	// ErrNotFound is returned when no post matches the lookup key.
	ErrNotFound = errors.New("post not found")
	// ErrDuplicateSlug is returned when the slug is already taken.
	ErrDuplicateSlug = errors.New("slug already exists")
)

// ListOrder selects the creation-time ordering of List.
type ListOrder int

const (
	// NewestFirst orders by created_at descending.
	NewestFirst ListOrder = iota
	// OldestFirst orders by created_at ascending, i.e. insertion order.
	OldestFirst
)

// PostRepository encapsulates post persistence.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Post, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Post, error)
	List(ctx context.Context, order ListOrder) ([]domain.Post, error)
}

type postRepository struct {
	pool *pgxpool.Pool
}

// NewPostRepository returns a Postgres-backed implementation.
func NewPostRepository(pool *pgxpool.Pool) PostRepository {
	return &postRepository{pool: pool}
}

const postColumns = `id::text, slug, title, excerpt, content, author, category, sub_category,
               COALESCE(tags, '{}'::text[]), created_at, updated_at`

func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	const query = `
        INSERT INTO posts (slug, title, excerpt, content, author, category, sub_category, tags)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id::text, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		post.Slug,
		post.Title,
		post.Excerpt,
		post.Content,
		post.Author,
		post.Category,
		post.SubCategory,
		nonNilTags(post.Tags),
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	return mapWriteError(err)
}

func (r *postRepository) Update(ctx context.Context, post *domain.Post) error {
	const query = `
        UPDATE posts SET slug=$1, title=$2, excerpt=$3, content=$4, author=$5, category=$6,
            sub_category=$7, tags=$8, updated_at=NOW()
        WHERE id=$9
        RETURNING updated_at`
	id, ok := parseID(post.ID)
	if !ok {
		return ErrNotFound
	}
	err := r.pool.QueryRow(ctx, query,
		post.Slug,
		post.Title,
		post.Excerpt,
		post.Content,
		post.Author,
		post.Category,
		post.SubCategory,
		nonNilTags(post.Tags),
		id,
	).Scan(&post.UpdatedAt)
	return mapWriteError(err)
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	pk, ok := parseID(id)
	if !ok {
		return ErrNotFound
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id=$1`, pk)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	pk, ok := parseID(id)
	if !ok {
		return nil, ErrNotFound
	}
	return r.fetchSingle(ctx, `SELECT `+postColumns+` FROM posts WHERE id=$1`, pk)
}

// parseID rejects ids that cannot be a post primary key, so lookups stay on
// the uuid index instead of casting the column.
func parseID(id string) (uuid.UUID, bool) {
	pk, err := uuid.Parse(id)
	if err != nil {
		return uuid.UUID{}, false
	}
	return pk, true
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	return r.fetchSingle(ctx, `SELECT `+postColumns+` FROM posts WHERE slug=$1`, slug)
}

func (r *postRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Post, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts, err := scanPosts(rows)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, ErrNotFound
	}
	return &posts[0], nil
}

func (r *postRepository) List(ctx context.Context, order ListOrder) ([]domain.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC, id DESC`
	if order == OldestFirst {
		query = `SELECT ` + postColumns + ` FROM posts ORDER BY created_at ASC, id ASC`
	}

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

func scanPosts(rows pgx.Rows) ([]domain.Post, error) {
	result := []domain.Post{}
	for rows.Next() {
		var post domain.Post
		if err := rows.Scan(
			&post.ID,
			&post.Slug,
			&post.Title,
			&post.Excerpt,
			&post.Content,
			&post.Author,
			&post.Category,
			&post.SubCategory,
			&post.Tags,
			&post.CreatedAt,
			&post.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, post)
	}
	return result, rows.Err()
}

// uniqueViolation is the Postgres SQLSTATE for unique_violation.
const uniqueViolation = "23505"

func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateSlug
	}
	return err
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
