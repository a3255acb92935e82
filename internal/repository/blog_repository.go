package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/commercekit/catalog-service/internal/domain"
)

// BlogRepository defines persistence access for blog posts.
type BlogRepository interface {
	Create(ctx context.Context, blog *domain.Blog) error
	Update(ctx context.Context, blog *domain.Blog) error
	GetByID(ctx context.Context, id string) (*domain.Blog, error)
	List(ctx context.Context) ([]domain.Blog, error)
	ListPublished(ctx context.Context) ([]domain.Blog, error)
	Delete(ctx context.Context, id string) error
}

type blogRepository struct {
	pool *pgxpool.Pool
}

// NewBlogRepository returns a Postgres-backed implementation.
func NewBlogRepository(pool *pgxpool.Pool) BlogRepository {
	return &blogRepository{pool: pool}
}

const blogColumns = `id, title, body, image_path, published, created_at, updated_at`

func scanBlog(row pgx.Row) (*domain.Blog, error) {
	var b domain.Blog
	if err := row.Scan(
		&b.ID,
		&b.Title,
		&b.Body,
		&b.ImagePath,
		&b.Published,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *blogRepository) Create(ctx context.Context, blog *domain.Blog) error {
	const query = `
        INSERT INTO blogs (title, body, image_path, published)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		blog.Title,
		blog.Body,
		blog.ImagePath,
		blog.Published,
	).Scan(&blog.ID, &blog.CreatedAt, &blog.UpdatedAt)
}

func (r *blogRepository) Update(ctx context.Context, blog *domain.Blog) error {
	const query = `
        UPDATE blogs SET title=$1, body=$2, image_path=$3, published=$4, updated_at=NOW()
        WHERE id=$5`

	cmd, err := r.pool.Exec(ctx, query,
		blog.Title,
		blog.Body,
		blog.ImagePath,
		blog.Published,
		blog.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *blogRepository) GetByID(ctx context.Context, id string) (*domain.Blog, error) {
	const query = `SELECT ` + blogColumns + ` FROM blogs WHERE id=$1`
	return scanBlog(r.pool.QueryRow(ctx, query, id))
}

func (r *blogRepository) List(ctx context.Context) ([]domain.Blog, error) {
	const query = `SELECT ` + blogColumns + ` FROM blogs ORDER BY created_at DESC`
	return r.queryBlogs(ctx, query)
}

func (r *blogRepository) ListPublished(ctx context.Context) ([]domain.Blog, error) {
	const query = `SELECT ` + blogColumns + ` FROM blogs WHERE published ORDER BY created_at DESC`
	return r.queryBlogs(ctx, query)
}

func (r *blogRepository) queryBlogs(ctx context.Context, query string, args ...any) ([]domain.Blog, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blogs []domain.Blog
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, *b)
	}
	return blogs, rows.Err()
}

func (r *blogRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM blogs WHERE id=$1`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
