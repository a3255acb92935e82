package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/commercekit/catalog-service/internal/domain"
)

// SubcategoryRepository defines persistence access for subcategories.
type SubcategoryRepository interface {
	Create(ctx context.Context, sub *domain.Subcategory) error
	Update(ctx context.Context, sub *domain.Subcategory) error
	GetByID(ctx context.Context, id string) (*domain.Subcategory, error)
	ListByCategory(ctx context.Context, categoryID string) ([]domain.Subcategory, error)
	CountProducts(ctx context.Context, id string) (int64, error)
	Delete(ctx context.Context, id string) error
}

type subcategoryRepository struct {
	pool *pgxpool.Pool
}

// NewSubcategoryRepository returns a Postgres-backed implementation.
func NewSubcategoryRepository(pool *pgxpool.Pool) SubcategoryRepository {
	return &subcategoryRepository{pool: pool}
}

func (r *subcategoryRepository) Create(ctx context.Context, sub *domain.Subcategory) error {
	const query = `
        INSERT INTO subcategories (category_id, name)
        VALUES ($1, $2)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query, sub.CategoryID, sub.Name).
		Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
}

func (r *subcategoryRepository) Update(ctx context.Context, sub *domain.Subcategory) error {
	const query = `UPDATE subcategories SET name=$1, updated_at=NOW() WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, sub.Name, sub.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *subcategoryRepository) GetByID(ctx context.Context, id string) (*domain.Subcategory, error) {
	const query = `
        SELECT id, category_id, name, created_at, updated_at
        FROM subcategories WHERE id=$1`

	var sub domain.Subcategory
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&sub.ID,
		&sub.CategoryID,
		&sub.Name,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subcategoryRepository) ListByCategory(ctx context.Context, categoryID string) ([]domain.Subcategory, error) {
	const query = `
        SELECT id, category_id, name, created_at, updated_at
        FROM subcategories WHERE category_id=$1 ORDER BY name`

	rows, err := r.pool.Query(ctx, query, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []domain.Subcategory
	for rows.Next() {
		var sub domain.Subcategory
		if err := rows.Scan(
			&sub.ID,
			&sub.CategoryID,
			&sub.Name,
			&sub.CreatedAt,
			&sub.UpdatedAt,
		); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (r *subcategoryRepository) CountProducts(ctx context.Context, id string) (int64, error) {
	const query = `SELECT COUNT(*) FROM products WHERE subcategory_id=$1`

	var count int64
	if err := r.pool.QueryRow(ctx, query, id).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *subcategoryRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM subcategories WHERE id=$1`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
