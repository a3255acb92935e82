package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/commercekit/catalog-service/internal/domain"
	"github.com/commercekit/catalog-service/internal/repository"
	apperrors "github.com/commercekit/catalog-service/pkg/util"
)

// Cache abstracts the redis-backed listing cache. Any Get error is
// treated as a miss; writes are best effort.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

const (
	cacheKeyCategories    = "catalog:categories"
	cacheKeyProductsBySub = "catalog:products:" // + subcategory id
	cacheTTL              = 5 * time.Minute
)

// CatalogService manages categories, subcategories and products.
type CatalogService struct {
	categories    repository.CategoryRepository
	subcategories repository.SubcategoryRepository
	products      repository.ProductRepository
	cache         Cache
	logger        *zap.Logger
}

// NewCatalogService builds the service. cache may be nil.
func NewCatalogService(
	categories repository.CategoryRepository,
	subcategories repository.SubcategoryRepository,
	products repository.ProductRepository,
	cache Cache,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		categories:    categories,
		subcategories: subcategories,
		products:      products,
		cache:         cache,
		logger:        logger,
	}
}

// ListCategories returns all categories with nested subcategories,
// served from cache when possible.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if cached, ok := s.cacheGet(ctx, cacheKeyCategories); ok {
		var categories []domain.Category
		if err := json.Unmarshal([]byte(cached), &categories); err == nil {
			return categories, nil
		}
	}

	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		subs, err := s.subcategories.ListByCategory(ctx, categories[i].ID)
		if err != nil {
			return nil, err
		}
		categories[i].Subcategories = subs
	}

	s.cacheSet(ctx, cacheKeyCategories, categories)
	return categories, nil
}

// CreateCategory adds a category and invalidates the listing cache.
func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	category := &domain.Category{Name: name}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	s.cacheDel(ctx, cacheKeyCategories)
	return category, nil
}

// UpdateCategory renames a category.
func (s *CatalogService) UpdateCategory(ctx context.Context, id, name string) (*domain.Category, error) {
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"id": id})
		}
		return nil, err
	}
	category.Name = name
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	s.cacheDel(ctx, cacheKeyCategories)
	return category, nil
}

// DeleteCategory removes an empty category. Deleting a category that
// still has subcategories is a conflict.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	count, err := s.categories.CountSubcategories(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.NewConflict("category has subcategories", map[string]any{"count": count})
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("category", map[string]any{"id": id})
		}
		return err
	}
	s.cacheDel(ctx, cacheKeyCategories)
	return nil
}

// CreateSubcategory adds a subcategory under an existing category.
func (s *CatalogService) CreateSubcategory(ctx context.Context, categoryID, name string) (*domain.Subcategory, error) {
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"id": categoryID})
		}
		return nil, err
	}
	sub := &domain.Subcategory{CategoryID: categoryID, Name: name}
	if err := s.subcategories.Create(ctx, sub); err != nil {
		return nil, err
	}
	s.cacheDel(ctx, cacheKeyCategories)
	return sub, nil
}

// UpdateSubcategory renames a subcategory.
func (s *CatalogService) UpdateSubcategory(ctx context.Context, id, name string) (*domain.Subcategory, error) {
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	sub, err := s.subcategories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("subcategory", map[string]any{"id": id})
		}
		return nil, err
	}
	sub.Name = name
	if err := s.subcategories.Update(ctx, sub); err != nil {
		return nil, err
	}
	s.cacheDel(ctx, cacheKeyCategories)
	return sub, nil
}

// DeleteSubcategory removes an empty subcategory.
func (s *CatalogService) DeleteSubcategory(ctx context.Context, id string) error {
	count, err := s.subcategories.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.NewConflict("subcategory has products", map[string]any{"count": count})
	}
	if err := s.subcategories.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("subcategory", map[string]any{"id": id})
		}
		return err
	}
	s.cacheDel(ctx, cacheKeyCategories)
	return nil
}

// ProductInput carries the writable product fields.
type ProductInput struct {
	SubcategoryID string
	Name          string
	Description   string
	PriceCents    int64
	ImagePath     string
	Published     bool
}

// ListProducts returns every product, including unpublished ones.
func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

// ListPublishedProducts returns the public storefront view for a
// subcategory, served from cache when possible.
func (s *CatalogService) ListPublishedProducts(ctx context.Context, subcategoryID string) ([]domain.Product, error) {
	key := cacheKeyProductsBySub + subcategoryID
	if cached, ok := s.cacheGet(ctx, key); ok {
		var products []domain.Product
		if err := json.Unmarshal([]byte(cached), &products); err == nil {
			return products, nil
		}
	}

	products, err := s.products.ListPublishedBySubcategory(ctx, subcategoryID)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, products)
	return products, nil
}

// CreateProduct adds a product under an existing subcategory.
func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	if in.Name == "" || in.SubcategoryID == "" {
		return nil, apperrors.NewValidationError("name and subcategory_id required", nil)
	}
	if in.PriceCents < 0 {
		return nil, apperrors.NewValidationError("price must not be negative", nil)
	}
	if _, err := s.subcategories.GetByID(ctx, in.SubcategoryID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("subcategory", map[string]any{"id": in.SubcategoryID})
		}
		return nil, err
	}

	product := &domain.Product{
		SubcategoryID: in.SubcategoryID,
		Name:          in.Name,
		Description:   in.Description,
		PriceCents:    in.PriceCents,
		ImagePath:     in.ImagePath,
		Published:     in.Published,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	s.cacheDel(ctx, cacheKeyProductsBySub+in.SubcategoryID)
	return product, nil
}

// UpdateProduct replaces the writable fields of a product.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in ProductInput) (*domain.Product, error) {
	if in.Name == "" || in.SubcategoryID == "" {
		return nil, apperrors.NewValidationError("name and subcategory_id required", nil)
	}
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("product", map[string]any{"id": id})
		}
		return nil, err
	}

	oldSubcategory := product.SubcategoryID
	product.SubcategoryID = in.SubcategoryID
	product.Name = in.Name
	product.Description = in.Description
	product.PriceCents = in.PriceCents
	product.ImagePath = in.ImagePath
	product.Published = in.Published

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	s.cacheDel(ctx, cacheKeyProductsBySub+oldSubcategory, cacheKeyProductsBySub+in.SubcategoryID)
	return product, nil
}

// DeleteProduct removes a product.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("product", map[string]any{"id": id})
		}
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.cacheDel(ctx, cacheKeyProductsBySub+product.SubcategoryID)
	return nil
}

func (s *CatalogService) cacheGet(ctx context.Context, key string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	val, err := s.cache.Get(ctx, key)
	if err != nil {
		return "", false
	}
	return val, true
}

func (s *CatalogService) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(encoded), cacheTTL); err != nil {
		s.logger.Debug("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *CatalogService) cacheDel(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		s.logger.Debug("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
