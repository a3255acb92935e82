package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/commercekit/catalog-service/internal/domain"
	"github.com/commercekit/catalog-service/internal/repository"
	apperrors "github.com/commercekit/catalog-service/pkg/util"
)

const cacheKeyPublishedBlogs = "blogs:published"

// BlogService manages editorial posts.
type BlogService struct {
	blogs  repository.BlogRepository
	cache  Cache
	logger *zap.Logger
}

// NewBlogService builds the service. cache may be nil.
func NewBlogService(blogs repository.BlogRepository, cache Cache, logger *zap.Logger) *BlogService {
	return &BlogService{blogs: blogs, cache: cache, logger: logger}
}

// BlogInput carries the writable blog fields.
type BlogInput struct {
	Title     string
	Body      string
	ImagePath string
	Published bool
}

// ListPublished returns the public storefront feed, cached.
func (s *BlogService) ListPublished(ctx context.Context) ([]domain.Blog, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKeyPublishedBlogs); err == nil {
			var blogs []domain.Blog
			if err := json.Unmarshal([]byte(cached), &blogs); err == nil {
				return blogs, nil
			}
		}
	}

	blogs, err := s.blogs.ListPublished(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(blogs); err == nil {
			if err := s.cache.Set(ctx, cacheKeyPublishedBlogs, string(encoded), cacheTTL); err != nil {
				s.logger.Debug("cache set failed", zap.Error(err))
			}
		}
	}
	return blogs, nil
}

// List returns every post, including drafts.
func (s *BlogService) List(ctx context.Context) ([]domain.Blog, error) {
	return s.blogs.List(ctx)
}

// GetPublished returns a single published post.
func (s *BlogService) GetPublished(ctx context.Context, id string) (*domain.Blog, error) {
	blog, err := s.blogs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("blog", map[string]any{"id": id})
		}
		return nil, err
	}
	if !blog.Published {
		return nil, apperrors.NewNotFound("blog", map[string]any{"id": id})
	}
	return blog, nil
}

// Create adds a post.
func (s *BlogService) Create(ctx context.Context, in BlogInput) (*domain.Blog, error) {
	if in.Title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	blog := &domain.Blog{
		Title:     in.Title,
		Body:      in.Body,
		ImagePath: in.ImagePath,
		Published: in.Published,
	}
	if err := s.blogs.Create(ctx, blog); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return blog, nil
}

// Update replaces the writable fields of a post.
func (s *BlogService) Update(ctx context.Context, id string, in BlogInput) (*domain.Blog, error) {
	if in.Title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	blog, err := s.blogs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("blog", map[string]any{"id": id})
		}
		return nil, err
	}
	blog.Title = in.Title
	blog.Body = in.Body
	blog.ImagePath = in.ImagePath
	blog.Published = in.Published
	if err := s.blogs.Update(ctx, blog); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return blog, nil
}

// Delete removes a post.
func (s *BlogService) Delete(ctx context.Context, id string) error {
	if err := s.blogs.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("blog", map[string]any{"id": id})
		}
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *BlogService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cacheKeyPublishedBlogs); err != nil {
		s.logger.Debug("cache invalidation failed", zap.Error(err))
	}
}
