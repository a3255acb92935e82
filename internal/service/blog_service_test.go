package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/commercekit/catalog-service/internal/domain"
	"github.com/commercekit/catalog-service/internal/service"
	apperrors "github.com/commercekit/catalog-service/pkg/util"
)

type MockBlogRepo struct{ mock.Mock }

func (m *MockBlogRepo) Create(ctx context.Context, blog *domain.Blog) error {
	return m.Called(ctx, blog).Error(0)
}
func (m *MockBlogRepo) Update(ctx context.Context, blog *domain.Blog) error {
	return m.Called(ctx, blog).Error(0)
}
func (m *MockBlogRepo) GetByID(ctx context.Context, id string) (*domain.Blog, error) {
	args := m.Called(ctx, id)
	var b *domain.Blog
	if v := args.Get(0); v != nil {
		b = v.(*domain.Blog)
	}
	return b, args.Error(1)
}
func (m *MockBlogRepo) List(ctx context.Context) ([]domain.Blog, error) {
	args := m.Called(ctx)
	var blogs []domain.Blog
	if v := args.Get(0); v != nil {
		blogs = v.([]domain.Blog)
	}
	return blogs, args.Error(1)
}
func (m *MockBlogRepo) ListPublished(ctx context.Context) ([]domain.Blog, error) {
	args := m.Called(ctx)
	var blogs []domain.Blog
	if v := args.Get(0); v != nil {
		blogs = v.([]domain.Blog)
	}
	return blogs, args.Error(1)
}
func (m *MockBlogRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func TestBlogService_GetPublished_HidesDrafts(t *testing.T) {
	repo := &MockBlogRepo{}
	svc := service.NewBlogService(repo, nil, zap.NewNop())

	repo.On("GetByID", mock.Anything, "b1").
		Return(&domain.Blog{ID: "b1", Title: "Draft", Published: false}, nil).Once()

	_, err := svc.GetPublished(context.Background(), "b1")
	require.Error(t, err)
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "NOT_FOUND", de.Code)
}

func TestBlogService_ListPublished_Cached(t *testing.T) {
	repo := &MockBlogRepo{}
	cache := newMapCache()
	svc := service.NewBlogService(repo, cache, zap.NewNop())

	repo.On("ListPublished", mock.Anything).
		Return([]domain.Blog{{ID: "b1", Title: "Hello", Published: true}}, nil).Once()

	first, err := svc.ListPublished(context.Background())
	require.NoError(t, err)
	second, err := svc.ListPublished(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	repo.AssertExpectations(t)
}

func TestBlogService_Create_RequiresTitle(t *testing.T) {
	svc := service.NewBlogService(&MockBlogRepo{}, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), service.BlogInput{Body: "no title"})
	require.Error(t, err)
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "VALIDATION_FAILED", de.Code)
}
