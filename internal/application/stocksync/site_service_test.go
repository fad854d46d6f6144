package stocksync

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domain "github.com/stocksync/backend/internal/domain/stocksync"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockSiteRepository is a mock implementation of SiteRepository
type MockSiteRepository struct {
	mock.Mock
}

func (m *MockSiteRepository) Save(ctx context.Context, site *domain.Site) error {
	args := m.Called(ctx, site)
	return args.Error(0)
}

func (m *MockSiteRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Site, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Site), args.Error(1)
}

func (m *MockSiteRepository) FindAll(ctx context.Context) ([]domain.Site, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Site), args.Error(1)
}

func (m *MockSiteRepository) FindEnabled(ctx context.Context) ([]domain.Site, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Site), args.Error(1)
}

func (m *MockSiteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSiteFilterRepository is a mock implementation of SiteFilterRepository
type MockSiteFilterRepository struct {
	mock.Mock
}

func (m *MockSiteFilterRepository) Upsert(ctx context.Context, filter *domain.SiteFilter) error {
	args := m.Called(ctx, filter)
	return args.Error(0)
}

func (m *MockSiteFilterRepository) FindBySiteID(ctx context.Context, siteID uuid.UUID) (*domain.SiteFilter, error) {
	args := m.Called(ctx, siteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SiteFilter), args.Error(1)
}

func (m *MockSiteFilterRepository) DeleteBySiteID(ctx context.Context, siteID uuid.UUID) error {
	args := m.Called(ctx, siteID)
	return args.Error(0)
}

// =============================================================================
// Tests
// =============================================================================

func TestSiteService_Create(t *testing.T) {
	sites := new(MockSiteRepository)
	filters := new(MockSiteFilterRepository)
	service := NewSiteService(sites, filters)

	sites.On("Save", mock.Anything, mock.AnythingOfType("*stocksync.Site")).Return(nil)

	resp, err := service.Create(context.Background(), CreateSiteRequest{
		Name:      "shop-a",
		BaseURL:   "https://shop-a.example.com/",
		APIKey:    "ck_live",
		APISecret: "cs_live",
	})

	require.NoError(t, err)
	assert.Equal(t, "shop-a", resp.Name)
	assert.Equal(t, "https://shop-a.example.com", resp.BaseURL, "trailing slash should be trimmed")
	assert.True(t, resp.Enabled, "new sites start enabled")
	sites.AssertExpectations(t)
}

func TestSiteService_Create_InvalidBaseURL(t *testing.T) {
	sites := new(MockSiteRepository)
	filters := new(MockSiteFilterRepository)
	service := NewSiteService(sites, filters)

	_, err := service.Create(context.Background(), CreateSiteRequest{
		Name:      "shop-a",
		BaseURL:   "not-a-url",
		APIKey:    "ck",
		APISecret: "cs",
	})

	assert.ErrorIs(t, err, domain.ErrSiteInvalidBaseURL)
	sites.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSiteService_Update_PartialFields(t *testing.T) {
	sites := new(MockSiteRepository)
	filters := new(MockSiteFilterRepository)
	service := NewSiteService(sites, filters)

	existing, err := domain.NewSite("shop-a", "https://shop-a.example.com", "ck", "cs")
	require.NoError(t, err)

	sites.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
	sites.On("Save", mock.Anything, mock.AnythingOfType("*stocksync.Site")).Return(nil)

	disabled := false
	resp, err := service.Update(context.Background(), existing.ID, UpdateSiteRequest{
		Enabled: &disabled,
	})

	require.NoError(t, err)
	assert.False(t, resp.Enabled)
	assert.Equal(t, "shop-a", resp.Name, "unset fields must not change")
	sites.AssertExpectations(t)
}

func TestSiteService_Update_NotFound(t *testing.T) {
	sites := new(MockSiteRepository)
	filters := new(MockSiteFilterRepository)
	service := NewSiteService(sites, filters)

	id := uuid.New()
	sites.On("FindByID", mock.Anything, id).Return(nil, domain.ErrSiteNotFound)

	_, err := service.Update(context.Background(), id, UpdateSiteRequest{})
	assert.ErrorIs(t, err, domain.ErrSiteNotFound)
}

func TestSiteService_Delete_AlsoRemovesFilter(t *testing.T) {
	sites := new(MockSiteRepository)
	filters := new(MockSiteFilterRepository)
	service := NewSiteService(sites, filters)

	existing, err := domain.NewSite("shop-a", "https://shop-a.example.com", "ck", "cs")
	require.NoError(t, err)

	sites.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
	filters.On("DeleteBySiteID", mock.Anything, existing.ID).Return(nil)
	sites.On("Delete", mock.Anything, existing.ID).Return(nil)

	require.NoError(t, service.Delete(context.Background(), existing.ID))
	sites.AssertExpectations(t)
	filters.AssertExpectations(t)
}

func TestSiteService_UpsertFilter(t *testing.T) {
	sites := new(MockSiteRepository)
	filters := new(MockSiteFilterRepository)
	service := NewSiteService(sites, filters)

	existing, err := domain.NewSite("shop-a", "https://shop-a.example.com", "ck", "cs")
	require.NoError(t, err)

	sites.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
	filters.On("FindBySiteID", mock.Anything, existing.ID).Return(nil, domain.ErrFilterNotFound)
	filters.On("Upsert", mock.Anything, mock.AnythingOfType("*stocksync.SiteFilter")).Return(nil)

	resp, err := service.UpsertFilter(context.Background(), existing.ID, UpsertFilterRequest{
		SKUFilter:          " TSHIRT-* ",
		ExcludeSKUPrefixes: "SAMPLE-",
		CategoryFilters:    []string{"apparel"},
	})

	require.NoError(t, err)
	assert.Equal(t, existing.ID, resp.SiteID)
	assert.Equal(t, "TSHIRT-*", resp.SKUFilter, "patterns should be trimmed")
	assert.Equal(t, "SAMPLE-", resp.ExcludeSKUPrefixes)
	filters.AssertExpectations(t)
}

func TestSiteService_UpsertFilter_KeepsOriginalCreatedAt(t *testing.T) {
	sites := new(MockSiteRepository)
	filters := new(MockSiteFilterRepository)
	service := NewSiteService(sites, filters)

	existing, err := domain.NewSite("shop-a", "https://shop-a.example.com", "ck", "cs")
	require.NoError(t, err)

	previous := &domain.SiteFilter{SiteID: existing.ID, SKUFilter: "OLD-*"}
	previous.CreatedAt = previous.CreatedAt.AddDate(0, -1, 0)

	sites.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
	filters.On("FindBySiteID", mock.Anything, existing.ID).Return(previous, nil)
	filters.On("Upsert", mock.Anything, mock.AnythingOfType("*stocksync.SiteFilter")).Return(nil)

	resp, err := service.UpsertFilter(context.Background(), existing.ID, UpsertFilterRequest{SKUFilter: "NEW-*"})
	require.NoError(t, err)
	assert.Equal(t, previous.CreatedAt, resp.CreatedAt)
	assert.Equal(t, "NEW-*", resp.SKUFilter)
}

func TestSiteService_GetFilter_SiteMissing(t *testing.T) {
	sites := new(MockSiteRepository)
	filters := new(MockSiteFilterRepository)
	service := NewSiteService(sites, filters)

	id := uuid.New()
	sites.On("FindByID", mock.Anything, id).Return(nil, domain.ErrSiteNotFound)

	_, err := service.GetFilter(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrSiteNotFound)
	filters.AssertNotCalled(t, "FindBySiteID", mock.Anything, mock.Anything)
}
