package stocksync

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	domain "github.com/stocksync/backend/internal/domain/stocksync"
)

// SiteService handles storefront registration and per-site filter management.
type SiteService struct {
	sites   domain.SiteRepository
	filters domain.SiteFilterRepository
}

// NewSiteService creates a new SiteService
func NewSiteService(sites domain.SiteRepository, filters domain.SiteFilterRepository) *SiteService {
	return &SiteService{
		sites:   sites,
		filters: filters,
	}
}

// Create registers a new storefront
func (s *SiteService) Create(ctx context.Context, req CreateSiteRequest) (*SiteResponse, error) {
	site, err := domain.NewSite(req.Name, req.BaseURL, req.APIKey, req.APISecret)
	if err != nil {
		return nil, err
	}
	if err := s.sites.Save(ctx, site); err != nil {
		return nil, err
	}
	response := ToSiteResponse(site)
	return &response, nil
}

// Get returns one storefront registration
func (s *SiteService) Get(ctx context.Context, id uuid.UUID) (*SiteResponse, error) {
	site, err := s.sites.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSiteResponse(site)
	return &response, nil
}

// List returns every registered storefront
func (s *SiteService) List(ctx context.Context) ([]SiteResponse, error) {
	sites, err := s.sites.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]SiteResponse, 0, len(sites))
	for i := range sites {
		responses = append(responses, ToSiteResponse(&sites[i]))
	}
	return responses, nil
}

// Update edits a storefront registration. Only the provided fields change;
// credentials may be rotated without re-sending the other one.
func (s *SiteService) Update(ctx context.Context, id uuid.UUID, req UpdateSiteRequest) (*SiteResponse, error) {
	site, err := s.sites.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		site.Name = strings.TrimSpace(*req.Name)
	}
	if req.BaseURL != nil {
		site.BaseURL = strings.TrimRight(strings.TrimSpace(*req.BaseURL), "/")
	}
	if req.APIKey != nil {
		site.APIKey = *req.APIKey
	}
	if req.APISecret != nil {
		site.APISecret = *req.APISecret
	}
	if req.Enabled != nil {
		site.Enabled = *req.Enabled
	}
	site.UpdatedAt = time.Now()

	if err := site.Validate(); err != nil {
		return nil, err
	}
	if err := s.sites.Save(ctx, site); err != nil {
		return nil, err
	}
	response := ToSiteResponse(site)
	return &response, nil
}

// Delete removes a storefront registration together with its filter. The
// site's historical batch results are kept.
func (s *SiteService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.sites.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.filters.DeleteBySiteID(ctx, id); err != nil && !errors.Is(err, domain.ErrFilterNotFound) {
		return err
	}
	return s.sites.Delete(ctx, id)
}

// GetFilter returns the site's filter configuration
func (s *SiteService) GetFilter(ctx context.Context, siteID uuid.UUID) (*FilterResponse, error) {
	if _, err := s.sites.FindByID(ctx, siteID); err != nil {
		return nil, err
	}
	filter, err := s.filters.FindBySiteID(ctx, siteID)
	if err != nil {
		return nil, err
	}
	response := ToFilterResponse(filter)
	return &response, nil
}

// UpsertFilter replaces the site's filter configuration wholesale. At most
// one filter exists per site.
func (s *SiteService) UpsertFilter(ctx context.Context, siteID uuid.UUID, req UpsertFilterRequest) (*FilterResponse, error) {
	if _, err := s.sites.FindByID(ctx, siteID); err != nil {
		return nil, err
	}

	now := time.Now()
	filter := &domain.SiteFilter{
		SiteID:             siteID,
		SKUFilter:          strings.TrimSpace(req.SKUFilter),
		ExcludeSKUPrefixes: strings.TrimSpace(req.ExcludeSKUPrefixes),
		CategoryFilters:    req.CategoryFilters,
		ExcludeWarehouses:  strings.TrimSpace(req.ExcludeWarehouses),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if existing, err := s.filters.FindBySiteID(ctx, siteID); err == nil {
		filter.CreatedAt = existing.CreatedAt
	}

	if err := s.filters.Upsert(ctx, filter); err != nil {
		return nil, err
	}
	response := ToFilterResponse(filter)
	return &response, nil
}

// DeleteFilter removes the site's filter, returning every SKU to scope
func (s *SiteService) DeleteFilter(ctx context.Context, siteID uuid.UUID) error {
	if _, err := s.sites.FindByID(ctx, siteID); err != nil {
		return err
	}
	return s.filters.DeleteBySiteID(ctx, siteID)
}
