package stocksync

import (
	"time"

	"github.com/google/uuid"

	"github.com/stocksync/backend/internal/domain/stocksync"
)

// PassStats aggregates counters across every site of one pass.
type PassStats struct {
	TotalChecked          int `json:"total_checked"`
	TotalSyncedInstock    int `json:"total_synced_to_instock"`
	TotalSyncedOutofstock int `json:"total_synced_to_outofstock"`
	TotalFailed           int `json:"total_failed"`
	TotalSkipped          int `json:"total_skipped"`
	TotalNoops            int `json:"total_noops"`
	UnmappedErpSkus       int `json:"unmapped_erp_skus"`
	ResolvedSkus          int `json:"resolved_skus"`
	SitesProcessed        int `json:"sites_processed"`
}

// add folds one site result into the pass totals.
func (s *PassStats) add(r *stocksync.SiteResult) {
	s.TotalChecked += r.TotalChecked
	s.TotalSyncedInstock += r.SyncedToInstock
	s.TotalSyncedOutofstock += r.SyncedToOutofstock
	s.TotalFailed += r.Failed
	s.TotalSkipped += r.Skipped
	s.TotalNoops += r.Noops
	s.SitesProcessed++
}

// PassResult is the outcome of one RunPass call. Skipped=true means the run
// guard rejected the attempt because a pass was already in progress; that is
// an expected outcome, not a fault.
type PassResult struct {
	Success bool      `json:"success"`
	Skipped bool      `json:"skipped,omitempty"`
	BatchID uuid.UUID `json:"batch_id,omitempty"`
	Stats   PassStats `json:"stats"`
	Error   string    `json:"error,omitempty"`
}

// =============================================================================
// Site DTOs
// =============================================================================

// CreateSiteRequest represents a request to register a new storefront
type CreateSiteRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=200"`
	BaseURL   string `json:"base_url" binding:"required,url"`
	APIKey    string `json:"api_key" binding:"required"`
	APISecret string `json:"api_secret" binding:"required"`
}

// UpdateSiteRequest represents a request to edit a storefront registration
type UpdateSiteRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1,max=200"`
	BaseURL   *string `json:"base_url" binding:"omitempty,url"`
	APIKey    *string `json:"api_key"`
	APISecret *string `json:"api_secret"`
	Enabled   *bool   `json:"enabled"`
}

// SiteResponse represents a storefront in API responses. Credentials are
// never echoed back.
type SiteResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	BaseURL   string    `json:"base_url"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToSiteResponse converts a domain site to its API representation
func ToSiteResponse(site *stocksync.Site) SiteResponse {
	return SiteResponse{
		ID:        site.ID,
		Name:      site.Name,
		BaseURL:   site.BaseURL,
		Enabled:   site.Enabled,
		CreatedAt: site.CreatedAt,
		UpdatedAt: site.UpdatedAt,
	}
}

// UpsertFilterRequest represents a request to replace a site's filter
type UpsertFilterRequest struct {
	SKUFilter          string   `json:"sku_filter"`
	ExcludeSKUPrefixes string   `json:"exclude_sku_prefixes"`
	CategoryFilters    []string `json:"category_filters"`
	ExcludeWarehouses  string   `json:"exclude_warehouses"`
}

// FilterResponse represents a site filter in API responses
type FilterResponse struct {
	SiteID             uuid.UUID `json:"site_id"`
	SKUFilter          string    `json:"sku_filter"`
	ExcludeSKUPrefixes string    `json:"exclude_sku_prefixes"`
	CategoryFilters    []string  `json:"category_filters"`
	ExcludeWarehouses  string    `json:"exclude_warehouses"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ToFilterResponse converts a domain filter to its API representation
func ToFilterResponse(filter *stocksync.SiteFilter) FilterResponse {
	return FilterResponse{
		SiteID:             filter.SiteID,
		SKUFilter:          filter.SKUFilter,
		ExcludeSKUPrefixes: filter.ExcludeSKUPrefixes,
		CategoryFilters:    filter.CategoryFilters,
		ExcludeWarehouses:  filter.ExcludeWarehouses,
		CreatedAt:          filter.CreatedAt,
		UpdatedAt:          filter.UpdatedAt,
	}
}

// =============================================================================
// Batch audit DTOs
// =============================================================================

// BatchListRequest represents filter options for the batch list
type BatchListRequest struct {
	Status   string `form:"status" binding:"omitempty,oneof=running completed failed"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// BatchResponse represents one reconciliation batch in API responses
type BatchResponse struct {
	ID          uuid.UUID  `json:"id"`
	Status      string     `json:"status"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ToBatchResponse converts a domain batch to its API representation
func ToBatchResponse(batch *stocksync.SyncBatch) BatchResponse {
	return BatchResponse{
		ID:          batch.ID,
		Status:      batch.Status.String(),
		Error:       batch.Error,
		CreatedAt:   batch.CreatedAt,
		CompletedAt: batch.CompletedAt,
	}
}

// SiteResultResponse represents one site's outcome within a batch
type SiteResultResponse struct {
	ID                 uuid.UUID             `json:"id"`
	BatchID            uuid.UUID             `json:"batch_id"`
	SiteID             uuid.UUID             `json:"site_id"`
	SiteName           string                `json:"site_name"`
	TotalChecked       int                   `json:"total_checked"`
	SyncedToInstock    int                   `json:"synced_to_instock"`
	SyncedToOutofstock int                   `json:"synced_to_outofstock"`
	Failed             int                   `json:"failed"`
	Skipped            int                   `json:"skipped"`
	Noops              int                   `json:"noops"`
	Details            []stocksync.SyncDetail `json:"details"`
	CreatedAt          time.Time             `json:"created_at"`
}

// ToSiteResultResponse converts a domain site result to its API representation
func ToSiteResultResponse(result *stocksync.SiteResult) SiteResultResponse {
	return SiteResultResponse{
		ID:                 result.ID,
		BatchID:            result.BatchID,
		SiteID:             result.SiteID,
		SiteName:           result.SiteName,
		TotalChecked:       result.TotalChecked,
		SyncedToInstock:    result.SyncedToInstock,
		SyncedToOutofstock: result.SyncedToOutofstock,
		Failed:             result.Failed,
		Skipped:            result.Skipped,
		Noops:              result.Noops,
		Details:            result.Details,
		CreatedAt:          result.CreatedAt,
	}
}
