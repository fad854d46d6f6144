package stocksync

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Site Entity
// ---------------------------------------------------------------------------

// Site is one registered storefront. Sites are created and edited through
// site management and consumed read-only by the reconciliation pipeline.
type Site struct {
	// ID is the unique identifier of this site
	ID uuid.UUID
	// Name is the display name of the storefront
	Name string
	// BaseURL is the storefront's root URL (scheme + host)
	BaseURL string
	// APIKey is the storefront API consumer key
	APIKey string
	// APISecret is the storefront API consumer secret
	APISecret string
	// Enabled gates the site in and out of reconciliation passes.
	// A disabled site is skipped entirely and produces no result row.
	Enabled bool
	// CreatedAt is when this site was registered
	CreatedAt time.Time
	// UpdatedAt is when this site was last edited
	UpdatedAt time.Time
}

// NewSite creates a new storefront registration.
func NewSite(name, baseURL, apiKey, apiSecret string) (*Site, error) {
	now := time.Now()
	site := &Site{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		BaseURL:   strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		APIKey:    apiKey,
		APISecret: apiSecret,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := site.Validate(); err != nil {
		return nil, err
	}
	return site, nil
}

// Validate checks the site's invariants.
func (s *Site) Validate() error {
	if s.Name == "" {
		return ErrSiteInvalidName
	}
	u, err := url.Parse(s.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrSiteInvalidBaseURL
	}
	if s.APIKey == "" || s.APISecret == "" {
		return ErrSiteMissingAPIKey
	}
	return nil
}

// ---------------------------------------------------------------------------
// Repository Ports
// ---------------------------------------------------------------------------

// SiteRepository persists storefront registrations.
type SiteRepository interface {
	Save(ctx context.Context, site *Site) error
	FindByID(ctx context.Context, id uuid.UUID) (*Site, error)
	FindAll(ctx context.Context) ([]Site, error)
	FindEnabled(ctx context.Context) ([]Site, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SiteFilterRepository persists per-site filter configuration with upsert
// semantics keyed on site ID.
type SiteFilterRepository interface {
	Upsert(ctx context.Context, filter *SiteFilter) error
	FindBySiteID(ctx context.Context, siteID uuid.UUID) (*SiteFilter, error)
	DeleteBySiteID(ctx context.Context, siteID uuid.UUID) error
}

// BatchListFilter narrows and pages the batch audit read model.
type BatchListFilter struct {
	// Status filters by batch status when non-empty
	Status BatchStatus
	// Page is 1-indexed
	Page     int
	PageSize int
}

// SyncBatchRepository persists the batch/result audit trail. The batch
// recorder is the only component that writes through this port.
type SyncBatchRepository interface {
	CreateBatch(ctx context.Context, batch *SyncBatch) error
	FinalizeBatch(ctx context.Context, batch *SyncBatch) error
	SaveSiteResult(ctx context.Context, result *SiteResult) error
	FindBatchByID(ctx context.Context, batchID uuid.UUID) (*SyncBatch, error)
	ListBatches(ctx context.Context, filter BatchListFilter) ([]SyncBatch, int64, error)
	FindSiteResults(ctx context.Context, batchID uuid.UUID) ([]SiteResult, error)
}
