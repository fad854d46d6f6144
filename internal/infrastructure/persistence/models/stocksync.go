package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stocksync/backend/internal/domain/stocksync"
)

// SiteModel is the persistence model for the Site domain entity.
type SiteModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Name      string    `gorm:"type:varchar(200);not null;uniqueIndex"`
	BaseURL   string    `gorm:"type:varchar(500);not null"`
	APIKey    string    `gorm:"type:varchar(200);not null"`
	APISecret string    `gorm:"type:varchar(200);not null"`
	Enabled   bool      `gorm:"not null;default:true;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SiteModel) TableName() string {
	return "sites"
}

// ToDomain converts the persistence model to a domain Site entity.
func (m *SiteModel) ToDomain() *stocksync.Site {
	return &stocksync.Site{
		ID:        m.ID,
		Name:      m.Name,
		BaseURL:   m.BaseURL,
		APIKey:    m.APIKey,
		APISecret: m.APISecret,
		Enabled:   m.Enabled,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Site entity.
func (m *SiteModel) FromDomain(s *stocksync.Site) {
	m.ID = s.ID
	m.Name = s.Name
	m.BaseURL = s.BaseURL
	m.APIKey = s.APIKey
	m.APISecret = s.APISecret
	m.Enabled = s.Enabled
	m.CreatedAt = s.CreatedAt
	m.UpdatedAt = s.UpdatedAt
}

// SiteModelFromDomain creates a new persistence model from a domain Site entity.
func SiteModelFromDomain(s *stocksync.Site) *SiteModel {
	m := &SiteModel{}
	m.FromDomain(s)
	return m
}

// SiteFilterModel is the persistence model for the SiteFilter domain entity.
// One row per site; category filters are stored as a JSON array.
type SiteFilterModel struct {
	SiteID             uuid.UUID `gorm:"type:uuid;primary_key"`
	SKUFilter          string    `gorm:"column:sku_filter;type:text"`
	ExcludeSKUPrefixes string    `gorm:"column:exclude_sku_prefixes;type:text"`
	CategoryFilters    string    `gorm:"type:jsonb;default:'[]'"`
	ExcludeWarehouses  string    `gorm:"type:text"`
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SiteFilterModel) TableName() string {
	return "site_filters"
}

// ToDomain converts the persistence model to a domain SiteFilter entity.
func (m *SiteFilterModel) ToDomain() *stocksync.SiteFilter {
	var categories []string
	if strings.TrimSpace(m.CategoryFilters) != "" {
		// A corrupt column degrades to no category restriction
		_ = json.Unmarshal([]byte(m.CategoryFilters), &categories)
	}
	return &stocksync.SiteFilter{
		SiteID:             m.SiteID,
		SKUFilter:          m.SKUFilter,
		ExcludeSKUPrefixes: m.ExcludeSKUPrefixes,
		CategoryFilters:    categories,
		ExcludeWarehouses:  m.ExcludeWarehouses,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain SiteFilter entity.
func (m *SiteFilterModel) FromDomain(f *stocksync.SiteFilter) {
	categories := "[]"
	if len(f.CategoryFilters) > 0 {
		if data, err := json.Marshal(f.CategoryFilters); err == nil {
			categories = string(data)
		}
	}
	m.SiteID = f.SiteID
	m.SKUFilter = f.SKUFilter
	m.ExcludeSKUPrefixes = f.ExcludeSKUPrefixes
	m.CategoryFilters = categories
	m.ExcludeWarehouses = f.ExcludeWarehouses
	m.CreatedAt = f.CreatedAt
	m.UpdatedAt = f.UpdatedAt
}

// SiteFilterModelFromDomain creates a new persistence model from a domain SiteFilter entity.
func SiteFilterModelFromDomain(f *stocksync.SiteFilter) *SiteFilterModel {
	m := &SiteFilterModel{}
	m.FromDomain(f)
	return m
}

// SyncBatchModel is the persistence model for the SyncBatch domain entity.
type SyncBatchModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key"`
	Status      string     `gorm:"type:varchar(20);not null;index"`
	Error       string     `gorm:"type:text"`
	CreatedAt   time.Time  `gorm:"not null;index"`
	CompletedAt *time.Time `gorm:""`
}

// TableName returns the table name for GORM
func (SyncBatchModel) TableName() string {
	return "sync_batches"
}

// ToDomain converts the persistence model to a domain SyncBatch entity.
func (m *SyncBatchModel) ToDomain() *stocksync.SyncBatch {
	return &stocksync.SyncBatch{
		ID:          m.ID,
		Status:      stocksync.BatchStatus(m.Status),
		Error:       m.Error,
		CreatedAt:   m.CreatedAt,
		CompletedAt: m.CompletedAt,
	}
}

// FromDomain populates the persistence model from a domain SyncBatch entity.
func (m *SyncBatchModel) FromDomain(b *stocksync.SyncBatch) {
	m.ID = b.ID
	m.Status = b.Status.String()
	m.Error = b.Error
	m.CreatedAt = b.CreatedAt
	m.CompletedAt = b.CompletedAt
}

// SyncBatchModelFromDomain creates a new persistence model from a domain SyncBatch entity.
func SyncBatchModelFromDomain(b *stocksync.SyncBatch) *SyncBatchModel {
	m := &SyncBatchModel{}
	m.FromDomain(b)
	return m
}

// SyncSiteResultModel is the persistence model for the SiteResult domain
// entity. The capped details log is stored as a JSON array.
type SyncSiteResultModel struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key"`
	BatchID            uuid.UUID `gorm:"type:uuid;not null;index"`
	SiteID             uuid.UUID `gorm:"type:uuid;not null;index"`
	SiteName           string    `gorm:"type:varchar(200);not null"`
	TotalChecked       int       `gorm:"not null;default:0"`
	SyncedToInstock    int       `gorm:"not null;default:0"`
	SyncedToOutofstock int       `gorm:"not null;default:0"`
	Failed             int       `gorm:"not null;default:0"`
	Skipped            int       `gorm:"not null;default:0"`
	Noops              int       `gorm:"not null;default:0"`
	Details            string    `gorm:"type:jsonb;default:'[]'"`
	CreatedAt          time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SyncSiteResultModel) TableName() string {
	return "sync_site_results"
}

// ToDomain converts the persistence model to a domain SiteResult entity.
func (m *SyncSiteResultModel) ToDomain() *stocksync.SiteResult {
	var details []stocksync.SyncDetail
	if strings.TrimSpace(m.Details) != "" {
		_ = json.Unmarshal([]byte(m.Details), &details)
	}
	return &stocksync.SiteResult{
		ID:                 m.ID,
		BatchID:            m.BatchID,
		SiteID:             m.SiteID,
		SiteName:           m.SiteName,
		TotalChecked:       m.TotalChecked,
		SyncedToInstock:    m.SyncedToInstock,
		SyncedToOutofstock: m.SyncedToOutofstock,
		Failed:             m.Failed,
		Skipped:            m.Skipped,
		Noops:              m.Noops,
		Details:            details,
		CreatedAt:          m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain SiteResult entity.
func (m *SyncSiteResultModel) FromDomain(r *stocksync.SiteResult) {
	details := "[]"
	if len(r.Details) > 0 {
		if data, err := json.Marshal(r.Details); err == nil {
			details = string(data)
		}
	}
	m.ID = r.ID
	m.BatchID = r.BatchID
	m.SiteID = r.SiteID
	m.SiteName = r.SiteName
	m.TotalChecked = r.TotalChecked
	m.SyncedToInstock = r.SyncedToInstock
	m.SyncedToOutofstock = r.SyncedToOutofstock
	m.Failed = r.Failed
	m.Skipped = r.Skipped
	m.Noops = r.Noops
	m.Details = details
	m.CreatedAt = r.CreatedAt
}

// SyncSiteResultModelFromDomain creates a new persistence model from a domain SiteResult entity.
func SyncSiteResultModelFromDomain(r *stocksync.SiteResult) *SyncSiteResultModel {
	m := &SyncSiteResultModel{}
	m.FromDomain(r)
	return m
}
