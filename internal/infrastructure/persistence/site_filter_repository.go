package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stocksync/backend/internal/domain/stocksync"
	"github.com/stocksync/backend/internal/infrastructure/persistence/models"
)

// GormSiteFilterRepository implements SiteFilterRepository using GORM
type GormSiteFilterRepository struct {
	db *gorm.DB
}

// NewGormSiteFilterRepository creates a new GormSiteFilterRepository
func NewGormSiteFilterRepository(db *gorm.DB) *GormSiteFilterRepository {
	return &GormSiteFilterRepository{db: db}
}

var _ stocksync.SiteFilterRepository = (*GormSiteFilterRepository)(nil)

// Upsert creates or replaces the filter row keyed on site ID
func (r *GormSiteFilterRepository) Upsert(ctx context.Context, filter *stocksync.SiteFilter) error {
	model := models.SiteFilterModelFromDomain(filter)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "site_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"sku_filter",
			"exclude_sku_prefixes",
			"category_filters",
			"exclude_warehouses",
			"updated_at",
		}),
	}).Create(model).Error
}

// FindBySiteID returns the site's filter, or ErrFilterNotFound
func (r *GormSiteFilterRepository) FindBySiteID(ctx context.Context, siteID uuid.UUID) (*stocksync.SiteFilter, error) {
	var model models.SiteFilterModel
	if err := r.db.WithContext(ctx).First(&model, "site_id = ?", siteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, stocksync.ErrFilterNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// DeleteBySiteID removes the site's filter. Deleting an absent filter is a
// no-op.
func (r *GormSiteFilterRepository) DeleteBySiteID(ctx context.Context, siteID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.SiteFilterModel{}, "site_id = ?", siteID).Error
}
