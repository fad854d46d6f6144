package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stocksync/backend/internal/domain/stocksync"
	"github.com/stocksync/backend/internal/infrastructure/persistence/models"
)

// GormSiteRepository implements SiteRepository using GORM
type GormSiteRepository struct {
	db *gorm.DB
}

// NewGormSiteRepository creates a new GormSiteRepository
func NewGormSiteRepository(db *gorm.DB) *GormSiteRepository {
	return &GormSiteRepository{db: db}
}

var _ stocksync.SiteRepository = (*GormSiteRepository)(nil)

// Save creates or updates a site
func (r *GormSiteRepository) Save(ctx context.Context, site *stocksync.Site) error {
	model := models.SiteModelFromDomain(site)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByID finds a site by its ID
func (r *GormSiteRepository) FindByID(ctx context.Context, id uuid.UUID) (*stocksync.Site, error) {
	var model models.SiteModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, stocksync.ErrSiteNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns every registered site ordered by name
func (r *GormSiteRepository) FindAll(ctx context.Context) ([]stocksync.Site, error) {
	var rows []models.SiteModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	sites := make([]stocksync.Site, 0, len(rows))
	for i := range rows {
		sites = append(sites, *rows[i].ToDomain())
	}
	return sites, nil
}

// FindEnabled returns the sites participating in reconciliation passes
func (r *GormSiteRepository) FindEnabled(ctx context.Context) ([]stocksync.Site, error) {
	var rows []models.SiteModel
	if err := r.db.WithContext(ctx).Where("enabled = ?", true).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	sites := make([]stocksync.Site, 0, len(rows))
	for i := range rows {
		sites = append(sites, *rows[i].ToDomain())
	}
	return sites, nil
}

// Delete removes a site by ID
func (r *GormSiteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SiteModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return stocksync.ErrSiteNotFound
	}
	return nil
}
