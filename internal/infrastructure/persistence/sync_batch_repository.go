package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stocksync/backend/internal/domain/stocksync"
	"github.com/stocksync/backend/internal/infrastructure/persistence/models"
)

// GormSyncBatchRepository implements SyncBatchRepository using GORM
type GormSyncBatchRepository struct {
	db *gorm.DB
}

// NewGormSyncBatchRepository creates a new GormSyncBatchRepository
func NewGormSyncBatchRepository(db *gorm.DB) *GormSyncBatchRepository {
	return &GormSyncBatchRepository{db: db}
}

var _ stocksync.SyncBatchRepository = (*GormSyncBatchRepository)(nil)

// CreateBatch inserts a new running batch row
func (r *GormSyncBatchRepository) CreateBatch(ctx context.Context, batch *stocksync.SyncBatch) error {
	model := models.SyncBatchModelFromDomain(batch)
	return r.db.WithContext(ctx).Create(model).Error
}

// FinalizeBatch persists the batch's terminal status, error and completion
// time.
func (r *GormSyncBatchRepository) FinalizeBatch(ctx context.Context, batch *stocksync.SyncBatch) error {
	result := r.db.WithContext(ctx).
		Model(&models.SyncBatchModel{}).
		Where("id = ?", batch.ID).
		Updates(map[string]interface{}{
			"status":       batch.Status.String(),
			"error":        batch.Error,
			"completed_at": batch.CompletedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return stocksync.ErrBatchNotFound
	}
	return nil
}

// SaveSiteResult inserts one site's outcome row
func (r *GormSyncBatchRepository) SaveSiteResult(ctx context.Context, result *stocksync.SiteResult) error {
	model := models.SyncSiteResultModelFromDomain(result)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindBatchByID returns one batch, or ErrBatchNotFound
func (r *GormSyncBatchRepository) FindBatchByID(ctx context.Context, batchID uuid.UUID) (*stocksync.SyncBatch, error) {
	var model models.SyncBatchModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", batchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, stocksync.ErrBatchNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListBatches returns batches newest first with the total row count
func (r *GormSyncBatchRepository) ListBatches(ctx context.Context, filter stocksync.BatchListFilter) ([]stocksync.SyncBatch, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SyncBatchModel{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status.String())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	var rows []models.SyncBatchModel
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	batches := make([]stocksync.SyncBatch, 0, len(rows))
	for i := range rows {
		batches = append(batches, *rows[i].ToDomain())
	}
	return batches, total, nil
}

// FindSiteResults returns every site outcome of one batch ordered by site
// name
func (r *GormSyncBatchRepository) FindSiteResults(ctx context.Context, batchID uuid.UUID) ([]stocksync.SiteResult, error) {
	var rows []models.SyncSiteResultModel
	if err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("site_name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	results := make([]stocksync.SiteResult, 0, len(rows))
	for i := range rows {
		results = append(results, *rows[i].ToDomain())
	}
	return results, nil
}
