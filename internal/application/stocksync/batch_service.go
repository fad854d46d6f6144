package stocksync

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/stocksync/backend/internal/domain/stocksync"
)

// BatchService is the read side of the batch audit trail.
type BatchService struct {
	batches domain.SyncBatchRepository
}

// NewBatchService creates a new BatchService
func NewBatchService(batches domain.SyncBatchRepository) *BatchService {
	return &BatchService{batches: batches}
}

// Get returns one batch
func (s *BatchService) Get(ctx context.Context, id uuid.UUID) (*BatchResponse, error) {
	batch, err := s.batches.FindBatchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToBatchResponse(batch)
	return &response, nil
}

// List returns batches newest first, optionally narrowed by status.
func (s *BatchService) List(ctx context.Context, req BatchListRequest) ([]BatchResponse, int64, error) {
	filter := domain.BatchListFilter{
		Status:   domain.BatchStatus(req.Status),
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	batches, total, err := s.batches.ListBatches(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]BatchResponse, 0, len(batches))
	for i := range batches {
		responses = append(responses, ToBatchResponse(&batches[i]))
	}
	return responses, total, nil
}

// SiteResults returns the per-site outcomes of one batch
func (s *BatchService) SiteResults(ctx context.Context, batchID uuid.UUID) ([]SiteResultResponse, error) {
	if _, err := s.batches.FindBatchByID(ctx, batchID); err != nil {
		return nil, err
	}
	results, err := s.batches.FindSiteResults(ctx, batchID)
	if err != nil {
		return nil, err
	}
	responses := make([]SiteResultResponse, 0, len(results))
	for i := range results {
		responses = append(responses, ToSiteResultResponse(&results[i]))
	}
	return responses, nil
}
