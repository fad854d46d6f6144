package stocksync

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	domain "github.com/stocksync/backend/internal/domain/stocksync"
)

// ServiceOptions tunes the reconciliation pipeline.
type ServiceOptions struct {
	// SiteConcurrency bounds how many sites run their SKU loops in parallel
	SiteConcurrency int
	// SKUWorkers bounds the per-site worker pool. Per-site product lookups
	// tolerate more parallelism than the ERP paging endpoint, but each
	// storefront has its own rate tolerance, so this stays small.
	SKUWorkers int
	// DetailsCap bounds the stored per-SKU action log per site result
	DetailsCap int
	// PassTimeout caps one pass end to end so a stuck remote call cannot
	// hold the run guard indefinitely. Zero means the caller's context rules.
	PassTimeout time.Duration
}

// DefaultServiceOptions returns the default pipeline tuning.
func DefaultServiceOptions() ServiceOptions {
	return ServiceOptions{
		SiteConcurrency: 4,
		SKUWorkers:      4,
		DetailsCap:      domain.DefaultDetailsCap,
		PassTimeout:     10 * time.Minute,
	}
}

func (o *ServiceOptions) normalize() {
	if o.SiteConcurrency <= 0 {
		o.SiteConcurrency = 4
	}
	if o.SKUWorkers <= 0 {
		o.SKUWorkers = 4
	}
	if o.DetailsCap <= 0 {
		o.DetailsCap = domain.DefaultDetailsCap
	}
}

// SyncService runs reconciliation passes: one ERP fetch, one resolve, then
// independent per-site SKU loops, with the whole pass admitted through the
// run guard.
type SyncService struct {
	erp     domain.InventorySource
	gateway domain.StorefrontGateway
	sites   domain.SiteRepository
	filters domain.SiteFilterRepository
	batches domain.SyncBatchRepository
	cache   domain.ProductCache
	guard   *domain.RunGuard
	opts    ServiceOptions
	logger  *zap.Logger
}

// NewSyncService creates the pass orchestrator. cache may be nil to disable
// product caching.
func NewSyncService(
	erp domain.InventorySource,
	gateway domain.StorefrontGateway,
	sites domain.SiteRepository,
	filters domain.SiteFilterRepository,
	batches domain.SyncBatchRepository,
	cache domain.ProductCache,
	guard *domain.RunGuard,
	opts ServiceOptions,
	logger *zap.Logger,
) *SyncService {
	opts.normalize()
	return &SyncService{
		erp:     erp,
		gateway: gateway,
		sites:   sites,
		filters: filters,
		batches: batches,
		cache:   cache,
		guard:   guard,
		opts:    opts,
		logger:  logger,
	}
}

// Guard exposes the run guard for trigger surfaces.
func (s *SyncService) Guard() *domain.RunGuard {
	return s.guard
}

// RunPass executes one end-to-end reconciliation pass. A second concurrent
// call returns an "already running" result without touching the first pass.
// Only ERP-fetch failures abort the pass; site- and SKU-level failures are
// recovered locally and rolled into counters.
func (s *SyncService) RunPass(ctx context.Context) (*PassResult, error) {
	if !s.guard.TryAcquire() {
		s.logger.Info("Reconciliation pass skipped, one is already running")
		return &PassResult{Success: false, Skipped: true, Error: domain.ErrAlreadyRunning.Error()}, nil
	}
	defer s.guard.Release()

	if s.opts.PassTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.PassTimeout)
		defer cancel()
	}

	batch := domain.NewSyncBatch()
	if err := s.batches.CreateBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
	}

	s.logger.Info("Reconciliation pass started", zap.String("batch_id", batch.ID.String()))

	result, err := s.executePass(ctx, batch)
	if err != nil {
		s.failBatch(ctx, batch, err)
		result.Error = err.Error()
		return result, err
	}

	if err := batch.Complete(); err == nil {
		if err := s.batches.FinalizeBatch(ctx, batch); err != nil {
			return result, fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
		}
	}

	s.logger.Info("Reconciliation pass completed",
		zap.String("batch_id", batch.ID.String()),
		zap.Int("total_checked", result.Stats.TotalChecked),
		zap.Int("synced_to_instock", result.Stats.TotalSyncedInstock),
		zap.Int("synced_to_outofstock", result.Stats.TotalSyncedOutofstock),
		zap.Int("failed", result.Stats.TotalFailed),
		zap.Int("skipped", result.Stats.TotalSkipped),
	)
	return result, nil
}

// executePass fetches, resolves and fans out across sites. The returned
// PassResult is always usable even when err is non-nil.
func (s *SyncService) executePass(ctx context.Context, batch *domain.SyncBatch) (*PassResult, error) {
	result := &PassResult{BatchID: batch.ID}

	inventory, err := s.erp.FetchInventory(ctx)
	if err != nil {
		return result, err
	}
	mappings, err := s.erp.FetchSkuMappings(ctx)
	if err != nil {
		return result, err
	}

	resolved, metrics := domain.Resolve(inventory, mappings)
	result.Stats.UnmappedErpSkus = metrics.UnmappedErpSkus
	result.Stats.ResolvedSkus = metrics.ResolvedSkus

	s.logger.Info("ERP data resolved",
		zap.String("batch_id", batch.ID.String()),
		zap.Int("inventory_records", metrics.InventoryRecords),
		zap.Int("mapping_records", metrics.MappingRecords),
		zap.Int("resolved_skus", metrics.ResolvedSkus),
		zap.Int("unmapped_erp_skus", metrics.UnmappedErpSkus),
		zap.Int("mappings_without_inventory", metrics.MappingsWithoutInventory),
	)

	sites, err := s.sites.FindEnabled(ctx)
	if err != nil {
		return result, fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
	}

	// Deterministic per-site processing order
	skus := make([]string, 0, len(resolved))
	for sku := range resolved {
		skus = append(skus, sku)
	}
	sort.Strings(skus)

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		persistErr error
	)
	sem := make(chan struct{}, s.opts.SiteConcurrency)

	for i := range sites {
		site := sites[i]
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			siteResult := s.processSite(ctx, batch, &site, skus, resolved)

			mu.Lock()
			defer mu.Unlock()
			result.Stats.add(siteResult)
			if err := s.batches.SaveSiteResult(ctx, siteResult); err != nil {
				s.logger.Error("Failed to persist site result",
					zap.String("batch_id", batch.ID.String()),
					zap.String("site_id", site.ID.String()),
					zap.Error(err),
				)
				if persistErr == nil {
					persistErr = fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
				}
			}
		}()
	}
	wg.Wait()

	if persistErr != nil {
		return result, persistErr
	}
	result.Success = true
	return result, nil
}

// processSite runs one storefront's SKU loop. Failures inside the loop are
// recorded per SKU and never escape the site.
func (s *SyncService) processSite(ctx context.Context, batch *domain.SyncBatch, site *domain.Site, skus []string, resolved map[string]*domain.ResolvedStock) *domain.SiteResult {
	siteResult := domain.NewSiteResult(batch.ID, site, s.opts.DetailsCap)

	// Loaded once per pass, reused for every SKU (no per-SKU I/O)
	filter, err := s.filters.FindBySiteID(ctx, site.ID)
	if err != nil && !errors.Is(err, domain.ErrFilterNotFound) {
		s.logger.Warn("Failed to load site filter, treating all SKUs as in scope",
			zap.String("site_id", site.ID.String()),
			zap.Error(err),
		)
		filter = nil
	}

	var mu sync.Mutex
	jobs := make(chan *domain.ResolvedStock)

	var workers sync.WaitGroup
	for w := 0; w < s.opts.SKUWorkers; w++ {
		workers.Add(1)
		go func() {
			defer workers.Done()
			for entry := range jobs {
				s.syncOne(ctx, site, entry, siteResult, &mu)
			}
		}()
	}

	for _, sku := range skus {
		entry := resolved[sku]
		if !filter.InScope(domain.FilterInput{SKU: entry.StorefrontSku, Category: entry.Category, Warehouses: entry.Warehouses}) {
			mu.Lock()
			siteResult.RecordSkip(entry.StorefrontSku)
			mu.Unlock()
			continue
		}
		jobs <- entry
	}
	close(jobs)
	workers.Wait()

	s.logger.Debug("Site processed",
		zap.String("batch_id", batch.ID.String()),
		zap.String("site", site.Name),
		zap.Int("checked", siteResult.TotalChecked),
		zap.Int("failed", siteResult.Failed),
		zap.Int("skipped", siteResult.Skipped),
	)
	return siteResult
}

// syncOne reconciles one (site, SKU) pair: establish the last-known status
// (cache or remote lookup), decide, and push the update when needed.
func (s *SyncService) syncOne(ctx context.Context, site *domain.Site, entry *domain.ResolvedStock, siteResult *domain.SiteResult, mu *sync.Mutex) {
	sku := entry.StorefrontSku
	target := domain.TargetStatusFor(entry.NetStock)

	var (
		productID int64
		previous  domain.StockStatus
		fromCache bool
	)

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, site.ID.String(), sku); ok {
			productID = cached.ProductID
			previous = cached.StockStatus
			fromCache = true
		}
	}

	if !fromCache {
		product, err := s.gateway.LookupProduct(ctx, site, sku)
		if err != nil {
			mu.Lock()
			siteResult.RecordFailure(sku, domain.ActionFor(target), err)
			mu.Unlock()
			return
		}
		productID = product.ID
		previous = product.StockStatus
	}

	decision := domain.Decide(entry.NetStock, previous)
	if decision.Action == domain.ActionNoop {
		mu.Lock()
		siteResult.RecordNoop(sku)
		mu.Unlock()
		if s.cache != nil && !fromCache {
			s.cache.Put(ctx, site.ID.String(), sku, domain.CachedProduct{ProductID: productID, StockStatus: previous})
		}
		return
	}

	if err := s.gateway.UpdateStock(ctx, site, productID, decision.TargetStatus); err != nil {
		// A stale cached product ID must not poison the next pass
		if s.cache != nil && fromCache {
			s.cache.Invalidate(ctx, site.ID.String(), sku)
		}
		mu.Lock()
		siteResult.RecordFailure(sku, decision.Action, err)
		mu.Unlock()
		return
	}

	if s.cache != nil {
		s.cache.Put(ctx, site.ID.String(), sku, domain.CachedProduct{ProductID: productID, StockStatus: decision.TargetStatus})
	}
	mu.Lock()
	siteResult.RecordSynced(sku, decision.TargetStatus)
	mu.Unlock()
}

// failBatch moves the batch to failed, best effort.
func (s *SyncService) failBatch(ctx context.Context, batch *domain.SyncBatch, cause error) {
	s.logger.Error("Reconciliation pass aborted",
		zap.String("batch_id", batch.ID.String()),
		zap.Error(cause),
	)
	if err := batch.Fail(cause.Error()); err != nil {
		return
	}
	if err := s.batches.FinalizeBatch(ctx, batch); err != nil {
		s.logger.Error("Failed to mark batch failed",
			zap.String("batch_id", batch.ID.String()),
			zap.Error(err),
		)
	}
}
