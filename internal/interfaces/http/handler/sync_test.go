package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	stocksyncapp "github.com/stocksync/backend/internal/application/stocksync"
	"github.com/stocksync/backend/internal/domain/stocksync"
	"github.com/stocksync/backend/internal/interfaces/http/dto"
)

// Mock ERP and storefront for pass triggering

type mockInventorySource struct {
	inventory []stocksync.InventoryRecord
	mappings  []stocksync.MappingRecord
}

func (m *mockInventorySource) FetchInventory(ctx context.Context) ([]stocksync.InventoryRecord, error) {
	return m.inventory, nil
}

func (m *mockInventorySource) FetchSkuMappings(ctx context.Context) ([]stocksync.MappingRecord, error) {
	return m.mappings, nil
}

type mockStorefrontGateway struct {
	products map[string]*stocksync.StorefrontProduct
	updates  int
}

func (m *mockStorefrontGateway) LookupProduct(ctx context.Context, site *stocksync.Site, sku string) (*stocksync.StorefrontProduct, error) {
	if product, ok := m.products[sku]; ok {
		copied := *product
		return &copied, nil
	}
	return nil, stocksync.ErrProductNotFound
}

func (m *mockStorefrontGateway) UpdateStock(ctx context.Context, site *stocksync.Site, productID int64, target stocksync.StockStatus) error {
	m.updates++
	return nil
}

type mockBatchRepository struct {
	batches map[uuid.UUID]*stocksync.SyncBatch
	results map[uuid.UUID][]stocksync.SiteResult
}

func newMockBatchRepository() *mockBatchRepository {
	return &mockBatchRepository{
		batches: make(map[uuid.UUID]*stocksync.SyncBatch),
		results: make(map[uuid.UUID][]stocksync.SiteResult),
	}
}

func (m *mockBatchRepository) CreateBatch(ctx context.Context, batch *stocksync.SyncBatch) error {
	copied := *batch
	m.batches[batch.ID] = &copied
	return nil
}

func (m *mockBatchRepository) FinalizeBatch(ctx context.Context, batch *stocksync.SyncBatch) error {
	if _, ok := m.batches[batch.ID]; !ok {
		return stocksync.ErrBatchNotFound
	}
	copied := *batch
	m.batches[batch.ID] = &copied
	return nil
}

func (m *mockBatchRepository) SaveSiteResult(ctx context.Context, result *stocksync.SiteResult) error {
	m.results[result.BatchID] = append(m.results[result.BatchID], *result)
	return nil
}

func (m *mockBatchRepository) FindBatchByID(ctx context.Context, batchID uuid.UUID) (*stocksync.SyncBatch, error) {
	if batch, ok := m.batches[batchID]; ok {
		copied := *batch
		return &copied, nil
	}
	return nil, stocksync.ErrBatchNotFound
}

func (m *mockBatchRepository) ListBatches(ctx context.Context, filter stocksync.BatchListFilter) ([]stocksync.SyncBatch, int64, error) {
	var result []stocksync.SyncBatch
	for _, batch := range m.batches {
		if filter.Status != "" && batch.Status != filter.Status {
			continue
		}
		result = append(result, *batch)
	}
	return result, int64(len(result)), nil
}

func (m *mockBatchRepository) FindSiteResults(ctx context.Context, batchID uuid.UUID) ([]stocksync.SiteResult, error) {
	return m.results[batchID], nil
}

func int64Ptr(v int64) *int64 { return &v }

func setupSyncTestHandler(t *testing.T) (*SyncHandler, *mockSiteRepository, *mockBatchRepository, *stocksyncapp.SyncService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	siteRepo := newMockSiteRepository()
	filterRepo := newMockSiteFilterRepository()
	batchRepo := newMockBatchRepository()

	erp := &mockInventorySource{
		inventory: []stocksync.InventoryRecord{
			{ErpSku: "E-1", SellableStock: int64Ptr(5), WarehouseID: "WH-1"},
		},
		mappings: []stocksync.MappingRecord{
			{ErpSku: "E-1", StorefrontSku: "WIDGET-1"},
		},
	}
	gateway := &mockStorefrontGateway{
		products: map[string]*stocksync.StorefrontProduct{
			"WIDGET-1": {ID: 101, SKU: "WIDGET-1", StockStatus: stocksync.StockStatusOutofstock},
		},
	}

	syncService := stocksyncapp.NewSyncService(
		erp, gateway, siteRepo, filterRepo, batchRepo, nil,
		stocksync.NewRunGuard(), stocksyncapp.DefaultServiceOptions(), zap.NewNop(),
	)
	batchService := stocksyncapp.NewBatchService(batchRepo)

	return NewSyncHandler(syncService, batchService), siteRepo, batchRepo, syncService
}

func TestSyncHandler_Trigger_Success(t *testing.T) {
	handler, siteRepo, batchRepo, _ := setupSyncTestHandler(t)
	createStoredSite(t, siteRepo, "Main Shop")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/sync/trigger", nil)

	handler.Trigger(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, batchRepo.batches, 1)
	for _, batch := range batchRepo.batches {
		assert.Equal(t, stocksync.BatchStatusCompleted, batch.Status)
	}
}

func TestSyncHandler_Trigger_AlreadyRunning(t *testing.T) {
	handler, siteRepo, _, syncService := setupSyncTestHandler(t)
	createStoredSite(t, siteRepo, "Main Shop")

	require.True(t, syncService.Guard().TryAcquire())
	defer syncService.Guard().Release()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/sync/trigger", nil)

	handler.Trigger(c)

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, dto.ErrCodeSyncRunning, resp.Error.Code)
}

func TestSyncHandler_Status(t *testing.T) {
	handler, _, _, syncService := setupSyncTestHandler(t)

	require.True(t, syncService.Guard().TryAcquire())
	defer syncService.Guard().Release()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/sync/status", nil)

	handler.Status(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool               `json:"success"`
		Data    SyncStatusResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Running)
	assert.NotNil(t, resp.Data.LastStartedAt)
}

func TestSyncHandler_ListBatches(t *testing.T) {
	handler, _, batchRepo, _ := setupSyncTestHandler(t)

	batch := stocksync.NewSyncBatch()
	require.NoError(t, batchRepo.CreateBatch(context.Background(), batch))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/sync/batches?status=running", nil)

	handler.ListBatches(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)
	assert.Equal(t, 1, resp.Meta.Page)
}

func TestSyncHandler_ListBatches_InvalidStatus(t *testing.T) {
	handler, _, _, _ := setupSyncTestHandler(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/sync/batches?status=bogus", nil)

	handler.ListBatches(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSyncHandler_GetBatch_NotFound(t *testing.T) {
	handler, _, _, _ := setupSyncTestHandler(t)

	id := uuid.New()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/sync/batches/"+id.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	handler.GetBatch(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSyncHandler_BatchResults(t *testing.T) {
	handler, siteRepo, batchRepo, _ := setupSyncTestHandler(t)
	site := createStoredSite(t, siteRepo, "Main Shop")

	batch := stocksync.NewSyncBatch()
	require.NoError(t, batchRepo.CreateBatch(context.Background(), batch))
	result := stocksync.NewSiteResult(batch.ID, site, 0)
	result.RecordNoop("WIDGET-1")
	require.NoError(t, batchRepo.SaveSiteResult(context.Background(), result))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/sync/batches/"+batch.ID.String()+"/results", nil)
	c.Params = gin.Params{{Key: "id", Value: batch.ID.String()}}

	handler.BatchResults(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Main Shop")
}
