package stocksync

import "context"

// ---------------------------------------------------------------------------
// StockStatus
// ---------------------------------------------------------------------------

// StockStatus represents a storefront stock status.
type StockStatus string

const (
	// StockStatusInstock indicates the product is sellable
	StockStatusInstock StockStatus = "instock"
	// StockStatusOutofstock indicates the product is not sellable
	StockStatusOutofstock StockStatus = "outofstock"
)

// IsValid returns true if the status is valid
func (s StockStatus) IsValid() bool {
	switch s {
	case StockStatusInstock, StockStatusOutofstock:
		return true
	default:
		return false
	}
}

// String returns the string representation of StockStatus
func (s StockStatus) String() string {
	return string(s)
}

// ---------------------------------------------------------------------------
// SyncAction
// ---------------------------------------------------------------------------

// SyncAction represents the action taken for one (site, SKU) pair.
type SyncAction string

const (
	// ActionNoop means the storefront already carried the target status
	ActionNoop SyncAction = "noop"
	// ActionMarkInstock means the SKU was (or should be) switched to instock
	ActionMarkInstock SyncAction = "mark_instock"
	// ActionMarkOutofstock means the SKU was (or should be) switched to outofstock
	ActionMarkOutofstock SyncAction = "mark_outofstock"
	// ActionSkipped means the SKU was dropped by the site's filter
	ActionSkipped SyncAction = "skipped"
)

// String returns the string representation of SyncAction
func (a SyncAction) String() string {
	return string(a)
}

// ActionFor returns the mark action that moves a product to the target status.
func ActionFor(target StockStatus) SyncAction {
	if target == StockStatusInstock {
		return ActionMarkInstock
	}
	return ActionMarkOutofstock
}

// ---------------------------------------------------------------------------
// ERP records
// ---------------------------------------------------------------------------

// InventoryRecord is one ERP-side product row, already mapped from the ERP's
// raw field codes by the ERP client.
type InventoryRecord struct {
	// ErpSku is the ERP-side SKU, unique within one pass
	ErpSku string
	// SellableStock is the preferred stock figure; nil when the ERP omits it
	SellableStock *int64
	// AvailableStock is the legacy fallback figure; nil when absent
	AvailableStock *int64
	// PendingOutbound is quantity committed to outbound orders
	PendingOutbound int64
	// ShortageQueued is quantity already queued against a shortage
	ShortageQueued int64
	// WarehouseID attributes the record to an ERP warehouse
	WarehouseID string
}

// NetStock computes the canonical net stock for this record:
// sellable (falling back to available, then zero) minus queued shortage.
// The result may be negative for oversold SKUs.
func (r *InventoryRecord) NetStock() int64 {
	var stock int64
	switch {
	case r.SellableStock != nil:
		stock = *r.SellableStock
	case r.AvailableStock != nil:
		stock = *r.AvailableStock
	}
	return stock - r.ShortageQueued
}

// MappingRecord maps an ERP SKU to a storefront SKU. Many ERP SKUs may map
// to the same storefront SKU.
type MappingRecord struct {
	// ErpSku is the ERP-side SKU
	ErpSku string
	// StorefrontSku is the SKU exposed by the storefront catalogs
	StorefrontSku string
	// Category is the product category used by site filters
	Category string
}

// ResolvedStock is the canonical per-storefront-SKU view produced by Resolve.
type ResolvedStock struct {
	// StorefrontSku is the storefront-side SKU
	StorefrontSku string
	// NetStock is the summed net stock of all contributing ERP SKUs
	NetStock int64
	// Category is the category attribution (first non-empty contribution)
	Category string
	// Warehouses lists every warehouse that contributed stock
	Warehouses []string
}

// ---------------------------------------------------------------------------
// Ports
// ---------------------------------------------------------------------------

// InventorySource pulls the full inventory and SKU-mapping tables from the
// ERP. Implementations must not return partial data as if complete: an
// aborted fetch surfaces ErrFetchAborted.
type InventorySource interface {
	// FetchInventory returns every inventory record the ERP holds
	FetchInventory(ctx context.Context) ([]InventoryRecord, error)

	// FetchSkuMappings returns the full ERP-SKU to storefront-SKU table
	FetchSkuMappings(ctx context.Context) ([]MappingRecord, error)
}

// StorefrontProduct is the storefront's view of one product, as returned by
// a lookup-by-SKU call.
type StorefrontProduct struct {
	// ID is the storefront-internal product ID used for update calls
	ID int64
	// SKU is the storefront SKU
	SKU string
	// StockStatus is the storefront's current status for this product
	StockStatus StockStatus
}

// StorefrontGateway performs the remote product calls against one
// storefront's product API using that site's stored credentials.
type StorefrontGateway interface {
	// LookupProduct finds a product by SKU. Returns ErrProductNotFound when
	// the search yields zero results and ErrLookupFailed when the remote
	// call itself errors.
	LookupProduct(ctx context.Context, site *Site, sku string) (*StorefrontProduct, error)

	// UpdateStock sets the product's stock status and quantity (1 for
	// instock, 0 for outofstock). Returns ErrUpdateFailed on non-success.
	UpdateStock(ctx context.Context, site *Site, productID int64, target StockStatus) error
}

// CachedProduct is a remembered (product ID, last pushed status) pair for one
// (site, SKU). A cache hit lets a pass skip the remote lookup entirely.
type CachedProduct struct {
	ProductID   int64       `json:"product_id"`
	StockStatus StockStatus `json:"stock_status"`
}

// ProductCache caches storefront product identity and last pushed status per
// (site, SKU). Implementations are best-effort: a cache failure must degrade
// to a remote lookup, never fail the pass.
type ProductCache interface {
	// Get returns the cached entry, or ok=false on a miss
	Get(ctx context.Context, siteID string, sku string) (CachedProduct, bool)

	// Put stores or replaces the entry
	Put(ctx context.Context, siteID string, sku string, product CachedProduct)

	// Invalidate drops the entry
	Invalidate(ctx context.Context, siteID string, sku string)
}
