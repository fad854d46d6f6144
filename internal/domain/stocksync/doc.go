// Package stocksync contains the stock reconciliation bounded context.
// It keeps stock-availability state consistent between the authoritative
// ERP inventory and one or more independently operated storefronts.
//
// Key concepts:
//   - InventoryRecord / MappingRecord: canonical ERP data, mapped from raw
//     ERP field codes at the client boundary
//   - Resolve: computes per-storefront-SKU net stock with many-to-one folding
//   - SiteFilter: per-storefront inclusion/exclusion rules, exclusions dominate
//   - Decide: maps net stock plus last-known status to a sync action
//   - SyncBatch / SiteResult: the persisted audit trail of one pass
//   - RunGuard: process-local single-flight latch over passes
//
// Design Pattern: Ports & Adapters
//   - Ports (InventorySource, StorefrontGateway, repositories) are defined here
//   - Adapters (ERP client, WooCommerce client, GORM repositories) are in the
//     infrastructure layer
package stocksync
