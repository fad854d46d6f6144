package stocksync

// ResolveMetrics carries the informational counters produced while folding
// ERP records into storefront stock. These are pipeline metrics, not errors.
type ResolveMetrics struct {
	// InventoryRecords is the number of ERP inventory rows processed
	InventoryRecords int
	// MappingRecords is the number of mapping rows processed
	MappingRecords int
	// UnmappedErpSkus counts inventory rows whose ERP SKU has no mapping.
	// These are dropped: an un-mapped SKU must not propagate a false
	// out-of-stock signal to any storefront.
	UnmappedErpSkus int
	// MappingsWithoutInventory counts mapping rows whose ERP SKU carried no
	// inventory record this pass
	MappingsWithoutInventory int
	// ResolvedSkus is the number of distinct storefront SKUs produced
	ResolvedSkus int
}

// Resolve converts raw ERP inventory and mapping tables into the canonical
// per-storefront-SKU net stock. ERP-SKU net stock is computed first, then
// folded through the mapping table: every ERP SKU mapping to the same
// storefront SKU contributes its net stock to the sum.
func Resolve(inventory []InventoryRecord, mappings []MappingRecord) (map[string]*ResolvedStock, ResolveMetrics) {
	metrics := ResolveMetrics{
		InventoryRecords: len(inventory),
		MappingRecords:   len(mappings),
	}

	byErpSku := make(map[string]*InventoryRecord, len(inventory))
	for i := range inventory {
		rec := &inventory[i]
		byErpSku[rec.ErpSku] = rec
	}

	mapped := make(map[string]bool, len(inventory))
	resolved := make(map[string]*ResolvedStock)

	for i := range mappings {
		m := &mappings[i]
		rec, ok := byErpSku[m.ErpSku]
		if !ok {
			metrics.MappingsWithoutInventory++
			continue
		}
		mapped[m.ErpSku] = true

		entry, ok := resolved[m.StorefrontSku]
		if !ok {
			entry = &ResolvedStock{StorefrontSku: m.StorefrontSku}
			resolved[m.StorefrontSku] = entry
		}
		entry.NetStock += rec.NetStock()
		if entry.Category == "" {
			entry.Category = m.Category
		}
		if rec.WarehouseID != "" && !containsString(entry.Warehouses, rec.WarehouseID) {
			entry.Warehouses = append(entry.Warehouses, rec.WarehouseID)
		}
	}

	for sku := range byErpSku {
		if !mapped[sku] {
			metrics.UnmappedErpSkus++
		}
	}
	metrics.ResolvedSkus = len(resolved)

	return resolved, metrics
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
