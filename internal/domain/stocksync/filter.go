package stocksync

import (
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SiteFilter holds one storefront's inclusion/exclusion configuration.
// At most one filter exists per site; an absent filter means every SKU is
// in scope.
type SiteFilter struct {
	// SiteID is the owning storefront
	SiteID uuid.UUID
	// SKUFilter is a comma-separated allow-list of SKU patterns
	// (glob syntax, e.g. "TSHIRT-*,MUG-??"). Empty means no restriction.
	SKUFilter string
	// ExcludeSKUPrefixes is a comma-separated list of SKU prefixes to drop
	ExcludeSKUPrefixes string
	// CategoryFilters is the allow-list of categories; empty means all
	CategoryFilters []string
	// ExcludeWarehouses is a comma-separated list of warehouse IDs to drop
	ExcludeWarehouses string
	// CreatedAt is when this filter was first saved
	CreatedAt time.Time
	// UpdatedAt is when this filter was last upserted
	UpdatedAt time.Time
}

// FilterInput is the attribution a candidate SKU is evaluated with.
type FilterInput struct {
	// SKU is the storefront SKU
	SKU string
	// Category is the SKU's category attribution
	Category string
	// Warehouses lists every warehouse that contributed to the SKU's stock
	Warehouses []string
}

// InScope decides whether the candidate SKU is in scope for this site.
// Rules are evaluated in a fixed order and the first applicable rule
// decides; exclusions dominate inclusions:
//
//  1. any contributing warehouse listed in ExcludeWarehouses -> excluded
//  2. SKU carrying a prefix from ExcludeSKUPrefixes -> excluded
//  3. non-empty CategoryFilters not containing the category -> excluded
//  4. non-empty SKUFilter not matching the SKU -> excluded
//  5. otherwise -> included
//
// A nil filter includes everything.
func (f *SiteFilter) InScope(in FilterInput) bool {
	if f == nil {
		return true
	}

	if excluded := splitCSV(f.ExcludeWarehouses); len(excluded) > 0 {
		for _, wh := range in.Warehouses {
			if containsString(excluded, wh) {
				return false
			}
		}
	}

	for _, prefix := range splitCSV(f.ExcludeSKUPrefixes) {
		if strings.HasPrefix(in.SKU, prefix) {
			return false
		}
	}

	if len(f.CategoryFilters) > 0 && !containsString(f.CategoryFilters, in.Category) {
		return false
	}

	if patterns := splitCSV(f.SKUFilter); len(patterns) > 0 && !matchesAny(patterns, in.SKU) {
		return false
	}

	return true
}

// matchesAny reports whether the SKU matches at least one allow-list
// pattern. Patterns use glob syntax; a pattern without metacharacters must
// match exactly.
func matchesAny(patterns []string, sku string) bool {
	for _, p := range patterns {
		if ok, err := path.Match(p, sku); err == nil && ok {
			return true
		}
	}
	return false
}

// splitCSV splits a comma-separated list, trimming whitespace and dropping
// empty items.
func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
