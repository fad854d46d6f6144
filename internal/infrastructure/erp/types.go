package erp

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/stocksync/backend/internal/domain/stocksync"
)

// ---------------------------------------------------------------------------
// Wire types
// ---------------------------------------------------------------------------

// loadFilter is the JSON-encoded Filter argument of a LoadBizObjects call.
// The matcher is always an empty And (full scan); paging happens through the
// zero-based row range.
type loadFilter struct {
	FromRowNum   int         `json:"FromRowNum"`
	ToRowNum     int         `json:"ToRowNum"`
	RequireCount bool        `json:"RequireCount"`
	Matcher      loadMatcher `json:"Matcher"`
}

type loadMatcher struct {
	Type     string   `json:"Type"`
	Matchers []string `json:"Matchers"`
}

// invokeRequest is the body of POST /OpenApi/Invoke.
type invokeRequest struct {
	ActionName string `json:"ActionName"`
	SchemaCode string `json:"SchemaCode"`
	Filter     string `json:"Filter"`
}

// invokeResponse is the ERP's envelope. Successful=false is an
// application-level failure: paging must stop and the partial result must
// not be surfaced as complete.
type invokeResponse struct {
	Successful   bool        `json:"Successful"`
	ErrorMessage string      `json:"ErrorMessage"`
	ReturnData   *returnData `json:"ReturnData"`
}

type returnData struct {
	BizObjectArray []bizObject `json:"BizObjectArray"`
}

// bizObject is one raw ERP row: dynamic field codes mapped to loosely typed
// values (the ERP emits numbers both as JSON numbers and as strings).
type bizObject map[string]json.RawMessage

// ---------------------------------------------------------------------------
// Field codes
// ---------------------------------------------------------------------------

// Raw ERP field codes. These never leave this package: rows are mapped to
// named records immediately on ingestion.
const (
	fieldInventorySku    = "F0000082"
	fieldWarehouseID     = "F0000083"
	fieldAvailableStock  = "F0000084"
	fieldSellableStock   = "F0000085"
	fieldPendingOutbound = "F0000086"
	fieldShortageQueued  = "F0000087"

	fieldMappingErpSku        = "F0000010"
	fieldMappingStorefrontSku = "F0000011"
	fieldMappingCategory      = "F0000012"
)

// toInventoryRecord maps one raw inventory row to the canonical record.
func (o bizObject) toInventoryRecord() stocksync.InventoryRecord {
	return stocksync.InventoryRecord{
		ErpSku:          o.stringField(fieldInventorySku),
		SellableStock:   o.optionalIntField(fieldSellableStock),
		AvailableStock:  o.optionalIntField(fieldAvailableStock),
		PendingOutbound: o.intField(fieldPendingOutbound),
		ShortageQueued:  o.intField(fieldShortageQueued),
		WarehouseID:     o.stringField(fieldWarehouseID),
	}
}

// toMappingRecord maps one raw mapping row to the canonical record.
func (o bizObject) toMappingRecord() stocksync.MappingRecord {
	return stocksync.MappingRecord{
		ErpSku:        o.stringField(fieldMappingErpSku),
		StorefrontSku: o.stringField(fieldMappingStorefrontSku),
		Category:      o.stringField(fieldMappingCategory),
	}
}

// stringField reads a field as a string, tolerating quoted and unquoted
// values.
func (o bizObject) stringField(code string) string {
	raw, ok := o[code]
	if !ok || len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	// Unquoted scalar (e.g. a numeric SKU)
	return string(raw)
}

// optionalIntField reads a numeric field that may be absent or null.
// The ERP emits numbers both as JSON numbers and as strings, so parsing goes
// through decimal.
func (o bizObject) optionalIntField(code string) *int64 {
	raw, ok := o[code]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var d decimal.Decimal
	if err := json.Unmarshal(raw, &d); err != nil {
		// Try a quoted number like "\"12\""
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		parsed, err := decimal.NewFromString(s)
		if err != nil {
			return nil
		}
		d = parsed
	}

	v := d.IntPart()
	return &v
}

// intField reads a numeric field, defaulting absent or malformed values to
// zero.
func (o bizObject) intField(code string) int64 {
	if v := o.optionalIntField(code); v != nil {
		return *v
	}
	return 0
}
