package stocksync

import (
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// BatchStatus
// ---------------------------------------------------------------------------

// BatchStatus represents the lifecycle state of one reconciliation pass.
type BatchStatus string

const (
	// BatchStatusRunning indicates the pass is in progress
	BatchStatusRunning BatchStatus = "running"
	// BatchStatusCompleted indicates the pass finished, possibly with
	// isolated per-SKU failures
	BatchStatusCompleted BatchStatus = "completed"
	// BatchStatusFailed indicates the pass aborted before completing
	BatchStatusFailed BatchStatus = "failed"
)

// IsValid returns true if the status is valid
func (s BatchStatus) IsValid() bool {
	switch s {
	case BatchStatusRunning, BatchStatusCompleted, BatchStatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal returns true once the batch may no longer be mutated.
func (s BatchStatus) IsTerminal() bool {
	return s == BatchStatusCompleted || s == BatchStatusFailed
}

// String returns the string representation of BatchStatus
func (s BatchStatus) String() string {
	return string(s)
}

// ---------------------------------------------------------------------------
// SyncBatch
// ---------------------------------------------------------------------------

// SyncBatch is one end-to-end reconciliation pass across all enabled
// storefronts. A batch is created running and transitions exactly once to a
// terminal state.
type SyncBatch struct {
	ID          uuid.UUID
	Status      BatchStatus
	Error       string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// NewSyncBatch creates a running batch.
func NewSyncBatch() *SyncBatch {
	return &SyncBatch{
		ID:        uuid.New(),
		Status:    BatchStatusRunning,
		CreatedAt: time.Now(),
	}
}

// Complete transitions the batch to completed.
func (b *SyncBatch) Complete() error {
	return b.finish(BatchStatusCompleted, "")
}

// Fail transitions the batch to failed with the abort reason.
func (b *SyncBatch) Fail(reason string) error {
	return b.finish(BatchStatusFailed, reason)
}

func (b *SyncBatch) finish(status BatchStatus, reason string) error {
	if b.Status.IsTerminal() {
		return ErrBatchFinalized
	}
	now := time.Now()
	b.Status = status
	b.Error = reason
	b.CompletedAt = &now
	return nil
}

// ---------------------------------------------------------------------------
// SiteResult
// ---------------------------------------------------------------------------

// DefaultDetailsCap bounds the stored per-SKU action log of one site result.
const DefaultDetailsCap = 200

// SyncDetail is one per-SKU audit entry.
type SyncDetail struct {
	SKU    string     `json:"sku"`
	Action SyncAction `json:"action"`
	Error  string     `json:"error,omitempty"`
}

// SiteResult is the audit record of one storefront's SKU loop within one
// batch. The details log is capped for storage; the summary counters always
// reflect the true, uncapped totals.
type SiteResult struct {
	ID                 uuid.UUID
	BatchID            uuid.UUID
	SiteID             uuid.UUID
	SiteName           string
	TotalChecked       int
	SyncedToInstock    int
	SyncedToOutofstock int
	Failed             int
	Skipped            int
	Noops              int
	Details            []SyncDetail
	CreatedAt          time.Time

	detailsCap int
}

// NewSiteResult creates an empty result for one enabled site of one batch.
// A detailsCap <= 0 falls back to DefaultDetailsCap.
func NewSiteResult(batchID uuid.UUID, site *Site, detailsCap int) *SiteResult {
	if detailsCap <= 0 {
		detailsCap = DefaultDetailsCap
	}
	return &SiteResult{
		ID:         uuid.New(),
		BatchID:    batchID,
		SiteID:     site.ID,
		SiteName:   site.Name,
		Details:    make([]SyncDetail, 0),
		CreatedAt:  time.Now(),
		detailsCap: detailsCap,
	}
}

// RecordSkip tallies a SKU dropped by the site's filter.
func (r *SiteResult) RecordSkip(sku string) {
	r.Skipped++
	r.appendDetail(SyncDetail{SKU: sku, Action: ActionSkipped})
}

// RecordNoop tallies a SKU whose storefront status already matched.
func (r *SiteResult) RecordNoop(sku string) {
	r.TotalChecked++
	r.Noops++
	r.appendDetail(SyncDetail{SKU: sku, Action: ActionNoop})
}

// RecordSynced tallies a successfully pushed update.
func (r *SiteResult) RecordSynced(sku string, target StockStatus) {
	r.TotalChecked++
	if target == StockStatusInstock {
		r.SyncedToInstock++
	} else {
		r.SyncedToOutofstock++
	}
	r.appendDetail(SyncDetail{SKU: sku, Action: ActionFor(target)})
}

// RecordFailure tallies a per-SKU lookup or update failure. The intended
// action and the error are kept in the details log.
func (r *SiteResult) RecordFailure(sku string, action SyncAction, err error) {
	r.TotalChecked++
	r.Failed++
	detail := SyncDetail{SKU: sku, Action: action}
	if err != nil {
		detail.Error = err.Error()
	}
	r.appendDetail(detail)
}

// appendDetail appends under the storage cap. Counters are never capped.
func (r *SiteResult) appendDetail(d SyncDetail) {
	if len(r.Details) < r.detailsCap {
		r.Details = append(r.Details, d)
	}
}
