package stocksync

import "errors"

var (
	// Pass-level errors
	ErrAlreadyRunning     = errors.New("stocksync: a reconciliation pass is already running")
	ErrFetchAborted       = errors.New("stocksync: ERP fetch aborted, partial inventory is unsafe to reconcile")
	ErrPersistenceFailure = errors.New("stocksync: failed to persist batch state")

	// Per-SKU storefront errors. These are isolated and counted, never fatal
	// to the batch.
	ErrProductNotFound = errors.New("stocksync: product not found on storefront")
	ErrLookupFailed    = errors.New("stocksync: storefront product lookup failed")
	ErrUpdateFailed    = errors.New("stocksync: storefront product update failed")

	// Site errors
	ErrSiteNotFound       = errors.New("stocksync: site not found")
	ErrSiteInvalidName    = errors.New("stocksync: site name is required")
	ErrSiteInvalidBaseURL = errors.New("stocksync: site base URL must be a valid http(s) URL")
	ErrSiteMissingAPIKey  = errors.New("stocksync: site API key and secret are required")

	// Filter errors
	ErrFilterNotFound = errors.New("stocksync: site filter not found")

	// Batch errors
	ErrBatchNotFound  = errors.New("stocksync: sync batch not found")
	ErrBatchFinalized = errors.New("stocksync: sync batch already reached a terminal state")
)
