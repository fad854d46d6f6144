package stocksync

// Decision is the outcome of comparing a SKU's net stock against the
// storefront's last-known status.
type Decision struct {
	// Action is noop when the storefront already carries the target status
	Action SyncAction
	// TargetStatus is the status the storefront should carry
	TargetStatus StockStatus
}

// TargetStatusFor maps net stock to the status the storefront should carry.
// Negative net stock (oversold) decides outofstock.
func TargetStatusFor(netStock int64) StockStatus {
	if netStock > 0 {
		return StockStatusInstock
	}
	return StockStatusOutofstock
}

// Decide maps net stock plus the storefront's last-known status to a sync
// decision. Decide is pure: the same inputs always yield the same decision.
func Decide(netStock int64, previousStatus StockStatus) Decision {
	target := TargetStatusFor(netStock)
	if previousStatus == target {
		return Decision{Action: ActionNoop, TargetStatus: target}
	}
	return Decision{Action: ActionFor(target), TargetStatus: target}
}
