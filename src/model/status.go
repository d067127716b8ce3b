package model

// Run statuses reported by the platform
const (
	StatusPendingVersion = "PENDING_VERSION"
	StatusDelayed        = "DELAYED"
	StatusQueued         = "QUEUED"
	StatusExecuting      = "EXECUTING"
	StatusReattempting   = "REATTEMPTING"
	StatusFrozen         = "FROZEN"
	StatusCompleted      = "COMPLETED"
	StatusCanceled       = "CANCELED"
	StatusFailed         = "FAILED"
	StatusCrashed        = "CRASHED"
	StatusInterrupted    = "INTERRUPTED"
	StatusSystemFailure  = "SYSTEM_FAILURE"
	StatusExpired        = "EXPIRED"
	StatusTimedOut       = "TIMED_OUT"
)

// Display symbols
const (
	SymbolCompleted = "✓"
	SymbolFailed    = "✗"
	SymbolPending   = "⏳"
)

var failedStatuses = map[string]bool{
	StatusCanceled:      true,
	StatusFailed:        true,
	StatusCrashed:       true,
	StatusInterrupted:   true,
	StatusSystemFailure: true,
	StatusExpired:       true,
	StatusTimedOut:      true,
}

// IsFinished reports whether a run in this status can no longer change
func IsFinished(status string) bool {
	return status == StatusCompleted || failedStatuses[status]
}

// StatusSymbol maps a run status to its one-character display symbol.
// An empty status has no symbol.
func StatusSymbol(status string) string {
	switch {
	case status == "":
		return ""
	case status == StatusCompleted:
		return SymbolCompleted
	case failedStatuses[status]:
		return SymbolFailed
	default:
		return SymbolPending
	}
}
