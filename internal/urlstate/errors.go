package urlstate

import "github.com/scholartriage/pipeline/pkg/failure"

// StoreErrorCause classifies a URL-state store failure.
type StoreErrorCause int

const (
	ErrCauseOpenFailed StoreErrorCause = iota
	ErrCauseQueryFailed
)

// StoreError wraps a failure talking to the URL-state database. Schema/open
// failures are fatal (nothing downstream can proceed without state);
// per-query failures are recoverable — callers treat the URL as unseen and
// move on.
type StoreError struct {
	Message string
	Cause   StoreErrorCause
	Wrapped error
}

func (e StoreError) Error() string {
	if e.Wrapped != nil {
		return e.Message + ": " + e.Wrapped.Error()
	}
	return e.Message
}

func (e StoreError) Severity() failure.Severity {
	if e.Cause == ErrCauseOpenFailed {
		return failure.SeverityFatal
	}
	return failure.SeverityRecoverable
}

func (e StoreError) Unwrap() error {
	return e.Wrapped
}
