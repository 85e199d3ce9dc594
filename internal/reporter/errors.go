package reporter

import "github.com/scholartriage/pipeline/pkg/failure"

// WriteErrorCause classifies a Reporter write failure.
type WriteErrorCause int

const (
	ErrCauseEncodeFailed WriteErrorCause = iota
	ErrCauseWriteFailed
)

// WriteError wraps a failure producing one of the Reporter's artifacts.
// Every WriteError is recoverable: a failed report write does not
// invalidate the run that produced the leads it was trying to describe.
type WriteError struct {
	Message string
	Cause   WriteErrorCause
	Wrapped error
}

func (e WriteError) Error() string {
	if e.Wrapped != nil {
		return e.Message + ": " + e.Wrapped.Error()
	}
	return e.Message
}

func (e WriteError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

func (e WriteError) Unwrap() error {
	return e.Wrapped
}
