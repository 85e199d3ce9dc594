package sourcehealth

import "github.com/scholartriage/pipeline/pkg/failure"

// LoadError wraps a failure reading or writing the source-health table.
// Always recoverable: a missing or corrupt health file just means every
// source starts the run with a clean slate.
type LoadError struct {
	Message string
	Wrapped error
}

func (e LoadError) Error() string {
	return e.Message + ": " + e.Wrapped.Error()
}

func (e LoadError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

func (e LoadError) Unwrap() error {
	return e.Wrapped
}
