package robots

import "github.com/scholartriage/pipeline/pkg/failure"

// RobotsErrorCause classifies a robots.txt fetch failure.
type RobotsErrorCause int

const (
	ErrCauseNetworkFailure RobotsErrorCause = iota
	ErrCauseHttpTooManyRequests
	ErrCauseTooManyRedirects
)

// RobotsError wraps a robots.txt fetch failure. A fetch failure is never
// fatal to the run: callers fall back to a permissive (allow-all) result.
type RobotsError struct {
	Message   string
	Retryable bool
	Cause     RobotsErrorCause
}

func (e *RobotsError) Error() string {
	return e.Message
}

func (e *RobotsError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

func (e *RobotsError) IsRetryable() bool {
	return e.Retryable
}
