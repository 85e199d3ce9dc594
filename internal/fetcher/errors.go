package fetcher

import "github.com/scholartriage/pipeline/pkg/failure"

// FetchErrorCause classifies a fetch failure for reporting and retry
// decisions.
type FetchErrorCause int

const (
	ErrCauseTimeout FetchErrorCause = iota
	ErrCauseNetworkFailure
	ErrCauseReadResponseBodyError
	ErrCauseRedirectLimitExceeded
	ErrCauseRequestForbidden
	ErrCauseRequestTooMany
	ErrCauseRequest5xx
)

// FetchError wraps a fetch failure. Retryable mirrors the spec's transient
// taxonomy: 429/5xx/timeout/network are retryable; 403 and redirect-limit
// are not.
type FetchError struct {
	Message   string
	Retryable bool
	Cause     FetchErrorCause
}

func (e FetchError) Error() string {
	return e.Message
}

func (e FetchError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

func (e FetchError) IsRetryable() bool {
	return e.Retryable
}
