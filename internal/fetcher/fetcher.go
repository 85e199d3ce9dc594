// Package fetcher implements the Fetch Layer (spec component B): polite
// HTTP with HEAD->GET fallback, retry/backoff honouring Retry-After, and
// redirect tracking, contract "never raise" — every path yields a
// classified LinkHealth.
package fetcher

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/scholartriage/pipeline/internal/leadmodel"
	"github.com/scholartriage/pipeline/internal/metadata"
	"github.com/scholartriage/pipeline/pkg/failure"
	"github.com/scholartriage/pipeline/pkg/retry"
)

const maxRedirects = 5

// Fetcher is the single public fetch operation.
type Fetcher interface {
	Fetch(ctx context.Context, param FetchParam, retryParam retry.RetryParam) FetchOutcome
}

// HTTPFetcher is the concrete Fetcher backed by net/http.
type HTTPFetcher struct {
	metadataSink metadata.MetadataSink
	client       *http.Client
}

// NewHTTPFetcher constructs a Fetcher. client should have redirect policy
// left at its default (net/http follows up to 10 by default); this package
// enforces its own tighter cap by counting via client.CheckRedirect.
func NewHTTPFetcher(sink metadata.MetadataSink, client *http.Client) *HTTPFetcher {
	limited := *client
	limited.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return http.ErrUseLastResponse
		}
		return nil
	}
	return &HTTPFetcher{metadataSink: sink, client: &limited}
}

// Fetch sends HEAD first; if the server doesn't support HEAD usefully
// (403/405/429/5xx or a network error) it falls back to GET. Retries on
// transient statuses with exponential backoff, honouring Retry-After when
// it is at most 60s.
func (f *HTTPFetcher) Fetch(ctx context.Context, param FetchParam, retryParam retry.RetryParam) FetchOutcome {
	start := time.Now()

	// retry.Retry discards the value on a terminal error, but the spec
	// contract requires every path to yield a full classification — so the
	// last attempt's outcome is captured here regardless of success.
	var lastOutcome FetchOutcome
	result := retry.Retry(retryParam, func() (FetchOutcome, failure.ClassifiedError) {
		outcome, err := f.attempt(ctx, param)
		lastOutcome = outcome
		return outcome, err
	})

	outcome := lastOutcome
	if result.IsSuccess() {
		outcome = result.Value()
	}
	outcome.URL = param.URL
	outcome.RetryCount = result.Attempts() - 1
	outcome.FetchedAt = start

	f.metadataSink.RecordFetch(param.URL, outcome.StatusCode, time.Since(start), outcome.ContentType(), outcome.RetryCount, param.CrawlDepth)
	return outcome
}

func (f *HTTPFetcher) attempt(ctx context.Context, param FetchParam) (FetchOutcome, failure.ClassifiedError) {
	if !param.WantBody {
		headResp, headErr := f.doRequest(ctx, http.MethodHead, param, false)
		if headErr == nil && !needsGetFallback(headResp.StatusCode) {
			return f.toOutcome(param, headResp, nil), nil
		}
	}

	// Content callers (WantBody) always GET in full. The link-health path
	// only gets here after a HEAD that didn't clear, and only needs enough
	// of the body to classify the page, so it ranges the first 1KB.
	partial := !param.WantBody
	getResp, getErr := f.doRequest(ctx, http.MethodGet, param, partial)
	if getErr != nil {
		return FetchOutcome{URL: param.URL, Health: leadmodel.HealthTimeout}, getErr
	}
	body, readErr := io.ReadAll(getResp.Body)
	getResp.Body.Close()
	if readErr != nil {
		return FetchOutcome{URL: param.URL, Health: leadmodel.HealthUnknown}, FetchError{
			Message: "read response body: " + readErr.Error(), Cause: ErrCauseReadResponseBodyError, Retryable: true,
		}
	}

	outcome := f.toOutcome(param, getResp, body)
	if classified := classifyForRetry(outcome); classified != nil {
		// A retryable 429 waits out its Retry-After (at most 60s) here, so
		// the next attempt starts no earlier than the server asked.
		if retryAfter, ok := parseRetryAfter(outcome.Headers); ok && classified.(FetchError).Retryable &&
			outcome.StatusCode == http.StatusTooManyRequests && retryAfter > 0 {
			select {
			case <-time.After(retryAfter):
			case <-ctx.Done():
			}
		}
		return outcome, classified
	}
	return outcome, nil
}

func needsGetFallback(status int) bool {
	switch status {
	case http.StatusForbidden, http.StatusMethodNotAllowed, http.StatusTooManyRequests:
		return true
	default:
		return status >= 500
	}
}

func (f *HTTPFetcher) doRequest(ctx context.Context, method string, param FetchParam, partial bool) (*http.Response, failure.ClassifiedError) {
	req, err := http.NewRequestWithContext(ctx, method, param.URL, nil)
	if err != nil {
		return nil, FetchError{Message: "build request: " + err.Error(), Cause: ErrCauseNetworkFailure, Retryable: false}
	}
	req.Header.Set("User-Agent", param.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	if partial {
		req.Header.Set("Range", "bytes=0-1023")
	}
	for key, values := range param.ConditionalHeaders {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, FetchError{Message: "do request: " + err.Error(), Cause: ErrCauseTimeout, Retryable: true}
	}
	return resp, nil
}

func (f *HTTPFetcher) toOutcome(param FetchParam, resp *http.Response, body []byte) FetchOutcome {
	finalURL := param.URL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	return FetchOutcome{
		URL:         param.URL,
		FinalURL:    finalURL,
		Health:      classifyHealth(resp.StatusCode, finalURL != param.URL),
		Body:        body,
		StatusCode:  resp.StatusCode,
		Headers:     resp.Header,
		NotModified: resp.StatusCode == http.StatusNotModified,
	}
}

// classifyHealth maps an HTTP status (and whether a redirect occurred) onto
// LinkHealth. Only a confirmed 404/410 is true-dead.
func classifyHealth(status int, redirected bool) leadmodel.LinkHealth {
	switch {
	case status >= 200 && status < 300:
		return leadmodel.HealthOk
	case status == http.StatusNotModified:
		return leadmodel.HealthOk
	case status == 404 || status == 410:
		return leadmodel.HealthNotFound
	case status == http.StatusForbidden:
		return leadmodel.HealthForbidden
	case status == http.StatusTooManyRequests:
		return leadmodel.HealthRateLimited
	case status >= 500:
		return leadmodel.HealthServerError
	case status >= 300 && status < 400:
		if redirected {
			return leadmodel.HealthOk
		}
		return leadmodel.HealthRedirect
	default:
		return leadmodel.HealthUnknown
	}
}

// classifyForRetry decides whether this outcome should trigger a retry.
// Retryable statuses: 429, 500, 502, 503, 504. A 429 whose Retry-After is
// at most 60s stays retryable (attempt waits it out before retry.Retry's
// own backoff); a longer Retry-After is treated as non-retryable to avoid
// a run stalling.
func classifyForRetry(outcome FetchOutcome) failure.ClassifiedError {
	switch outcome.StatusCode {
	case http.StatusTooManyRequests:
		if retryAfter, ok := parseRetryAfter(outcome.Headers); ok && retryAfter > 60*time.Second {
			return FetchError{Message: "rate limited with long Retry-After", Cause: ErrCauseRequestTooMany, Retryable: false}
		}
		return FetchError{Message: "rate limited", Cause: ErrCauseRequestTooMany, Retryable: true}
	case 500, 502, 503, 504:
		return FetchError{Message: "server error", Cause: ErrCauseRequest5xx, Retryable: true}
	default:
		return nil
	}
}

func parseRetryAfter(h http.Header) (time.Duration, bool) {
	value := h.Get("Retry-After")
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second, true
	}
	if when, err := http.ParseTime(value); err == nil {
		return time.Until(when), true
	}
	return 0, false
}
