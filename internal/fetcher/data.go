package fetcher

import (
	"net/http"
	"time"

	"github.com/scholartriage/pipeline/internal/leadmodel"
)

// FetchParam is the input to Fetch: the URL to retrieve, the conditional
// headers carried over from a prior UrlState (if any), and the user agent
// to present. WantBody forces a full GET for callers that read the page
// (content extraction, HTML parsing); without it, Fetch stays HEAD-first
// and only pulls the first 1KB of a GET fallback, which is all the
// link-health path needs to classify a page.
type FetchParam struct {
	URL                string
	UserAgent          string
	ConditionalHeaders http.Header
	CrawlDepth         int
	WantBody           bool
}

// FetchOutcome is the terminal result of a fetch attempt. The contract is
// "never raise": every path yields a LinkHealth, and on success, body bytes
// and headers.
type FetchOutcome struct {
	URL         string
	FinalURL    string
	Health      leadmodel.LinkHealth
	Body        []byte
	StatusCode  int
	Headers     http.Header
	NotModified bool
	FetchedAt   time.Time
	RetryCount  int
}

// ContentType returns the Content-Type header, empty if absent.
func (o FetchOutcome) ContentType() string {
	return o.Headers.Get("Content-Type")
}
