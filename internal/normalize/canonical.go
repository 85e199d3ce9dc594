// Package normalize implements Normalize + Dedup (spec component I):
// canonical-URL resolution, entity-key computation, and quality-based
// deduplication across a run's collected leads.
package normalize

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/scholartriage/pipeline/internal/fetcher"
	"github.com/scholartriage/pipeline/internal/leadmodel"
	"github.com/scholartriage/pipeline/pkg/retry"
	"github.com/scholartriage/pipeline/pkg/timeutil"
	"github.com/scholartriage/pipeline/pkg/urlutil"
)

// CanonicalResolver follows one GET to discover a page's declared canonical
// URL, falling back to the normalized URL on any failure.
type CanonicalResolver struct {
	fetch      fetcher.Fetcher
	userAgent  string
	retryParam retry.RetryParam
}

// NewCanonicalResolver builds a CanonicalResolver.
func NewCanonicalResolver(fetch fetcher.Fetcher, userAgent string) *CanonicalResolver {
	return &CanonicalResolver{
		fetch:     fetch,
		userAgent: userAgent,
		retryParam: retry.NewRetryParam(
			time.Second,
			250*time.Millisecond,
			1,
			2,
			timeutil.NewBackoffParam(time.Second, 2, 10*time.Second),
		),
	}
}

// CanonicalURLOf implements canonical_url_of: fetch pageURL, follow
// redirects, read <link rel="canonical"> if present, and fall back to the
// normalized form of the final URL on any failure.
func (r *CanonicalResolver) CanonicalURLOf(ctx context.Context, pageURL string) string {
	normalizedFallback := normalizedString(pageURL)

	outcome := r.fetch.Fetch(ctx, fetcher.FetchParam{URL: pageURL, UserAgent: r.userAgent, WantBody: true}, r.retryParam)
	if outcome.Health != leadmodel.HealthOk || len(outcome.Body) == 0 {
		return normalizedFallback
	}

	finalURL := outcome.FinalURL
	if finalURL == "" {
		finalURL = pageURL
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(outcome.Body)))
	if err != nil {
		return normalizedString(finalURL)
	}

	canonicalHref, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href")
	if !ok || strings.TrimSpace(canonicalHref) == "" {
		return normalizedString(finalURL)
	}

	base, err := url.Parse(finalURL)
	if err != nil {
		return normalizedString(finalURL)
	}
	ref, err := url.Parse(canonicalHref)
	if err != nil {
		return normalizedString(finalURL)
	}

	return normalizedString(base.ResolveReference(ref).String())
}

// normalizedString applies NormalizeURL and falls back to the raw string if
// it does not parse as a URL.
func normalizedString(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	normalized := urlutil.NormalizeURL(*parsed)
	return normalized.String()
}
