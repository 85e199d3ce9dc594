package dispatch

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/scholartriage/pipeline/internal/fetcher"
	"github.com/scholartriage/pipeline/internal/leadmodel"
	"github.com/scholartriage/pipeline/pkg/retry"
)

// discoverChildLinks fetches pageURL and returns every a[href] resolved to
// an absolute URL, shared by the university directory BFS and the
// third-party index scan.
func discoverChildLinks(ctx context.Context, fetch fetcher.Fetcher, userAgent string, retryParam retry.RetryParam, pageURL url.URL) []*url.URL {
	outcome := fetch.Fetch(ctx, fetcher.FetchParam{URL: pageURL.String(), UserAgent: userAgent, WantBody: true}, retryParam)
	if outcome.Health != leadmodel.HealthOk || len(outcome.Body) == 0 {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(outcome.Body)))
	if err != nil {
		return nil
	}

	var links []*url.URL
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		links = append(links, pageURL.ResolveReference(ref))
	})
	return links
}
