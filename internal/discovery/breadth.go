package discovery

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/scholartriage/pipeline/internal/leadmodel"
	"github.com/scholartriage/pipeline/internal/robots"
)

var wellKnownSitemapPaths = []string{"/sitemap.xml", "/sitemap_index.xml", "/sitemaps.xml"}

// BreadthDiscover implements the spec's per-source breadth discovery mode:
// robots.txt Sitemap: lines, well-known sitemap paths, RSS/Atom feed
// autodiscovery, and configured search endpoints. Every candidate carries
// discovery_source so downstream validation can weigh it accordingly.
func (e *Engine) BreadthDiscover(ctx context.Context, source leadmodel.Source) []leadmodel.CandidateURL {
	var candidates []leadmodel.CandidateURL

	parsed, err := url.Parse(source.URL)
	if err != nil {
		return nil
	}

	robotResult, robotErr := e.robotsFetch.Fetch(ctx, parsed.Scheme, parsed.Host)
	sitemapURLs := map[string]struct{}{}
	if robotErr == nil {
		robot := robots.NewRobot(robotResult, e.userAgent)
		for _, sm := range robot.Sitemaps() {
			sitemapURLs[sm] = struct{}{}
		}
	}
	for _, path := range wellKnownSitemapPaths {
		sitemapURLs[parsed.Scheme+"://"+parsed.Host+path] = struct{}{}
	}

	visited := make(map[string]struct{})
	for sitemapURL := range sitemapURLs {
		e.traverseSitemap(ctx, source.Name, sitemapURL, visited, &candidates)
		if e.limits.MaxTotalURLs > 0 && len(candidates) >= e.limits.MaxTotalURLs {
			break
		}
	}

	candidates = append(candidates, e.discoverFeeds(ctx, source, parsed)...)
	candidates = append(candidates, e.discoverSearchEndpoints(ctx, source)...)

	return dedupeByURL(candidates, e.limits.MaxTotalURLs)
}

// discoverFeeds fetches the seed page and looks for
// <link rel="alternate" type="application/rss+xml|atom+xml" href="...">.
func (e *Engine) discoverFeeds(ctx context.Context, source leadmodel.Source, seed *url.URL) []leadmodel.CandidateURL {
	outcome := e.fetchURL(ctx, source.URL)
	if outcome.Health != leadmodel.HealthOk || len(outcome.Body) == 0 {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(outcome.Body)))
	if err != nil {
		return nil
	}

	var candidates []leadmodel.CandidateURL
	doc.Find("link[rel='alternate']").Each(func(_ int, sel *goquery.Selection) {
		feedType, _ := sel.Attr("type")
		if !strings.Contains(feedType, "rss") && !strings.Contains(feedType, "atom") {
			return
		}
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return
		}
		resolved := resolveURL(seed, href)
		if resolved == "" {
			return
		}
		discoverySource := leadmodel.DiscoveryRSS
		if strings.Contains(feedType, "atom") {
			discoverySource = leadmodel.DiscoveryAtom
		}
		candidates = append(candidates, newCandidate(resolved, source.Name, source.URL, 0.5, "feed autodiscovery", discoverySource))
	})
	return candidates
}

// discoverSearchEndpoints combines configured search_endpoints with
// search_keywords (substituting each keyword for "{query}") and emits every
// resulting search URL as a low-confidence candidate. It does not fetch the
// search pages; link extraction happens via the seeded BFS once validated.
func (e *Engine) discoverSearchEndpoints(ctx context.Context, source leadmodel.Source) []leadmodel.CandidateURL {
	if len(source.SearchEndpoints) == 0 || len(source.SearchKeywords) == 0 {
		return nil
	}
	var candidates []leadmodel.CandidateURL
	for _, endpoint := range source.SearchEndpoints {
		for _, keyword := range source.SearchKeywords {
			searchURL := strings.ReplaceAll(endpoint, "{query}", url.QueryEscape(keyword))
			candidates = append(candidates, newCandidate(searchURL, source.Name, source.URL, 0.4, "configured search endpoint", leadmodel.DiscoverySearch))
		}
	}
	return candidates
}

func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
