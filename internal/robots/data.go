// Package robots fetches, caches, and interprets robots.txt: a Robot
// answers per-path Allow/Disallow decisions and exposes the Crawl-delay and
// Sitemap: lines. The Discovery Engine uses only the Sitemap: lines, as a
// discovery source; it does not consult Decide before fetching a page.
package robots

import "time"

// RobotsFetchResult is the outcome of fetching a robots.txt document.
type RobotsFetchResult struct {
	Response    string
	FetchedAt   time.Time
	SourceURL   string
	HTTPStatus  int
	ContentType string
}

// cachedResult is the JSON-serializable form stored in the cache.
type cachedResult struct {
	Response    string    `json:"response"`
	FetchedAt   time.Time `json:"fetched_at"`
	SourceURL   string    `json:"source_url"`
	HTTPStatus  int       `json:"http_status"`
	ContentType string    `json:"content_type"`
}

// group is one User-agent block within a robots.txt document.
type group struct {
	userAgents []string
	disallow   []string
	allow      []string
	crawlDelay time.Duration
}

// ruleSet is the parsed, UA-matched rule set for one host.
type ruleSet struct {
	disallow   []string
	allow      []string
	crawlDelay time.Duration
	sitemaps   []string
}
