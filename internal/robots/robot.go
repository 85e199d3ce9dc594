package robots

import (
	"strings"
	"time"
)

// Robot is the parsed, matched robots policy for one host, ready to answer
// per-path admission decisions.
type Robot struct {
	rules     ruleSet
	fetchedAt time.Time
}

// NewRobot builds a Robot from a fetched robots.txt response matched
// against targetUserAgent. An empty response yields a fully permissive
// Robot (no robots.txt found or it could not be fetched).
func NewRobot(result RobotsFetchResult, targetUserAgent string) Robot {
	return Robot{
		rules:     MapResponseToRuleSet(result.Response, targetUserAgent),
		fetchedAt: result.FetchedAt,
	}
}

// Decide reports whether path is allowed under this Robot's rules. The
// longest matching rule wins; Allow beats Disallow of equal length, per the
// conventional robots.txt precedence rule.
func (r Robot) Decide(path string) bool {
	allowMatch := longestMatch(r.rules.allow, path)
	disallowMatch := longestMatch(r.rules.disallow, path)

	if disallowMatch < 0 {
		return true
	}
	if allowMatch >= disallowMatch {
		return true
	}
	return false
}

// CrawlDelay returns the Crawl-delay directive's value, zero if absent.
func (r Robot) CrawlDelay() time.Duration {
	return r.rules.crawlDelay
}

// Sitemaps returns every Sitemap: line discovered in the document, used by
// the Discovery Engine as a breadth-discovery source.
func (r Robot) Sitemaps() []string {
	return r.rules.sitemaps
}

// longestMatch returns the length of the longest pattern in patterns that
// is a prefix-match (with "*" wildcard support) of path, or -1 if none
// match.
func longestMatch(patterns []string, path string) int {
	best := -1
	for _, pattern := range patterns {
		if matchesRobotsPattern(pattern, path) && len(pattern) > best {
			best = len(pattern)
		}
	}
	return best
}

func matchesRobotsPattern(pattern, path string) bool {
	if pattern == "" {
		return false
	}
	if pattern == "/" {
		return true
	}
	if !strings.Contains(pattern, "*") {
		return strings.HasPrefix(path, pattern)
	}
	parts := strings.Split(pattern, "*")
	idx := 0
	for i, part := range parts {
		if part == "" {
			continue
		}
		found := strings.Index(path[idx:], part)
		if found < 0 {
			return false
		}
		if i == 0 && found != 0 {
			return false
		}
		idx += found + len(part)
	}
	return true
}
