package robots

import (
	"bufio"
	"strconv"
	"strings"
	"time"
)

// MapResponseToRuleSet parses a robots.txt document, picks the group that
// best matches targetUserAgent (a named match beats wildcard), and returns its
// rules plus every Sitemap: line seen anywhere in the document.
func MapResponseToRuleSet(response, targetUserAgent string) ruleSet {
	groups := parseGroups(response)
	best := findBestMatchingGroup(groups, targetUserAgent)

	rs := ruleSet{sitemaps: extractSitemaps(response)}
	if best != nil {
		rs.disallow = best.disallow
		rs.allow = best.allow
		rs.crawlDelay = best.crawlDelay
	}
	return rs
}

func parseGroups(response string) []group {
	var groups []group
	var current *group

	scanner := bufio.NewScanner(strings.NewReader(response))
	for scanner.Scan() {
		line := stripComment(scanner.Text())
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, ok := splitDirective(line)
		if !ok {
			continue
		}
		switch strings.ToLower(key) {
		case "user-agent":
			if current == nil || len(current.disallow)+len(current.allow) > 0 {
				groups = append(groups, group{})
				current = &groups[len(groups)-1]
			}
			current.userAgents = append(current.userAgents, value)
		case "disallow":
			if current != nil && value != "" {
				current.disallow = append(current.disallow, value)
			}
		case "allow":
			if current != nil && value != "" {
				current.allow = append(current.allow, value)
			}
		case "crawl-delay":
			if current != nil {
				if seconds, err := strconv.ParseFloat(value, 64); err == nil {
					current.crawlDelay = time.Duration(seconds * float64(time.Second))
				}
			}
		}
	}
	return groups
}

func splitDirective(line string) (key, value string, ok bool) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:]), true
}

func stripComment(line string) string {
	if idx := strings.Index(line, "#"); idx >= 0 {
		return line[:idx]
	}
	return line
}

// findBestMatchingGroup returns the first group whose user-agent equals, or
// is contained in, targetUserAgent (case-insensitive), and otherwise the
// last wildcard "*" group.
func findBestMatchingGroup(groups []group, targetUserAgent string) *group {
	var wildcard *group
	target := strings.ToLower(targetUserAgent)

	for i := range groups {
		g := &groups[i]
		for _, ua := range g.userAgents {
			lowerUA := strings.ToLower(ua)
			if lowerUA == target || strings.Contains(target, lowerUA) {
				return g
			}
			if lowerUA == "*" {
				wildcard = g
			}
		}
	}
	return wildcard
}

func extractSitemaps(response string) []string {
	var sitemaps []string
	scanner := bufio.NewScanner(strings.NewReader(response))
	for scanner.Scan() {
		line := strings.TrimSpace(stripComment(scanner.Text()))
		key, value, ok := splitDirective(line)
		if !ok {
			continue
		}
		if strings.EqualFold(key, "sitemap") && value != "" {
			sitemaps = append(sitemaps, value)
		}
	}
	return sitemaps
}
