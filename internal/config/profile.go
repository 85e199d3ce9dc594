package config

import "strings"

// Matches reports whether searchText (already-lowercased haystack, e.g.
// rules.SearchText's output) passes this Profile's keyword allow/deny
// lists: it fails if any deny keyword appears, and - only when an allow
// list is configured - it must also contain at least one allow keyword.
func (p Profile) Matches(searchText string) bool {
	lower := strings.ToLower(searchText)
	for _, deny := range p.KeywordDeny {
		if deny != "" && strings.Contains(lower, strings.ToLower(deny)) {
			return false
		}
	}
	if len(p.KeywordAllow) == 0 {
		return true
	}
	for _, allow := range p.KeywordAllow {
		if allow != "" && strings.Contains(lower, strings.ToLower(allow)) {
			return true
		}
	}
	return false
}
