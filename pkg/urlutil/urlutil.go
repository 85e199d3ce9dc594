package urlutil

import (
	"net/url"
	"sort"
	"strings"
)

// trackingParams are query keys stripped during normalization because they
// identify the referrer or campaign that produced a click, not the resource
// itself. Matching is case-insensitive.
var trackingParams = map[string]struct{}{
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_term":     {},
	"utm_content":  {},
	"utm_id":       {},
	"gclid":        {},
	"fbclid":       {},
	"msclkid":      {},
	"mc_cid":       {},
	"mc_eid":       {},
	"_ga":          {},
	"_gl":          {},
	"phpsessid":    {},
	"jsessionid":   {},
	"sessionid":    {},
	"ref":          {},
	"referrer":     {},
	"igshid":       {},
	"icid":         {},
	"spm":          {},
}

// NormalizeURL applies the deterministic normalization used to decide
// whether two spellings of a URL name the same resource.
//
// The normalization follows these rules:
//   - http is upgraded to https
//   - Scheme and host are lowercased
//   - Default ports are omitted (e.g., :80 for http, :443 for https)
//   - Path is cleaned (trailing slashes removed, except for root "/")
//   - Fragments are removed
//   - Tracking query parameters are stripped; remaining keys are lowercased
//     and sorted so equivalent query strings compare equal byte-for-byte
//
// Properties:
//   - Pure: no state, no memory
//   - Deterministic: same input always produces same output
//   - Idempotent: NormalizeURL(NormalizeURL(u)) == NormalizeURL(u)
//   - Context-free: does not depend on crawl history
func NormalizeURL(sourceURL url.URL) url.URL {
	normalized := sourceURL

	originalScheme := lowerASCII(normalized.Scheme)
	if originalScheme == "http" {
		normalized.Scheme = "https"
	}
	normalized.Scheme = lowerASCII(normalized.Scheme)
	normalized.Host = lowerASCII(normalized.Host)

	if host, port := normalized.Hostname(), normalized.Port(); port != "" {
		if (originalScheme == "http" && port == "80") ||
			(normalized.Scheme == "https" && port == "443") {
			normalized.Host = host
		}
	}

	if len(normalized.Path) > 1 {
		normalized.Path = stripTrailingSlash(normalized.Path)
	}

	normalized.Fragment = ""
	normalized.RawFragment = ""

	normalized.RawQuery = normalizeQuery(normalized.Query())
	normalized.ForceQuery = false

	return normalized
}

// Canonicalize is an alias kept for call sites grounded in the teacher's
// naming; it is identical to NormalizeURL.
func Canonicalize(sourceURL url.URL) url.URL {
	return NormalizeURL(sourceURL)
}

// normalizeQuery drops tracking params and re-encodes the remainder with
// lowercased keys in sorted order.
func normalizeQuery(values url.Values) string {
	kept := make(url.Values, len(values))
	for key, vals := range values {
		lowerKey := strings.ToLower(key)
		if _, isTracking := trackingParams[lowerKey]; isTracking {
			continue
		}
		kept[lowerKey] = append(kept[lowerKey], vals...)
	}
	if len(kept) == 0 {
		return ""
	}

	keys := make([]string, 0, len(kept))
	for k := range kept {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		vals := kept[k]
		sort.Strings(vals)
		for _, v := range vals {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}

// lowerASCII converts ASCII characters to lowercase without allocating when
// no uppercase character is present.
func lowerASCII(s string) string {
	needsLower := false
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			needsLower = true
			break
		}
	}
	if !needsLower {
		return s
	}
	b := make([]byte, len(s))
	copy(b, s)
	for i := 0; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

// stripTrailingSlash removes trailing slashes from a path, preserving "/".
func stripTrailingSlash(path string) string {
	for len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	return path
}
