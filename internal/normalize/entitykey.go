package normalize

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/scholartriage/pipeline/internal/leadmodel"
	"github.com/scholartriage/pipeline/pkg/hashutil"
)

var whitespacePattern = regexp.MustCompile(`\s+`)

// collapseWhitespace lowercases and collapses runs of whitespace to a
// single space, trimming the ends.
func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(strings.ToLower(s), " "))
}

// providerOf resolves the `provider` entity-key component: the lead's
// source domain if present, else its normalized source name.
func providerOf(lead leadmodel.Lead) string {
	if lead.SourceDomain != "" {
		return strings.ToLower(lead.SourceDomain)
	}
	return collapseWhitespace(lead.Source)
}

// deadlineBucketOf resolves the `deadline` entity-key component: the
// structured deadline date if known, else a bucketed string, with TBD-like
// labels collapsing to "unknown".
func deadlineBucketOf(lead leadmodel.Lead) string {
	if lead.DeadlineDate != nil {
		return lead.DeadlineDate.Format("2006-01-02")
	}
	switch collapseWhitespace(lead.Deadline) {
	case "", "tbd", "check website", "see website", "rolling", "unknown":
		return "unknown"
	default:
		return collapseWhitespace(lead.Deadline)
	}
}

// canonicalOrURL prefers CanonicalURL, falling back to URL.
func canonicalOrURL(lead leadmodel.Lead) string {
	if lead.CanonicalURL != "" {
		return lead.CanonicalURL
	}
	return lead.URL
}

// hash16Of computes the first 16 hex characters of SHA-256 over
// normalized(name) | normalized(canonical_url_or_url).
func hash16Of(lead leadmodel.Lead) string {
	material := collapseWhitespace(lead.Name) + "|" + normalizedURLString(canonicalOrURL(lead))
	digest, err := hashutil.HashBytes([]byte(material), hashutil.HashAlgoSHA256)
	if err != nil {
		return ""
	}
	if len(digest) < 16 {
		return digest
	}
	return digest[:16]
}

func normalizedURLString(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(raw))
	}
	return normalizedString(parsed.String())
}

// EntityKey computes the `provider|title|deadline|award|level|hash16`
// dedup key for a lead.
func EntityKey(lead leadmodel.Lead) string {
	parts := []string{
		providerOf(lead),
		collapseWhitespace(lead.Name),
		deadlineBucketOf(lead),
		collapseWhitespace(lead.Amount),
		string(InferLevel(lead.Name, lead.Notes, lead.Eligibility)),
		hash16Of(lead),
	}
	return strings.Join(parts, "|")
}

// ContentHash computes the second-level dedup signature over
// normalized(name|amount|deadline|eligibility).
func ContentHash(lead leadmodel.Lead) string {
	material := strings.Join([]string{
		collapseWhitespace(lead.Name),
		collapseWhitespace(lead.Amount),
		deadlineBucketOf(lead),
		collapseWhitespace(strings.Join(lead.Eligibility, ",")),
	}, "|")
	digest, err := hashutil.HashBytes([]byte(material), hashutil.HashAlgoSHA256)
	if err != nil {
		return material
	}
	return digest
}
