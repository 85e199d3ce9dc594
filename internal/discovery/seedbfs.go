package discovery

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/scholartriage/pipeline/internal/frontier"
	"github.com/scholartriage/pipeline/internal/leadmodel"
)

// DiscoverFromSeed implements discover_from_seed: a BFS over a[href] links
// starting at the source's seed URL, bounded by max_depth, honouring deny
// patterns, an outbound-only domain allowlist, and a confidence floor of
// 0.6 before a discovered URL is admitted as a candidate.
func (e *Engine) DiscoverFromSeed(ctx context.Context, source leadmodel.Source) []leadmodel.CandidateURL {
	seed, err := url.Parse(source.URL)
	if err != nil {
		return nil
	}

	denyPatterns := compileDenyPatterns(source.DenyPatterns)

	f := frontier.NewCrawlFrontier()
	f.Init(frontier.Limits{MaxDepth: source.MaxDepth, MaxPages: e.limits.MaxTotalURLs})
	f.Submit(frontier.NewCrawlAdmissionCandidate(*seed, frontier.SourceSeed, frontier.NewDiscoveryMetadata(0, nil)))

	var candidates []leadmodel.CandidateURL
	for {
		token, ok := f.Dequeue()
		if !ok {
			break
		}

		pageURL := token.URL()
		outcome := e.fetchURL(ctx, pageURL.String())
		if outcome.Health != leadmodel.HealthOk || len(outcome.Body) == 0 {
			continue
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(outcome.Body)))
		if err != nil {
			continue
		}
		pageTitle := doc.Find("title").First().Text()

		doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
			href, ok := sel.Attr("href")
			if !ok || href == "" {
				return
			}
			resolved := resolveURL(&pageURL, href)
			if resolved == "" {
				return
			}
			childURL, err := url.Parse(resolved)
			if err != nil {
				return
			}

			if matchesAnyDenyPattern(resolved, denyPatterns) {
				return
			}
			if !isAllowedOutboundDomain(childURL.Hostname(), seed.Hostname(), source.AllowDomainsOutbound) {
				return
			}

			anchorText := sel.Text()
			confidence := ScoreConfidence(childURL.Path, anchorText, pageTitle)
			if confidence < 0.6 {
				return
			}

			candidates = append(candidates, newCandidate(resolved, source.Name, pageURL.String(), confidence, "seeded BFS link", leadmodel.DiscoveryExternalLink))
			f.Submit(frontier.NewCrawlAdmissionCandidate(*childURL, frontier.SourceCrawl, frontier.NewDiscoveryMetadata(token.Depth()+1, nil)))
		})
	}

	return dedupeByURL(candidates, e.limits.MaxTotalURLs)
}

func compileDenyPatterns(patterns []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			// An unparseable deny pattern is treated as never matching rather
			// than aborting discovery for the whole source.
			continue
		}
		compiled = append(compiled, re)
	}
	return compiled
}

func matchesAnyDenyPattern(target string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(target) {
			return true
		}
	}
	return false
}

// isAllowedOutboundDomain applies the spec's same-origin-excluded default:
// a child on the seed's own host is never admitted by the outbound BFS
// (same-page links are not "discovery"); a child is admitted only if its
// host matches one of allowDomains, supporting a "*.tld" wildcard or a
// plain substring match.
func isAllowedOutboundDomain(childHost, seedHost string, allowDomains []string) bool {
	if strings.EqualFold(childHost, seedHost) {
		return false
	}
	if len(allowDomains) == 0 {
		return false
	}
	for _, allowed := range allowDomains {
		if allowed == "" {
			continue
		}
		if strings.HasPrefix(allowed, "*.") {
			suffix := allowed[1:]
			if strings.HasSuffix(strings.ToLower(childHost), strings.ToLower(suffix)) {
				return true
			}
			continue
		}
		if strings.Contains(strings.ToLower(childHost), strings.ToLower(allowed)) {
			return true
		}
	}
	return false
}
