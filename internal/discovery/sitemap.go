package discovery

import (
	"context"
	"encoding/xml"

	"github.com/scholartriage/pipeline/internal/leadmodel"
)

// sitemapIndex is the <sitemapindex> root: a list of nested sitemap files.
type sitemapIndex struct {
	XMLName  xml.Name `xml:"sitemapindex"`
	Sitemaps []struct {
		Loc string `xml:"loc"`
	} `xml:"sitemap"`
}

// urlSet is the <urlset> root: a flat list of page URLs.
type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	URLs    []struct {
		Loc string `xml:"loc"`
	} `xml:"url"`
}

// traverseSitemap recursively fetches url and any nested sitemap files,
// guarding against cycles with visited and stopping at the engine's
// MaxTotalURLs cap. Each individual sitemap body is capped at
// MaxSitemapSize bytes; anything beyond that is ignored rather than
// parsed, per the spec's hard per-file cap.
func (e *Engine) traverseSitemap(ctx context.Context, sourceSeed, url string, visited map[string]struct{}, out *[]leadmodel.CandidateURL) {
	if visited == nil {
		return
	}
	if _, ok := visited[url]; ok {
		return
	}
	visited[url] = struct{}{}

	if e.limits.MaxTotalURLs > 0 && len(*out) >= e.limits.MaxTotalURLs {
		return
	}

	outcome := e.fetchURL(ctx, url)
	if outcome.Health != leadmodel.HealthOk || len(outcome.Body) == 0 {
		return
	}

	body := outcome.Body
	if e.limits.MaxSitemapSize > 0 && len(body) > e.limits.MaxSitemapSize {
		body = body[:e.limits.MaxSitemapSize]
	}

	// A body cut at MaxSitemapSize no longer parses cleanly; the entries
	// fully decoded before the cut are kept and the decode error is ignored.
	var index sitemapIndex
	_ = xml.Unmarshal(body, &index)
	if len(index.Sitemaps) > 0 {
		for _, child := range index.Sitemaps {
			if child.Loc == "" {
				continue
			}
			e.traverseSitemap(ctx, sourceSeed, child.Loc, visited, out)
			if e.limits.MaxTotalURLs > 0 && len(*out) >= e.limits.MaxTotalURLs {
				return
			}
		}
		return
	}

	var set urlSet
	if err := xml.Unmarshal(body, &set); err != nil && len(set.URLs) == 0 {
		return
	}
	for _, entry := range set.URLs {
		if entry.Loc == "" {
			continue
		}
		*out = append(*out, newCandidate(entry.Loc, sourceSeed, url, 0.6, "sitemap entry", leadmodel.DiscoverySitemap))
		if e.limits.MaxTotalURLs > 0 && len(*out) >= e.limits.MaxTotalURLs {
			return
		}
	}
}
