// Package dispatch implements Scraper Dispatch (spec component F): routing
// a Source to the scraping strategy it declared and honouring the
// enabled flag and source-health skip decision before any network call.
package dispatch

import (
	"context"

	"github.com/scholartriage/pipeline/internal/leadmodel"
	"github.com/scholartriage/pipeline/internal/sourcehealth"
)

// ScrapeStatus names the outcome of one dispatch.
type ScrapeStatus string

const (
	StatusCompleted ScrapeStatus = "completed"
	StatusSkipped   ScrapeStatus = "skipped"
	StatusError     ScrapeStatus = "error"
	StatusQueued    ScrapeStatus = "queued_for_browser"
)

// ScrapeResult is the outcome of dispatching one Source.
type ScrapeResult struct {
	Leads        []leadmodel.Lead
	Status       ScrapeStatus
	HTTPCode     int
	ErrorMessage string
}

// Scraper is the tagged-union strategy interface: exactly one concrete type
// is selected per Source by Dispatch, never by embedding or inheritance.
type Scraper interface {
	Scrape(ctx context.Context, source leadmodel.Source) ScrapeResult
}

// Dispatcher selects and runs a Scraper per Source, honouring enabled and
// source-health skip decisions ahead of any concrete strategy.
type Dispatcher struct {
	university *UniversityScraper
	government *GovernmentScraper
	thirdParty *ThirdPartyScraper
	browser    *BrowserScraper
	health     *sourcehealth.Tracker
	filter     sourcehealth.Filter
}

// NewDispatcher wires a Dispatcher from its four strategy implementations.
func NewDispatcher(university *UniversityScraper, government *GovernmentScraper, thirdParty *ThirdPartyScraper, browser *BrowserScraper, health *sourcehealth.Tracker, filter sourcehealth.Filter) *Dispatcher {
	return &Dispatcher{
		university: university,
		government: government,
		thirdParty: thirdParty,
		browser:    browser,
		health:     health,
		filter:     filter,
	}
}

// Dispatch picks the Scraper implementation for source.Scraper.
func (d *Dispatcher) Dispatch(source leadmodel.Source) Scraper {
	switch source.Scraper {
	case leadmodel.ScraperGovernment:
		return d.government
	case leadmodel.ScraperThirdParty:
		return d.thirdParty
	case leadmodel.ScraperSelenium:
		return d.browser
	case leadmodel.ScraperUniversity, leadmodel.ScraperFoundation:
		return d.university
	default:
		return d.university
	}
}

// Run honours enabled and the source-health skip decision, then runs the
// selected Scraper.
func (d *Dispatcher) Run(ctx context.Context, source leadmodel.Source) ScrapeResult {
	if !source.Enabled {
		return ScrapeResult{Status: StatusSkipped, ErrorMessage: "source disabled"}
	}
	if skip, reason := d.health.ShouldSkipSource(source.URL, source.Name, source.Type, d.filter); skip {
		return ScrapeResult{Status: StatusSkipped, ErrorMessage: reason}
	}
	return d.Dispatch(source).Scrape(ctx, source)
}
