package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/scholartriage/pipeline/internal/jsdetect"
	"github.com/scholartriage/pipeline/internal/leadmodel"
)

// BrowserScraper implements the "selenium"/browser strategy: a source
// declared to require JavaScript rendering is never extracted directly
// here; it is enqueued for the external headless renderer (spec component
// H) and skipped for this run.
type BrowserScraper struct {
	queue *jsdetect.Queue
}

// NewBrowserScraper builds a BrowserScraper backed by the shared browser
// queue writer.
func NewBrowserScraper(queue *jsdetect.Queue) *BrowserScraper {
	return &BrowserScraper{queue: queue}
}

func (s *BrowserScraper) Scrape(_ context.Context, source leadmodel.Source) ScrapeResult {
	_, err := s.queue.Enqueue(leadmodel.BrowserQueueEntry{
		EntryID:         uuid.NewString(),
		URL:             source.URL,
		SourceName:      source.Name,
		DiscoveredAt:    time.Now().UTC(),
		DetectionReason: "configured_browser_strategy",
		Priority:        source.Priority,
	})
	if err != nil {
		return ScrapeResult{Status: StatusError, ErrorMessage: err.Error()}
	}
	return ScrapeResult{Status: StatusQueued}
}
