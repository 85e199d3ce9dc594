package dispatch

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/scholartriage/pipeline/internal/fetcher"
	"github.com/scholartriage/pipeline/internal/jsdetect"
	"github.com/scholartriage/pipeline/internal/leadmodel"
	"github.com/scholartriage/pipeline/internal/sourcehealth"
	"github.com/scholartriage/pipeline/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type httpFetcherFromClient struct {
	client *http.Client
}

func (f httpFetcherFromClient) Fetch(ctx context.Context, param fetcher.FetchParam, _ retry.RetryParam) fetcher.FetchOutcome {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, param.URL, nil)
	if err != nil {
		return fetcher.FetchOutcome{URL: param.URL, Health: leadmodel.HealthUnknown}
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return fetcher.FetchOutcome{URL: param.URL, Health: leadmodel.HealthTimeout}
	}
	defer resp.Body.Close()

	var body []byte
	buf := make([]byte, 4096)
	for {
		n, readErr := resp.Body.Read(buf)
		body = append(body, buf[:n]...)
		if readErr != nil {
			break
		}
	}
	health := leadmodel.HealthNotFound
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		health = leadmodel.HealthOk
	}
	return fetcher.FetchOutcome{URL: param.URL, Health: health, StatusCode: resp.StatusCode, Body: body}
}

func newTestDispatcher(fetch fetcher.Fetcher, t *testing.T) *Dispatcher {
	queue, err := jsdetect.NewQueue(t.TempDir() + "/browser_queue.jsonl")
	require.NoError(t, err)
	return NewDispatcher(
		NewUniversityScraper(fetch, "scholartriage-bot"),
		NewGovernmentScraper(fetch, "scholartriage-bot"),
		NewThirdPartyScraper(fetch, "scholartriage-bot"),
		NewBrowserScraper(queue),
		sourcehealth.NewTracker(3),
		sourcehealth.Filter{HonorAutoDisable: true},
	)
}

func TestDispatchSelectsStrategyByScraperKind(t *testing.T) {
	d := newTestDispatcher(httpFetcherFromClient{client: http.DefaultClient}, t)

	assert.IsType(t, &GovernmentScraper{}, d.Dispatch(leadmodel.Source{Scraper: leadmodel.ScraperGovernment}))
	assert.IsType(t, &ThirdPartyScraper{}, d.Dispatch(leadmodel.Source{Scraper: leadmodel.ScraperThirdParty}))
	assert.IsType(t, &BrowserScraper{}, d.Dispatch(leadmodel.Source{Scraper: leadmodel.ScraperSelenium}))
	assert.IsType(t, &UniversityScraper{}, d.Dispatch(leadmodel.Source{Scraper: leadmodel.ScraperUniversity}))
}

func TestRunSkipsDisabledSource(t *testing.T) {
	d := newTestDispatcher(httpFetcherFromClient{client: http.DefaultClient}, t)
	result := d.Run(context.Background(), leadmodel.Source{Enabled: false})
	assert.Equal(t, StatusSkipped, result.Status)
}

func TestUniversitySinglePageExtractsLead(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><article class="scholarship"><h1>PhD Scholarship in Robotics</h1><p>Amount: £5,000. Deadline: 2026-03-01.</p></article></body></html>`))
	}))
	defer server.Close()

	d := newTestDispatcher(httpFetcherFromClient{client: server.Client()}, t)
	source := leadmodel.Source{Name: "test-uni", URL: server.URL, Enabled: true, Scraper: leadmodel.ScraperUniversity}

	result := d.Run(context.Background(), source)

	require.Equal(t, StatusCompleted, result.Status)
	require.Len(t, result.Leads, 1)
	assert.Equal(t, "PhD Scholarship in Robotics", result.Leads[0].Name)
}

func TestBrowserScraperEnqueuesAndSkipsExtraction(t *testing.T) {
	d := newTestDispatcher(httpFetcherFromClient{client: http.DefaultClient}, t)
	source := leadmodel.Source{Name: "test-browser", URL: "https://example.com/funding", Enabled: true, Scraper: leadmodel.ScraperSelenium}

	result := d.Run(context.Background(), source)

	assert.Equal(t, StatusQueued, result.Status)
	assert.Empty(t, result.Leads)
}

func TestThirdPartyIndexOnlyEnrichesFromOfficialLink(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	// The official link must sit on a different host than the listing, so it
	// names its own host and the client dials the test server for every host.
	const officialURL = "http://official.example/official"
	mux.HandleFunc("/listing", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><article><h3>Listed Award</h3><a href="` + officialURL + `">Official site</a></article></body></html>`))
	})
	mux.HandleFunc("/official", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>Award amount $2,000. Deadline 2026-05-01.</p></body></html>`))
	})
	client := &http.Client{Transport: &http.Transport{DialContext: func(ctx context.Context, network, _ string) (net.Conn, error) {
		return (&net.Dialer{}).DialContext(ctx, network, server.Listener.Addr().String())
	}}}

	d := newTestDispatcher(httpFetcherFromClient{client: client}, t)
	source := leadmodel.Source{Name: "aggregator", URL: server.URL + "/listing", Enabled: true, Scraper: leadmodel.ScraperThirdParty, IndexOnly: true}

	result := d.Run(context.Background(), source)

	require.Equal(t, StatusCompleted, result.Status)
	require.Len(t, result.Leads, 1)
	lead := result.Leads[0]
	assert.Equal(t, "Listed Award", lead.Name)
	assert.True(t, lead.IsIndexOnly)
	assert.Equal(t, officialURL, lead.OfficialSourceURL)
	assert.Equal(t, "$2,000", lead.Amount)
}
