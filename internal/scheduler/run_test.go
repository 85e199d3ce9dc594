package scheduler

import (
	"testing"

	"github.com/scholartriage/pipeline/internal/dispatch"
	"github.com/scholartriage/pipeline/internal/leadmodel"
	"github.com/stretchr/testify/assert"
)

func TestMergeBrowserResultsMatchesByURL(t *testing.T) {
	leads := []leadmodel.Lead{
		{URL: "https://example.edu/a", Confidence: 0.4, Tags: []string{"pending_browser"}},
		{URL: "https://example.edu/b", Confidence: 0.6},
	}
	results := []leadmodel.BrowserResult{
		{URL: "https://example.edu/a", Name: "Global Scholars Award"},
	}

	merged := mergeBrowserResults(leads, results)

	assert.Equal(t, 1, merged)
	assert.Equal(t, "Global Scholars Award", leads[0].Name)
	assert.GreaterOrEqual(t, leads[0].Confidence, 0.8)
	assert.NotContains(t, leads[0].Tags, "pending_browser")
	assert.Equal(t, "", leads[1].Name)
}

func TestMergeBrowserResultsNoMatchLeavesLeadsUnchanged(t *testing.T) {
	leads := []leadmodel.Lead{{URL: "https://example.edu/a", Name: "Existing"}}
	merged := mergeBrowserResults(leads, []leadmodel.BrowserResult{{URL: "https://example.edu/unrelated"}})
	assert.Equal(t, 0, merged)
	assert.Equal(t, "Existing", leads[0].Name)
}

func TestDeadLinksOfOnlyIncludesNonSuccessStatuses(t *testing.T) {
	leads := []leadmodel.Lead{
		{URL: "https://example.edu/ok", HTTPStatus: 200},
		{URL: "https://example.edu/gone", HTTPStatus: 404, Source: "Example University"},
		{URL: "https://example.edu/down", HTTPStatus: 503, Source: "Example University"},
	}

	links := deadLinksOf(leads)

	assert.Len(t, links, 2)
	assert.Equal(t, leadmodel.HealthNotFound, links[0].Health)
	assert.Equal(t, leadmodel.HealthServerError, links[1].Health)
}

func TestHealthStatusOfMapsDispatchStatus(t *testing.T) {
	assert.Equal(t, leadmodel.StatusOk, healthStatusOf(dispatch.ScrapeResult{Status: dispatch.StatusCompleted}))
	assert.Equal(t, leadmodel.StatusOk, healthStatusOf(dispatch.ScrapeResult{Status: dispatch.StatusQueued}))
	assert.Equal(t, leadmodel.StatusUnknown, healthStatusOf(dispatch.ScrapeResult{Status: dispatch.StatusError}))
}
