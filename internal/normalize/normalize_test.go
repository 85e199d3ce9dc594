package normalize

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/scholartriage/pipeline/internal/fetcher"
	"github.com/scholartriage/pipeline/internal/leadmodel"
	"github.com/scholartriage/pipeline/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testFetcher struct {
	client *http.Client
}

func (f testFetcher) Fetch(ctx context.Context, param fetcher.FetchParam, _ retry.RetryParam) fetcher.FetchOutcome {
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
	return fetcher.FetchOutcome{URL: param.URL, FinalURL: resp.Request.URL.String(), Health: health, StatusCode: resp.StatusCode, Body: body}
}

func TestCanonicalURLOfFollowsLinkRelCanonical(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><link rel="canonical" href="/scholarships/robotics-award"></head><body></body></html>`))
	}))
	defer server.Close()

	resolver := NewCanonicalResolver(testFetcher{client: server.Client()}, "scholartriage-bot")
	got := resolver.CanonicalURLOf(context.Background(), server.URL+"/scholarships/robotics-award/?utm_source=newsletter")

	assert.Equal(t, "https://"+server.Listener.Addr().String()+"/scholarships/robotics-award", got)
}

func TestCanonicalURLOfFallsBackToNormalizedOnFetchFailure(t *testing.T) {
	resolver := NewCanonicalResolver(testFetcher{client: http.DefaultClient}, "scholartriage-bot")
	got := resolver.CanonicalURLOf(context.Background(), "http://example.invalid.test/x/")

	assert.Equal(t, "https://example.invalid.test/x", got)
}

func TestEntityKeyStableAcrossTrackingParamVariants(t *testing.T) {
	deadline := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	leadA := leadmodel.Lead{Name: "Robotics PhD Scholarship", Amount: "$5,000", DeadlineDate: &deadline, URL: "https://uni.edu/award?utm_source=x"}
	leadB := leadmodel.Lead{Name: "  Robotics PhD Scholarship  ", Amount: "$5,000", DeadlineDate: &deadline, URL: "https://uni.edu/award?utm_campaign=y"}

	assert.Equal(t, EntityKey(leadA), EntityKey(leadB))
}

func TestDedupDropsContentHashCollisionAcrossDifferentEntityKeys(t *testing.T) {
	deadline := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	original := leadmodel.Lead{
		Name: "Robotics PhD Scholarship", Amount: "$5,000", Deadline: "2026-03-15", DeadlineDate: &deadline,
		URL: "https://uni.edu/award", SourceDomain: "uni.edu", HTTPStatus: 200,
	}
	mirrored := original
	mirrored.URL = "https://mirror.example.com/award-copy"
	mirrored.SourceDomain = "mirror.example.com"

	deduped := Dedup([]leadmodel.Lead{original, mirrored})

	require.Len(t, deduped, 1)
	assert.Equal(t, "uni.edu", deduped[0].SourceDomain)
}

func TestDedupKeepsHigherQualityWinnerForSameEntityKey(t *testing.T) {
	deadline := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	weak := leadmodel.Lead{
		Name: "Robotics PhD Scholarship", Amount: "$5,000", Deadline: "2026-03-15", DeadlineDate: &deadline,
		URL: "https://uni.edu/award", SourceDomain: "uni.edu", TrustTier: leadmodel.TrustB,
	}
	strong := weak
	strong.Eligibility = []string{"open to all nationalities"}
	strong.IsTaiwanEligible = leadmodel.TriTrue
	strong.HTTPStatus = 200
	strong.TrustTier = leadmodel.TrustS

	deduped := Dedup([]leadmodel.Lead{weak, strong})

	require.Len(t, deduped, 1)
	assert.Equal(t, leadmodel.TrustS, deduped[0].TrustTier)
}

func TestParseEligibleCountriesCommonwealthWithoutTaiwanIsIneligible(t *testing.T) {
	countries, isTaiwanEligible := ParseEligibleCountries("Open to citizens of United Kingdom, Australia, Canada, India and Nigeria.")

	assert.NotEmpty(t, countries)
	assert.Equal(t, leadmodel.TriFalse, isTaiwanEligible)
}

func TestParseEligibleCountriesExplicitTaiwanMentionWins(t *testing.T) {
	_, isTaiwanEligible := ParseEligibleCountries("Open to all nationalities including Taiwan.")
	assert.Equal(t, leadmodel.TriTrue, isTaiwanEligible)
}

func TestParseEligibleCountriesExplicitTaiwanExclusionIsIneligible(t *testing.T) {
	_, isTaiwanEligible := ParseEligibleCountries("Open to all nationalities, excluding Taiwan.")
	assert.Equal(t, leadmodel.TriFalse, isTaiwanEligible)
}

func TestParseEligibleCountriesNoRecognizedCountryIsUnknown(t *testing.T) {
	countries, isTaiwanEligible := ParseEligibleCountries("Applicants must hold a relevant undergraduate degree.")
	assert.Empty(t, countries)
	assert.Equal(t, leadmodel.TriUnknown, isTaiwanEligible)
}

func TestInferLevelPrefersPhDOverGraduateSubstring(t *testing.T) {
	assert.Equal(t, LevelPhD, InferLevel("PhD Scholarship in Graduate Robotics", "", nil))
}
