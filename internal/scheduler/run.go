package scheduler

import (
	"context"
	"net/url"
	"time"

	"github.com/scholartriage/pipeline/internal/config"
	"github.com/scholartriage/pipeline/internal/dispatch"
	"github.com/scholartriage/pipeline/internal/jsdetect"
	"github.com/scholartriage/pipeline/internal/leadmodel"
	"github.com/scholartriage/pipeline/internal/metadata"
	"github.com/scholartriage/pipeline/internal/normalize"
	"github.com/scholartriage/pipeline/internal/reporter"
	"github.com/scholartriage/pipeline/internal/rules"
	"github.com/scholartriage/pipeline/internal/triage"
	"github.com/scholartriage/pipeline/pkg/boundedpool"
)

// Run executes exactly one pipeline pass: dispatch every enabled source
// (F→G), validate and dispatch candidates carried over from a prior run's
// Discovery Engine pass (E→F), discover new candidates for a future run
// (D), merge any pending browser results (H), dedup against the persisted
// lead set (I), triage (J→K), and write reports (L).
func (s *Scheduler) Run(ctx context.Context) (RunSummary, error) {
	start := time.Now()
	var totalErrors, totalLeads, totalCandidates int

	defer func() {
		s.runFinalizer.RecordFinalRunStats(totalLeads, totalErrors, totalCandidates, time.Since(start))
	}()

	sources, err := config.LoadSources(s.cfg.SourcesFile())
	if err != nil {
		return RunSummary{}, err
	}
	ruleSet, err := rules.LoadRuleSet(s.cfg.RulesFile())
	if err != nil {
		return RunSummary{}, err
	}

	existingLeads, err := loadLeads(s.cfg.LeadsPath())
	if err != nil {
		return RunSummary{}, err
	}

	// F→G: dispatch every enabled configured source, paced per host so a
	// slow or rate-limiting server doesn't get hammered by every source
	// that happens to point at it.
	dispatchResults := boundedpool.Run(sources, s.cfg.Concurrency(), func(source leadmodel.Source) dispatch.ScrapeResult {
		return s.paced(source.URL, func() dispatch.ScrapeResult {
			return s.dispatcher.Run(ctx, source)
		})
	})

	var freshLeads []leadmodel.Lead
	sourcesDispatched := 0
	for i, source := range sources {
		result := dispatchResults[i]
		if result.Status == dispatch.StatusSkipped {
			continue
		}
		s.recordDispatchOutcome(source, result)
		sourcesDispatched++
		freshLeads = append(freshLeads, result.Leads...)
		if result.Status == dispatch.StatusError {
			totalErrors++
		}
	}

	// E→F: validate candidates a previous run's Discovery Engine pass
	// wrote to the JSONL inbox, dispatching the accepted ones too.
	carriedCandidates, err := loadCandidateURLs(s.cfg.CandidateURLsPath())
	if err != nil {
		return RunSummary{}, err
	}
	validatedLeads, carriedErrors := s.dispatchValidatedCandidates(ctx, carriedCandidates)
	freshLeads = append(freshLeads, validatedLeads...)
	totalErrors += carriedErrors

	// D: discover new candidates for a future run.
	discovered := s.discoverCandidates(ctx, sources)
	seenURLs := make(map[string]struct{}, len(carriedCandidates))
	for _, c := range carriedCandidates {
		seenURLs[c.URL] = struct{}{}
	}
	if err := appendCandidateURLs(s.cfg.CandidateURLsPath(), seenURLs, discovered); err != nil {
		s.metadataSink.RecordError(time.Now().UTC(), "scheduler", "appendCandidateURLs", metadata.CauseStorageFailure, err.Error(), nil)
		totalErrors++
	}

	// Merge the freshly dispatched/validated leads into the persisted set
	// before H, so a browser result can match either an old or new lead.
	merged := append(existingLeads, freshLeads...)

	// H: merge any pending browser results back into matching leads.
	browserResults, err := loadBrowserResults(s.cfg.BrowserResultsPath())
	if err != nil {
		return RunSummary{}, err
	}
	browserMerged := mergeBrowserResults(merged, browserResults)

	// I: canonicalize, then dedup by entity signature + content hash.
	s.canonicalizeAll(ctx, merged)
	deduped := normalize.Dedup(merged)

	// J→K: classify every surviving lead.
	today := time.Now().UTC()
	auditEntries := make([]reporter.AuditEntry, 0, len(deduped))
	bucketCounts := make(map[leadmodel.Bucket]int, 4)
	for i := range deduped {
		outcome := triage.Run(&deduped[i], ruleSet, today)
		bucketCounts[deduped[i].Bucket]++
		auditEntries = append(auditEntries, reporter.AuditEntry{
			URL:             deduped[i].URL,
			Name:            deduped[i].Name,
			Bucket:          deduped[i].Bucket,
			MatchScore:      outcome.MatchScore,
			EffortScore:     outcome.EffortScore,
			Confidence:      outcome.Confidence,
			MatchedRuleIDs:  outcome.MatchedRuleIDs,
			MatchReasons:    outcome.MatchReasons,
			HardFailReasons: outcome.HardFailReasons,
			Watchlist:       outcome.Watchlist,
		})
	}

	// L: write reports.
	if writeErr := s.reporter.WriteLeads(s.cfg.LeadsPath(), deduped); writeErr != nil {
		return RunSummary{}, writeErr
	}
	if writeErr := s.reporter.WriteRulesAudit(s.cfg.RulesAuditPath(), auditEntries); writeErr != nil {
		return RunSummary{}, writeErr
	}
	if writeErr := s.reporter.WriteTriageCSV(s.cfg.TriageCSVPath(), deduped, today); writeErr != nil {
		return RunSummary{}, writeErr
	}
	if writeErr := s.reporter.WriteDeadLinks(s.cfg.DeadLinksPath(), deadLinksOf(deduped)); writeErr != nil {
		return RunSummary{}, writeErr
	}

	if healthErr := s.health.SaveToFile(s.cfg.SourceHealthPath()); healthErr != nil {
		s.metadataSink.RecordError(time.Now().UTC(), "scheduler", "health.SaveToFile", metadata.CauseStorageFailure, healthErr.Error(), nil)
		totalErrors++
	}
	if cleaned, cleanupErr := s.urlStore.CleanupOlderThan(s.cfg.URLStateMaxAgeDays()); cleanupErr != nil {
		s.metadataSink.RecordError(time.Now().UTC(), "scheduler", "urlStore.CleanupOlderThan", metadata.CauseStorageFailure, cleanupErr.Error(), nil)
		totalErrors++
	} else {
		_ = cleaned
	}

	totalLeads, totalCandidates = len(deduped), len(discovered)
	return RunSummary{
		SourcesDispatched:    sourcesDispatched,
		LeadsTotal:           len(deduped),
		LeadsNew:             len(freshLeads),
		CandidatesDiscovered: len(discovered),
		CandidatesCarriedIn:  len(carriedCandidates),
		BrowserResultsMerged: browserMerged,
		Errors:               totalErrors,
		Duration:             time.Since(start),
		BucketCounts:         bucketCounts,
	}, nil
}

// paced resolves and sleeps off the configured per-host delay before
// running fn, then marks the host's last-fetch time and adjusts its
// backoff state from the outcome, the same rhythm the teacher's
// ExecuteCrawling keeps around every admitted fetch.
func (s *Scheduler) paced(rawURL string, fn func() dispatch.ScrapeResult) dispatch.ScrapeResult {
	host := hostOf(rawURL)
	if host == "" {
		return fn()
	}
	if delay := s.pacer.ResolveDelay(host); delay > 0 {
		time.Sleep(delay)
	}
	result := fn()
	s.pacer.MarkLastFetchAsNow(host)
	if result.Status == dispatch.StatusError {
		s.pacer.Backoff(host)
	} else {
		s.pacer.ResetBackoff(host)
	}
	return result
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Host
}

func (s *Scheduler) recordDispatchOutcome(source leadmodel.Source, result dispatch.ScrapeResult) {
	s.health.RecordResult(source.URL, source.Name, source.Type, healthStatusOf(result), result.HTTPCode, result.ErrorMessage)
}

func healthStatusOf(result dispatch.ScrapeResult) leadmodel.LinkStatus {
	switch result.Status {
	case dispatch.StatusCompleted, dispatch.StatusQueued:
		return leadmodel.StatusOk
	case dispatch.StatusError:
		return leadmodel.StatusUnknown
	default:
		return leadmodel.StatusUnknown
	}
}

// dispatchValidatedCandidates runs the Candidate Validator over carried-in
// candidates and dispatches every accepted one as an ad-hoc third-party
// source, since a bare discovered URL carries no scraper declaration of its
// own.
func (s *Scheduler) dispatchValidatedCandidates(ctx context.Context, candidates []leadmodel.CandidateURL) ([]leadmodel.Lead, int) {
	if len(candidates) == 0 {
		return nil, 0
	}
	results := boundedpool.Run(candidates, s.cfg.Concurrency(), func(c leadmodel.CandidateURL) dispatch.ScrapeResult {
		validation := s.validator.ValidateCandidate(ctx, c)
		if !validation.Accepted {
			return dispatch.ScrapeResult{Status: dispatch.StatusSkipped}
		}
		adHocSource := leadmodel.Source{
			Name:    c.SourceSeed,
			Type:    leadmodel.SourceThirdParty,
			URL:     c.URL,
			Enabled: true,
			Scraper: leadmodel.ScraperThirdParty,
		}
		return s.paced(adHocSource.URL, func() dispatch.ScrapeResult {
			return s.dispatcher.Run(ctx, adHocSource)
		})
	})

	var leads []leadmodel.Lead
	var errs int
	for _, r := range results {
		if r.Status == dispatch.StatusError {
			errs++
		}
		leads = append(leads, r.Leads...)
	}
	return leads, errs
}

// discoverCandidates runs the Discovery Engine's breadth or seed-BFS mode
// per configured source, per its declared discovery_mode.
func (s *Scheduler) discoverCandidates(ctx context.Context, sources []leadmodel.Source) []leadmodel.CandidateURL {
	enabled := make([]leadmodel.Source, 0, len(sources))
	for _, source := range sources {
		if source.Enabled && source.DiscoveryMode != leadmodel.DiscoveryModeNone {
			enabled = append(enabled, source)
		}
	}
	results := boundedpool.Run(enabled, s.cfg.Concurrency(), func(source leadmodel.Source) []leadmodel.CandidateURL {
		switch source.DiscoveryMode {
		case leadmodel.DiscoveryModeSeedBFS:
			return s.discoveryEngine.DiscoverFromSeed(ctx, source)
		default:
			return s.discoveryEngine.BreadthDiscover(ctx, source)
		}
	})

	var all []leadmodel.CandidateURL
	for _, candidates := range results {
		all = append(all, candidates...)
	}
	return all
}

func (s *Scheduler) canonicalizeAll(ctx context.Context, leads []leadmodel.Lead) {
	for i := range leads {
		if leads[i].CanonicalURL != "" {
			continue
		}
		leads[i].CanonicalURL = s.canonical.CanonicalURLOf(ctx, leads[i].URL)
	}
}

func mergeBrowserResults(leads []leadmodel.Lead, results []leadmodel.BrowserResult) int {
	if len(results) == 0 {
		return 0
	}
	byURL := make(map[string][]int, len(leads))
	for i, lead := range leads {
		byURL[lead.URL] = append(byURL[lead.URL], i)
	}
	merged := 0
	for _, result := range results {
		indexes, ok := byURL[result.URL]
		if !ok {
			continue
		}
		for _, idx := range indexes {
			jsdetect.MergeBrowserResult(&leads[idx], result)
		}
		merged++
	}
	return merged
}

// deadLinksOf reports every lead whose most recently recorded HTTP status
// is not a success, classified the same way the Fetch Layer would.
func deadLinksOf(leads []leadmodel.Lead) []reporter.DeadLink {
	var links []reporter.DeadLink
	for _, lead := range leads {
		health := healthFromHTTPStatus(lead.HTTPStatus)
		if health == leadmodel.HealthOk {
			continue
		}
		links = append(links, reporter.DeadLink{URL: lead.URL, Health: health, Source: lead.Source})
	}
	return links
}

func healthFromHTTPStatus(status int) leadmodel.LinkHealth {
	switch {
	case status >= 200 && status < 300:
		return leadmodel.HealthOk
	case status == 403:
		return leadmodel.HealthForbidden
	case status == 404 || status == 410:
		return leadmodel.HealthNotFound
	case status == 429:
		return leadmodel.HealthRateLimited
	case status >= 500 && status < 600:
		return leadmodel.HealthServerError
	case status == 0:
		return leadmodel.HealthUnknown
	default:
		return leadmodel.HealthUnknown
	}
}
