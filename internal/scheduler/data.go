// Package scheduler is the sole orchestration authority for one pipeline
// run: it is the only component that decides which sources get dispatched
// this run, which discovered candidates get carried into a future run, and
// when the persisted lead set and reports get written.
//
// Mirroring the teacher's Scheduler, every other stage here only ever
// classifies or transforms what it's handed; retry/continue/abort and
// what-feeds-what-on-the-next-run decisions live exclusively in this
// package.
package scheduler

import (
	"net/http"
	"time"

	"github.com/scholartriage/pipeline/internal/candidatevalidate"
	"github.com/scholartriage/pipeline/internal/config"
	"github.com/scholartriage/pipeline/internal/dispatch"
	"github.com/scholartriage/pipeline/internal/discovery"
	"github.com/scholartriage/pipeline/internal/fetcher"
	"github.com/scholartriage/pipeline/internal/jsdetect"
	"github.com/scholartriage/pipeline/internal/leadmodel"
	"github.com/scholartriage/pipeline/internal/metadata"
	"github.com/scholartriage/pipeline/internal/normalize"
	"github.com/scholartriage/pipeline/internal/reporter"
	"github.com/scholartriage/pipeline/internal/robots"
	"github.com/scholartriage/pipeline/internal/sourcehealth"
	"github.com/scholartriage/pipeline/internal/urlstate"
	"github.com/scholartriage/pipeline/pkg/limiter"
)

// RunSummary is the aggregate outcome of one Run, echoed back through the
// metadata RunFinalizer and returned to the caller (CLI/cron invoker).
type RunSummary struct {
	SourcesDispatched   int
	LeadsTotal          int
	LeadsNew            int
	CandidatesDiscovered int
	CandidatesCarriedIn int
	BrowserResultsMerged int
	Errors              int
	Duration            time.Duration
	BucketCounts        map[leadmodel.Bucket]int
}

// Scheduler wires every pipeline stage together and runs exactly one pass:
// dispatch configured sources, validate carried-over candidates, discover
// new ones for a later run, merge any pending browser results, dedup,
// triage, and write reports.
type Scheduler struct {
	cfg config.Config

	metadataSink metadata.MetadataSink
	runFinalizer metadata.RunFinalizer

	fetch       fetcher.Fetcher
	robotsFetch *robots.RobotsFetcher

	discoveryEngine *discovery.Engine
	validator       *candidatevalidate.Validator
	dispatcher      *dispatch.Dispatcher
	canonical       *normalize.CanonicalResolver

	health   *sourcehealth.Tracker
	urlStore urlstate.Store
	jsQueue  *jsdetect.Queue
	reporter *reporter.Reporter
	pacer    limiter.RateLimiter

	filter sourcehealth.Filter
}

// New wires a Scheduler from cfg using real infrastructure (net/http
// fetcher, SQLite url-state store, zerolog-backed recorder), the same
// fixed-wiring shape as the teacher's NewScheduler.
func New(cfg config.Config) (*Scheduler, error) {
	recorder := metadata.NewRecorder(nil)

	client := &http.Client{Timeout: cfg.Timeout()}
	fetch := fetcher.NewHTTPFetcher(recorder, client)
	robotsFetch := robots.NewRobotsFetcherWithClient(cfg.UserAgent(), client)

	discoveryEngine := discovery.NewEngine(fetch, robotsFetch, cfg.UserAgent(), discovery.DefaultLimits())
	validator := candidatevalidate.NewValidator(fetch, cfg.UserAgent(), true)

	university := dispatch.NewUniversityScraper(fetch, cfg.UserAgent())
	government := dispatch.NewGovernmentScraper(fetch, cfg.UserAgent())
	thirdParty := dispatch.NewThirdPartyScraper(fetch, cfg.UserAgent())

	jsQueue, err := jsdetect.NewQueue(cfg.BrowserQueuePath())
	if err != nil {
		return nil, err
	}
	browser := dispatch.NewBrowserScraper(jsQueue)

	health := sourcehealth.NewTracker(cfg.SourceHealthMaxFailures())
	if loadErr := health.LoadFromFile(cfg.SourceHealthPath()); loadErr != nil {
		recorder.RecordError(time.Now().UTC(), "scheduler", "health.LoadFromFile", metadata.CauseStorageFailure, loadErr.Error(), nil)
	}
	filter := sourcehealth.Filter{HonorAutoDisable: true}
	dispatcher := dispatch.NewDispatcher(university, government, thirdParty, browser, health, filter)

	urlStore, storeErr := urlstate.Open(cfg.URLStatePath())
	if storeErr != nil {
		return nil, storeErr
	}

	canonical := normalize.NewCanonicalResolver(fetch, cfg.UserAgent())

	pacer := limiter.NewConcurrentRateLimiter()
	pacer.SetBaseDelay(cfg.PerHostDelayMin())
	if jitter := cfg.PerHostDelayMax() - cfg.PerHostDelayMin(); jitter > 0 {
		pacer.SetJitter(jitter)
	}

	return &Scheduler{
		cfg:             cfg,
		metadataSink:    recorder,
		runFinalizer:    recorder,
		fetch:           fetch,
		robotsFetch:     robotsFetch,
		discoveryEngine: discoveryEngine,
		validator:       validator,
		dispatcher:      dispatcher,
		canonical:       canonical,
		health:          health,
		urlStore:        urlStore,
		jsQueue:         jsQueue,
		reporter:        reporter.NewReporter(recorder),
		pacer:           pacer,
		filter:          filter,
	}, nil
}

// Close releases infrastructure held open across the process lifetime.
func (s *Scheduler) Close() error {
	return s.urlStore.Close()
}
