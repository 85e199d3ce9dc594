package metadata

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// MetadataSink is the interface every pipeline stage reports to. It is
// observational only: no method here may be consulted to make a control-flow
// decision, only to produce a record of what happened.
type MetadataSink interface {
	RecordError(observedAt time.Time, packageName, action string, cause ErrorCause, details string, attrs []Attribute)
	RecordFetch(fetchURL string, httpStatus int, duration time.Duration, contentType string, retryCount int, crawlDepth int)
	RecordArtifact(kind ArtifactKind, path string, attrs []Attribute)
	RecordAssetFetch(fetchURL string, httpStatus int, duration time.Duration, retryCount int)
}

// RunFinalizer records the once-per-run aggregate stats. Called exactly
// once, from a deferred call in the orchestrator, regardless of how the run
// terminates.
type RunFinalizer interface {
	RecordFinalRunStats(totalLeads, totalErrors, totalCandidates int, duration time.Duration)
}

// Recorder is the concrete MetadataSink/RunFinalizer backing every run. It
// emits one structured zerolog event per call; it holds no mutable
// observational state beyond an in-memory stats tally that is never read,
// neither to decide anything nor by RecordFinalRunStats, which logs the
// totals passed to it.
type Recorder struct {
	log   zerolog.Logger
	stats crawlStats
}

// NewRecorder builds a Recorder writing structured JSON lines to w.
func NewRecorder(w io.Writer) *Recorder {
	if w == nil {
		w = os.Stderr
	}
	return &Recorder{log: zerolog.New(w).With().Timestamp().Logger()}
}

// NewConsoleRecorder builds a Recorder writing human-readable console
// output, useful for CLI runs.
func NewConsoleRecorder() *Recorder {
	return &Recorder{log: zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()}
}

func (r *Recorder) RecordError(observedAt time.Time, packageName, action string, cause ErrorCause, details string, attrs []Attribute) {
	r.stats.totalErrors++
	event := r.log.Warn().
		Time("observed_at", observedAt).
		Str("package", packageName).
		Str("action", action).
		Str("cause", cause.String()).
		Str("details", details)
	for _, a := range attrs {
		event = event.Str(string(a.Key), a.Value)
	}
	event.Msg("pipeline error")
}

func (r *Recorder) RecordFetch(fetchURL string, httpStatus int, duration time.Duration, contentType string, retryCount int, crawlDepth int) {
	r.log.Info().
		Str("url", fetchURL).
		Int("http_status", httpStatus).
		Dur("duration", duration).
		Str("content_type", contentType).
		Int("retry_count", retryCount).
		Int("depth", crawlDepth).
		Msg("fetch")
}

func (r *Recorder) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {
	switch kind {
	case ArtifactLead:
		r.stats.totalLeads++
	case ArtifactCandidate:
		r.stats.totalCandidates++
	}
	event := r.log.Info().
		Str("kind", kind.String()).
		Str("path", path)
	for _, a := range attrs {
		event = event.Str(string(a.Key), a.Value)
	}
	event.Msg("artifact written")
}

func (r *Recorder) RecordAssetFetch(fetchURL string, httpStatus int, duration time.Duration, retryCount int) {
	r.log.Info().
		Str("url", fetchURL).
		Int("http_status", httpStatus).
		Dur("duration", duration).
		Int("retry_count", retryCount).
		Msg("two-hop enrichment fetch")
}

func (r *Recorder) RecordFinalRunStats(totalLeads, totalErrors, totalCandidates int, duration time.Duration) {
	r.log.Info().
		Int("total_leads", totalLeads).
		Int("total_errors", totalErrors).
		Int("total_candidates", totalCandidates).
		Dur("duration", duration).
		Msg("run complete")
}

var _ MetadataSink = (*Recorder)(nil)
var _ RunFinalizer = (*Recorder)(nil)
