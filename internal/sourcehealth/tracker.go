// Package sourcehealth implements the Source-Health Tracker (spec component
// C): per-source success/failure counters, backed by a sony/gobreaker
// circuit breaker per source so "N consecutive failures" auto-disables a
// source without hand-rolled threshold bookkeeping.
package sourcehealth

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/scholartriage/pipeline/internal/leadmodel"
	"github.com/scholartriage/pipeline/pkg/failure"
)

// Filter governs should_skip_source decisions.
type Filter struct {
	ExcludeTypes     []leadmodel.SourceType
	IncludeTypes     []leadmodel.SourceType
	HonorAutoDisable bool
}

func (f Filter) excludes(t leadmodel.SourceType) bool {
	for _, e := range f.ExcludeTypes {
		if e == t {
			return true
		}
	}
	return false
}

func (f Filter) notIncluded(t leadmodel.SourceType) bool {
	if len(f.IncludeTypes) == 0 {
		return false
	}
	for _, i := range f.IncludeTypes {
		if i == t {
			return false
		}
	}
	return true
}

// Tracker loads/persists the per-source table and decides auto-disable via
// one circuit breaker per source URL.
type Tracker struct {
	mu          sync.Mutex
	records     map[string]*leadmodel.SourceHealth
	breakers    map[string]*gobreaker.TwoStepCircuitBreaker
	maxFailures int
}

// NewTracker builds a Tracker that auto-disables a source after maxFailures
// consecutive failures.
func NewTracker(maxFailures int) *Tracker {
	return &Tracker{
		records:     make(map[string]*leadmodel.SourceHealth),
		breakers:    make(map[string]*gobreaker.TwoStepCircuitBreaker),
		maxFailures: maxFailures,
	}
}

func (t *Tracker) breakerFor(url string) *gobreaker.TwoStepCircuitBreaker {
	if b, ok := t.breakers[url]; ok {
		return b
	}
	b := gobreaker.NewTwoStepCircuitBreaker(gobreaker.Settings{
		Name: url,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(t.maxFailures)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			rec := t.recordFor(name, "", leadmodel.SourceThirdParty)
			if to == gobreaker.StateOpen {
				rec.AutoDisabled = true
				rec.DisabledReason = "consecutive_failures >= max_failures"
			} else if to == gobreaker.StateClosed {
				rec.AutoDisabled = false
				rec.DisabledReason = ""
			}
		},
	})
	t.breakers[url] = b
	return b
}

func (t *Tracker) recordFor(url, name string, sourceType leadmodel.SourceType) *leadmodel.SourceHealth {
	rec, ok := t.records[url]
	if !ok {
		rec = &leadmodel.SourceHealth{URL: url, Name: name, SourceType: sourceType}
		t.records[url] = rec
	}
	if name != "" {
		rec.Name = name
	}
	return rec
}

// Get returns the current health record for a source URL, if known.
func (t *Tracker) Get(url string) (leadmodel.SourceHealth, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, ok := t.records[url]
	if !ok {
		return leadmodel.SourceHealth{}, false
	}
	return *rec, true
}

// RecordResult updates counters for url after a fetch attempt and drives the
// circuit breaker's state transition.
func (t *Tracker) RecordResult(url, name string, sourceType leadmodel.SourceType, status leadmodel.LinkStatus, httpCode int, errMsg string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec := t.recordFor(url, name, sourceType)
	breaker := t.breakerFor(url)

	success := status == leadmodel.StatusOk
	if done, err := breaker.Allow(); err == nil {
		done(success)
	}

	now := time.Now().UTC()
	rec.TotalAttempts++
	rec.LastStatus = status
	rec.LastHTTPCode = httpCode
	rec.LastError = errMsg
	rec.LastChecked = &now
	if success {
		rec.TotalSuccesses++
		rec.ConsecutiveFailures = 0
	} else {
		rec.ConsecutiveFailures++
	}
}

// ShouldSkipSource returns a non-empty reason when the source should not be
// scraped this run: its type is excluded, its type is not in an active
// include list, or it is currently auto-disabled and the filter honours
// that.
func (t *Tracker) ShouldSkipSource(url, name string, sourceType leadmodel.SourceType, filter Filter) (bool, string) {
	if filter.excludes(sourceType) {
		return true, "source_type_excluded"
	}
	if filter.notIncluded(sourceType) {
		return true, "source_type_not_included"
	}
	if !filter.HonorAutoDisable {
		return false, ""
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, ok := t.records[url]
	if ok && rec.AutoDisabled {
		return true, rec.DisabledReason
	}
	return false, ""
}

// ReEnable clears the failure count and auto-disabled flag for a source,
// resetting its circuit breaker.
func (t *Tracker) ReEnable(url string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if rec, ok := t.records[url]; ok {
		rec.ConsecutiveFailures = 0
		rec.AutoDisabled = false
		rec.DisabledReason = ""
	}
	delete(t.breakers, url)
}

// LoadFromFile populates the tracker from a previously-saved
// source_health.json array.
func (t *Tracker) LoadFromFile(path string) failure.ClassifiedError {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return LoadError{Message: "read source health file", Wrapped: err}
	}
	var records []leadmodel.SourceHealth
	if err := json.Unmarshal(data, &records); err != nil {
		return LoadError{Message: "parse source health file", Wrapped: err}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range records {
		rec := records[i]
		t.records[rec.URL] = &rec
	}
	return nil
}

// SaveToFile persists the current table as a pretty-JSON array.
func (t *Tracker) SaveToFile(path string) failure.ClassifiedError {
	t.mu.Lock()
	records := make([]leadmodel.SourceHealth, 0, len(t.records))
	for _, rec := range t.records {
		records = append(records, *rec)
	}
	t.mu.Unlock()

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return LoadError{Message: "marshal source health", Wrapped: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return LoadError{Message: "write source health file", Wrapped: err}
	}
	return nil
}
