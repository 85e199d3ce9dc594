package reporter

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/scholartriage/pipeline/internal/leadmodel"
	"github.com/scholartriage/pipeline/internal/metadata"
	"github.com/scholartriage/pipeline/internal/triage"
	"github.com/scholartriage/pipeline/pkg/failure"
	"github.com/scholartriage/pipeline/pkg/fileutil"
)

// Reporter writes the core's own artifacts with deterministic filenames and
// idempotent, overwrite-safe writes, mirroring the teacher storage.Sink's
// output characteristics.
type Reporter struct {
	metadataSink metadata.MetadataSink
}

// NewReporter builds a Reporter.
func NewReporter(metadataSink metadata.MetadataSink) *Reporter {
	return &Reporter{metadataSink: metadataSink}
}

// WriteLeads persists the full lead set as pretty JSON to path
// (tracking/leads.json). Leads are written in the order given; callers
// that want a stable diff across re-runs on unchanged inputs should sort
// beforehand (e.g. by URL).
func (r *Reporter) WriteLeads(path string, leads []leadmodel.Lead) failure.ClassifiedError {
	return r.writeJSON(path, leads, metadata.ArtifactLead)
}

// WriteRulesAudit persists one AuditEntry per lead to path
// (tracking/rules_audit.json).
func (r *Reporter) WriteRulesAudit(path string, entries []AuditEntry) failure.ClassifiedError {
	return r.writeJSON(path, entries, metadata.ArtifactReport)
}

func (r *Reporter) writeJSON(path string, value any, kind metadata.ArtifactKind) failure.ClassifiedError {
	if err := ensureParentDir(path); err != nil {
		return err
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return WriteError{Message: "marshal " + path, Cause: ErrCauseEncodeFailed, Wrapped: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return WriteError{Message: "write " + path, Cause: ErrCauseWriteFailed, Wrapped: err}
	}
	if r.metadataSink != nil {
		r.metadataSink.RecordArtifact(kind, path, nil)
	}
	return nil
}

var triageCSVHeader = []string{
	"bucket", "name", "url", "amount", "deadline", "deadline_date",
	"trust_tier", "confidence", "match_score", "effort_score",
	"comprehensive_score", "match_reasons", "hard_fail_reasons", "watchlist",
}

// WriteTriageCSV writes one row per lead to path (tracking/triage.csv),
// leads grouped by bucket (A, B, C, X order) and sorted within each bucket
// by triage.ComprehensiveScore descending.
func (r *Reporter) WriteTriageCSV(path string, leads []leadmodel.Lead, today time.Time) failure.ClassifiedError {
	if err := ensureParentDir(path); err != nil {
		return err
	}

	ordered := orderByBucket(leads, today)

	f, err := os.Create(path)
	if err != nil {
		return WriteError{Message: "create " + path, Cause: ErrCauseWriteFailed, Wrapped: err}
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(triageCSVHeader); err != nil {
		return WriteError{Message: "write csv header", Cause: ErrCauseWriteFailed, Wrapped: err}
	}
	for _, lead := range ordered {
		row := []string{
			string(lead.Bucket),
			lead.Name,
			lead.URL,
			lead.Amount,
			lead.Deadline,
			formatDeadlineDate(lead),
			string(lead.TrustTier),
			strconv.FormatFloat(lead.Confidence, 'f', 2, 64),
			strconv.Itoa(lead.MatchScore),
			strconv.FormatFloat(lead.EffortScore, 'f', 0, 64),
			strconv.FormatFloat(triage.ComprehensiveScore(lead, today), 'f', 1, 64),
			joinSemicolon(lead.MatchReasons),
			joinSemicolon(lead.HardFailReasons),
			strconv.FormatBool(hasTag(lead, "watchlist")),
		}
		if err := w.Write(row); err != nil {
			return WriteError{Message: "write csv row", Cause: ErrCauseWriteFailed, Wrapped: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return WriteError{Message: "flush csv", Cause: ErrCauseWriteFailed, Wrapped: err}
	}

	if r.metadataSink != nil {
		r.metadataSink.RecordArtifact(metadata.ArtifactReport, path, nil)
	}
	return nil
}

// WriteDeadLinks writes deadlinks.md to path, separating true-dead
// (404/410) links from transient ones per spec §7's "User-visible failure
// behavior".
func (r *Reporter) WriteDeadLinks(path string, links []DeadLink) failure.ClassifiedError {
	if err := ensureParentDir(path); err != nil {
		return err
	}

	var trueDead, transient []DeadLink
	for _, l := range links {
		if l.Health.IsTrueDead() {
			trueDead = append(trueDead, l)
		} else {
			transient = append(transient, l)
		}
	}

	buf := "# Dead Links\n\n"
	buf += "## True Dead (404/410, confirmed)\n\n"
	if len(trueDead) == 0 {
		buf += "None.\n\n"
	}
	for _, l := range trueDead {
		buf += "- " + l.URL + " (" + l.Source + "): " + string(l.Health) + "\n"
	}
	buf += "\n## Transient\n\n"
	if len(transient) == 0 {
		buf += "None.\n\n"
	}
	for _, l := range transient {
		buf += "- " + l.URL + " (" + l.Source + "): " + string(l.Health) + "\n"
	}

	if err := os.WriteFile(path, []byte(buf), 0o644); err != nil {
		return WriteError{Message: "write " + path, Cause: ErrCauseWriteFailed, Wrapped: err}
	}
	if r.metadataSink != nil {
		r.metadataSink.RecordArtifact(metadata.ArtifactReport, path, nil)
	}
	return nil
}

var bucketOrder = map[leadmodel.Bucket]int{
	leadmodel.BucketApplyNow:  0,
	leadmodel.BucketPrepare:   1,
	leadmodel.BucketRejected:  2,
	leadmodel.BucketMissed:    3,
	leadmodel.BucketUnset:     4,
}

// orderByBucket groups leads into bucket order (A, B, C, X, unset) and
// sorts each group by comprehensive score via triage.SortBucket.
func orderByBucket(leads []leadmodel.Lead, today time.Time) []leadmodel.Lead {
	groups := make(map[leadmodel.Bucket][]leadmodel.Lead)
	for _, lead := range leads {
		groups[lead.Bucket] = append(groups[lead.Bucket], lead)
	}

	buckets := make([]leadmodel.Bucket, 0, len(groups))
	for b := range groups {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool { return bucketOrder[buckets[i]] < bucketOrder[buckets[j]] })

	ordered := make([]leadmodel.Lead, 0, len(leads))
	for _, b := range buckets {
		group := groups[b]
		triage.SortBucket(group, today)
		ordered = append(ordered, group...)
	}
	return ordered
}

func formatDeadlineDate(lead leadmodel.Lead) string {
	if lead.DeadlineDate == nil {
		return ""
	}
	return lead.DeadlineDate.Format("2006-01-02")
}

func hasTag(lead leadmodel.Lead, tag string) bool {
	for _, t := range lead.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func joinSemicolon(values []string) string {
	out := ""
	for i, v := range values {
		if i > 0 {
			out += "; "
		}
		out += v
	}
	return out
}

func ensureParentDir(path string) failure.ClassifiedError {
	dir := filepath.Dir(path)
	if err := fileutil.EnsureDir(dir); err != nil {
		return WriteError{Message: "ensure dir " + dir, Cause: ErrCauseWriteFailed, Wrapped: err}
	}
	return nil
}
