package frontier

import (
	"sync"

	"github.com/scholartriage/pipeline/pkg/urlutil"
)

// Frontier is a thread-safe BFS admission queue. Candidates are bucketed
// by discovery depth so that Dequeue always drains the lowest non-empty
// depth first, guaranteeing every depth-N URL is processed before any
// depth-(N+1) URL is even eligible.
type Frontier struct {
	mu            sync.Mutex
	limits        Limits
	visited       map[string]struct{}
	queuesByDepth map[int][]CrawlToken
}

// NewCrawlFrontier constructs an uninitialized Frontier. Call Init before
// use.
func NewCrawlFrontier() *Frontier {
	return &Frontier{}
}

// Init resets the frontier to an empty state bound to the given limits.
func (f *Frontier) Init(limits Limits) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limits = limits
	f.visited = make(map[string]struct{})
	f.queuesByDepth = make(map[int][]CrawlToken)
}

// Submit admits a candidate if it has not already been visited and is
// within the depth and page-count limits. Duplicate submissions of an
// already-visited URL, and submissions beyond MaxDepth/MaxPages, are
// silently dropped: Submit is advisory, not erroring.
func (f *Frontier) Submit(candidate CrawlAdmissionCandidate) {
	f.mu.Lock()
	defer f.mu.Unlock()

	depth := candidate.DiscoveryMetadata().Depth()
	if f.limits.MaxDepth > 0 && depth > f.limits.MaxDepth {
		return
	}
	if f.limits.MaxPages > 0 && len(f.visited) >= f.limits.MaxPages {
		return
	}

	normalized := urlutil.NormalizeURL(candidate.TargetURL())
	key := normalized.String()
	if _, seen := f.visited[key]; seen {
		return
	}
	f.visited[key] = struct{}{}
	f.queuesByDepth[depth] = append(f.queuesByDepth[depth], NewCrawlToken(candidate.TargetURL(), depth))
}

// Dequeue pops the next token from the lowest non-empty depth bucket.
// Returns false once the frontier is empty.
func (f *Frontier) Dequeue() (CrawlToken, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	depth, ok := f.minNonEmptyDepthLocked()
	if !ok {
		return CrawlToken{}, false
	}

	queue := f.queuesByDepth[depth]
	token := queue[0]
	f.queuesByDepth[depth] = queue[1:]
	return token, true
}

// IsDepthExhausted reports whether depth has no pending tokens. Negative
// depths and depths the frontier never saw are always exhausted.
func (f *Frontier) IsDepthExhausted(depth int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if depth < 0 {
		return true
	}
	return len(f.queuesByDepth[depth]) == 0
}

// CurrentMinDepth returns the lowest depth with a pending token, or -1 if
// the frontier is empty.
func (f *Frontier) CurrentMinDepth() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	depth, ok := f.minNonEmptyDepthLocked()
	if !ok {
		return -1
	}
	return depth
}

// VisitedCount returns the number of unique URLs ever admitted. The
// visited set is append-only: it never shrinks as tokens are dequeued.
func (f *Frontier) VisitedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.visited)
}

func (f *Frontier) minNonEmptyDepthLocked() (int, bool) {
	best := -1
	for depth, queue := range f.queuesByDepth {
		if len(queue) == 0 {
			continue
		}
		if best == -1 || depth < best {
			best = depth
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}
