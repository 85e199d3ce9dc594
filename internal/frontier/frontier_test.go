package frontier_test

import (
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/scholartriage/pipeline/internal/frontier"
)

func mustURL(t *testing.T, raw string) url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("invalid url %q: %v", raw, err)
	}
	return *u
}

func TestFrontierEnforcesBFSOrdering(t *testing.T) {
	f := frontier.NewCrawlFrontier()
	f.Init(frontier.Limits{})

	A := mustURL(t, "https://example.com/a")
	B := mustURL(t, "https://example.com/b")
	C := mustURL(t, "https://example.com/c")
	D := mustURL(t, "https://example.com/d")

	f.Submit(frontier.NewCrawlAdmissionCandidate(A, frontier.SourceSeed, frontier.NewDiscoveryMetadata(0, nil)))

	token, ok := f.Dequeue()
	if !ok || token.URL() != A {
		t.Fatalf("expected A first, got %v ok=%v", token.URL(), ok)
	}

	f.Submit(frontier.NewCrawlAdmissionCandidate(B, frontier.SourceCrawl, frontier.NewDiscoveryMetadata(1, nil)))
	f.Submit(frontier.NewCrawlAdmissionCandidate(C, frontier.SourceCrawl, frontier.NewDiscoveryMetadata(1, nil)))

	token, ok = f.Dequeue()
	if !ok || token.URL() != B {
		t.Fatalf("expected B, got %v", token.URL())
	}

	f.Submit(frontier.NewCrawlAdmissionCandidate(D, frontier.SourceCrawl, frontier.NewDiscoveryMetadata(2, nil)))

	token, ok = f.Dequeue()
	if !ok || token.URL() != C {
		t.Fatalf("expected C before D, got %v", token.URL())
	}
	token, ok = f.Dequeue()
	if !ok || token.URL() != D {
		t.Fatalf("expected D, got %v", token.URL())
	}
}

func TestFrontierDeduplicatesSubmittedURL(t *testing.T) {
	f := frontier.NewCrawlFrontier()
	f.Init(frontier.Limits{})

	A := mustURL(t, "https://example.com/docs")
	f.Submit(frontier.NewCrawlAdmissionCandidate(A, frontier.SourceSeed, frontier.NewDiscoveryMetadata(0, nil)))
	f.Submit(frontier.NewCrawlAdmissionCandidate(A, frontier.SourceCrawl, frontier.NewDiscoveryMetadata(1, nil)))

	_, ok := f.Dequeue()
	if !ok {
		t.Fatalf("expected first dequeue to succeed")
	}
	if _, ok := f.Dequeue(); ok {
		t.Fatalf("duplicate URL should not have been admitted twice")
	}
}

func TestFrontierMaxDepthRejectsDeepCandidate(t *testing.T) {
	f := frontier.NewCrawlFrontier()
	f.Init(frontier.Limits{MaxDepth: 2})

	deep := mustURL(t, "https://example.com/deep")
	f.Submit(frontier.NewCrawlAdmissionCandidate(deep, frontier.SourceCrawl, frontier.NewDiscoveryMetadata(5, nil)))

	if _, ok := f.Dequeue(); ok {
		t.Fatalf("candidate beyond MaxDepth should have been rejected")
	}
}

func TestFrontierMaxPagesStopsAdmission(t *testing.T) {
	f := frontier.NewCrawlFrontier()
	f.Init(frontier.Limits{MaxPages: 2})

	urls := []string{
		"https://example.com/page1",
		"https://example.com/page2",
		"https://example.com/page3",
	}
	for _, raw := range urls {
		f.Submit(frontier.NewCrawlAdmissionCandidate(mustURL(t, raw), frontier.SourceSeed, frontier.NewDiscoveryMetadata(0, nil)))
	}

	if count := f.VisitedCount(); count != 2 {
		t.Fatalf("expected VisitedCount()=2, got %d", count)
	}
}

func TestFrontierNeverPanicsOnSkippedDepth(t *testing.T) {
	f := frontier.NewCrawlFrontier()
	f.Init(frontier.Limits{})

	A := mustURL(t, "https://example.com/a")
	C := mustURL(t, "https://example.com/c")

	f.Submit(frontier.NewCrawlAdmissionCandidate(A, frontier.SourceSeed, frontier.NewDiscoveryMetadata(0, nil)))
	f.Submit(frontier.NewCrawlAdmissionCandidate(C, frontier.SourceCrawl, frontier.NewDiscoveryMetadata(2, nil)))

	token, ok := f.Dequeue()
	if !ok || token.URL() != A {
		t.Fatalf("expected A, got %v", token.URL())
	}

	token, ok = f.Dequeue()
	if !ok || token.URL() != C {
		t.Fatalf("expected C at depth 2 without panicking over the empty depth-1 bucket, got %v ok=%v", token.URL(), ok)
	}
}

func TestFrontierConcurrentSubmitDequeue(t *testing.T) {
	f := frontier.NewCrawlFrontier()
	f.Init(frontier.Limits{})

	const numWorkers = 10
	const urlsPerWorker = 100
	const totalURLs = numWorkers * urlsPerWorker

	var wg sync.WaitGroup
	wg.Add(numWorkers * 2)

	for w := 0; w < numWorkers; w++ {
		go func(workerID int) {
			defer wg.Done()
			for i := 0; i < urlsPerWorker; i++ {
				u := mustURL(t, fmt.Sprintf("https://example.com/w%d-p%d", workerID, i))
				depth := (workerID + i) % 5
				f.Submit(frontier.NewCrawlAdmissionCandidate(u, frontier.SourceSeed, frontier.NewDiscoveryMetadata(depth, nil)))
			}
		}(w)
	}

	var dequeued int32
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for {
				_, ok := f.Dequeue()
				if ok {
					atomic.AddInt32(&dequeued, 1)
				}
				if atomic.LoadInt32(&dequeued) >= totalURLs {
					return
				}
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatalf("timed out, possible deadlock")
	}

	if got := atomic.LoadInt32(&dequeued); got != totalURLs {
		t.Fatalf("expected %d dequeued, got %d", totalURLs, got)
	}
}

func TestFrontierVisitedCountIsAppendOnly(t *testing.T) {
	f := frontier.NewCrawlFrontier()
	f.Init(frontier.Limits{})

	A := mustURL(t, "https://example.com/a")
	B := mustURL(t, "https://example.com/b")
	f.Submit(frontier.NewCrawlAdmissionCandidate(A, frontier.SourceSeed, frontier.NewDiscoveryMetadata(0, nil)))
	f.Submit(frontier.NewCrawlAdmissionCandidate(B, frontier.SourceCrawl, frontier.NewDiscoveryMetadata(1, nil)))

	if count := f.VisitedCount(); count != 2 {
		t.Fatalf("expected 2, got %d", count)
	}

	f.Dequeue()
	f.Dequeue()

	if count := f.VisitedCount(); count != 2 {
		t.Fatalf("expected VisitedCount to remain 2 after dequeue, got %d", count)
	}
}

func TestFrontierCurrentMinDepthSkipsGaps(t *testing.T) {
	f := frontier.NewCrawlFrontier()
	f.Init(frontier.Limits{})

	d0 := mustURL(t, "https://example.com/d0")
	d2a := mustURL(t, "https://example.com/d2a")

	f.Submit(frontier.NewCrawlAdmissionCandidate(d0, frontier.SourceSeed, frontier.NewDiscoveryMetadata(0, nil)))
	f.Submit(frontier.NewCrawlAdmissionCandidate(d2a, frontier.SourceCrawl, frontier.NewDiscoveryMetadata(2, nil)))

	if got := f.CurrentMinDepth(); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	f.Dequeue()
	if got := f.CurrentMinDepth(); got != 2 {
		t.Fatalf("expected min depth to skip empty depth 1 and report 2, got %d", got)
	}
	if !f.IsDepthExhausted(1) {
		t.Fatalf("expected depth 1 to be reported exhausted")
	}
}

func TestFrontierEmptyFrontierReportsNoMinDepth(t *testing.T) {
	f := frontier.NewCrawlFrontier()
	f.Init(frontier.Limits{})

	if got := f.CurrentMinDepth(); got != -1 {
		t.Fatalf("expected -1 for empty frontier, got %d", got)
	}
	if !f.IsDepthExhausted(0) || !f.IsDepthExhausted(100) {
		t.Fatalf("all depths should be exhausted on an empty frontier")
	}
}
