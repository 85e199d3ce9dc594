// Package boundedpool provides a small bounded-concurrency helper in the
// same generic-function style as pkg/retry: a task pool sized by a fixed
// concurrency limit, used by the scheduler to fan out source dispatch,
// candidate validation and discovery without unbounded goroutine fan-out.
package boundedpool

import "sync"

// Run executes fn over every item in items with at most concurrency
// goroutines in flight at once, and returns results in the same order as
// items. concurrency <= 0 is treated as 1.
func Run[T any, R any](items []T, concurrency int, fn func(T) R) []R {
	if concurrency <= 0 {
		concurrency = 1
	}
	results := make([]R, len(items))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Add(1)
		sem <- struct{}{}
		go func(index int, value T) {
			defer wg.Done()
			defer func() { <-sem }()
			results[index] = fn(value)
		}(i, item)
	}
	wg.Wait()
	return results
}

// RunChunked runs items through fn in fixed-size chunks, each chunk
// processed with up to chunkConcurrency parallelism, calling pause (when
// non-nil) between chunks to stay polite to a remote host. It returns results in
// input order.
func RunChunked[T any, R any](items []T, chunkSize, chunkConcurrency int, pause func(), fn func(T) R) []R {
	if chunkSize <= 0 {
		chunkSize = len(items)
		if chunkSize == 0 {
			chunkSize = 1
		}
	}
	results := make([]R, 0, len(items))
	for start := 0; start < len(items); start += chunkSize {
		end := start + chunkSize
		if end > len(items) {
			end = len(items)
		}
		chunk := items[start:end]
		results = append(results, Run(chunk, chunkConcurrency, fn)...)
		if end < len(items) && pause != nil {
			pause()
		}
	}
	return results
}
