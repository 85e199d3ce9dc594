package boundedpool

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunPreservesOrder(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	results := Run(items, 2, func(n int) int { return n * n })
	assert.Equal(t, []int{1, 4, 9, 16, 25}, results)
}

func TestRunRespectsConcurrencyLimit(t *testing.T) {
	var current, max int32
	items := make([]int, 20)

	Run(items, 3, func(int) int {
		n := atomic.AddInt32(&current, 1)
		for {
			old := atomic.LoadInt32(&max)
			if n <= old || atomic.CompareAndSwapInt32(&max, old, n) {
				break
			}
		}
		atomic.AddInt32(&current, -1)
		return 0
	})

	assert.LessOrEqual(t, int(max), 3)
}

func TestRunChunkedPausesBetweenChunks(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	pauses := 0
	results := RunChunked(items, 2, 2, func() { pauses++ }, func(n int) int { return n })

	assert.Equal(t, items, results)
	assert.Equal(t, 2, pauses)
}
