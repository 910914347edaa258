// Package batch executes independent fetch tasks in fixed-size chunks so a
// third-party API sees bounded burst load and a smoothed sustained rate.
package batch

import (
	"context"
	"sync"
	"time"
)

// Result holds the outcome of one task. OK is false when the task failed;
// a failed task never fails the batch.
type Result[R any] struct {
	Value R
	OK    bool
}

// Run executes fn for every item, at most concurrency at a time, pausing for
// delay between consecutive chunks. The returned slice matches the input
// order index-for-index regardless of completion order within a chunk.
//
// Chunk N+1 never starts before every task in chunk N has settled. A context
// cancellation stops scheduling new chunks; tasks already started run to
// completion and items never started resolve to !OK.
func Run[T, R any](ctx context.Context, items []T, fn func(context.Context, T) (R, error), concurrency int, delay time.Duration) []Result[R] {
	results := make([]Result[R], len(items))
	if len(items) == 0 {
		return results
	}
	if concurrency < 1 {
		concurrency = 1
	}

	for start := 0; start < len(items); start += concurrency {
		end := start + concurrency
		if end > len(items) {
			end = len(items)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				value, err := fn(ctx, items[idx])
				if err != nil {
					return
				}
				results[idx] = Result[R]{Value: value, OK: true}
			}(i)
		}
		wg.Wait()

		if end < len(items) && delay > 0 {
			select {
			case <-ctx.Done():
				return results
			case <-time.After(delay):
			}
		} else if ctx.Err() != nil {
			return results
		}
	}

	return results
}
