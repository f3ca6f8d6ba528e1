// Package workerpool provides simple concurrent processing utilities.
package workerpool

import (
	"context"
	"sync"
)

// Collect runs a fixed-size worker pool over the provided work items and
// returns one outcome per processed item, in completion order. Items are
// dispatched in slice order but outcomes arrive as workers finish, so callers
// must not assume any ordering. Collect never short-circuits on an individual
// outcome; a canceled context stops dispatching and the returned slice holds
// only the outcomes produced so far.
func Collect[T, R any](
	ctx context.Context,
	workerCount int,
	items []T,
	process func(context.Context, T) R,
) []R {
	if workerCount < 1 {
		workerCount = 1
	}

	tasks := make(chan T, workerCount)
	outcomes := make(chan R, workerCount)

	wg := sync.WaitGroup{}
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case item, ok := <-tasks:
					if !ok {
						return
					}
					outcomes <- process(ctx, item)
				}
			}
		}()
	}

	go func() {
		defer close(tasks)
		for _, item := range items {
			select {
			case <-ctx.Done():
				return
			case tasks <- item:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	results := make([]R, 0, len(items))
	for outcome := range outcomes {
		results = append(results, outcome)
	}
	return results
}
