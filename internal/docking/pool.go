package docking

import (
	"context"
	"sync"
)

// parMap applies f to every item with at most workers goroutines and returns the results in
// input order. Items not yet dispatched when ctx is cancelled are skipped and left as the zero
// value of U.
func parMap[T, U any](ctx context.Context, items []T, workers int, f func(int, T) U) []U {
	out := make([]U, len(items))
	if len(items) == 0 {
		return out
	}
	if workers <= 0 || workers > len(items) {
		workers = len(items)
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
dispatch:
	for i, v := range items {
		select {
		case <-ctx.Done():
			break dispatch
		case sem <- struct{}{}:
		}
		if ctx.Err() != nil {
			<-sem
			break dispatch
		}
		wg.Add(1)
		go func(i int, v T) {
			defer func() { <-sem; wg.Done() }()
			out[i] = f(i, v)
		}(i, v)
	}
	wg.Wait()
	return out
}
