package engine

import "sync"

// parallelFor splits [0, n) across workers. Chunks are disjoint so the
// gravity pass stays single-writer-per-body.
func parallelFor(n, workers int, fn func(start, end int)) {
	if workers <= 1 || n < workers {
		fn(0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if start >= n {
			break
		}
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
