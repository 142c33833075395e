package projection

import (
	"errors"
	"runtime"
	"sync"
)

// ErrLengthMismatch indicates parallel input arrays differ in length.
var ErrLengthMismatch = errors.New("projection: input arrays must have equal length")

// runChunks distributes n independent elements across worker goroutines
// in contiguous chunks. workers <= 0 uses one worker per CPU.
func runChunks(n, workers int, fn func(i int)) {
	if n == 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}

	chunkSize := (n + workers - 1) / workers
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(start int) {
			defer wg.Done()
			end := start + chunkSize
			if end > n {
				end = n
			}
			for i := start; i < end; i++ {
				fn(i)
			}
		}(w * chunkSize)
	}
	wg.Wait()
}
