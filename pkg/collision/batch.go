package collision

import (
	"errors"
	"runtime"
	"sync"

	"github.com/bxrne/focalplan/pkg/focalplane"
	"github.com/bxrne/focalplan/pkg/geom"
	"github.com/bxrne/focalplan/pkg/states"
)

// ErrLengthMismatch indicates parallel input arrays differ in length.
var ErrLengthMismatch = errors.New("collision: input arrays must have equal length")

// pair indexes two entries of the batch input, lo < hi in location id.
type pair struct {
	i, j int
}

// CheckXY places every positioner on its target and tests all neighbor
// pairs within the input set. A true entry means the positioner is part
// of at least one conflicting pair; a failed placement marks both
// members of every pair it appears in. Output index matches input
// index; workers <= 0 uses one worker per CPU.
func CheckXY(fp *focalplane.FocalPlane, locs []int32, xys []geom.Point, workers int) ([]bool, error) {
	if len(locs) != len(xys) {
		return nil, ErrLengthMismatch
	}
	placed := make([]*states.PositionerState, len(locs))
	runChunks(len(locs), workers, func(i int) {
		placed[i] = PlaceXY(fp, locs[i], xys[i])
	})
	return checkPairs(fp, locs, placed, workers), nil
}

// CheckThetaPhi is CheckXY for explicit joint angles.
func CheckThetaPhi(fp *focalplane.FocalPlane, locs []int32, thetas, phis []float64, workers int) ([]bool, error) {
	if len(locs) != len(thetas) || len(locs) != len(phis) {
		return nil, ErrLengthMismatch
	}
	placed := make([]*states.PositionerState, len(locs))
	runChunks(len(locs), workers, func(i int) {
		placed[i] = PlaceThetaPhi(fp, locs[i], thetas[i], phis[i])
	})
	return checkPairs(fp, locs, placed, workers), nil
}

// checkPairs builds the deduplicated neighbor pair list restricted to
// the input set and runs the pairwise tests in parallel. Both members of
// a conflicting pair are marked; the writes are idempotent so a single
// short critical section suffices.
func checkPairs(fp *focalplane.FocalPlane, locs []int32, placed []*states.PositionerState, workers int) []bool {
	byLoc := make(map[int32]int, len(locs))
	for i, loc := range locs {
		byLoc[loc] = i
	}

	var pairs []pair
	for i, loc := range locs {
		for _, nb := range fp.Neighbors(loc) {
			if nb <= loc {
				continue
			}
			if j, ok := byLoc[nb]; ok {
				pairs = append(pairs, pair{i: i, j: j})
			}
		}
	}

	result := make([]bool, len(locs))
	var mu sync.Mutex
	runChunks(len(pairs), workers, func(k int) {
		p := pairs[k]
		if statesCollide(placed[p.i], placed[p.j]) {
			mu.Lock()
			result[p.i] = true
			result[p.j] = true
			mu.Unlock()
		}
	})
	return result
}

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
