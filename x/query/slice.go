// Package query implements component D: given a sample value on one
// column, find the nearest-in-value row, walking chunks in range-cache
// order rather than scanning the whole dataset. Grounded on x/math/grid's
// bounded, early-stopping nearest-search helpers.
package query

import (
	"github.com/itohio/plotcore/x/numeric"
	"github.com/itohio/plotcore/x/rangecache"
	"github.com/itohio/plotcore/x/ring"
)

// Result is the nearest row found by Slice.
type Result struct {
	Row   int     // ring index
	ID    int64   // logical row id
	Value float32 // value of the queried column at this row
	Found bool
}

// Slice implements spec.md §4.4's sliceGet(d, c, v): it scans at most
// span containing chunks (chunks whose cached [fmin,fmax] contains v),
// falling back to the single closest chunk if none contain it, and
// returns the row within the scanned chunks with the smallest |v - x|.
func Slice(d *ring.Dataset, rc *rangecache.Cache, column int, v float32, span int) Result {
	entry := rc.Fetch(d, column)

	var containing []int
	closest := -1
	closestDist := numeric.NaN()

	d.EachValidChunk(func(chunk int) {
		rng, ok := entry.ChunkRange(chunk)
		if !ok {
			containing = append(containing, chunk) // unknown range: must scan
			return
		}
		if rng.Contains(v) {
			if len(containing) < span {
				containing = append(containing, chunk)
			}
			return
		}
		dist := rng.DistanceTo(v)
		if closest == -1 || dist < closestDist {
			closest = chunk
			closestDist = dist
		}
	})

	toScan := containing
	if len(toScan) == 0 && closest != -1 {
		toScan = []int{closest}
	}

	best := Result{}
	for _, chunk := range toScan {
		scanChunkForNearest(d, column, v, chunk, &best)
	}
	return best
}

func scanChunkForNearest(d *ring.Dataset, column int, v float32, chunk int, best *Result) {
	rows := d.ChunkRows()
	start := chunk * rows
	for r := start; r < start+rows; r++ {
		if !d.RowValid(r) {
			continue
		}
		x, ok := d.ValueAt(r, column)
		if !ok || !numeric.Finite(x) {
			continue
		}
		dist := numeric.Abs(v - x)
		if !best.Found || dist < numeric.Abs(v-best.Value) {
			*best = Result{Row: r, ID: d.LogicalIDOfRow(r), Value: x, Found: true}
		}
	}
}
