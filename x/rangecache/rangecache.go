// Package rangecache implements component B: a per (dataset, column,
// chunk) finite-min/finite-max cache used to accelerate auto-scaling and
// level-of-detail culling. Grounded on pkg/store's cached-value-with-
// dirty-bit pattern, keyed here by (dataset, column) instead of a single
// FQDN.
package rangecache

import (
	"github.com/itohio/plotcore/internal/logx"
	"github.com/itohio/plotcore/x/numeric"
	"github.com/itohio/plotcore/x/ring"
)

type key struct {
	dataset int
	column  int
}

type chunkRange struct {
	computed bool
	rng      numeric.Range // rng.Valid mirrors spec.md's "finite" bit
}

// ColumnEntry is one (dataset, column)'s cached state: per-chunk ranges
// plus the aggregate over the whole column.
type ColumnEntry struct {
	key       key
	chunks    map[int]*chunkRange
	agg       numeric.Range
	aggCached bool
}

// Aggregate returns the column's min/max over all currently valid,
// finite values, as of the last Fetch.
func (e *ColumnEntry) Aggregate() numeric.Range { return e.agg }

// ChunkRange returns chunk k's cached range and whether it has ever been
// computed. A computed-but-invalid range means the chunk holds no finite
// values (spec.md §4.2): callers must fall through to a direct scan.
func (e *ColumnEntry) ChunkRange(k int) (numeric.Range, bool) {
	cr, ok := e.chunks[k]
	if !ok || !cr.computed {
		return numeric.Range{}, false
	}
	return cr.rng, true
}

// Cache holds up to capacity ColumnEntry values, rotating out the oldest
// when full (spec.md §4.2: "Keyed by (d, c) with size PLOT_RCACHE_SIZE,
// rotating allocation").
type Cache struct {
	capacity int
	order    []key
	entries  map[key]*ColumnEntry
	next     int
}

// New returns an empty cache with the given entry capacity.
func New(capacity int) *Cache {
	return &Cache{
		capacity: capacity,
		order:    make([]key, 0, capacity),
		entries:  make(map[key]*ColumnEntry),
	}
}

func (c *Cache) alloc(k key) *ColumnEntry {
	if e, ok := c.entries[k]; ok {
		return e
	}
	e := &ColumnEntry{key: k, chunks: make(map[int]*chunkRange)}
	if len(c.order) < c.capacity {
		c.order = append(c.order, k)
	} else {
		victim := c.order[c.next]
		delete(c.entries, victim)
		c.order[c.next] = k
		c.next = (c.next + 1) % c.capacity
	}
	c.entries[k] = e
	return e
}

// Fetch ensures an entry exists for (d, column) and that every chunk
// holding valid rows has computed=true, scanning any stale chunk. The
// chunk containing the most recently written row is always rescanned,
// since it is the most likely to have changed since the last Fetch.
func (c *Cache) Fetch(d *ring.Dataset, column int) *ColumnEntry {
	e := c.alloc(key{d.ID, column})

	lastRow := -1
	if d.Count() > 0 {
		lastRow = (d.TailRow() - 1 + d.LengthN()) % d.LengthN()
	}
	tailChunk := -1
	if lastRow >= 0 {
		tailChunk = d.ChunkIndex(lastRow)
	}

	anyRecomputed := false
	d.EachValidChunk(func(chunk int) {
		cr, ok := e.chunks[chunk]
		if !ok {
			cr = &chunkRange{}
			e.chunks[chunk] = cr
		}
		if cr.computed && chunk != tailChunk {
			return
		}
		cr.rng = scanChunk(d, column, chunk)
		cr.computed = true
		anyRecomputed = true
	})

	if anyRecomputed || !e.aggCached {
		agg := numeric.EmptyRange()
		for _, cr := range e.chunks {
			if cr.computed {
				agg = agg.Union(cr.rng)
			}
		}
		e.agg = agg
		e.aggCached = true
	}
	return e
}

func scanChunk(d *ring.Dataset, column, chunk int) numeric.Range {
	rows := d.ChunkRows()
	start := chunk * rows
	rng := numeric.EmptyRange()
	for r := start; r < start+rows; r++ {
		if !d.RowValid(r) {
			continue
		}
		v, ok := d.ValueAt(r, column)
		if !ok {
			continue
		}
		rng = rng.Extend(v)
	}
	return rng
}

// InvalidateChunk implements ring.Invalidator. It clears the computed bit
// for every column's entry at this chunk and drops the cached aggregate —
// spec.md invariant 2.
func (c *Cache) InvalidateChunk(datasetID, chunk int) {
	for k, e := range c.entries {
		if k.dataset != datasetID {
			continue
		}
		if cr, ok := e.chunks[chunk]; ok {
			cr.computed = false
		}
		e.aggCached = false
	}
}

// InvalidateDataset drops every cached entry for a dataset outright — used
// on dataset clean/resize (spec.md §4.2: "invalidated wholesale").
func (c *Cache) InvalidateDataset(datasetID int) {
	for k := range c.entries {
		if k.dataset == datasetID {
			delete(c.entries, k)
		}
	}
	kept := c.order[:0]
	for _, k := range c.order {
		if k.dataset != datasetID {
			kept = append(kept, k)
		}
	}
	c.order = kept
	if c.next > len(c.order) {
		c.next = 0
	}
	logx.Log.Debug().Int("dataset", datasetID).Msg("rangecache: invalidated wholesale")
}

// ReleaseColumnsAbove drops entries for columns >= limit on a dataset —
// used when a derived-column slot is freed and its owned column index is
// no longer referenced (spec.md §4.2).
func (c *Cache) ReleaseColumnsAbove(datasetID, limit int) {
	for k := range c.entries {
		if k.dataset == datasetID && k.column >= limit {
			delete(c.entries, k)
		}
	}
}
