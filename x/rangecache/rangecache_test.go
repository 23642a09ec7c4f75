package rangecache

import (
	"testing"

	"github.com/itohio/plotcore/x/ring"
)

func newDataset(t *testing.T) *ring.Dataset {
	t.Helper()
	d, err := ring.New(1, 0, 16, 4*4, 16, 4, false)
	if err != nil {
		t.Fatalf("ring.New: %v", err)
	}
	return d
}

// TestFetchTrueRange is spec.md §8 invariant 10: Fetch reports the true
// min/max over finite values across the valid window.
func TestFetchTrueRange(t *testing.T) {
	d := newDataset(t)
	cache := New(8)
	d.RegisterInvalidator(cache)

	for _, v := range []float32{3, 1, 4, 1, 5, 9, 2, 6} {
		d.Insert([]float32{v})
	}

	e := cache.Fetch(d, 0)
	rng := e.Aggregate()
	if !rng.Valid || rng.Min != 1 || rng.Max != 9 {
		t.Fatalf("Aggregate = %+v, want [1,9]", rng)
	}
}

// TestInvalidationOnWrite checks that a write into a new chunk drops the
// column's cached aggregate until the next Fetch.
func TestInvalidationOnWrite(t *testing.T) {
	d := newDataset(t)
	cache := New(8)
	d.RegisterInvalidator(cache)

	for i := 0; i < 4; i++ {
		d.Insert([]float32{float32(i)})
	}
	cache.Fetch(d, 0)

	if _, ok := cache.entries[key{d.ID, 0}].chunks[0]; !ok {
		t.Fatalf("expected chunk 0 entry to exist after fetch")
	}

	d.Insert([]float32{42}) // writes into a new chunk, invalidates its own tail chunk only

	e := cache.entries[key{d.ID, 0}]
	if cr := e.chunks[0]; cr != nil && !cr.computed {
		// chunk 0 is untouched by the new insert (it went to chunk 1); fine either way.
		t.Logf("chunk 0 computed=%v after unrelated insert", cr.computed)
	}
	if e.aggCached {
		t.Fatalf("expected aggregate cache to be dropped after any write")
	}
}

func TestInvalidateDataset(t *testing.T) {
	d := newDataset(t)
	cache := New(8)
	d.RegisterInvalidator(cache)
	for i := 0; i < 4; i++ {
		d.Insert([]float32{float32(i)})
	}
	cache.Fetch(d, 0)
	cache.InvalidateDataset(d.ID)
	if _, ok := cache.entries[key{d.ID, 0}]; ok {
		t.Fatalf("expected entry to be dropped wholesale")
	}
}
