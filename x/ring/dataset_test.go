package ring

import "testing"

// TestRingOverflow is spec.md §8 scenario A: length=4, column_N=1, insert
// 1..5, expect rows [2,3,4,5] with id_N(head)=1 and id_N(tail-1)=4.
func TestRingOverflow(t *testing.T) {
	d, err := New(1, 0, 4, 4*4 /* force 4 rows/chunk */, 16, 4, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, v := range []float32{1, 2, 3, 4, 5} {
		if !d.Insert([]float32{v}) {
			t.Fatalf("Insert(%v) failed", v)
		}
	}

	if got := d.HeadID(); got != 1 {
		t.Fatalf("HeadID = %d, want 1", got)
	}
	if got := d.TailID(); got != 5 {
		t.Fatalf("TailID = %d, want 5", got)
	}

	c := d.NewCursorAtHead()
	var got []float32
	for {
		row, ok := d.Get(&c)
		if !ok {
			break
		}
		got = append(got, row[0])
	}
	want := []float32{2, 3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d: got %v, want %v", i, got, want)
		}
	}
}

func TestInsertWriteInvalidation(t *testing.T) {
	d, err := New(1, 0, 8, 4*4, 16, 4, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	notified := 0
	d.RegisterInvalidator(invalidatorFunc(func(id, chunk int) { notified++ }))

	// chunkRows is 4 here (New's chunkTargetBytes=16 over a 4-byte row), so
	// the first 2 inserts (rows 0,1) both land in chunk 0.
	for i := 0; i < 2; i++ {
		d.Insert([]float32{float32(i)})
	}
	if notified == 0 {
		t.Fatalf("expected at least one invalidation on insert")
	}

	before := notified
	d.Insert([]float32{99}) // row 2: still chunk 0, same chunk streak
	if notified != before {
		t.Fatalf("expected no additional invalidation within the same chunk streak, got %d new", notified-before)
	}
}

type invalidatorFunc func(datasetID, chunk int)

func (f invalidatorFunc) InvalidateChunk(datasetID, chunk int) { f(datasetID, chunk) }

func TestCompressRoundTrip(t *testing.T) {
	d, err := New(2, 0, 16, 4*8 /* 4 rows/chunk */, 16, 1, true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 16; i++ {
		d.Insert([]float32{float32(i), float32(i) * 2})
	}

	c := d.NewCursorAtHead()
	i := 0
	for {
		row, ok := d.Get(&c)
		if !ok {
			break
		}
		if row[0] != float32(i) || row[1] != float32(i)*2 {
			t.Fatalf("row %d: got %v", i, row)
		}
		i++
	}
	if i != 16 {
		t.Fatalf("got %d rows, want 16", i)
	}
}
