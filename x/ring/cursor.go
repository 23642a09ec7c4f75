package ring

// RowView is a view into one row's totalC float32 fields. It is only
// valid until the next call that may evict its backing chunk.
type RowView []float32

// Cursor walks a dataset's ring in logical order. Row is the current ring
// index; ID is its logical row id, maintained alongside Row so callers
// never need to recompute it (spec.md invariant 1).
type Cursor struct {
	Row int
	ID  int64
}

// NewCursorAtHead returns a cursor positioned at the dataset's oldest
// valid row.
func (d *Dataset) NewCursorAtHead() Cursor {
	return Cursor{Row: d.headN, ID: d.idN}
}

// AtTail reports whether the cursor has consumed every valid row.
func (d *Dataset) AtTail(c Cursor) bool {
	return c.Row == d.tailN && c.ID == d.TailID()
}

// Get returns a read-only view of the row at c and advances c to the next
// ring index. ok is false once c has reached the tail (spec.md §4.1).
func (d *Dataset) Get(c *Cursor) (RowView, bool) {
	if d.AtTail(*c) {
		return nil, false
	}
	k := d.chunkOf(c.Row)
	slot, ok := d.materialize(k)
	if !ok {
		return nil, false
	}
	local := d.localRow(c.Row)
	base := local * d.totalC
	view := RowView(slot.raw[base : base+d.totalC])

	c.Row = (c.Row + 1) % d.lengthN
	c.ID++
	return view, true
}

// Write returns a mutable view of the row at c, advances c, marks the
// chunk dirty, and invalidates the range-cache entry for (dataset, chunk)
// — at most once per distinct chunk touched consecutively (spec.md
// §4.1).
func (d *Dataset) Write(c *Cursor) (RowView, bool) {
	if d.AtTail(*c) {
		return nil, false
	}
	k := d.chunkOf(c.Row)
	slot, ok := d.materialize(k)
	if !ok {
		return nil, false
	}
	local := d.localRow(c.Row)
	base := local * d.totalC
	view := RowView(slot.raw[base : base+d.totalC])
	slot.dirty = true

	d.notifyInvalidate(k)

	c.Row = (c.Row + 1) % d.lengthN
	c.ID++
	return view, true
}

// Skip advances c by n rows, clamped so it never passes the tail.
func (d *Dataset) Skip(c *Cursor, n int) {
	if n <= 0 {
		return
	}
	remaining := d.TailID() - c.ID
	if int64(n) > remaining {
		n = int(remaining)
	}
	c.Row = (c.Row + n) % d.lengthN
	c.ID += int64(n)
}

// ValueAt reads column col (including the synthetic row-index column -1)
// from the row at ring index r without advancing any cursor. Used by
// components that need random access rather than a streaming cursor
// (the range-over-axis query, the slice query).
func (d *Dataset) ValueAt(r, col int) (float32, bool) {
	if col == -1 {
		return d.rowIndexValue(r), true
	}
	if col < 0 || col >= d.totalC {
		return 0, false
	}
	k := d.chunkOf(r)
	slot, ok := d.materialize(k)
	if !ok {
		return 0, false
	}
	local := d.localRow(r)
	return slot.raw[local*d.totalC+col], true
}

// ChunkCount is the number of chunk slots backing the ring.
func (d *Dataset) ChunkCount() int { return len(d.chunks) }

// ChunkRows is the fixed number of rows stored per chunk.
func (d *Dataset) ChunkRows() int { return d.chunkRows }

// ChunkIndex returns the chunk index owning ring row r.
func (d *Dataset) ChunkIndex(r int) int { return d.chunkOf(r) }

// RingIndexAt returns the ring index n rows after the head, wrapping.
func (d *Dataset) RingIndexAt(n int) int {
	return (d.headN + n) % d.lengthN
}

// RowValid reports whether ring index r currently holds a live row.
func (d *Dataset) RowValid(r int) bool {
	delta := r - d.headN
	if delta < 0 {
		delta += d.lengthN
	}
	return delta < d.count
}

// EachValidChunk calls fn with each chunk index currently holding at
// least one valid row, in ring order starting at the head's chunk.
func (d *Dataset) EachValidChunk(fn func(chunk int)) {
	if d.count == 0 {
		return
	}
	seen := make(map[int]bool)
	c := d.NewCursorAtHead()
	for {
		k := d.chunkOf(c.Row)
		if !seen[k] {
			seen[k] = true
			fn(k)
		}
		// Jump to the first row of the next chunk, or stop at tail.
		next := (c.Row/d.chunkRows + 1) * d.chunkRows % d.lengthN
		remaining := d.TailID() - c.ID
		step := next - c.Row
		if step <= 0 {
			step += d.lengthN
		}
		if int64(step) >= remaining {
			break
		}
		d.Skip(&c, step)
	}
}
