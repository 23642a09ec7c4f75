// Package ring implements component A of the plotting engine: a
// fixed-geometry ring buffer of chunks per dataset, with an optional
// per-chunk compression codec and an LRU-ish cache of decompressed
// chunks. Grounded on pkg/store's fixed-slot, sentinel-error style and on
// the chunked/pooled-page shape of the kelindar-column reference
// retrieved for this spec.
package ring

import (
	"errors"
	"fmt"

	"github.com/itohio/plotcore/internal/logx"
)

var (
	// ErrChunkAlloc is logged, never returned: spec.md §4.1 requires
	// insert to fail silently (drop the row) on chunk allocation failure.
	ErrChunkAlloc = errors.New("ring: could not allocate chunk")
	// ErrBadGeometry is returned by New when the requested shape cannot
	// be satisfied within PLOT_CHUNK_MAX slots.
	ErrBadGeometry = errors.New("ring: requested length needs more chunks than allowed")
)

// Invalidator is notified when a write touches a (dataset, chunk) pair, so
// that component B (the range cache) can drop its cached min/max for that
// chunk. Kept as an interface so x/ring never imports x/rangecache.
type Invalidator interface {
	InvalidateChunk(datasetID, chunk int)
}

// chunkSlot holds a chunk's storage: either decompressed (raw != nil) or
// compressed (compressed != nil), never both — spec.md §3's mutual
// exclusion invariant.
type chunkSlot struct {
	raw        []float32
	compressed []byte
	dirty      bool
	allocated  bool
}

// Dataset is one ring buffer of rows with columnN+derivedK fields per row.
type Dataset struct {
	ID int

	columnN  int
	derivedK int
	totalC   int

	lengthN int
	headN   int
	tailN   int
	count   int
	idN     int64
	subN    int64 // sub_N watermark, kept as a logical row id

	chunkRows     int
	chunkShift    uint
	chunkMask     int
	chunkMaxSlots int
	chunks        []chunkSlot

	compress      bool
	codec         Codec
	cacheCapacity int
	cacheOrder    []int // decompressed chunk indices, oldest first (NMRU victim order)

	lastWipeChunk int // small memo: last chunk index invalidated during this write streak

	groups map[int]int // column -> group id; column -1 is the synthetic row-index column

	invalidators []Invalidator
}

// New allocates a dataset with columnN real columns, derivedK reserved
// derived-column slots (spec.md §3's K), requestedLength rows of capacity
// rounded up to a whole number of chunks sized so that
// rowsPerChunk*sizeof(row) >= chunkTargetBytes, and at most chunkMax chunk
// slots (PLOT_CHUNK_MAX).
func New(columnN, derivedK, requestedLength, chunkTargetBytes, chunkMax, cacheSize int, compress bool) (*Dataset, error) {
	totalC := columnN + derivedK
	if totalC <= 0 {
		return nil, fmt.Errorf("ring: columnN+derivedK must be positive")
	}

	rowBytes := totalC * 4
	rowsPerChunk := 1
	for rowsPerChunk*rowBytes < chunkTargetBytes {
		rowsPerChunk *= 2
	}

	nChunks := (requestedLength + rowsPerChunk - 1) / rowsPerChunk
	if nChunks < 1 {
		nChunks = 1
	}
	if nChunks > chunkMax {
		return nil, fmt.Errorf("%w: need %d chunks of %d rows, have %d slots", ErrBadGeometry, nChunks, rowsPerChunk, chunkMax)
	}

	d := &Dataset{
		columnN:       columnN,
		derivedK:      derivedK,
		totalC:        totalC,
		lengthN:       nChunks * rowsPerChunk,
		chunkRows:     rowsPerChunk,
		chunkShift:    log2(rowsPerChunk),
		chunkMask:     rowsPerChunk - 1,
		chunkMaxSlots: chunkMax,
		chunks:        make([]chunkSlot, nChunks),
		compress:      compress,
		codec:         newCodec(),
		cacheCapacity: cacheSize,
		lastWipeChunk: -1,
		groups:        make(map[int]int),
	}
	return d, nil
}

func log2(n int) uint {
	var shift uint
	for 1<<shift < n {
		shift++
	}
	return shift
}

// ColumnN is the declared (non-derived) column width.
func (d *Dataset) ColumnN() int { return d.columnN }

// TotalColumns is columnN + the reserved derived-column slots (K).
func (d *Dataset) TotalColumns() int { return d.totalC }

// LengthN is the ring's row capacity, rounded up to a whole chunk count.
func (d *Dataset) LengthN() int { return d.lengthN }

// HeadID is the logical id of the current head row.
func (d *Dataset) HeadID() int64 { return d.idN }

// TailID is the logical id one past the current tail row.
func (d *Dataset) TailID() int64 { return d.idN + int64(d.count) }

// Count is the number of valid rows currently in the ring.
func (d *Dataset) Count() int { return d.count }

// HeadRow / TailRow are the current ring indices, exposed for cursor
// initialization.
func (d *Dataset) HeadRow() int { return d.headN }
func (d *Dataset) TailRow() int { return d.tailN }

// SubWatermark is the derived-column watermark (spec.md §3 sub_N),
// represented here as a logical row id rather than a ring index to avoid
// the head/tail wraparound ambiguity — a representational choice, not a
// semantic one.
func (d *Dataset) SubWatermark() int64 { return d.subN }

// SetSubWatermark is used by x/derive after a subtract pass to record how
// far unbounded derived columns have been extended.
func (d *Dataset) SetSubWatermark(id int64) {
	if id < d.idN {
		id = d.idN // clamped to head on overflow, spec.md §4.3
	}
	d.subN = id
}

// RegisterInvalidator attaches a range-cache (or other) observer notified
// on every write.
func (d *Dataset) RegisterInvalidator(inv Invalidator) {
	d.invalidators = append(d.invalidators, inv)
}

// SetGroup assigns column c (including the synthetic -1 row-index column)
// to a user-defined group id.
func (d *Dataset) SetGroup(c, group int) {
	d.groups[c] = group
}

// Group returns column c's group assignment, if any.
func (d *Dataset) Group(c int) (int, bool) {
	g, ok := d.groups[c]
	return g, ok
}

// rowIndexValue is the synthetic "row index" column (-1): its value at
// ring row r is the row's logical id.
func (d *Dataset) rowIndexValue(r int) float32 {
	return float32(d.logicalID(r))
}

// LogicalIDOfRow returns ring row r's stable external identity
// (spec.md invariant 1).
func (d *Dataset) LogicalIDOfRow(r int) int64 {
	return d.logicalID(r)
}

func (d *Dataset) logicalID(r int) int64 {
	delta := r - d.headN
	if delta < 0 {
		delta += d.lengthN
	}
	return d.idN + int64(delta)
}

func (d *Dataset) chunkOf(r int) int {
	return r >> d.chunkShift
}

func (d *Dataset) localRow(r int) int {
	return r & d.chunkMask
}

func (d *Dataset) notifyInvalidate(chunk int) {
	if d.lastWipeChunk == chunk {
		return
	}
	d.lastWipeChunk = chunk
	for _, inv := range d.invalidators {
		inv.InvalidateChunk(d.ID, chunk)
	}
}

// Clean empties the dataset without changing its geometry. All derived
// state, caches, and cursors built over it become invalid; callers must
// rebuild range-cache entries and draw cursors afterward (spec.md §4.2,
// §5).
func (d *Dataset) Clean() {
	d.headN, d.tailN, d.count = 0, 0, 0
	d.idN, d.subN = 0, 0
	d.lastWipeChunk = -1
	for i := range d.chunks {
		d.chunks[i] = chunkSlot{}
	}
	d.cacheOrder = d.cacheOrder[:0]
	for _, inv := range d.invalidators {
		for c := range d.chunks {
			inv.InvalidateChunk(d.ID, c)
		}
	}
}

// Resize changes the dataset's row capacity. Per spec.md §9 Open Question
// (a), a length reduction resets all cursors instead of compacting live
// rows — this preserves the source's own (FIXME'd) behavior rather than
// attempting a safer compaction the source never implemented.
func (d *Dataset) Resize(requestedLength, chunkTargetBytes, chunkMax int) error {
	rowBytes := d.totalC * 4
	rowsPerChunk := 1
	for rowsPerChunk*rowBytes < chunkTargetBytes {
		rowsPerChunk *= 2
	}
	nChunks := (requestedLength + rowsPerChunk - 1) / rowsPerChunk
	if nChunks < 1 {
		nChunks = 1
	}
	if nChunks > chunkMax {
		return fmt.Errorf("%w: need %d chunks, have %d slots", ErrBadGeometry, nChunks, chunkMax)
	}

	d.chunkRows = rowsPerChunk
	d.chunkShift = log2(rowsPerChunk)
	d.chunkMask = rowsPerChunk - 1
	d.chunkMaxSlots = chunkMax
	d.lengthN = nChunks * rowsPerChunk
	d.chunks = make([]chunkSlot, nChunks)
	d.Clean()
	return nil
}

// Insert copies row (length columnN) into the next ring slot, evicting the
// oldest row on overflow. It never corrupts state: if the target chunk
// cannot be allocated the row is silently dropped (spec.md §4.1).
func (d *Dataset) Insert(row []float32) bool {
	if len(row) != d.columnN {
		logx.Log.Error().Int("got", len(row)).Int("want", d.columnN).Msg("ring: Insert column-count mismatch")
		return false
	}

	wasFull := d.count == d.lengthN
	target := d.tailN

	chunk := d.chunkOf(target)
	slot, ok := d.materialize(chunk)
	if !ok {
		logx.Log.Error().Int("dataset", d.ID).Int("chunk", chunk).Msg(ErrChunkAlloc.Error())
		return false
	}

	local := d.localRow(target)
	base := local * d.totalC
	copy(slot.raw[base:base+d.columnN], row)
	slot.dirty = true

	if wasFull {
		d.headN = (d.headN + 1) % d.lengthN
		d.idN++
		if d.subN < d.idN {
			d.subN = d.idN
		}
	} else {
		d.count++
	}
	d.tailN = (target + 1) % d.lengthN

	d.notifyInvalidate(chunk)
	return true
}
