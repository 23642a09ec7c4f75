package ring

import "github.com/itohio/plotcore/internal/logx"

// materialize returns the decompressed chunkSlot for chunk index k,
// allocating or decompressing it if necessary, and records it at the back
// of the cache order. Returns ok=false only when k is outside the chunk
// array — compression is a cache-miss detail, never a caller-visible
// error, per spec.md §4.1.
func (d *Dataset) materialize(k int) (*chunkSlot, bool) {
	if k < 0 || k >= len(d.chunks) {
		return nil, false
	}
	slot := &d.chunks[k]

	if slot.raw != nil {
		d.touch(k)
		return slot, true
	}

	buf := make([]float32, d.chunkRows*d.totalC)
	if slot.compressed != nil {
		if err := d.codec.Decompress(buf, slot.compressed); err != nil {
			logx.Log.Error().Err(err).Int("dataset", d.ID).Int("chunk", k).Msg("ring: decompress failed, reinitializing chunk")
		}
		slot.compressed = nil
	}
	slot.raw = buf
	slot.allocated = true

	d.touch(k)
	d.evictIfNeeded(k)
	return slot, true
}

// touch records k as the most recently used decompressed chunk.
func (d *Dataset) touch(k int) {
	if !d.compress {
		return
	}
	for i, c := range d.cacheOrder {
		if c == k {
			d.cacheOrder = append(d.cacheOrder[:i], d.cacheOrder[i+1:]...)
			break
		}
	}
	d.cacheOrder = append(d.cacheOrder, k)
}

// evictIfNeeded compresses back the least-recently-touched decompressed
// chunk when the cache exceeds its capacity, skipping the chunk holding
// tailN to avoid thrashing the most actively written chunk, and always
// skipping justTouched — the chunk materialize() just decompressed for
// its caller, which must not be evicted out from under it (spec.md
// §4.1).
func (d *Dataset) evictIfNeeded(justTouched int) {
	if !d.compress || d.cacheCapacity <= 0 {
		return
	}
	tailChunk := d.chunkOf(d.tailN)
	for len(d.cacheOrder) > d.cacheCapacity {
		victimPos := -1
		for i, k := range d.cacheOrder {
			if (k == tailChunk || k == justTouched) && len(d.cacheOrder) > 1 {
				continue
			}
			victimPos = i
			break
		}
		if victimPos == -1 {
			// Every cached chunk is protected (cache of size 1, or all
			// entries are the tail/just-touched chunk); stop rather than
			// evict data still in use.
			return
		}
		victim := d.cacheOrder[victimPos]
		d.cacheOrder = append(d.cacheOrder[:victimPos], d.cacheOrder[victimPos+1:]...)
		d.compressOut(victim)
	}
}

// compressOut evicts chunk k's decompressed buffer, compressing it first
// if dirty. Compression failure logs and keeps the chunk live rather than
// losing data (spec.md §4.1: "the live buffer is still authoritative
// until evicted").
func (d *Dataset) compressOut(k int) {
	slot := &d.chunks[k]
	if slot.raw == nil {
		return
	}
	if slot.dirty {
		compressed := d.codec.Compress(slot.raw)
		if compressed == nil {
			logx.Log.Error().Int("dataset", d.ID).Int("chunk", k).Msg("ring: compression failed, keeping chunk live")
			return
		}
		slot.compressed = compressed
	} else if slot.compressed == nil {
		// First eviction of a clean chunk: still need a compressed form
		// to free the live buffer.
		slot.compressed = d.codec.Compress(slot.raw)
	}
	slot.raw = nil
	slot.dirty = false
}
