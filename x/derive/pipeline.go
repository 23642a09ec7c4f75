package derive

import (
	"errors"
	"fmt"

	"github.com/itohio/plotcore/internal/logx"
	"github.com/itohio/plotcore/x/ring"
)

var (
	ErrNoFreeSlot     = errors.New("derive: no free derived-column slot")
	ErrBadColumn      = errors.New("derive: source column out of range")
	ErrSelfReference  = errors.New("derive: a derived slot may not read its own column")
	ErrBadBitmask     = errors.New("derive: bitmask range invalid")
	ErrBadGain        = errors.New("derive: lowpass gain must be in (0, 1]")
)

// Pipeline owns a dataset's K derived-column slots (spec.md §3's sub[0..K)).
type Pipeline struct {
	ds    *ring.Dataset
	slots []Slot
}

// New returns a pipeline of k free slots over ds. Slot s owns column
// ds.ColumnN()+s.
func New(ds *ring.Dataset, k int) *Pipeline {
	slots := make([]Slot, k)
	for i := range slots {
		slots[i] = Slot{Kind: Free, SrcA: -1, SrcB: -1}
	}
	return &Pipeline{ds: ds, slots: slots}
}

// Column returns the dataset column index owned by slot s.
func (p *Pipeline) Column(s int) int { return p.ds.ColumnN() + s }

// Len is the number of slots (K).
func (p *Pipeline) Len() int { return len(p.slots) }

// Slot returns a pointer to slot s's definition, or nil if out of range.
func (p *Pipeline) Slot(s int) *Slot {
	if s < 0 || s >= len(p.slots) {
		return nil
	}
	return &p.slots[s]
}

func (p *Pipeline) validSource(col, selfCol int) error {
	if col < -1 || col >= p.ds.TotalColumns() {
		return fmt.Errorf("%w: column %d", ErrBadColumn, col)
	}
	if col == selfCol {
		return ErrSelfReference
	}
	return nil
}

func (p *Pipeline) freeSlot() (int, error) {
	for i := range p.slots {
		if p.slots[i].Kind == Free {
			return i, nil
		}
	}
	logx.Log.Error().Msg(ErrNoFreeSlot.Error())
	return -1, ErrNoFreeSlot
}

// AddTimeUnwrap allocates (or, per spec.md §4.3's deduplication rule,
// reuses) a TIME_UNWRAP slot reading from src.
func (p *Pipeline) AddTimeUnwrap(src int) (int, error) {
	for i := range p.slots {
		if p.slots[i].MatchesTimeUnwrap(src) {
			return i, nil
		}
	}
	s, err := p.freeSlot()
	if err != nil {
		return -1, err
	}
	if err := p.validSource(src, p.Column(s)); err != nil {
		return -1, err
	}
	p.slots[s] = Slot{Kind: TimeUnwrap, SrcA: src, SrcB: -1}
	return s, nil
}

// AddScale allocates or reuses a SCALE slot computing a*x+b over src.
func (p *Pipeline) AddScale(src int, a, b float32) (int, error) {
	for i := range p.slots {
		if p.slots[i].MatchesScale(src, a, b) {
			return i, nil
		}
	}
	s, err := p.freeSlot()
	if err != nil {
		return -1, err
	}
	if err := p.validSource(src, p.Column(s)); err != nil {
		return -1, err
	}
	p.slots[s] = Slot{Kind: Scale, SrcA: src, SrcB: -1, ScaleA: a, ScaleB: b}
	return s, nil
}

// AddBinary allocates a BINARY_{SUB,ADD,MUL,HYP} slot over (srcA, srcB).
func (p *Pipeline) AddBinary(kind Kind, srcA, srcB int) (int, error) {
	switch kind {
	case BinarySub, BinaryAdd, BinaryMul, BinaryHyp:
	default:
		return -1, fmt.Errorf("derive: %s is not a binary kind", kind)
	}
	s, err := p.freeSlot()
	if err != nil {
		return -1, err
	}
	self := p.Column(s)
	if err := p.validSource(srcA, self); err != nil {
		return -1, err
	}
	if err := p.validSource(srcB, self); err != nil {
		return -1, err
	}
	p.slots[s] = Slot{Kind: kind, SrcA: srcA, SrcB: srcB}
	return s, nil
}

// AddFilterDiff allocates a FILTER_DIFF slot.
func (p *Pipeline) AddFilterDiff(src int) (int, error) {
	s, err := p.freeSlot()
	if err != nil {
		return -1, err
	}
	if err := p.validSource(src, p.Column(s)); err != nil {
		return -1, err
	}
	p.slots[s] = Slot{Kind: FilterDiff, SrcA: src, SrcB: -1}
	return s, nil
}

// AddFilterCum allocates a FILTER_CUM slot.
func (p *Pipeline) AddFilterCum(src int) (int, error) {
	s, err := p.freeSlot()
	if err != nil {
		return -1, err
	}
	if err := p.validSource(src, p.Column(s)); err != nil {
		return -1, err
	}
	p.slots[s] = Slot{Kind: FilterCum, SrcA: src, SrcB: -1}
	return s, nil
}

// AddFilterBitmask allocates a FILTER_BITMASK slot extracting bits
// [lo, hi] of src. Rejects lo > hi or hi >= 32 as a semantic violation
// (spec.md §7; SPEC_FULL.md's bitmask-range supplement).
func (p *Pipeline) AddFilterBitmask(src int, lo, hi uint) (int, error) {
	if lo > hi || hi >= 32 {
		logx.Log.Error().Uint64("lo", uint64(lo)).Uint64("hi", uint64(hi)).Msg(ErrBadBitmask.Error())
		return -1, ErrBadBitmask
	}
	s, err := p.freeSlot()
	if err != nil {
		return -1, err
	}
	if err := p.validSource(src, p.Column(s)); err != nil {
		return -1, err
	}
	p.slots[s] = Slot{Kind: FilterBitmask, SrcA: src, SrcB: -1, MaskLo: lo, MaskHi: hi}
	return s, nil
}

// AddFilterLowpass allocates a FILTER_LOWPASS slot with the given gain.
func (p *Pipeline) AddFilterLowpass(src int, gain float32) (int, error) {
	if gain <= 0 || gain > 1 {
		logx.Log.Error().Float32("gain", gain).Msg(ErrBadGain.Error())
		return -1, ErrBadGain
	}
	s, err := p.freeSlot()
	if err != nil {
		return -1, err
	}
	if err := p.validSource(src, p.Column(s)); err != nil {
		return -1, err
	}
	p.slots[s] = Slot{Kind: FilterLowpass, SrcA: src, SrcB: -1, Gain: gain}
	return s, nil
}

// AddResample allocates a RESAMPLE slot interpolating srcDataset's
// srcYColumn (keyed by srcTimeCol) against this dataset's ownTimeCol.
func (p *Pipeline) AddResample(srcDataset *ring.Dataset, srcYColumn, srcTimeCol, ownTimeCol int) (int, error) {
	if err := p.validSource(ownTimeCol, -1); err != nil {
		return -1, err
	}
	s, err := p.freeSlot()
	if err != nil {
		return -1, err
	}
	p.slots[s] = Slot{
		Kind:       Resample,
		SrcA:       -1,
		SrcB:       -1,
		SrcDataset: srcDataset,
		SrcYColumn: srcYColumn,
		SrcTimeCol: srcTimeCol,
		OwnTimeCol: ownTimeCol,
	}
	return s, nil
}

// AddPolyfit allocates a POLYFIT slot fitting src (the Y column) against
// xColumn (may be -1, the synthetic row-index column) at the given
// degree.
func (p *Pipeline) AddPolyfit(src, xColumn int, degree int) (int, error) {
	s, err := p.freeSlot()
	if err != nil {
		return -1, err
	}
	self := p.Column(s)
	if err := p.validSource(src, self); err != nil {
		return -1, err
	}
	if err := p.validSource(xColumn, self); err != nil {
		return -1, err
	}
	p.slots[s] = Slot{Kind: Polyfit, SrcA: src, SrcB: xColumn, Degree: degree}
	return s, nil
}

// Free releases slot s back to FREE, discarding its definition and state.
func (p *Pipeline) Free(s int) {
	if s < 0 || s >= len(p.slots) {
		return
	}
	p.slots[s] = Slot{Kind: Free, SrcA: -1, SrcB: -1}
}

// GarbageSweep is the fixpoint pass of spec.md §4.3: it frees any slot
// whose owned column is not in liveColumns and not read by any other live
// slot. Returns the set of freed slot indices.
func (p *Pipeline) GarbageSweep(liveColumns map[int]bool) []int {
	used := make([]bool, len(p.slots))
	for s := range p.slots {
		if p.slots[s].Kind != Free && liveColumns[p.Column(s)] {
			used[s] = true
		}
	}
	for {
		changed := false
		for s := range p.slots {
			if used[s] || p.slots[s].Kind == Free {
				continue
			}
			for dep := range p.slots {
				if dep == s || !used[dep] {
					continue
				}
				for _, src := range p.slots[dep].Sources() {
					if src == p.Column(s) {
						used[s] = true
						changed = true
						break
					}
				}
				if used[s] {
					break
				}
			}
		}
		if !changed {
			break
		}
	}

	var freed []int
	for s := range p.slots {
		if p.slots[s].Kind != Free && !used[s] {
			freed = append(freed, s)
			p.Free(s)
		}
	}
	if len(freed) > 0 {
		logx.Log.Debug().Ints("freed_slots", freed).Msg("derive: garbage sweep")
	}
	return freed
}
