// Package engine wires components A–H into the single imperative API
// spec.md §6 describes: one actor, consumed one call at a time, whose
// operations reference datasets/axes/figures/groups/subtracts by small
// fixed-bound integer indices. Grounded on the teacher's own top-level
// "core" composition style (a single struct wiring previously-independent
// packages, exposed through plain methods rather than an event bus).
package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/itohio/plotcore/config"
	"github.com/itohio/plotcore/internal/logx"
	"github.com/itohio/plotcore/x/axis"
	"github.com/itohio/plotcore/x/derive"
	"github.com/itohio/plotcore/x/rangecache"
	"github.com/itohio/plotcore/x/ring"
	"github.com/itohio/plotcore/x/sketch"
)

var (
	ErrNoFreeDataset = errors.New("engine: no free dataset slot")
	ErrBadDataset    = errors.New("engine: dataset index out of range")
)

// dataset pairs a ring buffer with the derived-column pipeline built
// over its reserved K slots (component A + component C, one per
// dataset).
type dataset struct {
	used     bool
	ring     *ring.Dataset
	pipeline *derive.Pipeline
}

// Engine owns every dataset, the shared range cache, the axis/figure
// model, and the draw engine — the complete wiring spec.md §2's system
// overview describes.
type Engine struct {
	opts config.Options

	// SessionID correlates this engine instance's log lines across a
	// run; it plays no role in any data-path decision.
	SessionID string

	datasets []dataset
	rc       *rangecache.Cache
	model    *axis.Model
	draw     *sketch.Engine
	pool     *sketch.Pool
}

// New constructs an engine with every pool sized from opts (spec.md §5:
// fixed capacity, no demand growth). opts should be config.Default() or
// the result of config.Load, and must pass Validate.
func New(opts config.Options) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	pool := sketch.NewPool(opts.ChunkMax, opts.SketchChunk)
	e := &Engine{
		opts:      opts,
		SessionID: uuid.NewString(),
		datasets:  make([]dataset, opts.DatasetMax),
		rc:        rangecache.New(opts.RangeCacheSize),
		model:     axis.NewModel(opts.AxisMax, opts.FigureMax),
		draw:      sketch.NewEngine(pool, opts.FigureMax, opts.FramePxMarginX),
		pool:      pool,
	}
	logx.Log.Info().Str("session", e.SessionID).Msg("engine constructed")
	return e, nil
}

func (e *Engine) freeDatasetSlot() (int, error) {
	for i := range e.datasets {
		if !e.datasets[i].used {
			return i, nil
		}
	}
	logx.Log.Error().Msg(ErrNoFreeDataset.Error())
	return -1, ErrNoFreeDataset
}

// NewDataset allocates a dataset with columnN real columns and
// requestedLength rows of ring capacity (spec.md §4.1).
func (e *Engine) NewDataset(columnN, requestedLength int) (int, error) {
	i, err := e.freeDatasetSlot()
	if err != nil {
		return -1, err
	}
	d, err := ring.New(columnN, e.opts.SubtractMax, requestedLength, e.opts.ChunkSizeBytes, e.opts.ChunkMax, e.opts.ChunkCacheSize, e.opts.LZ4Compress)
	if err != nil {
		return -1, err
	}
	d.ID = i
	d.RegisterInvalidator(e.rc)
	e.datasets[i] = dataset{used: true, ring: d, pipeline: derive.New(d, e.opts.SubtractMax)}
	return i, nil
}

// Dataset returns dataset d's ring buffer, or nil if unused/out of range.
func (e *Engine) Dataset(d int) *ring.Dataset {
	if d < 0 || d >= len(e.datasets) || !e.datasets[d].used {
		return nil
	}
	return e.datasets[d].ring
}

// Pipeline returns dataset d's derived-column pipeline, or nil.
func (e *Engine) Pipeline(d int) *derive.Pipeline {
	if d < 0 || d >= len(e.datasets) || !e.datasets[d].used {
		return nil
	}
	return e.datasets[d].pipeline
}

// lookupDataset and lookupPipeline adapt Engine's dataset table to the
// callback-style indirection x/axis's DatasetLookup/PipelineLookup and
// x/sketch expect, so neither package needs to import Engine.
func (e *Engine) lookupDataset(d int) *ring.Dataset     { return e.Dataset(d) }
func (e *Engine) lookupPipeline(d int) *derive.Pipeline { return e.Pipeline(d) }

// Insert appends one row to dataset d (spec.md §4.1).
func (e *Engine) Insert(d int, row []float32) error {
	ds := e.Dataset(d)
	if ds == nil {
		return fmt.Errorf("%w: %d", ErrBadDataset, d)
	}
	ds.Insert(row)
	return nil
}

// CleanDataset empties dataset d, releasing the draw engine's cursors
// over it since they are now invalid (spec.md §5).
func (e *Engine) CleanDataset(d int) error {
	ds := e.Dataset(d)
	if ds == nil {
		return fmt.Errorf("%w: %d", ErrBadDataset, d)
	}
	ds.Clean()
	e.draw.Reset()
	return nil
}

// ResizeDataset changes dataset d's row capacity (spec.md §4.1, §9 Open
// Question (a): a reduction resets cursors rather than compacting).
func (e *Engine) ResizeDataset(d, requestedLength int) error {
	ds := e.Dataset(d)
	if ds == nil {
		return fmt.Errorf("%w: %d", ErrBadDataset, d)
	}
	if err := ds.Resize(requestedLength, e.opts.ChunkSizeBytes, e.opts.ChunkMax); err != nil {
		return err
	}
	e.draw.Reset()
	return nil
}

// Model exposes the axis/figure model (component E) for callers that
// need direct access beyond the wrapper methods below.
func (e *Engine) Model() *axis.Model { return e.model }

// RangeCache exposes component B for callers needing a direct query
// (e.g. a scripting frontend inspecting true min/max).
func (e *Engine) RangeCache() *rangecache.Cache { return e.rc }
