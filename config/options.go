// Package config decodes the engine's structured option groups from YAML,
// the way x/marshaller/yaml decodes other EasyRobot documents. Per
// spec.md §6, the engine keeps no persistent state of its own; Options is
// the only thing ever loaded from disk, and only at construction time.
package config

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Layout mirrors the source's layout_* option group.
type Layout struct {
	MarginPx   float32 `yaml:"margin_px"`
	AxisBoxPx  float32 `yaml:"axis_box_px"`
	LabelBoxPx float32 `yaml:"label_box_px"`
	MarkWidth  float32 `yaml:"mark_width_px"`
}

// Defaults mirrors the source's default_* option group.
type Defaults struct {
	Drawing   string  `yaml:"drawing"` // "line" | "dash" | "dot"
	Width     float32 `yaml:"width"`
	FontPt    float32 `yaml:"font_pt"`
	Precision int     `yaml:"fprecision"`
}

// Options is the top-level configuration document for pkg/engine.
type Options struct {
	// Fixed-capacity bounds (spec.md §3, §5): chosen once at engine
	// construction, never grown on demand.
	DatasetMax  int `yaml:"dataset_max"`
	ColumnMax   int `yaml:"column_max"`
	AxisMax     int `yaml:"axis_max"`
	FigureMax   int `yaml:"figure_max"`
	GroupMax    int `yaml:"group_max"`
	SubtractMax int `yaml:"subtract_max"` // K in spec.md §3

	ChunkSizeBytes int `yaml:"plot_chunk_size"`  // PLOT_CHUNK_SIZE
	ChunkMax       int `yaml:"plot_chunk_max"`   // PLOT_CHUNK_MAX
	ChunkCacheSize int `yaml:"plot_chunk_cache"` // PLOT_CHUNK_CACHE
	RangeCacheSize int `yaml:"plot_rcache_size"` // PLOT_RCACHE_SIZE
	SliceSpan      int `yaml:"slice_span"`       // SLICE_SPAN
	SketchChunk    int `yaml:"sketch_chunk_size"`

	LZ4Compress       bool    `yaml:"lz4_compress"`
	TransparencyMode  bool    `yaml:"transparency_mode"`
	FramePxMarginX    float32 `yaml:"frame_px_margin_x"`
	FrameBudgetMillis int64   `yaml:"frame_budget_ms"`

	Layout   Layout   `yaml:"layout"`
	Defaults Defaults `yaml:"default"`
}

// Default returns the compiled-in configuration used when no YAML document
// is supplied.
func Default() Options {
	return Options{
		DatasetMax:  16,
		ColumnMax:   64,
		AxisMax:     32,
		FigureMax:   64,
		GroupMax:    16,
		SubtractMax: 16,

		ChunkSizeBytes: 16 * 1024,
		ChunkMax:       4096,
		ChunkCacheSize: 64,
		RangeCacheSize: 256,
		SliceSpan:      8,
		SketchChunk:    256,

		LZ4Compress:       false,
		TransparencyMode:  false,
		FramePxMarginX:    16,
		FrameBudgetMillis: 20,

		Layout: Layout{
			MarginPx:   4,
			AxisBoxPx:  28,
			LabelBoxPx: 14,
			MarkWidth:  6,
		},
		Defaults: Defaults{
			Drawing:   "line",
			Width:     1,
			FontPt:    10,
			Precision: 3,
		},
	}
}

// Load decodes a YAML document on top of Default(), so a partial document
// only overrides the fields it names.
func Load(r io.Reader) (Options, error) {
	opts := Default()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&opts); err != nil && err != io.EOF {
		return Options{}, fmt.Errorf("config: decode: %w", err)
	}
	return opts, nil
}

// Validate bounds-checks the fixed-capacity fields against the invariants
// spec.md §3/§5 require of them. This is a SPEC_FULL.md supplement (not a
// spec.md module): it turns a silent misconfiguration into a rejected
// construction at engine.New.
func (o Options) Validate() error {
	checks := []struct {
		name string
		v    int
	}{
		{"dataset_max", o.DatasetMax},
		{"column_max", o.ColumnMax},
		{"axis_max", o.AxisMax},
		{"figure_max", o.FigureMax},
		{"group_max", o.GroupMax},
		{"subtract_max", o.SubtractMax},
		{"plot_chunk_max", o.ChunkMax},
		{"plot_chunk_cache", o.ChunkCacheSize},
		{"plot_rcache_size", o.RangeCacheSize},
		{"slice_span", o.SliceSpan},
		{"sketch_chunk_size", o.SketchChunk},
	}
	for _, c := range checks {
		if c.v <= 0 {
			return fmt.Errorf("config: %s must be positive, got %d", c.name, c.v)
		}
	}
	if o.ChunkSizeBytes <= 0 || o.ChunkSizeBytes&(o.ChunkSizeBytes-1) != 0 {
		return fmt.Errorf("config: plot_chunk_size must be a positive power of two, got %d", o.ChunkSizeBytes)
	}
	if o.ChunkCacheSize > o.ChunkMax {
		return fmt.Errorf("config: plot_chunk_cache (%d) cannot exceed plot_chunk_max (%d)", o.ChunkCacheSize, o.ChunkMax)
	}
	return nil
}
