package engine

import "github.com/itohio/plotcore/x/derive"

// DatasetStats is a read-only snapshot of one dataset's occupancy, the
// way pkg/store's Dump summarizes a store without mutating it. This is a
// SPEC_FULL.md supplement (not a spec.md module): plain introspection
// tooling over state the engine already owns.
type DatasetStats struct {
	Dataset      int
	Count        int
	HeadID       int64
	TailID       int64
	DerivedUsed  int
	DerivedTotal int
}

// Stats snapshots every allocated dataset's occupancy for a CLI or
// scripting frontend to report.
func (e *Engine) Stats() []DatasetStats {
	var out []DatasetStats
	for i := range e.datasets {
		if !e.datasets[i].used {
			continue
		}
		ds := e.datasets[i].ring
		p := e.datasets[i].pipeline
		used := 0
		for s := 0; s < p.Len(); s++ {
			if p.Slot(s).Kind != derive.Free {
				used++
			}
		}
		out = append(out, DatasetStats{
			Dataset:      i,
			Count:        ds.Count(),
			HeadID:       ds.HeadID(),
			TailID:       ds.TailID(),
			DerivedUsed:  used,
			DerivedTotal: p.Len(),
		})
	}
	return out
}
