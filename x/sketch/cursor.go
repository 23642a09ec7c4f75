package sketch

import "github.com/itohio/plotcore/x/collab"

// State is a figure's draw-cursor state (spec.md §4.7's state machine:
// "FINISHED → STARTED (on data/view change) → INTERRUPTED* → FINISHED").
type State int

const (
	Finished State = iota
	Started
	Interrupted
)

// cursor is one figure's progressive draw state.
type cursor struct {
	valid bool // false for an unused figure slot

	rN    int   // ring row the cursor will resume from
	idN   int64 // logical id of rN, used to pick the most-lagging figure
	state State

	lastPt   collab.Point2D
	haveLast bool // "line" flag: a previous finite point is pending

	// curHead/curTail is the sketch chunk list being built during the
	// in-progress pass.
	curHead, curTail int
	// drawHead is the last fully promoted list, replayed by Draw until
	// the next pass promotes a new one.
	drawHead int
}

func newCursor() cursor {
	return cursor{curHead: noNode, curTail: noNode, drawHead: noNode}
}
