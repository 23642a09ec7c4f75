// Package sketch implements component G: the progressive, time-budgeted
// draw engine. It walks each figure's dataset forward in ring-chunk
// increments, trial-testing each point against the viewport, and
// accumulates the visible data-space segments into fixed-capacity
// "sketch chunks" it can later replay onto the canvas without rescanning
// the dataset. Grounded on pkg/store's explicit slab/slot allocation
// (fixed capacity, index-addressed, no demand growth) for the sketch
// chunk pool, and on pkg/pipeline/steps/processor.go's cooperative,
// resumable-step shape for the per-figure draw cursor state machine.
package sketch

import "github.com/itohio/plotcore/x/collab"

// node is one fixed-capacity sketch chunk: up to cap data-space points,
// linked to the next chunk in whichever list currently owns it.
type node struct {
	pts  []collab.Point2D
	fill int
	next int // index into Pool.nodes, or -1
}

// Pool is a fixed-size arena of sketch chunks (spec.md §4.7's "sketch
// free list"), addressed by index rather than pointer so ownership moves
// between the free/current/todraw lists by relinking an int, never by
// allocating.
type Pool struct {
	nodes []node
	free  int
	cap   int // points per chunk
}

const noNode = -1

// NewPool preallocates chunkCount chunks of cap points each.
func NewPool(chunkCount, cap int) *Pool {
	p := &Pool{nodes: make([]node, chunkCount), cap: cap}
	for i := range p.nodes {
		p.nodes[i].pts = make([]collab.Point2D, cap)
		p.nodes[i].next = i + 1
	}
	if chunkCount > 0 {
		p.nodes[chunkCount-1].next = noNode
	} else {
		p.free = noNode
	}
	return p
}

// alloc takes one chunk off the free list, or reports exhaustion
// (spec.md §7: "no free sketch chunk" is a resource-exhaustion failure,
// reported and handled best-effort by the caller).
func (p *Pool) alloc() (int, bool) {
	if p.free == noNode {
		return noNode, false
	}
	idx := p.free
	p.free = p.nodes[idx].next
	p.nodes[idx].fill = 0
	p.nodes[idx].next = noNode
	return idx, true
}

// releaseList returns an entire linked list, starting at head, to the
// free list in one splice.
func (p *Pool) releaseList(head int) {
	if head == noNode {
		return
	}
	tail := head
	for p.nodes[tail].next != noNode {
		tail = p.nodes[tail].next
	}
	p.nodes[tail].next = p.free
	p.free = head
}

// append adds a point to the list headed by head/tail, allocating a
// fresh chunk from the pool when the tail is full. Returns the
// (possibly new) head/tail and whether the point was stored (false only
// on pool exhaustion).
func (p *Pool) append(head, tail int, pt collab.Point2D) (int, int, bool) {
	if tail == noNode || p.nodes[tail].fill >= p.cap {
		next, ok := p.alloc()
		if !ok {
			return head, tail, false
		}
		if tail != noNode {
			p.nodes[tail].next = next
		} else {
			head = next
		}
		tail = next
	}
	n := &p.nodes[tail]
	n.pts[n.fill] = pt
	n.fill++
	return head, tail, true
}
