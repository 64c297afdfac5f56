package shadows

import (
	"iter"
	"sync"
)

// Occluders is a read-only view of a collection of wall segments.
// Casting iterates it once per light.
type Occluders interface {
	// All yields every non-degenerate segment in insertion order.
	All() iter.Seq[Segment]
	// Len returns the number of segments.
	Len() int
}

// Segments adapts a plain slice to Occluders. Degenerate entries are
// skipped during iteration.
type Segments []Segment

// All yields the non-degenerate segments of the slice.
func (s Segments) All() iter.Seq[Segment] {
	return func(yield func(Segment) bool) {
		for _, seg := range s {
			if seg.IsDegenerate() {
				continue
			}
			if !yield(seg) {
				return
			}
		}
	}
}

// Len returns the slice length.
func (s Segments) Len() int { return len(s) }

// EdgePool is the ordered collection of occluders that every cast reads.
// Edits happen at the tail (the interactive editors push and pop the
// segment under construction), and a pool never holds a degenerate segment.
//
// The pool is single-writer: casts take the read lock while iterating, so an
// edit made from another goroutine waits until the cast finishes.
type EdgePool struct {
	mu    sync.RWMutex
	edges []Segment
}

// NewEdgePool creates a pool holding the non-degenerate segments given.
func NewEdgePool(segs ...Segment) *EdgePool {
	p := &EdgePool{edges: make([]Segment, 0, len(segs))}
	for _, s := range segs {
		p.Append(s)
	}
	return p
}

// Append adds a segment to the end of the pool. Degenerate segments are
// rejected and Append reports false.
func (p *EdgePool) Append(s Segment) bool {
	if s.IsDegenerate() {
		return false
	}
	p.mu.Lock()
	p.edges = append(p.edges, s)
	p.mu.Unlock()
	return true
}

// AppendAll adds every segment given and returns how many were accepted.
func (p *EdgePool) AppendAll(segs []Segment) int {
	n := 0
	for _, s := range segs {
		if p.Append(s) {
			n++
		}
	}
	return n
}

// RemoveLast removes and returns the most recently appended segment.
func (p *EdgePool) RemoveLast() (Segment, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.edges) == 0 {
		return Segment{}, false
	}
	last := p.edges[len(p.edges)-1]
	p.edges = p.edges[:len(p.edges)-1]
	return last, true
}

// Clear removes every segment.
func (p *EdgePool) Clear() {
	p.mu.Lock()
	p.edges = p.edges[:0]
	p.mu.Unlock()
}

// Len returns the number of segments in the pool.
func (p *EdgePool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.edges)
}

// At returns the i-th segment. It panics if i is out of range.
func (p *EdgePool) At(i int) Segment {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.edges[i]
}

// All yields the segments in insertion order while holding the read lock.
// The pool must not be edited from inside the loop body.
func (p *EdgePool) All() iter.Seq[Segment] {
	return func(yield func(Segment) bool) {
		p.mu.RLock()
		defer p.mu.RUnlock()
		for _, s := range p.edges {
			if !yield(s) {
				return
			}
		}
	}
}

// Segments returns a copy of the pool contents.
func (p *EdgePool) Segments() []Segment {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Segment, len(p.edges))
	copy(out, p.edges)
	return out
}
