package dataflow

import "sync"

// Arena pools BlockState values across the many methods a coordinator
// analyzes in one compilation/editing session. The worklist driver
// allocates one BlockState per basic block per fixed-point iteration;
// for a file with hundreds of methods that churns thousands of
// short-lived maps, so the Design Notes call for arena reuse over a
// Free()-discipline: a coordinator owns one Arena for as long as it
// keeps analyzing methods, and calls Release between methods once that
// method's diagnostics have been extracted from AnalysisData — after
// Release, any BlockState obtained from this Arena may be overwritten.
type Arena struct {
	pool    sync.Pool
	claimed []*BlockState
}

// NewArena returns an empty, ready-to-use Arena.
func NewArena() *Arena {
	a := &Arena{}
	a.pool.New = func() any { return newBlockState() }
	return a
}

// Get returns a zeroed BlockState, either freshly allocated or recycled
// from a previously released claim.
func (a *Arena) Get() *BlockState {
	s := a.pool.Get().(*BlockState)
	s.reset()
	a.claimed = append(a.claimed, s)
	return s
}

// Release returns every BlockState this Arena has handed out since the
// last Release back to the pool, to be reused by the next Analyze call
// sharing this Arena. Callers must not retain BlockState pointers
// obtained from this Arena past Release.
func (a *Arena) Release() {
	for _, s := range a.claimed {
		a.pool.Put(s)
	}
	a.claimed = a.claimed[:0]
}
