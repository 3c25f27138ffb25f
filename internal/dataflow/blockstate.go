package dataflow

// Definition is one reaching-definition fact: symbol Sym was last
// written by WriteOp at the point this fact is observed. WriteOp is
// nil for the implicit "defined on entry" write a parameter carries
// before any explicit assignment in the body.
type Definition struct {
	Sym     *Symbol
	WriteOp Operation
}

// BlockState is the dataflow value at one CFG point: for every symbol
// currently tracked, the set of definitions that may reach this point.
// A symbol with more than one member in its set is one the merge of
// two incoming branches could not resolve to a single writer — every
// member is a potential "last write", and all of them must be
// treated as reaching until reads or further writes narrow the set.
//
// Discard symbols are never given an entry in this map: Write is
// a guarded no-op for them, and Reaches always returns empty.
type BlockState struct {
	defs map[*Symbol]map[Operation]struct{}
}

func newBlockState() *BlockState {
	return &BlockState{defs: make(map[*Symbol]map[Operation]struct{})}
}

// reset clears a BlockState for reuse from the arena without reallocating
// its backing map, as long as capacity allows.
func (s *BlockState) reset() {
	for k := range s.defs {
		delete(s.defs, k)
	}
}

// Write records writeOp as a reaching definition for sym. When maybe is
// false this is a definite write: it replaces whatever the symbol's set
// held before, since every prior definition is now provably dead from
// this point on. When maybe is true — a potential write, such as a
// `ref` argument whose callee may or may not actually reassign it —
// writeOp is added to the existing set instead, since a prior
// definition may still be the one that reaches past this point. Writes
// to a discard symbol are dropped.
func (s *BlockState) Write(sym *Symbol, writeOp Operation, maybe bool) {
	if sym.IsDiscard() {
		return
	}
	if maybe {
		set, ok := s.defs[sym]
		if !ok {
			set = make(map[Operation]struct{}, 1)
			s.defs[sym] = set
		}
		set[writeOp] = struct{}{}
		return
	}
	set := make(map[Operation]struct{}, 1)
	set[writeOp] = struct{}{}
	s.defs[sym] = set
}

// Reaches returns the current set of writes that may reach this point
// for sym, as Definitions. A nil slice means sym is not currently
// tracked (never written on any path reaching here).
func (s *BlockState) Reaches(sym *Symbol) []Definition {
	set, ok := s.defs[sym]
	if !ok {
		return nil
	}
	out := make([]Definition, 0, len(set))
	for op := range set {
		out = append(out, Definition{Sym: sym, WriteOp: op})
	}
	return out
}

// Merge folds other into s as a union of per-symbol write sets — the
// join operation of the monotone dataflow lattice. A symbol
// written on only one of the two incoming paths still reaches with
// that single write; a symbol written differently on each path reaches
// with both as candidates.
func (s *BlockState) Merge(other *BlockState) {
	for sym, set := range other.defs {
		dst, ok := s.defs[sym]
		if !ok {
			dst = make(map[Operation]struct{}, len(set))
			s.defs[sym] = dst
		}
		for op := range set {
			dst[op] = struct{}{}
		}
	}
}

// Equal reports whether s and other hold the same reaching-definition
// facts for every symbol, used by the driver to detect fixed point.
func (s *BlockState) Equal(other *BlockState) bool {
	if len(s.defs) != len(other.defs) {
		return false
	}
	for sym, set := range s.defs {
		oset, ok := other.defs[sym]
		if !ok || len(oset) != len(set) {
			return false
		}
		for op := range set {
			if _, ok := oset[op]; !ok {
				return false
			}
		}
	}
	return true
}

// Clone returns an independent copy, used when a block needs to mutate
// its own entry state to produce an exit state without disturbing the
// value other blocks may still be reading during the same worklist pass.
func (s *BlockState) Clone() *BlockState {
	c := newBlockState()
	for sym, set := range s.defs {
		cs := make(map[Operation]struct{}, len(set))
		for op := range set {
			cs[op] = struct{}{}
		}
		c.defs[sym] = cs
	}
	return c
}

// Symbols returns every symbol currently tracked in this state. Used
// by the Ref/Out escape check at the exit state.
func (s *BlockState) Symbols() []*Symbol {
	out := make([]*Symbol, 0, len(s.defs))
	for sym := range s.defs {
		out = append(out, sym)
	}
	return out
}
