package dataflow

// Analyze runs the full single-method pipeline: the forward worklist
// fixed-point reaching-definitions pass driving the operation walker
// over every block of cfg, seeded with an implicit entry write for
// each parameter, followed by the best-effort delegate points-to pass
// and the Ref/Out escape check at the exit block. arena is owned by the caller —
// typically a coordinator analyzing many methods — and is not released
// here, so its BlockStates remain valid until the caller next calls
// arena.Release.
//
// The worklist order and convergence check are grounded directly on
// the classic gen/kill reaching-definitions driver: blocks are visited
// in reverse postorder, each block's out-state is recomputed from the
// current out-states of its predecessors, and a block's successors are
// re-queued only when its own out-state actually changed.
func Analyze(cfg *CFG, params []*Symbol, arena *Arena) *AnalysisData {
	data := newAnalysisData()

	blockOut := make(map[*BasicBlock]*BlockState, len(cfg.Blocks))
	for _, b := range cfg.Blocks {
		blockOut[b] = arena.Get()
	}

	entryIn := arena.Get()
	for _, p := range params {
		entryIn.Write(p, nil, false) // implicit entry write
	}

	order := cfg.ReversePostOrder()
	worklist := append([]*BasicBlock{}, order...)
	queued := make(map[*BasicBlock]bool, len(order))
	for _, b := range order {
		queued[b] = true
	}

	for len(worklist) > 0 {
		b := worklist[0]
		worklist = worklist[1:]
		queued[b] = false

		var in *BlockState
		if b == cfg.Entry {
			in = entryIn
		} else {
			in = arena.Get()
			for _, pred := range b.Predecessors {
				in.Merge(blockOut[pred])
			}
		}

		out := in.Clone()
		WalkBlock(data, out, b.Operations)

		if !out.Equal(blockOut[b]) {
			blockOut[b] = out
			for _, succ := range b.Successors {
				if !queued[succ] {
					worklist = append(worklist, succ)
					queued[succ] = true
				}
			}
		}
	}

	for _, b := range cfg.Blocks {
		data.setExitState(b, blockOut[b])
	}

	ResolveDelegates(data, cfg)
	resolveEscapes(data, blockOut[cfg.Exit])

	return data
}

// AnalyzeFlat runs the walker over a single straight-line operation
// list with no branches at all, skipping the worklist entirely. It is
// the cheap fallback a coordinator uses when an IR provider can't (or
// won't) build a full CFG for a method — most commonly because the
// method has no control flow to speak of. Delegate resolution still
// runs, scoped to the same flat list; the Ref/Out escape check uses the
// state at the end of ops as the exit state, since there is no distinct
// exit block to check against.
func AnalyzeFlat(ops []Operation, params []*Symbol) *AnalysisData {
	data := newAnalysisData()
	state := newBlockState()
	for _, p := range params {
		state.Write(p, nil, false)
	}
	WalkBlock(data, state, ops)
	ResolveDelegatesFlat(data, ops)
	resolveEscapes(data, state)
	return data
}

// exitEscapeRead is the synthetic "reader" every Ref/Out escape is
// attributed to. It carries no position of its own — diagnostics never
// surface it — it exists only as a distinct map key so escape-driven
// usage doesn't get confused with a real read operation.
type exitEscapeRead struct{ base }

// resolveEscapes marks every definition of a Ref/Out parameter still
// reaching the method's exit as used: the caller observes
// whatever the callee last wrote to it, so reassigning it and never
// reading it back locally is not a redundant write.
func resolveEscapes(data *AnalysisData, exitState *BlockState) {
	if exitState == nil {
		return
	}
	sentinel := &exitEscapeRead{}
	for _, sym := range exitState.Symbols() {
		if !sym.Escapes() {
			continue
		}
		for _, def := range exitState.Reaches(sym) {
			if def.WriteOp == nil {
				continue
			}
			data.MarkRead(sym, sentinel, []Definition{def})
		}
	}
}
