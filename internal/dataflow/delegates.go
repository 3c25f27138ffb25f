package dataflow

// ResolveDelegates runs a best-effort points-to pass restricted to
// delegate-typed values: it is not required to be precise, only to
// avoid ever reporting a false unused-write diagnostic for a value
// that might flow into an invocation it cannot fully trace. It
// records, per declarator, simple-assignment and invocation-callee
// site, the set of concrete callable operations it may evaluate to.
//
// Resolution is flow-sensitive in the same style as the reaching-
// definitions driver: a forward fixed point over cfg's blocks, with a
// symbol's candidate set replaced by a plain (non-branching) reassignment
// and unioned across two incoming branches that disagree, so a delegate
// assigned differently on either arm of an if resolves to both
// candidates at the join rather than whichever assignment the walk
// happened to visit last.
func ResolveDelegates(data *AnalysisData, cfg *CFG) {
	resolveDelegatesFlow(data, cfg)
	for _, nested := range cfg.Nested {
		ResolveDelegates(data, nested)
	}
}

// ResolveDelegatesFlat runs the same pass over a single straight-line
// operation list with no branches, for the fast-path analysis that
// skips CFG construction entirely.
func ResolveDelegatesFlat(data *AnalysisData, ops []Operation) {
	resolved := newDelegateState()
	for _, op := range ops {
		visitForDelegates(data, op, resolved)
	}
}

// delegateState is the per-point dataflow value of the delegate
// resolver: for every symbol known to hold a callable value, the set
// of concrete operations it may currently evaluate to.
type delegateState map[*Symbol]map[Operation]struct{}

func newDelegateState() delegateState {
	return make(delegateState)
}

func (s delegateState) clone() delegateState {
	c := make(delegateState, len(s))
	for sym, set := range s {
		cs := make(map[Operation]struct{}, len(set))
		for op := range set {
			cs[op] = struct{}{}
		}
		c[sym] = cs
	}
	return c
}

// merge folds other into s as a union of per-symbol candidate sets,
// the join operation used where two blocks' out-states meet.
func (s delegateState) merge(other delegateState) {
	for sym, set := range other {
		dst, ok := s[sym]
		if !ok {
			dst = make(map[Operation]struct{}, len(set))
			s[sym] = dst
		}
		for op := range set {
			dst[op] = struct{}{}
		}
	}
}

func (s delegateState) equal(other delegateState) bool {
	if len(s) != len(other) {
		return false
	}
	for sym, set := range s {
		oset, ok := other[sym]
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

// assign replaces sym's candidate set with target alone: a plain
// assignment within a block is a definite write, same as
// BlockState.Write's non-maybe case.
func (s delegateState) assign(sym *Symbol, target Operation) {
	cs := make(map[Operation]struct{}, 1)
	cs[target] = struct{}{}
	s[sym] = cs
}

func (s delegateState) candidates(sym *Symbol) []Operation {
	set, ok := s[sym]
	if !ok {
		return nil
	}
	out := make([]Operation, 0, len(set))
	for op := range set {
		out = append(out, op)
	}
	return out
}

func resolveDelegatesFlow(data *AnalysisData, cfg *CFG) {
	if len(cfg.Blocks) == 0 {
		return
	}
	blockOut := make(map[*BasicBlock]delegateState, len(cfg.Blocks))
	for _, b := range cfg.Blocks {
		blockOut[b] = newDelegateState()
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

		in := newDelegateState()
		for _, pred := range b.Predecessors {
			in.merge(blockOut[pred])
		}

		out := in.clone()
		for _, op := range b.Operations {
			visitForDelegates(data, op, out)
		}

		if !out.equal(blockOut[b]) {
			blockOut[b] = out
			for _, succ := range b.Successors {
				if !queued[succ] {
					worklist = append(worklist, succ)
					queued[succ] = true
				}
			}
		}
	}
}

// unwrapCallableTarget strips the transparent wrappers (delegate
// construction, conversion, parenthesization) a callable value may be
// wrapped in before reaching a concrete MethodReference or lambda body.
func unwrapCallableTarget(op Operation) Operation {
	switch n := op.(type) {
	case *MethodReference:
		return op
	case *AnonymousFunction:
		return op
	case *FlowAnonymousFunction:
		return op
	case *DelegateCreation:
		return unwrapCallableTarget(n.Target)
	case *Conversion:
		return unwrapCallableTarget(n.Operand)
	case *Parenthesized:
		return unwrapCallableTarget(n.Inner)
	default:
		return nil
	}
}

func visitForDelegates(data *AnalysisData, op Operation, resolved delegateState) {
	if op == nil {
		return
	}
	switch n := op.(type) {
	case *VariableDeclarator:
		if n.Initializer != nil {
			if target := unwrapCallableTarget(n.Initializer); target != nil {
				resolved.assign(n.Symbol, target)
				data.RecordDelegateTarget(n, target)
			}
			visitForDelegates(data, n.Initializer, resolved)
		}

	case *SimpleAssignment:
		if target := unwrapCallableTarget(n.Value); target != nil {
			if sym := symbolOf(n.Target); sym != nil {
				resolved.assign(sym, target)
				data.RecordDelegateTarget(n, target)
			}
		}
		visitForDelegates(data, n.Value, resolved)

	case *Invocation:
		visitForDelegates(data, n.Callee, resolved)
		resolveCallee(data, n.Callee, resolved)
		for _, a := range n.Arguments {
			visitForDelegates(data, a.Value, resolved)
		}

	default:
		for _, c := range op.Children() {
			visitForDelegates(data, c, resolved)
		}
	}
}

// resolveCallee looks up the candidate set for an invocation's callee.
// A callee that resolves to a symbol but has no recorded candidate at
// all is the truly unresolvable case — a local or
// parameter used as a callable value that this pass never saw
// assigned from anything it understands — and resetState
// conservatively marks every write seen so far as used, since the
// engine cannot rule out that this call is the one place that reads
// them. A callee that isn't symbol-shaped at all (an ordinary
// function-name invocation, for instance) is simply not a delegate
// this pass tracks, and is not treated as a failure.
func resolveCallee(data *AnalysisData, callee Operation, resolved delegateState) {
	if sym := symbolOf(callee); sym != nil {
		if targets := resolved.candidates(sym); len(targets) > 0 {
			for _, t := range targets {
				data.RecordDelegateTarget(callee, t)
			}
			return
		}
		data.noteUnresolvedDelegate()
		data.resetState(callee)
		return
	}
	if target := unwrapCallableTarget(callee); target != nil {
		data.RecordDelegateTarget(callee, target)
	}
}
