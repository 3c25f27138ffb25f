package dataflow

// AnalysisData is the accumulated output of one method's walker pass:
// the definition-usage map (which writes were ever read, by which
// reads), the set of symbols ever read at all, the per-block entry/exit
// states the driver computed, and the best-effort delegate target sets
// the delegate resolver produced. The diagnostic selector reads this
// structure to decide which writes and parameters are unused; nothing
// upstream of it mutates AnalysisData once the walk and the fixed
// point have both completed.
type AnalysisData struct {
	// definitionUsage maps a write occurrence to the set of read
	// occurrences that may observe it. A write present as a key with an
	// empty value set was never read on any path: a candidate VALUE_UNUSED.
	definitionUsage map[Operation]map[Operation]struct{}

	// symbolsRead is every symbol that was the target of at least one
	// read anywhere in the method, independent of which write reached
	// it — used for the coarse unused-parameter fast-path check.
	symbolsRead map[*Symbol]struct{}

	// symbolsWritten is every symbol with at least one explicit write
	// (as distinct from the implicit entry write parameters start with).
	symbolsWritten map[*Symbol]struct{}

	// blockExitStates holds, for each analyzed block, the BlockState as
	// of that block's exit, used by the escape check at CFG.Exit
	// and by diagnostics that need "what reaches this point".
	blockExitStates map[*BasicBlock]*BlockState

	// delegateTargets maps a declarator, simple assignment or
	// invocation callee to the set of callable operations the delegate
	// resolver determined it may evaluate to — one or more
	// MethodReference/AnonymousFunction operations, best-effort, for
	// anything that flows through a local variable first.
	delegateTargets map[Operation]map[Operation]struct{}

	// captureFlow tracks, per FlowCapture id, which Operation produced
	// the captured l-value, so a FlowCaptureReference write can resolve
	// back to the symbol it ultimately targets.
	captureFlow map[int]Operation

	// unresolvedDelegates counts invocations whose callee the delegate resolver
	// could not resolve to any concrete target at all (distinct from
	// resolving to "more than one, handled conservatively") — surfaced
	// through the AnalysisAborted/UnresolvableDelegate error taxonomy
	// when a caller asks for strict mode.
	unresolvedDelegates int
}

func newAnalysisData() *AnalysisData {
	return &AnalysisData{
		definitionUsage: make(map[Operation]map[Operation]struct{}),
		symbolsRead:     make(map[*Symbol]struct{}),
		symbolsWritten:  make(map[*Symbol]struct{}),
		blockExitStates: make(map[*BasicBlock]*BlockState),
		delegateTargets: make(map[Operation]map[Operation]struct{}),
		captureFlow:     make(map[int]Operation),
	}
}

// MarkWrite registers writeOp as a definition of sym, creating an empty
// usage set for it if this is the first time writeOp has been seen.
// Discard symbols are never recorded.
func (d *AnalysisData) MarkWrite(sym *Symbol, writeOp Operation) {
	if sym.IsDiscard() {
		return
	}
	d.symbolsWritten[sym] = struct{}{}
	if _, ok := d.definitionUsage[writeOp]; !ok {
		d.definitionUsage[writeOp] = make(map[Operation]struct{})
	}
}

// MarkRead records that readOp observed every definition in reaching,
// so each of those writes is no longer a VALUE_UNUSED candidate.
func (d *AnalysisData) MarkRead(sym *Symbol, readOp Operation, reaching []Definition) {
	if sym.IsDiscard() {
		return
	}
	d.symbolsRead[sym] = struct{}{}
	for _, def := range reaching {
		if def.WriteOp == nil {
			continue // the implicit entry write is never a diagnostic target
		}
		set, ok := d.definitionUsage[def.WriteOp]
		if !ok {
			set = make(map[Operation]struct{})
			d.definitionUsage[def.WriteOp] = set
		}
		set[readOp] = struct{}{}
	}
}

// UnreadWrites returns every write operation recorded via MarkWrite
// whose usage set is still empty: the raw candidate list the diagnostic selector
// filters down to VALUE_UNUSED/EXPR_UNUSED diagnostics.
func (d *AnalysisData) UnreadWrites() []Operation {
	var out []Operation
	for op, readers := range d.definitionUsage {
		if len(readers) == 0 {
			out = append(out, op)
		}
	}
	return out
}

// WasRead reports whether sym was the target of any read anywhere in
// the method (regardless of which definition reached that read).
func (d *AnalysisData) WasRead(sym *Symbol) bool {
	_, ok := d.symbolsRead[sym]
	return ok
}

// WasWritten reports whether sym has at least one explicit write.
func (d *AnalysisData) WasWritten(sym *Symbol) bool {
	_, ok := d.symbolsWritten[sym]
	return ok
}

func (d *AnalysisData) setExitState(b *BasicBlock, s *BlockState) {
	d.blockExitStates[b] = s
}

// ExitState returns the BlockState computed for the exit of b, or nil
// if the driver never reached it (unreachable block).
func (d *AnalysisData) ExitState(b *BasicBlock) *BlockState {
	return d.blockExitStates[b]
}

// RecordDelegateTarget adds target to the best-effort candidate set for
// site (a declarator or simple assignment of a callable value, or the
// invocation callee being resolved).
func (d *AnalysisData) RecordDelegateTarget(site, target Operation) {
	set, ok := d.delegateTargets[site]
	if !ok {
		set = make(map[Operation]struct{})
		d.delegateTargets[site] = set
	}
	set[target] = struct{}{}
}

// DelegateTargets returns the best-effort candidate set recorded for site.
func (d *AnalysisData) DelegateTargets(site Operation) []Operation {
	set, ok := d.delegateTargets[site]
	if !ok {
		return nil
	}
	out := make([]Operation, 0, len(set))
	for op := range set {
		out = append(out, op)
	}
	return out
}

func (d *AnalysisData) recordCaptureFlow(id int, target Operation) {
	d.captureFlow[id] = target
}

func (d *AnalysisData) captureTarget(id int) (Operation, bool) {
	op, ok := d.captureFlow[id]
	return op, ok
}

func (d *AnalysisData) noteUnresolvedDelegate() {
	d.unresolvedDelegates++
}

// resetState conservatively marks every write this pass has seen so
// far as read by op. It is the pessimistic fallback for a point the
// analysis can no longer reason about precisely — an invocation whose
// callee could not be resolved to any candidate at all — where
// reporting any write as unused could be a false positive the engine
// has no way to rule out.
func (d *AnalysisData) resetState(op Operation) {
	for _, readers := range d.definitionUsage {
		readers[op] = struct{}{}
	}
}

// UnresolvedDelegateCount reports how many invocation callees the
// delegate resolver gave up on entirely, for callers that want to treat
// that as a reason to fall back to the fast, syntax-only pass.
func (d *AnalysisData) UnresolvedDelegateCount() int {
	return d.unresolvedDelegates
}
