package dataflow

// WalkBlock threads state through every operation in ops in order,
// recording reads and writes into data as it goes. state is mutated in
// place: on return it holds the BlockState as of the end of the block,
// ready to be merged into successor blocks by the driver.
func WalkBlock(data *AnalysisData, state *BlockState, ops []Operation) {
	for _, op := range ops {
		walk(data, state, op)
	}
}

// walk is the operation-tree dispatcher. It special-cases every
// operation kind whose read/write ordering isn't plain left-to-right
// recursion, and falls back to visiting Children in order for the rest.
func walk(data *AnalysisData, state *BlockState, op Operation) {
	if op == nil {
		return
	}
	switch n := op.(type) {
	case *LocalReference:
		markSymbolRead(data, state, n.Symbol, n)

	case *ParameterReference:
		markSymbolRead(data, state, n.Symbol, n)

	case *FlowCaptureReference:
		// A capture reference used in read position dereferences
		// through to whatever FlowCapture last stashed under this id.
		if orig, ok := data.captureTarget(n.CaptureID); ok && !n.IsLValue {
			walk(data, state, orig)
		}

	case *FlowCapture:
		data.recordCaptureFlow(n.CaptureID, n.Target)
		walk(data, state, n.Target)

	case *VariableDeclarator:
		// The declarator is a definite write; its initializer,
		// if any, is visited first so self-referential initializers read
		// the prior binding rather than the one being created.
		if n.Initializer != nil {
			walk(data, state, n.Initializer)
		}
		state.Write(n.Symbol, n, false)
		data.MarkWrite(n.Symbol, n)

	case *SimpleAssignment:
		// Visit Value before committing Target's write, so
		// `x = x + 1` reads the old x before the new definition exists.
		walk(data, state, n.Value)
		writeTarget(data, state, n.Target, n, false)

	case *CompoundAssignment:
		// Target is read-then-written.
		readTarget(data, state, n.Target, n)
		walk(data, state, n.Value)
		writeTarget(data, state, n.Target, n, false)

	case *DeconstructionAssignment:
		walk(data, state, n.Value)
		for _, t := range n.Targets {
			writeTarget(data, state, t, t, false)
		}

	case *IncrementOrDecrement:
		readTarget(data, state, n.Target, n)
		writeTarget(data, state, n.Target, n, false)

	case *DeclarationPattern:
		// Always a write; a read is also emitted unless the
		// binding only exists because the IR provider synthesized a
		// throwaway pattern (e.g. a discard-shaped `is Foo _`).
		state.Write(n.Symbol, n, false)
		data.MarkWrite(n.Symbol, n)
		if !n.ParentIsSynthesized {
			markSymbolRead(data, state, n.Symbol, n)
		}

	case *ExpressionStatement:
		if n.Operand != nil {
			walk(data, state, n.Operand)
		}

	case *Invocation:
		walk(data, state, n.Callee)
		for _, a := range n.Arguments {
			// Ref-kind governs whether an argument is a read, a
			// write, or both around the call.
			switch a.RefKind {
			case RefOut:
				// The callee is required to assign an out argument
				// before returning, so this is a definite write.
				writeTarget(data, state, a.Value, a.Value, false)
			case RefRef:
				// The callee may or may not reassign a ref argument,
				// so its prior definition must keep reaching past the
				// call alongside the new one.
				readTarget(data, state, a.Value, a.Value)
				writeTarget(data, state, a.Value, a.Value, true)
			default: // RefValue, RefIn
				walk(data, state, a.Value)
			}
		}

	case *DelegateCreation:
		walk(data, state, n.Target)

	case *Conversion:
		walk(data, state, n.Operand)

	case *Parenthesized:
		walk(data, state, n.Inner)

	case *MethodReference:
		// Leaf from the walker's point of view; the delegate resolver resolves it.

	case *AnonymousFunction, *FlowAnonymousFunction:
		// Never descend into a lambda body automatically. The
		// coordinator enters it explicitly as its own nested analysis
		// once an invocation is resolved back to the lambda.

	case *Literal:
		// Leaf.

	default:
		for _, c := range op.Children() {
			walk(data, state, c)
		}
	}
}

// markSymbolRead records that readOp observed whatever reaches sym at
// this point in state, before any effect readOp itself might have.
func markSymbolRead(data *AnalysisData, state *BlockState, sym *Symbol, readOp Operation) {
	reaching := state.Reaches(sym)
	data.MarkRead(sym, readOp, reaching)
}

// writeTarget commits writeOp as the new definition of whatever target
// resolves to: a plain local/parameter, or — through a FlowCapture —
// some outer l-value the capture stashed earlier. Anything else (a
// field, an indexer, a deref of an arbitrary expression) isn't a
// symbol this engine tracks, so its subexpressions are still walked
// for reads but no definition is recorded.
func writeTarget(data *AnalysisData, state *BlockState, target Operation, writeOp Operation, maybe bool) {
	switch t := target.(type) {
	case *LocalReference:
		state.Write(t.Symbol, writeOp, maybe)
		data.MarkWrite(t.Symbol, writeOp)
	case *ParameterReference:
		state.Write(t.Symbol, writeOp, maybe)
		data.MarkWrite(t.Symbol, writeOp)
	case *FlowCaptureReference:
		if orig, ok := data.captureTarget(t.CaptureID); ok {
			writeTarget(data, state, orig, writeOp, maybe)
		}
	default:
		walk(data, state, target)
	}
}

// readTarget records a read of whatever target resolves to, used by
// the read-before-write rules (compound assignment, increment/decrement).
func readTarget(data *AnalysisData, state *BlockState, target Operation, readOp Operation) {
	switch t := target.(type) {
	case *LocalReference:
		markSymbolRead(data, state, t.Symbol, readOp)
	case *ParameterReference:
		markSymbolRead(data, state, t.Symbol, readOp)
	case *FlowCaptureReference:
		if orig, ok := data.captureTarget(t.CaptureID); ok {
			readTarget(data, state, orig, readOp)
		}
	default:
		walk(data, state, target)
	}
}

// symbolOf reports the symbol a bare reference operation binds to, or
// nil for anything else — used by the delegate resolver to key its best-effort
// points-to sets off the same identity the walker uses.
func symbolOf(op Operation) *Symbol {
	switch n := op.(type) {
	case *LocalReference:
		return n.Symbol
	case *ParameterReference:
		return n.Symbol
	default:
		return nil
	}
}
