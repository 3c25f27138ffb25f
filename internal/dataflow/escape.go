package dataflow

// ContainsDelegateCreation reports whether root contains a
// DelegateCreation anywhere in its tree. A coordinator uses this to
// refuse the cheap fast-tree path for a method that constructs a
// delegate: the fast path has no CFG to drive a flow-sensitive
// resolution, so it can only ever see the single most recent
// assignment, which is not good enough once a delegate value is in
// play.
func ContainsDelegateCreation(root Operation) bool {
	if root == nil {
		return false
	}
	if _, ok := root.(*DelegateCreation); ok {
		return true
	}
	for _, c := range root.Children() {
		if ContainsDelegateCreation(c) {
			return true
		}
	}
	return false
}

// HasUnanalyzableDelegateEscape reports whether root contains a
// callable-shaped value used somewhere the delegate resolver's
// points-to pass cannot follow: converted to an unrelated type instead
// of invoked or assigned directly, or passed through a Ref/Out
// argument. Either shape puts the callable value somewhere this engine
// loses track of it, so a write the resolver would otherwise call dead
// could be a false positive.
func HasUnanalyzableDelegateEscape(root Operation) bool {
	if root == nil {
		return false
	}
	switch n := root.(type) {
	case *Conversion:
		if unwrapCallableTarget(n.Operand) != nil && !isResolvableCallablePosition(root) {
			return true
		}
	case *Invocation:
		for _, a := range n.Arguments {
			if (a.RefKind == RefOut || a.RefKind == RefRef) && unwrapCallableTarget(a.Value) != nil {
				return true
			}
		}
	}
	for _, c := range root.Children() {
		if HasUnanalyzableDelegateEscape(c) {
			return true
		}
	}
	return false
}

// CFGHasUnanalyzableDelegateEscape runs HasUnanalyzableDelegateEscape
// over every operation in cfg, including nested lambda CFGs.
func CFGHasUnanalyzableDelegateEscape(cfg *CFG) bool {
	for _, b := range cfg.Blocks {
		for _, op := range b.Operations {
			if HasUnanalyzableDelegateEscape(op) {
				return true
			}
		}
	}
	for _, nested := range cfg.Nested {
		if CFGHasUnanalyzableDelegateEscape(nested) {
			return true
		}
	}
	return false
}

// isResolvableCallablePosition reports whether op sits where the
// delegate resolver's points-to pass actually looks: the initializer
// of a declaration, the value of a plain assignment, or an
// invocation's callee — the three shapes visitForDelegates follows.
// Anywhere else a callable-shaped conversion appears (returned, stored
// into a field, passed as a plain-value argument) is outside what this
// pass can trace.
func isResolvableCallablePosition(op Operation) bool {
	switch p := op.Parent().(type) {
	case *VariableDeclarator:
		return p.Initializer == op
	case *SimpleAssignment:
		return p.Value == op
	case *Invocation:
		return p.Callee == op
	default:
		return false
	}
}
