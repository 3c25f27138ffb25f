package unused

import (
	"fmt"

	"kanso/internal/dataflow"
)

// EditKind names the three primitive tree-edit operations a fix plan
// is built from. A host applies them as abstract text-span edits
// against its own source buffer; this package never touches source
// text directly.
type EditKind int

const (
	EditInsert EditKind = iota
	EditReplace
	EditDelete
)

// Edit is one atomic change a fix plan proposes. NewText is unused for
// EditDelete.
type Edit struct {
	Kind        EditKind
	Position    dataflow.Position
	NewText     string
	Description string
}

// FixPlan is an ordered list of edits that together resolve one
// diagnostic. Hosts apply every edit in a FixPlan together or not at
// all.
type FixPlan struct {
	Edits []Edit
}

// isSideEffectFree reports whether evaluating op can be skipped
// entirely without changing program behavior: literals and bare
// reads, transparently unwrapped through parentheses and conversions.
// Anything that can call into other code — an invocation, a delegate
// creation, an increment — is conservatively treated as effectful.
func isSideEffectFree(op dataflow.Operation) bool {
	switch n := op.(type) {
	case *dataflow.Literal:
		return true
	case *dataflow.LocalReference, *dataflow.ParameterReference, *dataflow.FieldReference:
		return true
	case *dataflow.Parenthesized:
		return isSideEffectFree(n.Inner)
	case *dataflow.Conversion:
		return isSideEffectFree(n.Operand)
	default:
		return false
	}
}

// PlanValueUnusedFix proposes an edit for a write AnalysisData found
// unread. The shape of the edit depends on both what kind of write
// site it is and pref.Kind: PreferDiscard favors deleting or rewriting
// to the language's discard spelling, where available; PreferUnusedLocal
// keeps the binding's name and declaration shape but renames it to a
// freshly allocated `unused*` name, making clear to a reader that the
// value is intentionally kept around unread (or, for a plain
// reassignment that introduces no new binding, still falls back to
// discarding the target since there is no declaration to rename).
// Disabled offers no fix at all.
func PlanValueUnusedFix(write dataflow.Operation, pref Preference, names *NameAllocator) (FixPlan, error) {
	if pref.Kind == Disabled {
		return FixPlan{}, &FixPlanInfeasible{DiagnosticID: DiagnosticValueUnused, Reason: "fix disabled by preference"}
	}
	switch n := write.(type) {
	case *dataflow.VariableDeclarator:
		if len(n.Siblings) > 0 {
			return planMultiDeclaratorFix(n, pref, names)
		}
		return planDeclaratorFix(n, pref, names)

	case *dataflow.SimpleAssignment:
		return planSimpleAssignmentFix(n, pref)

	case *dataflow.LocalReference, *dataflow.ParameterReference:
		// The walker records a deconstruction target's own reference as
		// its write site (see symbolForWrite), not the enclosing
		// DeconstructionAssignment, since the assignment's Value is
		// still needed for the sibling positions that are read.
		return planDeconstructionFix(n, pref, names)

	case *dataflow.IncrementOrDecrement:
		return planIncrementFix(n)

	case *dataflow.DeclarationPattern:
		if n.IsOutBinding {
			return planOutBindingFix(n, pref, names)
		}
		return planDeclarationPatternFix(n, pref, names)

	default:
		return FixPlan{}, &FixPlanInfeasible{
			DiagnosticID: DiagnosticValueUnused,
			Reason:       fmt.Sprintf("no safe rewrite for a %s write site", write.Kind()),
		}
	}
}

// planDeclaratorFix handles a single-name `let`/`var` declaration.
// PreferDiscard deletes a side-effect-free declaration outright, or
// rewrites a side-effecting one to `_ = <initializer>;`. PreferUnusedLocal
// never deletes or discards: it renames the symbol to a freshly
// allocated unused* name and leaves the declaration (and its
// initializer's evaluation) exactly where it was.
func planDeclaratorFix(n *dataflow.VariableDeclarator, pref Preference, names *NameAllocator) (FixPlan, error) {
	if pref.Kind == PreferUnusedLocal {
		newName := names.Next()
		return FixPlan{Edits: []Edit{{
			Kind:        EditReplace,
			Position:    n.Symbol.DeclPosition,
			NewText:     newName,
			Description: fmt.Sprintf("rename '%s' to '%s' to mark it intentionally unused", n.Symbol.Name, newName),
		}}}, nil
	}
	if n.Initializer == nil || isSideEffectFree(n.Initializer) {
		return FixPlan{Edits: []Edit{{
			Kind:        EditDelete,
			Position:    n.Position(),
			Description: fmt.Sprintf("remove unused declaration of '%s'", n.Symbol.Name),
		}}}, nil
	}
	return FixPlan{Edits: []Edit{{
		Kind:        EditReplace,
		Position:    n.Position(),
		NewText:     "_ = <initializer>;",
		Description: fmt.Sprintf("discard the computed value of '%s', keep its side effect", n.Symbol.Name),
	}}}, nil
}

// planMultiDeclaratorFix handles one declarator among several sharing a
// statement (`var a, b = f(), g();`). Neither preference may delete or
// rewrite the whole statement, since the sibling declarators are still
// live: PreferDiscard removes just this declarator's name/initializer
// slice from the statement; PreferUnusedLocal renames just this
// declarator in place, leaving the statement's shape untouched.
func planMultiDeclaratorFix(n *dataflow.VariableDeclarator, pref Preference, names *NameAllocator) (FixPlan, error) {
	if pref.Kind == PreferUnusedLocal {
		newName := names.Next()
		return FixPlan{Edits: []Edit{{
			Kind:        EditReplace,
			Position:    n.Symbol.DeclPosition,
			NewText:     newName,
			Description: fmt.Sprintf("rename '%s' to '%s' within its multi-declarator statement", n.Symbol.Name, newName),
		}}}, nil
	}
	return FixPlan{Edits: []Edit{{
		Kind:        EditDelete,
		Position:    n.Position(),
		Description: fmt.Sprintf("remove '%s' from its multi-declarator statement, keeping the other declarators", n.Symbol.Name),
	}}}, nil
}

// planSimpleAssignmentFix handles a plain reassignment to an existing
// binding. There is no declaration here to rename, so PreferUnusedLocal
// has nothing distinct to offer over PreferDiscard's own target-discard
// rewrite; both preferences converge on the same edit, differing only
// when the value has no side effect at all, where the whole statement
// can simply go.
func planSimpleAssignmentFix(n *dataflow.SimpleAssignment, pref Preference) (FixPlan, error) {
	if isSideEffectFree(n.Value) {
		return FixPlan{Edits: []Edit{{
			Kind:        EditDelete,
			Position:    n.Position(),
			Description: "remove unused assignment",
		}}}, nil
	}
	return FixPlan{Edits: []Edit{{
		Kind:        EditReplace,
		Position:    n.Target.Position(),
		NewText:     "_",
		Description: "discard assignment target, keep the right-hand side's side effect",
	}}}, nil
}

// planDeconstructionFix handles one dead position of a tuple
// deconstruction (`let (a, b) = pair();`), identified by the bare
// reference the walker recorded as its write site. Its sibling
// positions may still be read, so the fix never touches the shared
// Value expression: PreferDiscard replaces just this position with
// `_`; PreferUnusedLocal renames it to a freshly allocated unused*
// name instead.
func planDeconstructionFix(n dataflow.Operation, pref Preference, names *NameAllocator) (FixPlan, error) {
	sym := symbolForWrite(n)
	name := "this position"
	if sym != nil {
		name = fmt.Sprintf("'%s'", sym.Name)
	}
	if pref.Kind == PreferUnusedLocal {
		newName := names.Next()
		return FixPlan{Edits: []Edit{{
			Kind:        EditReplace,
			Position:    n.Position(),
			NewText:     newName,
			Description: fmt.Sprintf("rename %s to '%s' within its deconstruction", name, newName),
		}}}, nil
	}
	return FixPlan{Edits: []Edit{{
		Kind:        EditReplace,
		Position:    n.Position(),
		NewText:     "_",
		Description: fmt.Sprintf("discard %s within its deconstruction", name),
	}}}, nil
}

// planIncrementFix handles `target++`/`--target` whose resulting value
// is never read again: both preferences converge on removing the
// operation entirely, since neither discarding nor renaming an
// increment's target makes sense — there is no new binding, and the
// target itself may still be read elsewhere.
func planIncrementFix(n *dataflow.IncrementOrDecrement) (FixPlan, error) {
	return FixPlan{Edits: []Edit{{
		Kind:        EditDelete,
		Position:    n.Position(),
		Description: "remove unused increment/decrement",
	}}}, nil
}

// planDeclarationPatternFix handles a case-clause binding (`is Foo x`)
// whose bound name is never read in the matched arm. PreferDiscard
// replaces the name with the language's discard spelling; PreferUnusedLocal
// renames it to a freshly allocated unused* name, preserving the
// binding for a reader who wants to see what was matched.
func planDeclarationPatternFix(n *dataflow.DeclarationPattern, pref Preference, names *NameAllocator) (FixPlan, error) {
	if pref.Kind == PreferUnusedLocal {
		newName := names.Next()
		return FixPlan{Edits: []Edit{{
			Kind:        EditReplace,
			Position:    n.Symbol.DeclPosition,
			NewText:     newName,
			Description: fmt.Sprintf("rename pattern binding '%s' to '%s'", n.Symbol.Name, newName),
		}}}, nil
	}
	return FixPlan{Edits: []Edit{{
		Kind:        EditReplace,
		Position:    n.Symbol.DeclPosition,
		NewText:     "_",
		Description: fmt.Sprintf("discard pattern binding '%s'", n.Symbol.Name),
	}}}, nil
}

// planOutBindingFix handles an out-argument binding whose value the
// caller never reads (`TryGet(key, out var value)`). Deleting the
// binding would leave the call with too few arguments, so both
// preferences keep the argument position and only change its spelling:
// PreferDiscard drops straight to the bare discard syntax;
// PreferUnusedLocal still allocates a fresh name so the binding keeps
// documenting what the call produces.
func planOutBindingFix(n *dataflow.DeclarationPattern, pref Preference, names *NameAllocator) (FixPlan, error) {
	if pref.Kind == PreferUnusedLocal {
		newName := names.Next()
		return FixPlan{Edits: []Edit{{
			Kind:        EditReplace,
			Position:    n.Symbol.DeclPosition,
			NewText:     "out " + newName,
			Description: fmt.Sprintf("rename out-argument binding '%s' to '%s'", n.Symbol.Name, newName),
		}}}, nil
	}
	return FixPlan{Edits: []Edit{{
		Kind:        EditReplace,
		Position:    n.Symbol.DeclPosition,
		NewText:     "out _",
		Description: fmt.Sprintf("discard out-argument binding '%s'", n.Symbol.Name),
	}}}, nil
}

// PlanExpressionUnusedFix proposes discarding a statement's computed
// value explicitly, which is always safe: the expression still
// evaluates, only the now-pointless binding disappears. This fix has no
// PreferUnusedLocal counterpart — there is no declaration to rename,
// only a bare expression statement — so it is offered the same way
// regardless of pref.Kind, except when the preference disables fixes
// outright.
func PlanExpressionUnusedFix(stmt *dataflow.ExpressionStatement, pref Preference) (FixPlan, error) {
	if pref.Kind == Disabled {
		return FixPlan{}, &FixPlanInfeasible{DiagnosticID: DiagnosticExpressionUnused, Reason: "fix disabled by preference"}
	}
	if stmt.Operand == nil {
		return FixPlan{}, &FixPlanInfeasible{DiagnosticID: DiagnosticExpressionUnused, Reason: "no operand to discard"}
	}
	return FixPlan{Edits: []Edit{{
		Kind:        EditInsert,
		Position:    stmt.Position(),
		NewText:     "_ = ",
		Description: "discard this expression's value explicitly",
	}}}, nil
}

// PlanParameterUnusedFix proposes renaming the parameter to its
// leading-underscore spelling. A parameter position can't be deleted or
// replaced with a bare discard the way a local declaration can — the
// signature still needs a name at that position — so PreferDiscard and
// PreferUnusedLocal converge on the same rename here; Kind only governs
// whether a fix is offered at all. A published API's parameter can
// never be safely renamed or removed without breaking callers, so no
// fix is offered for it regardless of preference.
func PlanParameterUnusedFix(p *dataflow.Symbol, ctx MethodContext, pref Preference) (FixPlan, error) {
	if pref.Kind == Disabled {
		return FixPlan{}, &FixPlanInfeasible{DiagnosticID: DiagnosticParameterUnused, Reason: "fix disabled by preference"}
	}
	if ctx.IsPublishedAPI {
		return FixPlan{}, &FixPlanInfeasible{
			DiagnosticID: DiagnosticParameterUnused,
			Reason:       "parameter belongs to a published interface",
		}
	}
	return FixPlan{Edits: []Edit{{
		Kind:        EditReplace,
		Position:    p.DeclPosition,
		NewText:     "_" + p.Name,
		Description: fmt.Sprintf("rename '%s' to '_%s' to mark it intentionally unused", p.Name, p.Name),
	}}}, nil
}
