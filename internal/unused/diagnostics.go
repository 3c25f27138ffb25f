package unused

import (
	"fmt"
	"strconv"
	"strings"

	"kanso/internal/dataflow"
)

// Diagnostic is one reportable finding, carrying a property bag so a
// host (an LSP server, a CLI, a batch fixer) can drive suppression
// comments or grouped fix-alls without re-deriving context from the
// message text.
type Diagnostic struct {
	ID         string
	Position   dataflow.Position
	Message    string
	Severity   Severity
	Properties map[string]string
	Fix        *FixPlan
}

// symbolForWrite recovers which symbol a write operation targets. Bare
// local/parameter references appear here only as deconstruction
// targets, where the reference itself is the write site.
func symbolForWrite(op dataflow.Operation) *dataflow.Symbol {
	switch n := op.(type) {
	case *dataflow.VariableDeclarator:
		return n.Symbol
	case *dataflow.DeclarationPattern:
		return n.Symbol
	case *dataflow.SimpleAssignment:
		return symbolOfTarget(n.Target)
	case *dataflow.CompoundAssignment:
		return symbolOfTarget(n.Target)
	case *dataflow.IncrementOrDecrement:
		return symbolOfTarget(n.Target)
	case *dataflow.LocalReference:
		return n.Symbol
	case *dataflow.ParameterReference:
		return n.Symbol
	default:
		return nil
	}
}

func symbolOfTarget(op dataflow.Operation) *dataflow.Symbol {
	switch n := op.(type) {
	case *dataflow.LocalReference:
		return n.Symbol
	case *dataflow.ParameterReference:
		return n.Symbol
	default:
		return nil
	}
}

// isAlreadyMarkedUnused reports whether name already follows the
// `unused`/`unused1`/`unused2`/... convention PlanValueUnusedFix's
// PreferUnusedLocal renames dead bindings to. Under PreferUnusedLocal a
// binding spelled this way has already been through the fix once
// (typically by a developer applying it, then reassigning the same
// name to a new dead value) and re-flagging it would just be the
// engine nagging about its own prior suggestion.
func isAlreadyMarkedUnused(name string) bool {
	if name == "unused" {
		return true
	}
	suffix, ok := strings.CutPrefix(name, "unused")
	if !ok || suffix == "" {
		return false
	}
	_, err := strconv.Atoi(suffix)
	return err == nil
}

// SelectValueUnusedDiagnostics turns every unread write AnalysisData
// recorded into a Diagnostic, skipping discards and anything the
// caller has hidden via pref. Every write in one call shares a single
// NameAllocator, so two dead locals in the same method never collide
// on the same generated unused* name under PreferUnusedLocal.
func SelectValueUnusedDiagnostics(data *dataflow.AnalysisData, pref Preference) []Diagnostic {
	if pref.Severity == SeverityHidden {
		return nil
	}
	names := NewNameAllocator(nil)
	var out []Diagnostic
	for _, write := range data.UnreadWrites() {
		sym := symbolForWrite(write)
		if sym == nil || sym.IsDiscard() {
			continue
		}
		if pref.Kind == PreferUnusedLocal && isAlreadyMarkedUnused(sym.Name) {
			continue
		}
		d := Diagnostic{
			ID:         DiagnosticValueUnused,
			Position:   write.Position(),
			Message:    fmt.Sprintf("the value assigned to '%s' is never used", sym.Name),
			Severity:   pref.Severity,
			Properties: map[string]string{"symbol": sym.Name},
		}
		if fix, err := PlanValueUnusedFix(write, pref, names); err == nil {
			d.Fix = &fix
		}
		out = append(out, d)
	}
	return out
}

// CollectExpressionStatements walks every block's top-level operation
// list (and recursively into any generic wrapper the IR provider used)
// looking for ExpressionStatement nodes, the candidates for a
// discarded-expression-value diagnostic. It does not descend into
// AnonymousFunction/FlowAnonymousFunction bodies: those are only
// visited when the coordinator enters them as their own analysis.
func CollectExpressionStatements(cfg *dataflow.CFG) []*dataflow.ExpressionStatement {
	var out []*dataflow.ExpressionStatement
	for _, b := range cfg.Blocks {
		for _, op := range b.Operations {
			collectExpressionStatements(op, &out)
		}
	}
	return out
}

func collectExpressionStatements(op dataflow.Operation, out *[]*dataflow.ExpressionStatement) {
	if op == nil {
		return
	}
	switch n := op.(type) {
	case *dataflow.ExpressionStatement:
		*out = append(*out, n)
	case *dataflow.AnonymousFunction, *dataflow.FlowAnonymousFunction:
		return
	default:
		for _, c := range op.Children() {
			collectExpressionStatements(c, out)
		}
	}
}

// SelectExpressionUnusedDiagnostics flags statements whose computed
// value is silently discarded. Invocation results are exempted: a
// bare call statement is the ordinary way to invoke something for its
// side effects, and flagging every one would overwhelm genuine finds
// with noise. Boolean-valued and compile-time-constant expressions are
// exempted too: a discarded `a == b` is as often a deliberate assertion
// left unassigned (or dead code about to be wired up) as it is a typo,
// and a bare literal statement carries no information a diagnostic
// could act on. A discarded arithmetic expression over two runtime
// values remains exactly the copy-paste-forgot-the-assignment bug this
// diagnostic exists for.
func SelectExpressionUnusedDiagnostics(stmts []*dataflow.ExpressionStatement, pref Preference) []Diagnostic {
	if pref.Severity == SeverityHidden {
		return nil
	}
	var out []Diagnostic
	for _, stmt := range stmts {
		if stmt.Operand == nil || stmt.OperandType() == "" {
			continue
		}
		if _, isCall := stmt.Operand.(*dataflow.Invocation); isCall {
			continue
		}
		if stmt.IsBoolean || stmt.IsCompileTimeConstant {
			continue
		}
		d := Diagnostic{
			ID:       DiagnosticExpressionUnused,
			Position: stmt.Position(),
			Message:  "the value of this expression is never used",
			Severity: pref.Severity,
			Properties: map[string]string{
				"isBoolean": fmt.Sprintf("%t", stmt.IsBoolean),
			},
		}
		if fix, err := PlanExpressionUnusedFix(stmt, pref); err == nil {
			d.Fix = &fix
		}
		out = append(out, d)
	}
	return out
}

// SelectParameterUnusedDiagnostics flags parameters never read anywhere
// in the method body. Ref/Out parameters are output channels by
// definition and are never candidates; a parameter belonging to a
// published entry point is still reported, but softened to a
// suggestion since removing it would be a breaking change the engine
// cannot safely fix on its own.
func SelectParameterUnusedDiagnostics(data *dataflow.AnalysisData, params []*dataflow.Symbol, ctx MethodContext, pref Preference) []Diagnostic {
	if pref.Severity == SeverityHidden {
		return nil
	}
	var out []Diagnostic
	for _, p := range params {
		if p == nil || p.IsDiscard() || p.Escapes() {
			continue
		}
		if data.WasRead(p) {
			continue
		}
		severity := pref.Severity
		message := fmt.Sprintf("parameter '%s' is never used", p.Name)
		if ctx.IsPublishedAPI {
			severity = SeveritySuggestion
			message = fmt.Sprintf(
				"parameter '%s' is never used, but %s is part of the published interface and cannot be removed without a breaking change",
				p.Name, ctx.Name)
		}
		d := Diagnostic{
			ID:         DiagnosticParameterUnused,
			Position:   p.DeclPosition,
			Message:    message,
			Severity:   severity,
			Properties: map[string]string{"symbol": p.Name},
		}
		if fix, err := PlanParameterUnusedFix(p, ctx, pref); err == nil {
			d.Fix = &fix
		}
		out = append(out, d)
	}
	return out
}
