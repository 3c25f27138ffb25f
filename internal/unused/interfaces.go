package unused

import (
	"context"

	"kanso/internal/dataflow"
)

// Severity is how strongly a diagnostic should be surfaced, letting a
// caller downgrade unused-value reporting to a hint or suppress it
// outright without the coordinator needing to know why.
type Severity int

const (
	SeverityHidden Severity = iota
	SeveritySuggestion
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityHidden:
		return "hidden"
	case SeveritySuggestion:
		return "suggestion"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// PreferenceKind selects which remedy the fix planner should offer for
// a diagnostic, independent of Severity (which only controls how loud
// the report is). Disabled carries no fix at all — the diagnostic may
// still fire at a non-hidden severity while leaving "how to fix it" to
// the developer. PreferDiscard rewrites the offending write to use the
// discard symbol, the terser fix; PreferUnusedLocal instead renames or
// introduces a `var unused*` binding, preserving the original name and
// declaration shape for a reader who wants to keep scanning a diff for
// the symbol's name.
type PreferenceKind int

const (
	Disabled PreferenceKind = iota
	PreferDiscard
	PreferUnusedLocal
)

func (k PreferenceKind) String() string {
	switch k {
	case Disabled:
		return "disabled"
	case PreferDiscard:
		return "preferDiscard"
	case PreferUnusedLocal:
		return "preferUnusedLocal"
	default:
		return "unknown"
	}
}

// Preference is the resolved configuration for one diagnostic kind in
// one scope (a method, a file, a whole compilation). OptionsProvider
// returns one of these per diagnostic id it is asked about. Kind is
// only consulted by the fix planner; Disabled does not by itself
// suppress the diagnostic report (set Severity to SeverityHidden for
// that) — it only means no fix is offered alongside it.
type Preference struct {
	Severity Severity
	Kind     PreferenceKind
}

// LanguageCapabilities tells the coordinator which of the generic
// engine's features the calling language's grammar can actually
// exercise, so diagnostics and fixes never reference syntax the
// language doesn't have.
type LanguageCapabilities struct {
	SupportsDiscard        bool
	SupportsOutParameters  bool
	SupportsRefParameters  bool
	SupportsLocalFunctions bool
}

// MethodContext is the descriptive metadata about the method being
// analyzed that the coordinator needs but that doesn't belong on
// Symbol or Operation: its display name, whether it's a published
// entry point that external callers may depend on, and whether its
// body is even well-formed enough to analyze.
type MethodContext struct {
	Name            string
	Position        dataflow.Position
	IsPublishedAPI  bool
	HasSyntaxErrors bool
}

// IRProvider adapts one method body from a language's own AST/IR into
// the shapes the dataflow engine understands. BuildCFG is the precise
// path; BuildFastTree is a cheap syntax-only operation tree a provider
// can return instead (or in addition) for a quick straight-line pass
// when building a full CFG would be wasted work — the coordinator
// falls back to it if BuildCFG fails or is not implemented.
type IRProvider interface {
	Context() MethodContext
	Parameters() []*dataflow.Symbol
	Capabilities() LanguageCapabilities
	BuildCFG(ctx context.Context) (*dataflow.CFG, error)
	BuildFastTree(ctx context.Context) (dataflow.Operation, error)
}

// OptionsProvider resolves the caller's configured preference for a
// diagnostic id, scoped to the method currently being analyzed.
type OptionsProvider interface {
	Preference(ctx context.Context, diagnosticID string, method MethodContext) (Preference, error)
}
