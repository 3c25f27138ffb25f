package unused

import (
	"context"
	"fmt"

	"kanso/internal/dataflow"

	"github.com/sirupsen/logrus"
)

// Coordinator owns the Arena shared across every method it analyzes in
// one run and drives the options lookup, the precise-or-fast dataflow
// pass, and diagnostic selection for each method in turn. It is not
// safe for concurrent use by multiple goroutines against the same
// Arena; callers analyzing methods in parallel should give each
// goroutine its own Coordinator.
type Coordinator struct {
	Options OptionsProvider
	Logger  *logrus.Logger
	arena   *dataflow.Arena
}

// NewCoordinator wires an OptionsProvider and logger into a fresh
// Coordinator with its own Arena.
func NewCoordinator(options OptionsProvider, logger *logrus.Logger) *Coordinator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Coordinator{Options: options, Logger: logger, arena: dataflow.NewArena()}
}

// Release returns every BlockState this Coordinator's Arena has handed
// out back to the pool. Call it between files, or at the end of a run,
// not between individual methods — methods within the same file reuse
// the Arena for its pooling benefit.
func (c *Coordinator) Release() {
	c.arena.Release()
}

// AnalyzeMethod resolves preferences, runs the dataflow pass, and
// returns every diagnostic survived by the caller's configured
// severities. A nil, nil result means the method was intentionally
// skipped (no syntax errors, just nothing enabled to report).
func (c *Coordinator) AnalyzeMethod(ctx context.Context, provider IRProvider) (diags []Diagnostic, err error) {
	methodCtx := provider.Context()

	if methodCtx.HasSyntaxErrors {
		return nil, &AnalysisAborted{MethodName: methodCtx.Name, Reason: "syntax errors present"}
	}
	if c.Options == nil {
		return nil, &OptionsUnavailable{}
	}

	prefs, err := c.resolvePreferences(ctx, methodCtx, provider.Capabilities())
	if err != nil {
		return nil, &OptionsUnavailable{Cause: err}
	}
	if allHidden(prefs) {
		return nil, nil
	}

	defer func() {
		if r := recover(); r != nil {
			c.Logger.WithFields(logrus.Fields{
				"method": methodCtx.Name,
				"panic":  r,
			}).Warn("unused-value analysis aborted")
			diags = nil
			err = &AnalysisAborted{MethodName: methodCtx.Name, Reason: fmt.Sprintf("panic: %v", r)}
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, &AnalysisAborted{MethodName: methodCtx.Name, Reason: err.Error()}
	}

	data, cfg, analysisErr := c.runAnalysis(ctx, provider)
	if analysisErr != nil {
		return nil, analysisErr
	}

	var out []Diagnostic
	out = append(out, SelectValueUnusedDiagnostics(data, prefs[DiagnosticValueUnused])...)
	if cfg != nil {
		stmts := CollectExpressionStatements(cfg)
		out = append(out, SelectExpressionUnusedDiagnostics(stmts, prefs[DiagnosticExpressionUnused])...)
	}
	out = append(out, SelectParameterUnusedDiagnostics(data, provider.Parameters(), methodCtx, prefs[DiagnosticParameterUnused])...)

	return out, nil
}

// runAnalysis prefers the precise CFG-driven fixed point; if the
// provider can't produce one (a method whose IR isn't lowered that
// far yet, or one the provider has decided isn't worth the cost), it
// falls back to the cheap flat-operation-list pass — unless the method
// creates a delegate value at all, in which case the flat pass has no
// CFG to drive a flow-sensitive resolution and is refused outright. A
// method whose only delegate traffic escapes somewhere the resolver
// can't follow (converted away from a callable type, or passed through
// a Ref/Out argument) disables dataflow analysis for the method
// entirely, on either path: better to report nothing than to risk a
// false VALUE_UNUSED on a write the engine lost track of.
func (c *Coordinator) runAnalysis(ctx context.Context, provider IRProvider) (*dataflow.AnalysisData, *dataflow.CFG, error) {
	cfg, cfgErr := provider.BuildCFG(ctx)
	if cfgErr == nil && cfg != nil {
		if dataflow.CFGHasUnanalyzableDelegateEscape(cfg) {
			return nil, nil, &AnalysisAborted{MethodName: provider.Context().Name, Reason: "a delegate value escapes this method in a way dataflow analysis cannot safely track"}
		}
		data := dataflow.Analyze(cfg, provider.Parameters(), c.arena)
		return data, cfg, nil
	}

	tree, treeErr := provider.BuildFastTree(ctx)
	if treeErr != nil || tree == nil {
		reason := "no CFG or fast tree available"
		if cfgErr != nil {
			reason = cfgErr.Error()
		}
		return nil, nil, &AnalysisAborted{MethodName: provider.Context().Name, Reason: reason}
	}
	if dataflow.ContainsDelegateCreation(tree) {
		return nil, nil, &AnalysisAborted{MethodName: provider.Context().Name, Reason: "method creates a delegate value; the fast syntax-only path cannot resolve it safely"}
	}
	if dataflow.HasUnanalyzableDelegateEscape(tree) {
		return nil, nil, &AnalysisAborted{MethodName: provider.Context().Name, Reason: "a delegate value escapes this method in a way dataflow analysis cannot safely track"}
	}

	data := dataflow.AnalyzeFlat([]dataflow.Operation{tree}, provider.Parameters())
	return data, nil, nil
}

// resolvePreferences queries the options provider once per diagnostic
// id and downgrades a PreferDiscard request to PreferUnusedLocal when
// caps reports the language has no discard spelling to rewrite to —
// the fix planner would otherwise propose syntax the target language
// can't parse.
func (c *Coordinator) resolvePreferences(ctx context.Context, method MethodContext, caps LanguageCapabilities) (map[string]Preference, error) {
	prefs := make(map[string]Preference, len(allDiagnosticIDs))
	for _, id := range allDiagnosticIDs {
		pref, err := c.Options.Preference(ctx, id, method)
		if err != nil {
			return nil, err
		}
		if pref.Kind == PreferDiscard && !caps.SupportsDiscard {
			pref.Kind = PreferUnusedLocal
		}
		prefs[id] = pref
	}
	return prefs, nil
}

func allHidden(prefs map[string]Preference) bool {
	for _, p := range prefs {
		if p.Severity != SeverityHidden {
			return false
		}
	}
	return true
}
