package unused

import "fmt"

// InputInvariantViolation is raised (via panic, recovered at the
// coordinator boundary) when an IRProvider hands back a CFG or
// operation tree that breaks an assumption the dataflow engine relies
// on: a symbol reused across two unrelated declarations, a block with
// a nil operation, a CFG with no path from Entry to a block it claims
// is reachable. This always indicates a provider bug, never a user's
// program: the coordinator converts it into a plain error so one
// malformed method doesn't take down a whole run.
type InputInvariantViolation struct {
	Provider string
	Detail   string
}

func (e *InputInvariantViolation) Error() string {
	return fmt.Sprintf("unused: input invariant violated by %s: %s", e.Provider, e.Detail)
}

// AnalysisAborted reports that a method was skipped outright: it had
// syntax errors the IR provider couldn't recover from, or the walker
// panicked partway through and the coordinator gave up on that method
// rather than report a partial, possibly-misleading result.
type AnalysisAborted struct {
	MethodName string
	Reason     string
}

func (e *AnalysisAborted) Error() string {
	return fmt.Sprintf("unused: analysis of %s aborted: %s", e.MethodName, e.Reason)
}

// UnresolvableDelegate is returned only when a caller opts into strict
// mode (StrictDelegateResolution) and the best-effort points-to pass
// left more callees unresolved than the configured tolerance: a signal
// that this method's diagnostics are not trustworthy enough to report.
type UnresolvableDelegate struct {
	MethodName string
	Count      int
}

func (e *UnresolvableDelegate) Error() string {
	return fmt.Sprintf("unused: %d unresolved call target(s) in %s", e.Count, e.MethodName)
}

// OptionsUnavailable reports that no OptionsProvider was supplied, or
// the one supplied returned an error resolving preferences — the
// coordinator cannot know which diagnostics the caller wants emitted.
type OptionsUnavailable struct {
	Cause error
}

func (e *OptionsUnavailable) Error() string {
	if e.Cause == nil {
		return "unused: no options provider configured"
	}
	return fmt.Sprintf("unused: options unavailable: %v", e.Cause)
}

func (e *OptionsUnavailable) Unwrap() error { return e.Cause }

// FixPlanInfeasible reports that a diagnostic was found but no safe
// edit could be planned for it — the diagnostic is still reported, it
// simply carries no fix. Coordinator callers that also want fixes
// check for this on a per-diagnostic basis rather than treating it as
// fatal to the whole run.
type FixPlanInfeasible struct {
	DiagnosticID string
	Reason       string
}

func (e *FixPlanInfeasible) Error() string {
	return fmt.Sprintf("unused: no fix available for %s: %s", e.DiagnosticID, e.Reason)
}
