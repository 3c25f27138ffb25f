package semantic

import (
	"context"
	"fmt"

	"kanso/internal/ast"
	"kanso/internal/unused"

	"github.com/sirupsen/logrus"
)

// AnalyzeUnusedValues runs the unused-value engine over every function
// declared directly in contract, using the same published-API test as
// checkUnusedFunctions: an `ext fn` or a `#[create]`-attributed one is
// a published entry point whose parameter list callers outside this
// file may depend on. Functions are analyzed independently and in
// declaration order; one function's AnalysisAborted error does not
// stop the others, since a parse-level fast-tree limitation in one
// method body says nothing about the rest of the contract.
func AnalyzeUnusedValues(ctx context.Context, contract *ast.Contract, options unused.OptionsProvider, logger *logrus.Logger) ([]unused.Diagnostic, error) {
	if contract == nil {
		return nil, nil
	}
	coordinator := unused.NewCoordinator(options, logger)
	defer coordinator.Release()

	var out []unused.Diagnostic
	for _, item := range contract.Items {
		fn, ok := item.(*ast.Function)
		if !ok || fn.Body == nil {
			continue
		}
		isPublishedAPI := fn.External || (fn.Attribute != nil && fn.Attribute.Name == "create")
		provider := newKansoIRProvider(fn, isPublishedAPI, false)

		diags, err := coordinator.AnalyzeMethod(ctx, provider)
		if err != nil {
			if _, aborted := err.(*unused.AnalysisAborted); aborted {
				logger.WithFields(logrus.Fields{"function": fn.Name.Value}).Debug(err.Error())
				continue
			}
			return out, fmt.Errorf("analyzing %s: %w", fn.Name.Value, err)
		}
		out = append(out, diags...)
	}
	return out, nil
}
