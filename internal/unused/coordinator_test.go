package unused

import (
	"context"
	"errors"
	"testing"

	"kanso/internal/dataflow"

	"github.com/stretchr/testify/assert"
)

// fakeProvider is a minimal IRProvider test double: it hands back a
// pre-built CFG or fast tree, whichever the test wires up, without
// needing a real Kanso AST behind it.
type fakeProvider struct {
	ctx        MethodContext
	params     []*dataflow.Symbol
	cfg        *dataflow.CFG
	cfgErr     error
	tree       dataflow.Operation
	treeErr    error
	panicOnCFG bool
}

func (p *fakeProvider) Context() MethodContext { return p.ctx }
func (p *fakeProvider) Parameters() []*dataflow.Symbol { return p.params }
func (p *fakeProvider) Capabilities() LanguageCapabilities {
	return LanguageCapabilities{SupportsDiscard: true, SupportsOutParameters: true, SupportsRefParameters: true}
}
func (p *fakeProvider) BuildCFG(ctx context.Context) (*dataflow.CFG, error) {
	if p.panicOnCFG {
		panic("synthetic provider failure")
	}
	return p.cfg, p.cfgErr
}
func (p *fakeProvider) BuildFastTree(ctx context.Context) (dataflow.Operation, error) {
	return p.tree, p.treeErr
}

// fakeOptions is a minimal OptionsProvider: fixedSeverity applies to
// every diagnostic id unless overridden per-id in perID.
type fakeOptions struct {
	fixedSeverity Severity
	perID         map[string]Severity
	err           error
}

func (o *fakeOptions) Preference(ctx context.Context, diagnosticID string, method MethodContext) (Preference, error) {
	if o.err != nil {
		return Preference{}, o.err
	}
	if sev, ok := o.perID[diagnosticID]; ok {
		return Preference{Severity: sev}, nil
	}
	return Preference{Severity: o.fixedSeverity}, nil
}

func singleBlockCFG(ops []dataflow.Operation) *dataflow.CFG {
	cfg := dataflow.NewCFG()
	b := cfg.AddBlock(ops)
	cfg.Connect(cfg.Entry, b)
	cfg.Connect(b, cfg.Exit)
	return cfg
}

func TestCoordinatorAnalyzeMethod(t *testing.T) {
	t.Run("SyntaxErrorsAbortAnalysis", func(t *testing.T) {
		c := NewCoordinator(&fakeOptions{fixedSeverity: SeverityWarning}, nil)
		provider := &fakeProvider{ctx: MethodContext{Name: "broken", HasSyntaxErrors: true}}

		diags, err := c.AnalyzeMethod(context.Background(), provider)
		assert.Nil(t, diags)
		var aborted *AnalysisAborted
		assert.ErrorAs(t, err, &aborted)
	})

	t.Run("MissingOptionsProviderReported", func(t *testing.T) {
		c := NewCoordinator(nil, nil)
		provider := &fakeProvider{ctx: MethodContext{Name: "m"}}

		diags, err := c.AnalyzeMethod(context.Background(), provider)
		assert.Nil(t, diags)
		var unavailable *OptionsUnavailable
		assert.ErrorAs(t, err, &unavailable)
	})

	t.Run("AllHiddenShortCircuitsWithNoDiagnostics", func(t *testing.T) {
		c := NewCoordinator(&fakeOptions{fixedSeverity: SeverityHidden}, nil)
		sym := &dataflow.Symbol{Name: "x", Kind: dataflow.SymbolLocal}
		decl := dataflow.NewVariableDeclarator(dataflow.Position{}, sym, dataflow.NewLiteral(dataflow.Position{}, "U256", 1, true))
		provider := &fakeProvider{ctx: MethodContext{Name: "m"}, cfg: singleBlockCFG([]dataflow.Operation{decl})}

		diags, err := c.AnalyzeMethod(context.Background(), provider)
		assert.NoError(t, err)
		assert.Nil(t, diags)
	})

	t.Run("CancelledContextAborts", func(t *testing.T) {
		c := NewCoordinator(&fakeOptions{fixedSeverity: SeverityWarning}, nil)
		provider := &fakeProvider{ctx: MethodContext{Name: "m"}}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		diags, err := c.AnalyzeMethod(ctx, provider)
		assert.Nil(t, diags)
		var aborted *AnalysisAborted
		assert.ErrorAs(t, err, &aborted)
	})

	t.Run("UsesCFGPathAndReportsValueAndExpressionDiagnostics", func(t *testing.T) {
		c := NewCoordinator(&fakeOptions{fixedSeverity: SeverityWarning}, nil)
		sym := &dataflow.Symbol{Name: "total", Kind: dataflow.SymbolLocal}
		decl := dataflow.NewVariableDeclarator(dataflow.Position{Line: 1}, sym, dataflow.NewLiteral(dataflow.Position{}, "U256", 1, true))
		cmp := dataflow.NewOpaque(dataflow.Position{Line: 2}, dataflow.OpOther)
		stmt := dataflow.NewExpressionStatement(dataflow.Position{Line: 2}, cmp, "Bool", true, false)
		provider := &fakeProvider{ctx: MethodContext{Name: "m"}, cfg: singleBlockCFG([]dataflow.Operation{decl, stmt})}

		diags, err := c.AnalyzeMethod(context.Background(), provider)
		assert.NoError(t, err)
		ids := map[string]int{}
		for _, d := range diags {
			ids[d.ID]++
		}
		assert.Equal(t, 1, ids[DiagnosticValueUnused])
		assert.Equal(t, 1, ids[DiagnosticExpressionUnused])
	})

	t.Run("FallsBackToFastTreeWhenCFGUnavailable", func(t *testing.T) {
		c := NewCoordinator(&fakeOptions{fixedSeverity: SeverityWarning}, nil)
		sym := &dataflow.Symbol{Name: "total", Kind: dataflow.SymbolLocal}
		decl := dataflow.NewVariableDeclarator(dataflow.Position{}, sym, dataflow.NewLiteral(dataflow.Position{}, "U256", 1, true))
		provider := &fakeProvider{
			ctx:     MethodContext{Name: "m"},
			cfgErr:  errors.New("no CFG lowering for this method shape"),
			tree:    dataflow.NewSequence(dataflow.Position{}, []dataflow.Operation{decl}),
		}

		diags, err := c.AnalyzeMethod(context.Background(), provider)
		assert.NoError(t, err)
		assert.Len(t, diags, 1)
		assert.Equal(t, DiagnosticValueUnused, diags[0].ID)
	})

	t.Run("NoCFGAndNoFastTreeAborts", func(t *testing.T) {
		c := NewCoordinator(&fakeOptions{fixedSeverity: SeverityWarning}, nil)
		provider := &fakeProvider{
			ctx:    MethodContext{Name: "m"},
			cfgErr: errors.New("unsupported"),
		}

		diags, err := c.AnalyzeMethod(context.Background(), provider)
		assert.Nil(t, diags)
		var aborted *AnalysisAborted
		assert.ErrorAs(t, err, &aborted)
	})

	t.Run("PanicInProviderIsRecoveredAsAnalysisAborted", func(t *testing.T) {
		c := NewCoordinator(&fakeOptions{fixedSeverity: SeverityWarning}, nil)
		provider := &fakeProvider{ctx: MethodContext{Name: "m"}, panicOnCFG: true}

		diags, err := c.AnalyzeMethod(context.Background(), provider)
		assert.Nil(t, diags)
		var aborted *AnalysisAborted
		assert.ErrorAs(t, err, &aborted)
	})

	t.Run("OptionsProviderErrorWrapped", func(t *testing.T) {
		c := NewCoordinator(&fakeOptions{err: errors.New("backing store down")}, nil)
		provider := &fakeProvider{ctx: MethodContext{Name: "m"}}

		diags, err := c.AnalyzeMethod(context.Background(), provider)
		assert.Nil(t, diags)
		var unavailable *OptionsUnavailable
		assert.ErrorAs(t, err, &unavailable)
	})

	t.Run("PublishedAPIParameterSuggestedNotWarned", func(t *testing.T) {
		c := NewCoordinator(&fakeOptions{fixedSeverity: SeverityWarning}, nil)
		p := &dataflow.Symbol{Name: "amount", Kind: dataflow.SymbolParameter, Ref: dataflow.RefValue}
		provider := &fakeProvider{
			ctx:    MethodContext{Name: "transfer", IsPublishedAPI: true},
			params: []*dataflow.Symbol{p},
			cfg:    singleBlockCFG(nil),
		}

		diags, err := c.AnalyzeMethod(context.Background(), provider)
		assert.NoError(t, err)
		assert.Len(t, diags, 1)
		assert.Equal(t, SeveritySuggestion, diags[0].Severity)
	})
}

func TestCoordinatorRelease(t *testing.T) {
	c := NewCoordinator(&fakeOptions{fixedSeverity: SeverityWarning}, nil)
	assert.NotPanics(t, func() {
		c.Release()
	})
}
