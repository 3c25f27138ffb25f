package unused

import (
	"testing"

	"kanso/internal/dataflow"

	"github.com/stretchr/testify/assert"
)

func TestSelectValueUnusedDiagnostics(t *testing.T) {
	t.Run("UnreadDeclarationProducesDiagnostic", func(t *testing.T) {
		x := &dataflow.Symbol{Name: "x", Kind: dataflow.SymbolLocal}
		decl := dataflow.NewVariableDeclarator(dataflow.Position{Line: 3}, x, dataflow.NewLiteral(dataflow.Position{}, "U256", 1, true))

		data := dataflow.AnalyzeFlat([]dataflow.Operation{decl}, nil)

		diags := SelectValueUnusedDiagnostics(data, Preference{Severity: SeverityWarning})
		assert.Len(t, diags, 1)
		assert.Equal(t, DiagnosticValueUnused, diags[0].ID)
		assert.Equal(t, "x", diags[0].Properties["symbol"])
		assert.Equal(t, 3, diags[0].Position.Line)
	})

	t.Run("HiddenSeveritySuppressesEverything", func(t *testing.T) {
		x := &dataflow.Symbol{Name: "x", Kind: dataflow.SymbolLocal}
		decl := dataflow.NewVariableDeclarator(dataflow.Position{}, x, nil)
		data := dataflow.AnalyzeFlat([]dataflow.Operation{decl}, nil)

		diags := SelectValueUnusedDiagnostics(data, Preference{Severity: SeverityHidden})
		assert.Empty(t, diags)
	})

	t.Run("DiscardNeverProducesDiagnostic", func(t *testing.T) {
		discard := &dataflow.Symbol{Name: "_", Kind: dataflow.SymbolDiscard}
		decl := dataflow.NewVariableDeclarator(dataflow.Position{}, discard, dataflow.NewLiteral(dataflow.Position{}, "", 1, true))
		data := dataflow.AnalyzeFlat([]dataflow.Operation{decl}, nil)

		diags := SelectValueUnusedDiagnostics(data, Preference{Severity: SeverityWarning})
		assert.Empty(t, diags)
	})
}

func TestSelectExpressionUnusedDiagnostics(t *testing.T) {
	t.Run("DiscardedComparisonIsNotFlagged", func(t *testing.T) {
		cmp := dataflow.NewOpaque(dataflow.Position{}, dataflow.OpOther)
		stmt := dataflow.NewExpressionStatement(dataflow.Position{}, cmp, "Bool", true, false)

		diags := SelectExpressionUnusedDiagnostics([]*dataflow.ExpressionStatement{stmt}, Preference{Severity: SeverityWarning})
		assert.Empty(t, diags)
	})

	t.Run("DiscardedCompileTimeConstantIsNotFlagged", func(t *testing.T) {
		lit := dataflow.NewLiteral(dataflow.Position{}, "U256", 1, true)
		stmt := dataflow.NewExpressionStatement(dataflow.Position{}, lit, "U256", false, true)

		diags := SelectExpressionUnusedDiagnostics([]*dataflow.ExpressionStatement{stmt}, Preference{Severity: SeverityWarning})
		assert.Empty(t, diags)
	})

	t.Run("DiscardedArithmeticIsFlagged", func(t *testing.T) {
		sum := dataflow.NewOpaque(dataflow.Position{}, dataflow.OpOther)
		stmt := dataflow.NewExpressionStatement(dataflow.Position{}, sum, "U256", false, false)

		diags := SelectExpressionUnusedDiagnostics([]*dataflow.ExpressionStatement{stmt}, Preference{Severity: SeverityWarning})
		assert.Len(t, diags, 1)
		assert.Equal(t, DiagnosticExpressionUnused, diags[0].ID)
		assert.Equal(t, "false", diags[0].Properties["isBoolean"])
	})

	t.Run("InvocationResultDiscardedIsNotFlagged", func(t *testing.T) {
		callee := dataflow.NewMethodReference(dataflow.Position{}, "DoThing", nil)
		call := dataflow.NewInvocation(dataflow.Position{}, callee, nil)
		stmt := dataflow.NewExpressionStatement(dataflow.Position{}, call, "U256", false, false)

		diags := SelectExpressionUnusedDiagnostics([]*dataflow.ExpressionStatement{stmt}, Preference{Severity: SeverityWarning})
		assert.Empty(t, diags)
	})

	t.Run("VoidOperandIsNotFlagged", func(t *testing.T) {
		stmt := dataflow.NewExpressionStatement(dataflow.Position{}, dataflow.NewLiteral(dataflow.Position{}, "", nil, false), "", false, false)

		diags := SelectExpressionUnusedDiagnostics([]*dataflow.ExpressionStatement{stmt}, Preference{Severity: SeverityWarning})
		assert.Empty(t, diags)
	})
}

func TestSelectParameterUnusedDiagnostics(t *testing.T) {
	t.Run("UnreadParameterIsFlagged", func(t *testing.T) {
		p := &dataflow.Symbol{Name: "amount", Kind: dataflow.SymbolParameter, Ref: dataflow.RefValue}
		data := dataflow.AnalyzeFlat(nil, []*dataflow.Symbol{p})

		diags := SelectParameterUnusedDiagnostics(data, []*dataflow.Symbol{p}, MethodContext{Name: "transfer"}, Preference{Severity: SeverityWarning})
		assert.Len(t, diags, 1)
		assert.Equal(t, SeverityWarning, diags[0].Severity)
	})

	t.Run("PublishedAPIParameterDowngradedToSuggestion", func(t *testing.T) {
		p := &dataflow.Symbol{Name: "amount", Kind: dataflow.SymbolParameter, Ref: dataflow.RefValue}
		data := dataflow.AnalyzeFlat(nil, []*dataflow.Symbol{p})

		diags := SelectParameterUnusedDiagnostics(data, []*dataflow.Symbol{p}, MethodContext{Name: "transfer", IsPublishedAPI: true}, Preference{Severity: SeverityWarning})
		assert.Len(t, diags, 1)
		assert.Equal(t, SeveritySuggestion, diags[0].Severity)
	})

	t.Run("OutParameterNeverFlagged", func(t *testing.T) {
		p := &dataflow.Symbol{Name: "result", Kind: dataflow.SymbolParameter, Ref: dataflow.RefOut}
		data := dataflow.AnalyzeFlat(nil, []*dataflow.Symbol{p})

		diags := SelectParameterUnusedDiagnostics(data, []*dataflow.Symbol{p}, MethodContext{Name: "tryGet"}, Preference{Severity: SeverityWarning})
		assert.Empty(t, diags)
	})

	t.Run("ReadParameterNotFlagged", func(t *testing.T) {
		p := &dataflow.Symbol{Name: "amount", Kind: dataflow.SymbolParameter, Ref: dataflow.RefValue}
		read := dataflow.NewParameterReference(dataflow.Position{}, p)
		data := dataflow.AnalyzeFlat([]dataflow.Operation{read}, []*dataflow.Symbol{p})

		diags := SelectParameterUnusedDiagnostics(data, []*dataflow.Symbol{p}, MethodContext{Name: "transfer"}, Preference{Severity: SeverityWarning})
		assert.Empty(t, diags)
	})
}
