package unused

import (
	"testing"

	"kanso/internal/dataflow"

	"github.com/stretchr/testify/assert"
)

func TestIsSideEffectFree(t *testing.T) {
	t.Run("LiteralIsFree", func(t *testing.T) {
		assert.True(t, isSideEffectFree(dataflow.NewLiteral(dataflow.Position{}, "U256", 1, true)))
	})

	t.Run("ReferencesAreFree", func(t *testing.T) {
		sym := &dataflow.Symbol{Name: "x", Kind: dataflow.SymbolLocal}
		assert.True(t, isSideEffectFree(dataflow.NewLocalReference(dataflow.Position{}, sym)))
	})

	t.Run("UnwrapsParenthesesAndConversions", func(t *testing.T) {
		sym := &dataflow.Symbol{Name: "x", Kind: dataflow.SymbolLocal}
		ref := dataflow.NewLocalReference(dataflow.Position{}, sym)
		wrapped := dataflow.NewConversion(dataflow.Position{}, dataflow.NewParenthesized(dataflow.Position{}, ref), "U256", "U128")
		assert.True(t, isSideEffectFree(wrapped))
	})

	t.Run("InvocationIsEffectful", func(t *testing.T) {
		callee := dataflow.NewMethodReference(dataflow.Position{}, "DoThing", nil)
		call := dataflow.NewInvocation(dataflow.Position{}, callee, nil)
		assert.False(t, isSideEffectFree(call))
	})
}

func TestPlanValueUnusedFix(t *testing.T) {
	discard := Preference{Severity: SeverityWarning, Kind: PreferDiscard}
	unusedLocal := Preference{Severity: SeverityWarning, Kind: PreferUnusedLocal}

	t.Run("DisabledOffersNoFix", func(t *testing.T) {
		sym := &dataflow.Symbol{Name: "x", Kind: dataflow.SymbolLocal}
		decl := dataflow.NewVariableDeclarator(dataflow.Position{}, sym, dataflow.NewLiteral(dataflow.Position{}, "U256", 1, true))

		_, err := PlanValueUnusedFix(decl, Preference{Severity: SeverityWarning, Kind: Disabled}, NewNameAllocator(nil))
		assert.Error(t, err)
	})

	t.Run("DeletesDeclarationWithFreeInitializer", func(t *testing.T) {
		sym := &dataflow.Symbol{Name: "x", Kind: dataflow.SymbolLocal}
		decl := dataflow.NewVariableDeclarator(dataflow.Position{}, sym, dataflow.NewLiteral(dataflow.Position{}, "U256", 1, true))

		plan, err := PlanValueUnusedFix(decl, discard, NewNameAllocator(nil))
		assert.NoError(t, err)
		assert.Len(t, plan.Edits, 1)
		assert.Equal(t, EditDelete, plan.Edits[0].Kind)
	})

	t.Run("RewritesDeclarationWithEffectfulInitializer", func(t *testing.T) {
		sym := &dataflow.Symbol{Name: "x", Kind: dataflow.SymbolLocal}
		callee := dataflow.NewMethodReference(dataflow.Position{}, "DoThing", nil)
		call := dataflow.NewInvocation(dataflow.Position{}, callee, nil)
		decl := dataflow.NewVariableDeclarator(dataflow.Position{}, sym, call)

		plan, err := PlanValueUnusedFix(decl, discard, NewNameAllocator(nil))
		assert.NoError(t, err)
		assert.Len(t, plan.Edits, 1)
		assert.Equal(t, EditReplace, plan.Edits[0].Kind)
	})

	t.Run("PreferUnusedLocalRenamesDeclarationInsteadOfDeleting", func(t *testing.T) {
		sym := &dataflow.Symbol{Name: "x", Kind: dataflow.SymbolLocal}
		decl := dataflow.NewVariableDeclarator(dataflow.Position{}, sym, dataflow.NewLiteral(dataflow.Position{}, "U256", 1, true))

		plan, err := PlanValueUnusedFix(decl, unusedLocal, NewNameAllocator(nil))
		assert.NoError(t, err)
		assert.Equal(t, EditReplace, plan.Edits[0].Kind)
		assert.Equal(t, "unused", plan.Edits[0].NewText)
	})

	t.Run("PreferUnusedLocalAllocatesDistinctNamesAcrossCalls", func(t *testing.T) {
		names := NewNameAllocator(nil)
		sym1 := &dataflow.Symbol{Name: "x", Kind: dataflow.SymbolLocal}
		decl1 := dataflow.NewVariableDeclarator(dataflow.Position{}, sym1, dataflow.NewLiteral(dataflow.Position{}, "U256", 1, true))
		sym2 := &dataflow.Symbol{Name: "y", Kind: dataflow.SymbolLocal}
		decl2 := dataflow.NewVariableDeclarator(dataflow.Position{}, sym2, dataflow.NewLiteral(dataflow.Position{}, "U256", 2, true))

		plan1, err := PlanValueUnusedFix(decl1, unusedLocal, names)
		assert.NoError(t, err)
		plan2, err := PlanValueUnusedFix(decl2, unusedLocal, names)
		assert.NoError(t, err)

		assert.Equal(t, "unused", plan1.Edits[0].NewText)
		assert.Equal(t, "unused1", plan2.Edits[0].NewText)
	})

	t.Run("MultiDeclaratorSiblingIsRemovedNotWholeStatement", func(t *testing.T) {
		sym := &dataflow.Symbol{Name: "b", Kind: dataflow.SymbolLocal}
		sibling := &dataflow.VariableDeclarator{}
		decl := dataflow.NewVariableDeclarator(dataflow.Position{}, sym, dataflow.NewLiteral(dataflow.Position{}, "U256", 1, true))
		decl.Siblings = []*dataflow.VariableDeclarator{sibling}

		plan, err := PlanValueUnusedFix(decl, discard, NewNameAllocator(nil))
		assert.NoError(t, err)
		assert.Equal(t, EditDelete, plan.Edits[0].Kind)
	})

	t.Run("MultiDeclaratorSiblingPreferUnusedLocalRenamesInPlace", func(t *testing.T) {
		sym := &dataflow.Symbol{Name: "b", Kind: dataflow.SymbolLocal}
		sibling := &dataflow.VariableDeclarator{}
		decl := dataflow.NewVariableDeclarator(dataflow.Position{}, sym, dataflow.NewLiteral(dataflow.Position{}, "U256", 1, true))
		decl.Siblings = []*dataflow.VariableDeclarator{sibling}

		plan, err := PlanValueUnusedFix(decl, unusedLocal, NewNameAllocator(nil))
		assert.NoError(t, err)
		assert.Equal(t, EditReplace, plan.Edits[0].Kind)
		assert.Equal(t, "unused", plan.Edits[0].NewText)
	})

	t.Run("DeletesAssignmentWithFreeValue", func(t *testing.T) {
		sym := &dataflow.Symbol{Name: "x", Kind: dataflow.SymbolLocal}
		target := dataflow.NewLocalReference(dataflow.Position{}, sym)
		assign := dataflow.NewSimpleAssignment(dataflow.Position{}, target, dataflow.NewLiteral(dataflow.Position{}, "U256", 2, true))

		plan, err := PlanValueUnusedFix(assign, discard, NewNameAllocator(nil))
		assert.NoError(t, err)
		assert.Equal(t, EditDelete, plan.Edits[0].Kind)
	})

	t.Run("ReplacesAssignmentTargetWithEffectfulValue", func(t *testing.T) {
		sym := &dataflow.Symbol{Name: "x", Kind: dataflow.SymbolLocal}
		target := dataflow.NewLocalReference(dataflow.Position{}, sym)
		callee := dataflow.NewMethodReference(dataflow.Position{}, "DoThing", nil)
		call := dataflow.NewInvocation(dataflow.Position{}, callee, nil)
		assign := dataflow.NewSimpleAssignment(dataflow.Position{}, target, call)

		plan, err := PlanValueUnusedFix(assign, discard, NewNameAllocator(nil))
		assert.NoError(t, err)
		assert.Equal(t, EditReplace, plan.Edits[0].Kind)
		assert.Equal(t, "_", plan.Edits[0].NewText)
	})

	t.Run("DeconstructionPositionDiscardedIndependentlyOfSiblings", func(t *testing.T) {
		symA := &dataflow.Symbol{Name: "a", Kind: dataflow.SymbolLocal}
		symB := &dataflow.Symbol{Name: "b", Kind: dataflow.SymbolLocal}
		targetA := dataflow.NewLocalReference(dataflow.Position{}, symA)
		targetB := dataflow.NewLocalReference(dataflow.Position{}, symB)
		callee := dataflow.NewMethodReference(dataflow.Position{}, "Pair", nil)
		call := dataflow.NewInvocation(dataflow.Position{}, callee, nil)
		dataflow.NewDeconstructionAssignment(dataflow.Position{}, []dataflow.Operation{targetA, targetB}, call)

		// The walker records the dead position's own reference as the
		// write site, not the enclosing DeconstructionAssignment.
		plan, err := PlanValueUnusedFix(targetA, discard, NewNameAllocator(nil))
		assert.NoError(t, err)
		assert.Equal(t, EditReplace, plan.Edits[0].Kind)
		assert.Equal(t, "_", plan.Edits[0].NewText)
	})

	t.Run("IncrementIsRemoved", func(t *testing.T) {
		sym := &dataflow.Symbol{Name: "x", Kind: dataflow.SymbolLocal}
		incr := dataflow.NewIncrementOrDecrement(dataflow.Position{}, dataflow.NewLocalReference(dataflow.Position{}, sym), true)

		plan, err := PlanValueUnusedFix(incr, discard, NewNameAllocator(nil))
		assert.NoError(t, err)
		assert.Equal(t, EditDelete, plan.Edits[0].Kind)
	})

	t.Run("DeclarationPatternDiscarded", func(t *testing.T) {
		sym := &dataflow.Symbol{Name: "x", Kind: dataflow.SymbolLocal}
		pattern := dataflow.NewDeclarationPattern(dataflow.Position{}, sym, false)

		plan, err := PlanValueUnusedFix(pattern, discard, NewNameAllocator(nil))
		assert.NoError(t, err)
		assert.Equal(t, "_", plan.Edits[0].NewText)
	})

	t.Run("DeclarationPatternPreferUnusedLocalRenamed", func(t *testing.T) {
		sym := &dataflow.Symbol{Name: "x", Kind: dataflow.SymbolLocal}
		pattern := dataflow.NewDeclarationPattern(dataflow.Position{}, sym, false)

		plan, err := PlanValueUnusedFix(pattern, unusedLocal, NewNameAllocator(nil))
		assert.NoError(t, err)
		assert.Equal(t, "unused", plan.Edits[0].NewText)
	})

	t.Run("OutBindingDiscardedKeepsArgumentPosition", func(t *testing.T) {
		sym := &dataflow.Symbol{Name: "value", Kind: dataflow.SymbolLocal, Ref: dataflow.RefOut}
		pattern := dataflow.NewDeclarationPattern(dataflow.Position{}, sym, false)
		pattern.IsOutBinding = true

		plan, err := PlanValueUnusedFix(pattern, discard, NewNameAllocator(nil))
		assert.NoError(t, err)
		assert.Equal(t, "out _", plan.Edits[0].NewText)
	})

	t.Run("OutBindingPreferUnusedLocalKeepsArgumentPosition", func(t *testing.T) {
		sym := &dataflow.Symbol{Name: "value", Kind: dataflow.SymbolLocal, Ref: dataflow.RefOut}
		pattern := dataflow.NewDeclarationPattern(dataflow.Position{}, sym, false)
		pattern.IsOutBinding = true

		plan, err := PlanValueUnusedFix(pattern, unusedLocal, NewNameAllocator(nil))
		assert.NoError(t, err)
		assert.Equal(t, "out unused", plan.Edits[0].NewText)
	})

	t.Run("InfeasibleForUnhandledWriteShape", func(t *testing.T) {
		lit := dataflow.NewLiteral(dataflow.Position{}, "", nil, false)

		_, err := PlanValueUnusedFix(lit, discard, NewNameAllocator(nil))
		assert.Error(t, err)
		var infeasible *FixPlanInfeasible
		assert.ErrorAs(t, err, &infeasible)
	})
}

func TestPlanExpressionUnusedFix(t *testing.T) {
	t.Run("InsertsDiscardPrefix", func(t *testing.T) {
		stmt := dataflow.NewExpressionStatement(dataflow.Position{}, dataflow.NewLiteral(dataflow.Position{}, "Bool", true, true), "Bool", true, true)
		plan, err := PlanExpressionUnusedFix(stmt, Preference{Severity: SeverityWarning, Kind: PreferDiscard})
		assert.NoError(t, err)
		assert.Equal(t, EditInsert, plan.Edits[0].Kind)
		assert.Equal(t, "_ = ", plan.Edits[0].NewText)
	})

	t.Run("InfeasibleWithoutOperand", func(t *testing.T) {
		stmt := dataflow.NewExpressionStatement(dataflow.Position{}, nil, "", false, false)
		_, err := PlanExpressionUnusedFix(stmt, Preference{Severity: SeverityWarning, Kind: PreferDiscard})
		assert.Error(t, err)
	})

	t.Run("InfeasibleWhenDisabled", func(t *testing.T) {
		stmt := dataflow.NewExpressionStatement(dataflow.Position{}, dataflow.NewLiteral(dataflow.Position{}, "Bool", true, true), "Bool", true, true)
		_, err := PlanExpressionUnusedFix(stmt, Preference{Severity: SeverityWarning, Kind: Disabled})
		assert.Error(t, err)
	})
}

func TestPlanParameterUnusedFix(t *testing.T) {
	t.Run("RenamesToDiscardSpelling", func(t *testing.T) {
		p := &dataflow.Symbol{Name: "amount", Kind: dataflow.SymbolParameter}
		plan, err := PlanParameterUnusedFix(p, MethodContext{Name: "transfer"}, Preference{Severity: SeverityWarning, Kind: PreferDiscard})
		assert.NoError(t, err)
		assert.Equal(t, "_amount", plan.Edits[0].NewText)
	})

	t.Run("InfeasibleForPublishedAPI", func(t *testing.T) {
		p := &dataflow.Symbol{Name: "amount", Kind: dataflow.SymbolParameter}
		_, err := PlanParameterUnusedFix(p, MethodContext{Name: "transfer", IsPublishedAPI: true}, Preference{Severity: SeverityWarning, Kind: PreferDiscard})
		assert.Error(t, err)
	})

	t.Run("InfeasibleWhenDisabled", func(t *testing.T) {
		p := &dataflow.Symbol{Name: "amount", Kind: dataflow.SymbolParameter}
		_, err := PlanParameterUnusedFix(p, MethodContext{Name: "transfer"}, Preference{Severity: SeverityWarning, Kind: Disabled})
		assert.Error(t, err)
	})
}
