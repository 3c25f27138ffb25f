package dataflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveDelegatesDirect(t *testing.T) {
	t.Run("DirectMethodReferenceResolvesAtCallSite", func(t *testing.T) {
		helper := NewMethodReference(Position{}, "Helper", nil)
		callee := helper
		call := NewInvocation(Position{}, callee, nil)

		cfg := NewCFG()
		b := cfg.AddBlock([]Operation{call})
		cfg.Connect(cfg.Entry, b)
		cfg.Connect(b, cfg.Exit)

		data := newAnalysisData()
		ResolveDelegates(data, cfg)

		targets := data.DelegateTargets(call.Callee)
		assert.Len(t, targets, 1)
		assert.Same(t, helper, targets[0])
	})

	t.Run("DelegateCreationAndConversionWrappersAreUnwrapped", func(t *testing.T) {
		helper := NewMethodReference(Position{}, "Helper", nil)
		wrapped := NewConversion(Position{}, NewDelegateCreation(Position{}, helper), "MethodGroup", "Action")
		f := &Symbol{Name: "f", Kind: SymbolLocal}
		decl := NewVariableDeclarator(Position{}, f, wrapped)
		call := NewInvocation(Position{}, NewLocalReference(Position{}, f), nil)

		cfg := NewCFG()
		b := cfg.AddBlock([]Operation{decl, call})
		cfg.Connect(cfg.Entry, b)
		cfg.Connect(b, cfg.Exit)

		data := newAnalysisData()
		ResolveDelegates(data, cfg)

		targets := data.DelegateTargets(call.Callee)
		assert.Len(t, targets, 1)
		assert.Same(t, helper, targets[0])
	})

	t.Run("ReassignmentUpdatesResolution", func(t *testing.T) {
		first := NewMethodReference(Position{}, "First", nil)
		second := NewMethodReference(Position{}, "Second", nil)
		f := &Symbol{Name: "f", Kind: SymbolLocal}
		decl := NewVariableDeclarator(Position{}, f, first)
		reassign := NewSimpleAssignment(Position{}, NewLocalReference(Position{}, f), second)
		call := NewInvocation(Position{}, NewLocalReference(Position{}, f), nil)

		cfg := NewCFG()
		b := cfg.AddBlock([]Operation{decl, reassign, call})
		cfg.Connect(cfg.Entry, b)
		cfg.Connect(b, cfg.Exit)

		data := newAnalysisData()
		ResolveDelegates(data, cfg)

		targets := data.DelegateTargets(call.Callee)
		assert.Len(t, targets, 1)
		assert.Same(t, second, targets[0])
	})

	t.Run("NestedCFGsAreResolvedToo", func(t *testing.T) {
		helper := NewMethodReference(Position{}, "Helper", nil)
		call := NewInvocation(Position{}, helper, nil)

		outer := NewCFG()
		ob := outer.AddBlock(nil)
		outer.Connect(outer.Entry, ob)
		outer.Connect(ob, outer.Exit)

		lambdaOp := NewAnonymousFunction(Position{}, nil, nil)
		nested := NewCFG()
		nb := nested.AddBlock([]Operation{call})
		nested.Connect(nested.Entry, nb)
		nested.Connect(nb, nested.Exit)
		outer.Nested[lambdaOp] = nested

		data := newAnalysisData()
		ResolveDelegates(data, outer)

		targets := data.DelegateTargets(call.Callee)
		assert.Len(t, targets, 1)
		assert.Same(t, helper, targets[0])
	})
}
