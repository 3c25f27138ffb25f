package dataflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeLinearUnusedLocal(t *testing.T) {
	t.Run("UnreadLocalSurfacesAfterAnalyze", func(t *testing.T) {
		x := &Symbol{Name: "x", Kind: SymbolLocal}
		decl := NewVariableDeclarator(Position{}, x, NewLiteral(Position{}, "U256", 1, true))

		cfg := NewCFG()
		b := cfg.AddBlock([]Operation{decl})
		cfg.Connect(cfg.Entry, b)
		cfg.Connect(b, cfg.Exit)

		arena := NewArena()
		data := Analyze(cfg, nil, arena)

		unread := data.UnreadWrites()
		assert.Len(t, unread, 1)
		assert.Same(t, decl, unread[0])
	})
}

func TestAnalyzeParameterEscape(t *testing.T) {
	t.Run("RefParameterReassignedNeverReadIsNotFlagged", func(t *testing.T) {
		p := &Symbol{Name: "p", Kind: SymbolParameter, Ref: RefRef}
		assign := NewSimpleAssignment(Position{}, NewParameterReference(Position{}, p), NewLiteral(Position{}, "U256", 1, true))

		cfg := NewCFG()
		b := cfg.AddBlock([]Operation{assign})
		cfg.Connect(cfg.Entry, b)
		cfg.Connect(b, cfg.Exit)

		arena := NewArena()
		data := Analyze(cfg, []*Symbol{p}, arena)

		assert.Empty(t, data.UnreadWrites())
	})

	t.Run("ValueParameterReassignedNeverReadIsFlagged", func(t *testing.T) {
		p := &Symbol{Name: "p", Kind: SymbolParameter, Ref: RefValue}
		assign := NewSimpleAssignment(Position{}, NewParameterReference(Position{}, p), NewLiteral(Position{}, "U256", 1, true))

		cfg := NewCFG()
		b := cfg.AddBlock([]Operation{assign})
		cfg.Connect(cfg.Entry, b)
		cfg.Connect(b, cfg.Exit)

		arena := NewArena()
		data := Analyze(cfg, []*Symbol{p}, arena)

		unread := data.UnreadWrites()
		assert.Len(t, unread, 1)
		assert.Same(t, assign, unread[0])
	})
}

func TestAnalyzeBranchMerge(t *testing.T) {
	t.Run("ReadAfterMergeObservesEitherBranchWrite", func(t *testing.T) {
		x := &Symbol{Name: "x", Kind: SymbolLocal}

		cfg := NewCFG()
		writeLeft := NewSimpleAssignment(Position{}, NewLocalReference(Position{}, x), NewLiteral(Position{}, "U256", 1, true))
		writeRight := NewSimpleAssignment(Position{}, NewLocalReference(Position{}, x), NewLiteral(Position{}, "U256", 2, true))
		left := cfg.AddBlock([]Operation{writeLeft})
		right := cfg.AddBlock([]Operation{writeRight})
		read := NewLocalReference(Position{}, x)
		join := cfg.AddBlock([]Operation{read})

		cfg.Connect(cfg.Entry, left)
		cfg.Connect(cfg.Entry, right)
		cfg.Connect(left, join)
		cfg.Connect(right, join)
		cfg.Connect(join, cfg.Exit)

		arena := NewArena()
		data := Analyze(cfg, nil, arena)

		assert.Empty(t, data.UnreadWrites())
		assert.True(t, data.WasRead(x))
	})

	t.Run("WriteOnOnlyOneBranchStillFlaggedUnreadOnThatPath", func(t *testing.T) {
		x := &Symbol{Name: "x", Kind: SymbolLocal}

		cfg := NewCFG()
		writeLeft := NewSimpleAssignment(Position{}, NewLocalReference(Position{}, x), NewLiteral(Position{}, "U256", 1, true))
		left := cfg.AddBlock([]Operation{writeLeft})
		right := cfg.AddBlock(nil)
		join := cfg.AddBlock(nil)

		cfg.Connect(cfg.Entry, left)
		cfg.Connect(cfg.Entry, right)
		cfg.Connect(left, join)
		cfg.Connect(right, join)
		cfg.Connect(join, cfg.Exit)

		arena := NewArena()
		data := Analyze(cfg, nil, arena)

		unread := data.UnreadWrites()
		assert.Len(t, unread, 1)
		assert.Same(t, writeLeft, unread[0])
	})
}

func TestAnalyzeLoopConvergence(t *testing.T) {
	t.Run("LoopBackEdgeStillTerminatesAndTracksUsage", func(t *testing.T) {
		x := &Symbol{Name: "x", Kind: SymbolLocal}
		decl := NewVariableDeclarator(Position{}, x, NewLiteral(Position{}, "U256", 0, true))

		cfg := NewCFG()
		preheader := cfg.AddBlock([]Operation{decl})
		increment := NewIncrementOrDecrement(Position{}, NewLocalReference(Position{}, x), true)
		body := cfg.AddBlock([]Operation{increment})
		after := cfg.AddBlock([]Operation{NewLocalReference(Position{}, x)})

		cfg.Connect(cfg.Entry, preheader)
		cfg.Connect(preheader, body)
		cfg.Connect(body, body) // back edge
		cfg.Connect(body, after)
		cfg.Connect(after, cfg.Exit)

		arena := NewArena()
		data := Analyze(cfg, nil, arena)

		assert.True(t, data.WasRead(x))
		assert.Empty(t, data.UnreadWrites())
	})
}

func TestAnalyzeDelegateResolution(t *testing.T) {
	t.Run("VariableAssignedFromMethodReferenceResolvesInvocation", func(t *testing.T) {
		helperRef := NewMethodReference(Position{}, "Helper", nil)
		f := &Symbol{Name: "f", Kind: SymbolLocal}
		decl := NewVariableDeclarator(Position{}, f, helperRef)
		call := NewInvocation(Position{}, NewLocalReference(Position{}, f), nil)

		cfg := NewCFG()
		b := cfg.AddBlock([]Operation{decl, call})
		cfg.Connect(cfg.Entry, b)
		cfg.Connect(b, cfg.Exit)

		arena := NewArena()
		data := Analyze(cfg, nil, arena)

		targets := data.DelegateTargets(call.Callee)
		assert.Len(t, targets, 1)
		assert.Same(t, helperRef, targets[0])
		assert.Zero(t, data.UnresolvedDelegateCount())
	})

	t.Run("UnresolvableCalleeIsCountedNotGuessed", func(t *testing.T) {
		f := &Symbol{Name: "f", Kind: SymbolParameter}
		call := NewInvocation(Position{}, NewParameterReference(Position{}, f), nil)

		cfg := NewCFG()
		b := cfg.AddBlock([]Operation{call})
		cfg.Connect(cfg.Entry, b)
		cfg.Connect(b, cfg.Exit)

		arena := NewArena()
		data := Analyze(cfg, []*Symbol{f}, arena)

		assert.Equal(t, 1, data.UnresolvedDelegateCount())
		assert.Empty(t, data.DelegateTargets(call.Callee))
	})
}
