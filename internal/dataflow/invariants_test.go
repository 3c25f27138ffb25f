package dataflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// These tests exercise cross-cutting properties the rest of the
// package's tests only touch individually: discard symbols never
// surface as diagnostics no matter how they're written, escaping
// parameters are never flagged, a value parameter's write on one branch
// is still flagged, and an arena reused across successive analyses keeps
// their results separate.
func TestCrossCuttingProperties(t *testing.T) {
	t.Run("DiscardNeverTrackedAcrossEveryWriteShape", func(t *testing.T) {
		discard := &Symbol{Name: "_", Kind: SymbolDiscard}

		decl := NewVariableDeclarator(Position{}, discard, NewLiteral(Position{}, "", 1, true))
		reassign := NewSimpleAssignment(Position{}, NewLocalReference(Position{}, discard), NewLiteral(Position{}, "", 2, true))
		incr := NewIncrementOrDecrement(Position{}, NewLocalReference(Position{}, discard), true)

		data := newAnalysisData()
		state := newBlockState()
		WalkBlock(data, state, []Operation{decl, reassign, incr})

		assert.Empty(t, data.UnreadWrites())
		assert.False(t, data.WasWritten(discard))
		assert.Empty(t, state.Reaches(discard))
	})

	t.Run("OutParameterNeverFlaggedRegardlessOfBlockShape", func(t *testing.T) {
		p := &Symbol{Name: "p", Kind: SymbolParameter, Ref: RefOut}
		write := NewSimpleAssignment(Position{}, NewParameterReference(Position{}, p), NewLiteral(Position{}, "U256", 1, true))

		cfg := NewCFG()
		left := cfg.AddBlock([]Operation{write})
		right := cfg.AddBlock(nil)
		join := cfg.AddBlock(nil)
		cfg.Connect(cfg.Entry, left)
		cfg.Connect(cfg.Entry, right)
		cfg.Connect(left, join)
		cfg.Connect(right, join)
		cfg.Connect(join, cfg.Exit)

		arena := NewArena()
		data := Analyze(cfg, []*Symbol{p}, arena)

		assert.Empty(t, data.UnreadWrites())
	})

	t.Run("ValueParameterOnOnlyOneBranchStillFlaggedOnThatPath", func(t *testing.T) {
		p := &Symbol{Name: "p", Kind: SymbolParameter, Ref: RefValue}
		write := NewSimpleAssignment(Position{}, NewParameterReference(Position{}, p), NewLiteral(Position{}, "U256", 1, true))

		cfg := NewCFG()
		left := cfg.AddBlock([]Operation{write})
		right := cfg.AddBlock(nil)
		join := cfg.AddBlock(nil)
		cfg.Connect(cfg.Entry, left)
		cfg.Connect(cfg.Entry, right)
		cfg.Connect(left, join)
		cfg.Connect(right, join)
		cfg.Connect(join, cfg.Exit)

		arena := NewArena()
		data := Analyze(cfg, []*Symbol{p}, arena)

		unread := data.UnreadWrites()
		assert.Len(t, unread, 1)
		assert.Same(t, write, unread[0])
	})

	t.Run("ArenaReuseAcrossSuccessiveAnalyzeCallsStaysIsolated", func(t *testing.T) {
		arena := NewArena()

		x := &Symbol{Name: "x", Kind: SymbolLocal}
		decl1 := NewVariableDeclarator(Position{}, x, NewLiteral(Position{}, "", 1, true))
		cfg1 := NewCFG()
		b1 := cfg1.AddBlock([]Operation{decl1})
		cfg1.Connect(cfg1.Entry, b1)
		cfg1.Connect(b1, cfg1.Exit)
		data1 := Analyze(cfg1, nil, arena)
		assert.Len(t, data1.UnreadWrites(), 1)
		arena.Release()

		y := &Symbol{Name: "y", Kind: SymbolLocal}
		decl2 := NewVariableDeclarator(Position{}, y, NewLiteral(Position{}, "", 2, true))
		read2 := NewLocalReference(Position{}, y)
		cfg2 := NewCFG()
		b2 := cfg2.AddBlock([]Operation{decl2, read2})
		cfg2.Connect(cfg2.Entry, b2)
		cfg2.Connect(b2, cfg2.Exit)
		data2 := Analyze(cfg2, nil, arena)

		assert.Empty(t, data2.UnreadWrites())
		assert.True(t, data2.WasRead(y))
		arena.Release()
	})
}
