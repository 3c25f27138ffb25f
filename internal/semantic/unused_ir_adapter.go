package semantic

import (
	"context"
	"fmt"

	"kanso/internal/ast"
	"kanso/internal/dataflow"
	"kanso/internal/unused"
)

// kansoIRProvider lowers one Kanso function body into the dataflow
// engine's operation tree and CFG shapes. Kanso has no closures, no
// ref/out parameters, and no loops, so large parts of the generic
// engine (delegate resolution, FlowCapture, AnonymousFunction) are
// never exercised by this adapter — they stay available for a future
// language surface that does have them.
type kansoIRProvider struct {
	fn             *ast.Function
	isPublishedAPI bool
	hasSyntaxError bool
	params         []*dataflow.Symbol
}

// newKansoIRProvider builds the adapter for fn. isPublishedAPI marks an
// `ext fn` entry point, whose parameter list external callers depend
// on; hasSyntaxError lets the caller short-circuit analysis of a
// function the parser already flagged rather than risk lowering a
// malformed body.
func newKansoIRProvider(fn *ast.Function, isPublishedAPI, hasSyntaxError bool) *kansoIRProvider {
	return &kansoIRProvider{fn: fn, isPublishedAPI: isPublishedAPI, hasSyntaxError: hasSyntaxError}
}

func toPos(p ast.Position) dataflow.Position {
	return dataflow.Position{Filename: p.Filename, Offset: p.Offset, Line: p.Line, Column: p.Column}
}

func (p *kansoIRProvider) Context() unused.MethodContext {
	return unused.MethodContext{
		Name:            p.fn.Name.Value,
		Position:        toPos(p.fn.Pos),
		IsPublishedAPI:  p.isPublishedAPI,
		HasSyntaxErrors: p.hasSyntaxError,
	}
}

// Parameters lowers the function's declared parameters once and caches
// them: the same *dataflow.Symbol pointers must be handed to BuildCFG/
// BuildFastTree so reads inside the body resolve to the identical
// symbol identity the coordinator checks for escaping usage.
func (p *kansoIRProvider) Parameters() []*dataflow.Symbol {
	if p.params != nil {
		return p.params
	}
	params := make([]*dataflow.Symbol, 0, len(p.fn.Params))
	for _, param := range p.fn.Params {
		kind := dataflow.SymbolParameter
		if param.Name.Value == "_" {
			kind = dataflow.SymbolDiscard
		}
		typeName := ""
		if param.Type != nil {
			typeName = param.Type.Name.Value
		}
		params = append(params, &dataflow.Symbol{
			Name:         param.Name.Value,
			Kind:         kind,
			DeclaredType: typeName,
			Ref:          dataflow.RefValue,
			DeclPosition: toPos(param.Pos),
		})
	}
	p.params = params
	return params
}

func (p *kansoIRProvider) Capabilities() unused.LanguageCapabilities {
	return unused.LanguageCapabilities{
		SupportsDiscard:        true,
		SupportsOutParameters:  false,
		SupportsRefParameters:  false,
		SupportsLocalFunctions: false,
	}
}

func (p *kansoIRProvider) BuildCFG(ctx context.Context) (*dataflow.CFG, error) {
	if p.fn.Body == nil {
		return nil, fmt.Errorf("function %s has no body to lower", p.fn.Name.Value)
	}
	cfg := dataflow.NewCFG()
	lw := newLowerer(p.Parameters())
	b := &cfgBuilder{cfg: cfg, lw: lw}

	entry := cfg.AddBlock(nil)
	cfg.Connect(cfg.Entry, entry)
	end := b.lowerBlock(p.fn.Body.Items, p.fn.Body.TailExpr, entry)
	cfg.Connect(end, cfg.Exit)
	return cfg, nil
}

func (p *kansoIRProvider) BuildFastTree(ctx context.Context) (dataflow.Operation, error) {
	if p.fn.Body == nil {
		return nil, fmt.Errorf("function %s has no body to lower", p.fn.Name.Value)
	}
	lw := newLowerer(p.Parameters())
	var ops []dataflow.Operation
	var flatten func(items []ast.FunctionBlockItem, tail *ast.ExprStmt)
	flatten = func(items []ast.FunctionBlockItem, tail *ast.ExprStmt) {
		for _, item := range items {
			switch n := item.(type) {
			case *ast.LetStmt:
				ops = append(ops, lw.lowerLet(n))
			case *ast.AssignStmt:
				ops = append(ops, lw.lowerAssign(n))
			case *ast.ExprStmt:
				ops = append(ops, lw.lowerExprStmt(n))
			case *ast.ReturnStmt:
				if n.Value != nil {
					ops = append(ops, lw.lowerExpr(n.Value))
				}
			case *ast.RequireStmt:
				ops = append(ops, lw.lowerRequire(n))
			case *ast.AssertStmt:
				ops = append(ops, lw.lowerAssert(n))
			case *ast.IfStmt:
				// No branch structure in the fast path: both arms are
				// folded in sequentially, which only makes the analysis
				// more conservative (a write on one arm looks read if
				// the other arm reads it), never unsound in the other
				// direction.
				ops = append(ops, lw.lowerExpr(n.Condition))
				flatten(n.ThenBlock.Items, n.ThenBlock.TailExpr)
				if n.ElseBlock != nil {
					flatten(n.ElseBlock.Items, n.ElseBlock.TailExpr)
				}
			}
		}
		if tail != nil {
			ops = append(ops, lw.lowerExpr(tail.Expr))
		}
	}
	flatten(p.fn.Body.Items, p.fn.Body.TailExpr)
	return dataflow.NewSequence(dataflow.Position{}, ops), nil
}

// lowerer turns Kanso expressions and statements into dataflow
// operations, tracking the locals it has declared so later identifier
// references resolve to the same *dataflow.Symbol a VariableDeclarator
// introduced. Kanso's shadowing rule (a later `let` with the same name
// in the same or a nested block supersedes the earlier binding) is
// modeled by simply overwriting scope[name] — this engine keys
// everything by Symbol pointer, not name, so the old binding's already
// recorded definitions remain distinct and unaffected.
type lowerer struct {
	scope map[string]*dataflow.Symbol
}

func newLowerer(params []*dataflow.Symbol) *lowerer {
	l := &lowerer{scope: make(map[string]*dataflow.Symbol, len(params))}
	for _, p := range params {
		l.scope[p.Name] = p
	}
	return l
}

func (l *lowerer) resolve(name string) *dataflow.Symbol {
	return l.scope[name]
}

func (l *lowerer) declareLocal(name string, pos dataflow.Position) *dataflow.Symbol {
	kind := dataflow.SymbolLocal
	if name == "_" {
		kind = dataflow.SymbolDiscard
	}
	sym := &dataflow.Symbol{Name: name, Kind: kind, Ref: dataflow.RefValue, DeclPosition: pos}
	l.scope[name] = sym
	return sym
}

func (l *lowerer) lowerLet(n *ast.LetStmt) dataflow.Operation {
	var init dataflow.Operation
	if n.Expr != nil {
		init = l.lowerExpr(n.Expr)
	}
	// The initializer is lowered against the scope as it stood before
	// this declaration, so `let x = x + 1;` reads the outer x.
	sym := l.declareLocal(n.Name.Value, toPos(n.Name.Pos))
	return dataflow.NewVariableDeclarator(toPos(n.Pos), sym, init)
}

func (l *lowerer) lowerAssignTarget(e ast.Expr) dataflow.Operation {
	if ident, ok := e.(*ast.IdentExpr); ok {
		if sym := l.resolve(ident.Name); sym != nil {
			pos := toPos(ident.Pos)
			if sym.Kind == dataflow.SymbolParameter {
				return dataflow.NewParameterReference(pos, sym)
			}
			return dataflow.NewLocalReference(pos, sym)
		}
	}
	// A storage field or indexed target isn't a symbol this engine
	// tracks; still lower it so any reads inside it (e.g. the index
	// expression) are recorded.
	return l.lowerExpr(e)
}

func compoundOpSymbol(op ast.AssignType) string {
	switch op {
	case ast.PLUS_ASSIGN:
		return "+="
	case ast.MINUS_ASSIGN:
		return "-="
	case ast.STAR_ASSIGN:
		return "*="
	case ast.SLASH_ASSIGN:
		return "/="
	case ast.PERCENT_ASSIGN:
		return "%="
	default:
		return "="
	}
}

func (l *lowerer) lowerAssign(n *ast.AssignStmt) dataflow.Operation {
	target := l.lowerAssignTarget(n.Target)
	value := l.lowerExpr(n.Value)
	if n.Operator == ast.ASSIGN {
		return dataflow.NewSimpleAssignment(toPos(n.Pos), target, value)
	}
	return dataflow.NewCompoundAssignment(toPos(n.Pos), target, value, compoundOpSymbol(n.Operator))
}

func isBooleanExpr(e ast.Expr) bool {
	switch n := e.(type) {
	case *ast.BinaryExpr:
		switch n.Op {
		case "==", "!=", "<", ">", "<=", ">=", "&&", "||":
			return true
		}
	case *ast.UnaryExpr:
		return n.Op == "!"
	case *ast.ParenExpr:
		return isBooleanExpr(n.Value)
	}
	return false
}

// isCompileTimeConstantExpr reports whether e is a literal (or a
// parenthesized literal) whose value is known without evaluating
// anything at runtime. A bare discarded literal carries no information
// a diagnostic could act on, so it is exempted the same way a
// boolean-valued expression is.
func isCompileTimeConstantExpr(e ast.Expr) bool {
	switch n := e.(type) {
	case *ast.LiteralExpr:
		return true
	case *ast.ParenExpr:
		return isCompileTimeConstantExpr(n.Value)
	default:
		return false
	}
}

func (l *lowerer) lowerExprStmt(n *ast.ExprStmt) dataflow.Operation {
	operand := l.lowerExpr(n.Expr)
	operandType := ""
	if _, isCall := n.Expr.(*ast.CallExpr); !isCall {
		// A call's return type isn't known at this layer; leaving
		// operandType empty for calls is harmless since the selector
		// exempts invocation operands outright regardless of type.
		operandType = "value"
	}
	return dataflow.NewExpressionStatement(toPos(n.Pos), operand, operandType, isBooleanExpr(n.Expr), isCompileTimeConstantExpr(n.Expr))
}

func (l *lowerer) lowerArgs(pos dataflow.Position, exprs []ast.Expr) dataflow.Operation {
	args := make([]dataflow.Argument, 0, len(exprs))
	for _, a := range exprs {
		args = append(args, dataflow.Argument{Value: l.lowerExpr(a), RefKind: dataflow.RefValue})
	}
	callee := dataflow.NewLiteral(pos, "", nil, false)
	return dataflow.NewInvocation(pos, callee, args)
}

func (l *lowerer) lowerRequire(n *ast.RequireStmt) dataflow.Operation {
	return l.lowerArgs(toPos(n.Pos), n.Args)
}

func (l *lowerer) lowerAssert(n *ast.AssertStmt) dataflow.Operation {
	return l.lowerArgs(toPos(n.Pos), n.Args)
}

func (l *lowerer) lowerExpr(e ast.Expr) dataflow.Operation {
	if e == nil {
		return dataflow.NewLiteral(dataflow.Position{}, "", nil, false)
	}
	switch n := e.(type) {
	case *ast.IdentExpr:
		if sym := l.resolve(n.Name); sym != nil {
			pos := toPos(n.Pos)
			if sym.Kind == dataflow.SymbolParameter {
				return dataflow.NewParameterReference(pos, sym)
			}
			return dataflow.NewLocalReference(pos, sym)
		}
		// An unresolved identifier names a module-level constant or
		// storage alias (e.g. `State`), not a tracked symbol.
		return dataflow.NewLiteral(toPos(n.Pos), "", nil, false)

	case *ast.LiteralExpr:
		return dataflow.NewLiteral(toPos(n.Pos), "", n.Value, true)

	case *ast.ParenExpr:
		return dataflow.NewParenthesized(toPos(n.Pos), l.lowerExpr(n.Value))

	case *ast.BinaryExpr:
		return dataflow.NewOpaque(toPos(n.Pos), dataflow.OpOther, l.lowerExpr(n.Left), l.lowerExpr(n.Right))

	case *ast.UnaryExpr:
		return dataflow.NewOpaque(toPos(n.Pos), dataflow.OpOther, l.lowerExpr(n.Value))

	case *ast.FieldAccessExpr:
		return dataflow.NewOpaque(toPos(n.Pos), dataflow.OpOther, l.lowerExpr(n.Target))

	case *ast.IndexExpr:
		return dataflow.NewOpaque(toPos(n.Pos), dataflow.OpOther, l.lowerExpr(n.Target), l.lowerExpr(n.Index))

	case *ast.StructLiteralExpr:
		children := make([]dataflow.Operation, 0, len(n.Fields))
		for _, f := range n.Fields {
			children = append(children, l.lowerExpr(f.Value))
		}
		return dataflow.NewOpaque(toPos(n.Pos), dataflow.OpOther, children...)

	case *ast.TupleExpr:
		children := make([]dataflow.Operation, 0, len(n.Elements))
		for _, el := range n.Elements {
			children = append(children, l.lowerExpr(el))
		}
		return dataflow.NewOpaque(toPos(n.Pos), dataflow.OpOther, children...)

	case *ast.CallExpr:
		callee := l.lowerExpr(n.Callee)
		args := make([]dataflow.Argument, 0, len(n.Args))
		for _, a := range n.Args {
			args = append(args, dataflow.Argument{Value: l.lowerExpr(a), RefKind: dataflow.RefValue})
		}
		return dataflow.NewInvocation(toPos(n.Pos), callee, args)

	case *ast.CalleePath:
		return dataflow.NewLiteral(toPos(n.Pos), "", nil, false)

	default:
		return dataflow.NewLiteral(dataflow.Position{}, "", nil, false)
	}
}

// cfgBuilder threads a *dataflow.CFG through statement lowering,
// splitting a new block at every IfStmt so the driver's worklist pass
// sees Kanso's real branch structure instead of the fast path's
// sequential approximation.
type cfgBuilder struct {
	cfg *dataflow.CFG
	lw  *lowerer
}

func (b *cfgBuilder) lowerBlock(items []ast.FunctionBlockItem, tail *ast.ExprStmt, current *dataflow.BasicBlock) *dataflow.BasicBlock {
	for _, item := range items {
		switch n := item.(type) {
		case *ast.LetStmt:
			current.Operations = append(current.Operations, b.lw.lowerLet(n))
		case *ast.AssignStmt:
			current.Operations = append(current.Operations, b.lw.lowerAssign(n))
		case *ast.ExprStmt:
			current.Operations = append(current.Operations, b.lw.lowerExprStmt(n))
		case *ast.ReturnStmt:
			if n.Value != nil {
				current.Operations = append(current.Operations, b.lw.lowerExpr(n.Value))
			}
			b.cfg.Connect(current, b.cfg.Exit)
			current = b.cfg.AddBlock(nil) // dead code after return, kept for structural validity
		case *ast.RequireStmt:
			current.Operations = append(current.Operations, b.lw.lowerRequire(n))
		case *ast.AssertStmt:
			current.Operations = append(current.Operations, b.lw.lowerAssert(n))
		case *ast.IfStmt:
			current = b.lowerIf(n, current)
		}
	}
	if tail != nil {
		current.Operations = append(current.Operations, b.lw.lowerExpr(tail.Expr))
	}
	return current
}

func (b *cfgBuilder) lowerIf(n *ast.IfStmt, current *dataflow.BasicBlock) *dataflow.BasicBlock {
	current.Operations = append(current.Operations, b.lw.lowerExpr(n.Condition))

	thenBlock := b.cfg.AddBlock(nil)
	b.cfg.Connect(current, thenBlock)
	thenEnd := b.lowerBlock(n.ThenBlock.Items, n.ThenBlock.TailExpr, thenBlock)

	join := b.cfg.AddBlock(nil)
	b.cfg.Connect(thenEnd, join)

	if n.ElseBlock != nil {
		elseBlock := b.cfg.AddBlock(nil)
		b.cfg.Connect(current, elseBlock)
		elseEnd := b.lowerBlock(n.ElseBlock.Items, n.ElseBlock.TailExpr, elseBlock)
		b.cfg.Connect(elseEnd, join)
	} else {
		b.cfg.Connect(current, join)
	}
	return join
}
