package lsp

import (
	"kanso/internal/ast"
)

// SemanticToken represents a single LSP semantic token entry
// Line and StartChar are 0-based positions
// TokenType is an index into the SemanticTokenTypes array
// TokenModifiers is a bitmask based on SemanticTokenModifiers
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int // index into SemanticTokenTypes
	TokenModifiers int // bitmask
}

func collectSemanticTokens(contract *ast.Contract) []SemanticToken {
	if contract == nil {
		return nil
	}

	var tokens []SemanticToken
	if contract.Name.Value != "" {
		tokens = append(tokens, makeToken(contract.Name.Pos, contract.Name.EndPos, contract.Name.Value, "namespace", 1))
	}

	for _, item := range contract.Items {
		tokens = append(tokens, walkContractItem(item)...)
	}

	return tokens
}

func walkContractItem(item ast.ContractItem) []SemanticToken {
	switch n := item.(type) {
	case *ast.Use:
		return walkUse(n)
	case *ast.Struct:
		return walkStruct(n)
	case *ast.Function:
		return walkFunction(n)
	default:
		return nil
	}
}

func walkUse(u *ast.Use) []SemanticToken {
	var tokens []SemanticToken
	for _, ns := range u.Namespaces {
		tokens = append(tokens, makeToken(ns.Name.Pos, ns.Name.EndPos, ns.Name.Value, "namespace", 0))
	}
	for _, imp := range u.Imports {
		tokens = append(tokens, makeToken(imp.Name.Pos, imp.Name.EndPos, imp.Name.Value, "type", 0))
	}
	return tokens
}

func walkStruct(s *ast.Struct) []SemanticToken {
	var tokens []SemanticToken
	if s.Attribute != nil {
		tokens = append(tokens, makeToken(s.Attribute.Pos, s.Attribute.EndPos, s.Attribute.Name, "modifier", 0))
	}
	if s.Name.Value != "" {
		tokens = append(tokens, makeToken(s.Name.Pos, s.Name.EndPos, s.Name.Value, "type", 1))
	}
	for _, item := range s.Items {
		field, ok := item.(*ast.StructField)
		if !ok {
			continue
		}
		tokens = append(tokens, makeToken(field.Name.Pos, field.Name.EndPos, field.Name.Value, "property", 1))
		tokens = append(tokens, typeReferenceToken(field.VariableType)...)
	}
	return tokens
}

func walkFunction(f *ast.Function) []SemanticToken {
	var tokens []SemanticToken
	if f.Attribute != nil {
		tokens = append(tokens, makeToken(f.Attribute.Pos, f.Attribute.EndPos, f.Attribute.Name, "modifier", 0))
	}
	if f.Name.Value != "" {
		tokens = append(tokens, makeToken(f.Name.Pos, f.Name.EndPos, f.Name.Value, "function", 1))
	}

	for _, p := range f.Params {
		tokens = append(tokens, makeToken(p.Name.Pos, p.Name.EndPos, p.Name.Value, "parameter", 0))
		tokens = append(tokens, typeReferenceToken(p.Type)...)
	}
	for _, id := range f.Reads {
		tokens = append(tokens, makeToken(id.Pos, id.EndPos, id.Value, "type", 0))
	}
	for _, id := range f.Writes {
		tokens = append(tokens, makeToken(id.Pos, id.EndPos, id.Value, "type", 0))
	}

	if f.Body != nil {
		tokens = append(tokens, walkFunctionBlock(f.Body)...)
	}
	return tokens
}

func walkFunctionBlock(fb *ast.FunctionBlock) []SemanticToken {
	var tokens []SemanticToken
	if fb == nil {
		return tokens
	}

	for _, item := range fb.Items {
		tokens = append(tokens, walkBlockItem(item)...)
	}
	if fb.TailExpr != nil {
		tokens = append(tokens, walkExpr(fb.TailExpr.Expr)...)
	}
	return tokens
}

func walkBlockItem(item ast.FunctionBlockItem) []SemanticToken {
	switch n := item.(type) {
	case *ast.LetStmt:
		tokens := []SemanticToken{makeToken(n.Name.Pos, n.Name.EndPos, n.Name.Value, "variable", 1)}
		return append(tokens, walkExpr(n.Expr)...)
	case *ast.AssignStmt:
		tokens := walkExpr(n.Target)
		return append(tokens, walkExpr(n.Value)...)
	case *ast.ExprStmt:
		return walkExpr(n.Expr)
	case *ast.ReturnStmt:
		return walkExpr(n.Value)
	case *ast.RequireStmt:
		var tokens []SemanticToken
		for _, arg := range n.Args {
			tokens = append(tokens, walkExpr(arg)...)
		}
		return tokens
	case *ast.AssertStmt:
		var tokens []SemanticToken
		for _, arg := range n.Args {
			tokens = append(tokens, walkExpr(arg)...)
		}
		return tokens
	case *ast.IfStmt:
		tokens := walkExpr(n.Condition)
		tokens = append(tokens, walkFunctionBlock(&n.ThenBlock)...)
		if n.ElseBlock != nil {
			tokens = append(tokens, walkFunctionBlock(n.ElseBlock)...)
		}
		return tokens
	default:
		return nil
	}
}

func walkExpr(expr ast.Expr) []SemanticToken {
	if expr == nil {
		return nil
	}

	switch n := expr.(type) {
	case *ast.IdentExpr:
		return []SemanticToken{makeToken(n.Pos, n.EndPos, n.Name, "variable", 0)}
	case *ast.CallExpr:
		return walkCallExpr(n)
	case *ast.BinaryExpr:
		tokens := walkExpr(n.Left)
		return append(tokens, walkExpr(n.Right)...)
	case *ast.UnaryExpr:
		return walkExpr(n.Value)
	case *ast.ParenExpr:
		return walkExpr(n.Value)
	case *ast.FieldAccessExpr:
		return walkExpr(n.Target)
	case *ast.IndexExpr:
		tokens := walkExpr(n.Target)
		return append(tokens, walkExpr(n.Index)...)
	case *ast.StructLiteralExpr:
		var tokens []SemanticToken
		for _, f := range n.Fields {
			tokens = append(tokens, walkExpr(f.Value)...)
		}
		return tokens
	case *ast.TupleExpr:
		var tokens []SemanticToken
		for _, el := range n.Elements {
			tokens = append(tokens, walkExpr(el)...)
		}
		return tokens
	default:
		return nil
	}
}

func walkCallExpr(call *ast.CallExpr) []SemanticToken {
	var tokens []SemanticToken

	switch callee := call.Callee.(type) {
	case *ast.CalleePath:
		for _, part := range callee.Parts {
			tokens = append(tokens, makeToken(part.Pos, part.EndPos, part.Value, "function", 0))
		}
	case *ast.IdentExpr:
		tokens = append(tokens, makeToken(callee.Pos, callee.EndPos, callee.Name, "function", 0))
	default:
		tokens = append(tokens, walkExpr(call.Callee)...)
	}

	for _, g := range call.Generic {
		tokens = append(tokens, typeReferenceToken(&g)...)
	}
	for _, arg := range call.Args {
		tokens = append(tokens, walkExpr(arg)...)
	}
	return tokens
}

func makeToken(pos, endPos ast.Position, value, tokenType string, decl int) SemanticToken {
	length := endPos.Column - pos.Column
	if length <= 0 {
		length = len(value)
	}

	return SemanticToken{
		Line:           uint32(pos.Line - 1),
		StartChar:      uint32(pos.Column - 1),
		Length:         uint32(length),
		TokenType:      indexOf(tokenType, SemanticTokenTypes),
		TokenModifiers: decl << indexOf("declaration", SemanticTokenModifiers),
	}
}

// typeReferenceToken collects a token for a type reference (e.g.,
// parameter types, return types, generic type arguments).
func typeReferenceToken(t *ast.VariableType) []SemanticToken {
	if t == nil || t.Name.Value == "" {
		return nil
	}
	return []SemanticToken{
		makeToken(t.Name.Pos, t.Name.EndPos, t.Name.Value, "type", 0),
	}
}

// indexOf returns the index of a string in a list, or -1 if not found
func indexOf(target string, list []string) int {
	for i, v := range list {
		if v == target {
			return i
		}
	}
	return -1
}
