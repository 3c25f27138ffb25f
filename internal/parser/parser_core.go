package parser

import "kanso/internal/ast"

// Parser builds an *ast.Contract from a token stream produced by Scanner.
type Parser struct {
	tokens   []Token
	current  int
	filename string
	errors   []ParseError
}

func NewParser(filename string, tokens []Token) *Parser {
	return &Parser{
		tokens:   tokens,
		filename: filename,
	}
}

// ParseContract parses leading comments, the "contract Name { ... }"
// wrapper, and everything inside it.
func (p *Parser) ParseContract() *ast.Contract {
	leading := p.parseLeadingComments()

	if !p.check(CONTRACT) {
		p.errorAtCurrent("expected 'contract' keyword")
		return &ast.Contract{
			LeadingComments: leading,
		}
	}

	start := p.advance() // 'contract'
	name, ok := p.consumeIdent("expected contract name")
	if !ok {
		p.synchronize()
	}

	p.consume(LEFT_BRACE, "expected '{' to start contract body")
	items := p.parseContractBody()
	end := p.consume(RIGHT_BRACE, "expected '}' to close contract body")

	return &ast.Contract{
		Pos:             p.makePos(start),
		EndPos:          p.makeEndPos(end),
		LeadingComments: leading,
		Name:            name,
		Items:           items,
	}
}

// parseLeadingComments consumes comment tokens before the contract
// declaration, distinguishing doc comments from plain ones.
func (p *Parser) parseLeadingComments() []ast.ContractItem {
	var items []ast.ContractItem

	for p.check(COMMENT) || p.check(DOC_COMMENT) || p.check(BLOCK_COMMENT) {
		tok := p.advance()
		if tok.Type == DOC_COMMENT {
			items = append(items, &ast.DocComment{
				Pos:    p.makePos(tok),
				EndPos: p.makeEndPos(tok),
				Text:   tok.Lexeme,
			})
		} else {
			items = append(items, &ast.Comment{
				Pos:    p.makePos(tok),
				EndPos: p.makeEndPos(tok),
				Text:   tok.Lexeme,
			})
		}
	}

	return items
}

// parseContractBody parses use/struct/function declarations, attributes
// and doc comments attached to them, and loose comments.
func (p *Parser) parseContractBody() []ast.ContractItem {
	var items []ast.ContractItem
	var pendingAttr *ast.Attribute
	var pendingDoc *ast.DocComment

	flushPendingDoc := func() {
		if pendingDoc != nil {
			items = append(items, pendingDoc)
			pendingDoc = nil
		}
	}

	for !p.check(RIGHT_BRACE) && !p.isAtEnd() {
		switch {
		case p.check(COMMENT) || p.check(BLOCK_COMMENT):
			flushPendingDoc()
			tok := p.advance()
			items = append(items, &ast.Comment{
				Pos:    p.makePos(tok),
				EndPos: p.makeEndPos(tok),
				Text:   tok.Lexeme,
			})

		case p.check(DOC_COMMENT):
			flushPendingDoc()
			tok := p.advance()
			pendingDoc = &ast.DocComment{
				Pos:    p.makePos(tok),
				EndPos: p.makeEndPos(tok),
				Text:   tok.Lexeme,
			}

		case p.check(POUND):
			if pendingAttr != nil {
				flushPendingDoc()
				items = append(items, pendingAttr)
			}
			pendingAttr = p.parseAttribute()

		case p.check(USE):
			flushPendingDoc()
			items = append(items, p.parseUse())
			pendingAttr = nil

		case p.check(STRUCT):
			s := p.parseStructWithDoc(pendingAttr, pendingDoc)
			pendingAttr = nil
			pendingDoc = nil
			if s != nil {
				items = append(items, s)
			}

		case p.check(EXT):
			p.advance()
			p.consume(FUN, "expected 'fn' after 'ext'")
			fn := p.finishFunction(pendingAttr, pendingDoc, true)
			pendingAttr = nil
			pendingDoc = nil
			if fn != nil {
				items = append(items, fn)
			}

		case p.check(FUN):
			fn := p.finishFunction(pendingAttr, pendingDoc, false)
			pendingAttr = nil
			pendingDoc = nil
			if fn != nil {
				items = append(items, fn)
			}

		default:
			flushPendingDoc()
			if pendingAttr != nil {
				items = append(items, pendingAttr)
				pendingAttr = nil
			}
			p.errorAtCurrent("expected 'use', 'struct', 'fn', 'ext fn', or a comment inside contract body")
			p.synchronize()
		}
	}

	flushPendingDoc()
	if pendingAttr != nil {
		items = append(items, pendingAttr)
	}

	return items
}

// parseAttribute parses "#[name]".
func (p *Parser) parseAttribute() *ast.Attribute {
	start := p.consume(POUND, "expected '#'")
	p.consume(LEFT_BRACKET, "expected '[' after '#'")
	name, ok := p.consumeIdent("expected attribute name")
	end := p.consume(RIGHT_BRACKET, "expected ']' to close attribute")
	if !ok {
		return &ast.Attribute{
			Pos:    p.makePos(start),
			EndPos: p.makeEndPos(end),
			Name:   "error",
		}
	}

	return &ast.Attribute{
		Pos:    p.makePos(start),
		EndPos: p.makeEndPos(end),
		Name:   name.Value,
	}
}

// finishFunction wraps parseFunction to also thread a doc comment
// through, since ast.Function carries both an Attribute and a
// DocComment but parseFunction only ever dealt with the attribute.
func (p *Parser) finishFunction(attr *ast.Attribute, doc *ast.DocComment, external bool) *ast.Function {
	fn := p.parseFunction(attr, external)
	if fn != nil {
		fn.DocComment = doc
	}
	return fn
}
