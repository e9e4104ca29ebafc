package parser

import (
	"github.com/ruapotato/Pynux/pkg/ast"
	"github.com/ruapotato/Pynux/pkg/lexer"
)

// parseStmt dispatches on the current token to the right statement
// production (§4.2 "Statement parsing").
func (p *Parser) parseStmt() (ast.Stmt, error) {
	switch {
	case p.checkKeyword("if"):
		return p.parseIf()
	case p.checkKeyword("while"):
		return p.parseWhile()
	case p.checkKeyword("for"):
		return p.parseFor()
	case p.checkKeyword("break"):
		t := p.advance()
		p.expectEndOfStmt()

		return ast.NewBreak(t.Span), nil
	case p.checkKeyword("continue"):
		t := p.advance()
		p.expectEndOfStmt()

		return ast.NewContinue(t.Span), nil
	case p.checkKeyword("return"):
		return p.parseReturn()
	case p.checkKeyword("raise"):
		return p.parseRaise()
	case p.checkKeyword("try"):
		return p.parseTry()
	case p.checkKeyword("with"):
		return p.parseWith()
	case p.checkKeyword("match"):
		return p.parseMatch()
	case p.checkKeyword("asm"):
		return p.parseAsm()
	case p.checkKeyword("pass"):
		t := p.advance()
		p.expectEndOfStmt()

		return ast.NewPass(t.Span), nil
	case p.checkKeyword("global"):
		return p.parseGlobalStmt()
	default:
		return p.parseSimpleStmt()
	}
}

func (p *Parser) expectEndOfStmt() {
	if p.check(lexer.NEWLINE, "") {
		p.advance()
	}
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	start := p.advance() // 'if'

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	var elifs []ast.ElifArm

	var els []ast.Stmt

	for p.checkKeyword("elif") {
		p.advance()

		c, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		b, err := p.parseBlock()
		if err != nil {
			return nil, err
		}

		elifs = append(elifs, ast.ElifArm{Cond: c, Body: b})
	}

	if p.checkKeyword("else") {
		p.advance()

		els, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}

	return ast.NewIf(p.span(start), cond, then, elifs, els), nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	start := p.advance() // 'while'

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return ast.NewWhile(p.span(start), cond, body), nil
}

// parseFor handles both `for i in range(...)` (special-cased sugar per
// §4.2, built here directly as a ForRange with start/step defaults filled
// in) and the general `for x in iterable`, which becomes a ForIter.
func (p *Parser) parseFor() (ast.Stmt, error) {
	start := p.advance() // 'for'

	name, err := p.expect(lexer.IDENT, "")
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.KEYWORD, "in"); err != nil {
		return nil, err
	}

	iter, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	if call, ok := iter.(*ast.Call); ok {
		if ident, ok := call.Fn.(*ast.Ident); ok && ident.Name == "range" {
			start0, stop, step, err := rangeArgs(call)
			if err != nil {
				return nil, p.errorf("%s", err.Error())
			}

			return ast.NewForRange(p.span(start), name.Lexeme, start0, stop, step, body), nil
		}
	}

	return ast.NewForIter(p.span(start), name.Lexeme, iter, body), nil
}

func rangeArgs(call *ast.Call) (start, stop, step ast.Expr, err error) {
	switch len(call.Args) {
	case 1:
		return ast.NewIntLit(call.Span(), 0), call.Args[0], ast.NewIntLit(call.Span(), 1), nil
	case 2:
		return call.Args[0], call.Args[1], ast.NewIntLit(call.Span(), 1), nil
	case 3:
		return call.Args[0], call.Args[1], call.Args[2], nil
	default:
		return nil, nil, nil, errWrongArity
	}
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	start := p.advance() // 'return'

	if p.check(lexer.NEWLINE, "") || p.check(lexer.DEDENT, "") {
		p.expectEndOfStmt()
		return ast.NewReturn(p.span(start), nil), nil
	}

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	p.expectEndOfStmt()

	return ast.NewReturn(p.span(start), value), nil
}

func (p *Parser) parseRaise() (ast.Stmt, error) {
	start := p.advance() // 'raise'

	if p.check(lexer.NEWLINE, "") {
		p.expectEndOfStmt()
		return ast.NewRaise(p.span(start), nil), nil
	}

	exc, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	p.expectEndOfStmt()

	return ast.NewRaise(p.span(start), exc), nil
}

func (p *Parser) parseTry() (ast.Stmt, error) {
	start := p.advance() // 'try'

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	var handlers []ast.ExceptHandler

	for p.checkKeyword("except") {
		p.advance()

		excType := ""

		if p.check(lexer.IDENT, "") {
			t := p.advance()
			excType = t.Lexeme
		}

		hbody, err := p.parseBlock()
		if err != nil {
			return nil, err
		}

		handlers = append(handlers, ast.ExceptHandler{ExcType: excType, Body: hbody})
	}

	var elseBody, finallyBody []ast.Stmt

	if p.checkKeyword("else") {
		p.advance()

		elseBody, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}

	if p.checkKeyword("finally") {
		p.advance()

		finallyBody, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}

	return ast.NewTry(p.span(start), body, handlers, elseBody, finallyBody), nil
}

func (p *Parser) parseWith() (ast.Stmt, error) {
	start := p.advance() // 'with'

	ctx, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	asName := ""

	if p.checkKeyword("as") {
		p.advance()

		n, err := p.expect(lexer.IDENT, "")
		if err != nil {
			return nil, err
		}

		asName = n.Lexeme
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return ast.NewWith(p.span(start), ctx, asName, body), nil
}

func (p *Parser) parseMatch() (ast.Stmt, error) {
	start := p.advance() // 'match'

	scrutinee, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.OP, ":"); err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.NEWLINE, ""); err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.INDENT, ""); err != nil {
		return nil, err
	}

	var arms []ast.MatchArm

	for p.checkKeyword("case") {
		p.advance()

		arm := ast.MatchArm{}

		switch {
		case p.check(lexer.IDENT, "_"):
			p.advance()

			arm.Wildcard = true
		case p.check(lexer.IDENT, ""):
			t := p.advance()
			arm.Bind = t.Lexeme
		default:
			lit, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			arm.Literal = lit
		}

		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}

		arm.Body = body
		arms = append(arms, arm)
		p.skipNewlines()
	}

	if _, err := p.expect(lexer.DEDENT, ""); err != nil {
		return nil, err
	}

	return ast.NewMatch(p.span(start), scrutinee, arms), nil
}

// parseAsm recognizes `asm("...")` verbatim (§4.2). The lexer passes
// through the string token's already-decoded value.
func (p *Parser) parseAsm() (ast.Stmt, error) {
	start := p.advance() // 'asm'

	if _, err := p.expect(lexer.OP, "("); err != nil {
		return nil, err
	}

	text, err := p.expect(lexer.STRING, "")
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.OP, ")"); err != nil {
		return nil, err
	}

	p.expectEndOfStmt()

	return ast.NewAsm(p.span(start), text.StringValue), nil
}

func (p *Parser) parseGlobalStmt() (ast.Stmt, error) {
	start := p.advance() // 'global'

	var names []string

	for {
		n, err := p.expect(lexer.IDENT, "")
		if err != nil {
			return nil, err
		}

		names = append(names, n.Lexeme)

		if p.checkOp(",") {
			p.advance()
			continue
		}

		break
	}

	p.expectEndOfStmt()

	return ast.NewGlobal(p.span(start), names), nil
}

// parseSimpleStmt handles assignment, augmented assignment, and bare
// expression statements, which all start by parsing an expression.
func (p *Parser) parseSimpleStmt() (ast.Stmt, error) {
	start := p.cur()

	// `name: Type [= expr]` typed declaration.
	if p.check(lexer.IDENT, "") && p.peekIsColon() {
		name := p.advance()
		p.advance() // ':'

		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}

		var value ast.Expr

		if p.checkOp("=") {
			p.advance()

			value, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}

		p.expectEndOfStmt()
		target := ast.NewIdent(name.Span, name.Lexeme)

		return ast.NewAssign(p.span(start), target, value, true, typ), nil
	}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if augOp, ok := p.acceptAugOp(); ok {
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		p.expectEndOfStmt()

		return ast.NewAugAssign(p.span(start), expr, augOp, value), nil
	}

	if p.checkOp("=") {
		p.advance()

		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		p.expectEndOfStmt()

		return ast.NewAssign(p.span(start), expr, value, false, nil), nil
	}

	p.expectEndOfStmt()

	return ast.NewExprStmt(p.span(start), expr), nil
}

func (p *Parser) peekIsColon() bool {
	return p.pos+1 < len(p.tokens) && p.tokens[p.pos+1].Kind == lexer.OP && p.tokens[p.pos+1].Lexeme == ":"
}

func (p *Parser) acceptAugOp() (string, bool) {
	for _, op := range []string{"+=", "-=", "*=", "/="} {
		if p.checkOp(op) {
			p.advance()
			return op[:1], true
		}
	}

	return "", false
}
