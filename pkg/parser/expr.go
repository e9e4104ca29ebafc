package parser

import (
	"errors"
	"strings"

	"github.com/ruapotato/Pynux/pkg/ast"
	"github.com/ruapotato/Pynux/pkg/lexer"
	"github.com/ruapotato/Pynux/pkg/source"
)

var errWrongArity = errors.New("range() takes 1 to 3 arguments")

// parseExpr is the entry point of the expression grammar (§4.2 "Expression
// parsing"), a standard precedence-climbing descent: ternary and lambda
// bind loosest, postfix/primary tightest.
func (p *Parser) parseExpr() (ast.Expr, error) {
	if p.checkKeyword("lambda") {
		return p.parseLambda()
	}

	return p.parseTernary()
}

func (p *Parser) parseLambda() (ast.Expr, error) {
	start := p.advance() // 'lambda'

	var params []ast.Param

	for !p.checkOp(":") {
		name, err := p.expect(lexer.IDENT, "")
		if err != nil {
			return nil, err
		}

		params = append(params, ast.Param{Name: name.Lexeme})

		if p.checkOp(",") {
			p.advance()
			continue
		}

		break
	}

	if _, err := p.expect(lexer.OP, ":"); err != nil {
		return nil, err
	}

	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return ast.NewLambda(p.span(start), params, body), nil
}

// parseTernary handles `then if cond else else_`.
func (p *Parser) parseTernary() (ast.Expr, error) {
	start := p.cur()

	then, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if !p.checkKeyword("if") {
		return then, nil
	}

	p.advance()

	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.KEYWORD, "else"); err != nil {
		return nil, err
	}

	els, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return ast.NewTernary(p.span(start), cond, then, els), nil
}

func (p *Parser) parseOr() (ast.Expr, error) {
	start := p.cur()

	lhs, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.checkKeyword("or") {
		p.advance()

		rhs, err := p.parseAnd()
		if err != nil {
			return nil, err
		}

		lhs = ast.NewBinOp(p.span(start), "or", lhs, rhs)
	}

	return lhs, nil
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	start := p.cur()

	lhs, err := p.parseNot()
	if err != nil {
		return nil, err
	}

	for p.checkKeyword("and") {
		p.advance()

		rhs, err := p.parseNot()
		if err != nil {
			return nil, err
		}

		lhs = ast.NewBinOp(p.span(start), "and", lhs, rhs)
	}

	return lhs, nil
}

func (p *Parser) parseNot() (ast.Expr, error) {
	if p.checkKeyword("not") {
		start := p.advance()

		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}

		return ast.NewUnaryOp(p.span(start), "not", operand), nil
	}

	return p.parseComparison()
}

var comparisonOps = []string{"==", "!=", "<=", ">=", "<", ">"}

func (p *Parser) parseComparison() (ast.Expr, error) {
	start := p.cur()

	lhs, err := p.parseBitOr()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := p.acceptAnyOp(comparisonOps)
		if !ok {
			if p.checkKeyword("in") {
				p.advance()

				rhs, err := p.parseBitOr()
				if err != nil {
					return nil, err
				}

				lhs = ast.NewBinOp(p.span(start), "in", lhs, rhs)

				continue
			}

			break
		}

		rhs, err := p.parseBitOr()
		if err != nil {
			return nil, err
		}

		lhs = ast.NewBinOp(p.span(start), op, lhs, rhs)
	}

	return lhs, nil
}

func (p *Parser) acceptAnyOp(ops []string) (string, bool) {
	for _, op := range ops {
		if p.checkOp(op) {
			p.advance()
			return op, true
		}
	}

	return "", false
}

func (p *Parser) parseBitOr() (ast.Expr, error) {
	start := p.cur()

	lhs, err := p.parseBitXor()
	if err != nil {
		return nil, err
	}

	for p.checkOp("|") {
		p.advance()

		rhs, err := p.parseBitXor()
		if err != nil {
			return nil, err
		}

		lhs = ast.NewBinOp(p.span(start), "|", lhs, rhs)
	}

	return lhs, nil
}

func (p *Parser) parseBitXor() (ast.Expr, error) {
	start := p.cur()

	lhs, err := p.parseBitAnd()
	if err != nil {
		return nil, err
	}

	for p.checkOp("^") {
		p.advance()

		rhs, err := p.parseBitAnd()
		if err != nil {
			return nil, err
		}

		lhs = ast.NewBinOp(p.span(start), "^", lhs, rhs)
	}

	return lhs, nil
}

func (p *Parser) parseBitAnd() (ast.Expr, error) {
	start := p.cur()

	lhs, err := p.parseShift()
	if err != nil {
		return nil, err
	}

	for p.checkOp("&") {
		p.advance()

		rhs, err := p.parseShift()
		if err != nil {
			return nil, err
		}

		lhs = ast.NewBinOp(p.span(start), "&", lhs, rhs)
	}

	return lhs, nil
}

func (p *Parser) parseShift() (ast.Expr, error) {
	start := p.cur()

	lhs, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := p.acceptAnyOp([]string{"<<", ">>"})
		if !ok {
			break
		}

		rhs, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}

		lhs = ast.NewBinOp(p.span(start), op, lhs, rhs)
	}

	return lhs, nil
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	start := p.cur()

	lhs, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := p.acceptAnyOp([]string{"+", "-"})
		if !ok {
			break
		}

		rhs, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}

		lhs = ast.NewBinOp(p.span(start), op, lhs, rhs)
	}

	return lhs, nil
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	start := p.cur()

	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := p.acceptAnyOp([]string{"*", "//", "/", "%"})
		if !ok {
			break
		}

		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		lhs = ast.NewBinOp(p.span(start), op, lhs, rhs)
	}

	return lhs, nil
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	start := p.cur()

	switch {
	case p.checkOp("-"):
		p.advance()

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return ast.NewUnaryOp(p.span(start), "-", operand), nil
	case p.checkOp("~"):
		p.advance()

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return ast.NewUnaryOp(p.span(start), "~", operand), nil
	case p.checkOp("&"):
		p.advance()

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return ast.NewAddressOf(p.span(start), operand), nil
	case p.checkOp("*"):
		p.advance()

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return ast.NewDeref(p.span(start), operand), nil
	default:
		return p.parsePower()
	}
}

// parsePower is right-associative, binding tighter than unary minus on its
// left per Python precedence but looser isn't needed here since parseUnary
// already consumed leading `-`; `**` recurses back into parseUnary on the
// right to allow `2 ** -1`.
func (p *Parser) parsePower() (ast.Expr, error) {
	start := p.cur()

	lhs, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}

	if p.checkOp("**") {
		p.advance()

		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return ast.NewBinOp(p.span(start), "**", lhs, rhs), nil
	}

	return lhs, nil
}

// parsePostfix handles attribute access, indexing/slicing, calls, and
// struct-literal construction chained off a primary expression.
func (p *Parser) parsePostfix() (ast.Expr, error) {
	start := p.cur()

	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.checkOp("."):
			p.advance()

			name, err := p.expect(lexer.IDENT, "")
			if err != nil {
				return nil, err
			}

			expr = ast.NewAttr(p.span(start), expr, name.Lexeme)

		case p.checkOp("("):
			p.advance()

			args, kwargs, err := p.parseArgList()
			if err != nil {
				return nil, err
			}

			if _, err := p.expect(lexer.OP, ")"); err != nil {
				return nil, err
			}

			expr = ast.NewCall(p.span(start), expr, args, kwargs)

		case p.checkOp("["):
			p.advance()

			sliceOrIndex, err := p.parseIndexOrSlice(expr, start)
			if err != nil {
				return nil, err
			}

			expr = sliceOrIndex

		case p.checkOp("{"):
			ident, ok := expr.(*ast.Ident)
			if !ok {
				return expr, nil
			}

			lit, err := p.parseStructLit(start, ident.Name)
			if err != nil {
				return nil, err
			}

			expr = lit

		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseArgList() ([]ast.Expr, map[string]ast.Expr, error) {
	var args []ast.Expr

	var kwargs map[string]ast.Expr

	for !p.checkOp(")") {
		if p.check(lexer.IDENT, "") && p.peekIsOp("=") {
			name := p.advance()
			p.advance() // '='

			val, err := p.parseExpr()
			if err != nil {
				return nil, nil, err
			}

			if kwargs == nil {
				kwargs = map[string]ast.Expr{}
			}

			kwargs[name.Lexeme] = val
		} else {
			val, err := p.parseExpr()
			if err != nil {
				return nil, nil, err
			}

			args = append(args, val)
		}

		if p.checkOp(",") {
			p.advance()
			continue
		}

		break
	}

	return args, kwargs, nil
}

func (p *Parser) peekIsOp(op string) bool {
	return p.pos+1 < len(p.tokens) && p.tokens[p.pos+1].Kind == lexer.OP && p.tokens[p.pos+1].Lexeme == op
}

// parseIndexOrSlice parses the contents of `base[...]` after the opening
// bracket has been consumed, producing either an Index or a Slice node
// (§4.2 "Indexing and slicing").
func (p *Parser) parseIndexOrSlice(base ast.Expr, start lexer.Token) (ast.Expr, error) {
	var first ast.Expr

	var err error

	if !p.checkOp(":") {
		first, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}

	if !p.checkOp(":") {
		if _, err := p.expect(lexer.OP, "]"); err != nil {
			return nil, err
		}

		return ast.NewIndex(p.span(start), base, first), nil
	}

	p.advance() // ':'

	var stop ast.Expr

	if !p.checkOp(":") && !p.checkOp("]") {
		stop, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}

	var step ast.Expr

	if p.checkOp(":") {
		p.advance()

		if !p.checkOp("]") {
			step, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}
	}

	if _, err := p.expect(lexer.OP, "]"); err != nil {
		return nil, err
	}

	return ast.NewSlice(p.span(start), base, first, stop, step), nil
}

func (p *Parser) parseStructLit(start lexer.Token, typeName string) (ast.Expr, error) {
	p.advance() // '{'

	typ := &ast.Type{Tag: ast.TStruct, Name: typeName}

	var fields []ast.StructFieldInit

	for !p.checkOp("}") {
		name, err := p.expect(lexer.IDENT, "")
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(lexer.OP, "="); err != nil {
			return nil, err
		}

		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		fields = append(fields, ast.StructFieldInit{Name: name.Lexeme, Value: val})

		if p.checkOp(",") {
			p.advance()
			continue
		}

		break
	}

	if _, err := p.expect(lexer.OP, "}"); err != nil {
		return nil, err
	}

	return ast.NewStructLit(p.span(start), typ, fields), nil
}

// parsePrimary parses literals, identifiers, parenthesized/tuple
// expressions, list/dict literals and comprehensions, and the
// cast[T](expr)/sizeof(T) forms.
func (p *Parser) parsePrimary() (ast.Expr, error) {
	start := p.cur()

	switch {
	case p.check(lexer.INT, ""):
		t := p.advance()
		return ast.NewIntLit(t.Span, t.IntValue), nil

	case p.check(lexer.FLOAT, ""):
		t := p.advance()
		return ast.NewFloatLit(t.Span, t.FloatValue), nil

	case p.check(lexer.STRING, ""):
		t := p.advance()
		return ast.NewStrLit(t.Span, t.StringValue), nil

	case p.check(lexer.FSTRING, ""):
		t := p.advance()
		return p.parseFString(t)

	case p.checkKeyword("True"):
		t := p.advance()
		return ast.NewBoolLit(t.Span, true), nil

	case p.checkKeyword("False"):
		t := p.advance()
		return ast.NewBoolLit(t.Span, false), nil

	case p.checkKeyword("None"):
		t := p.advance()
		return ast.NewNoneLit(t.Span), nil

	case p.check(lexer.IDENT, "cast"):
		return p.parseCast()

	case p.check(lexer.IDENT, "sizeof"):
		return p.parseSizeof()

	case p.check(lexer.IDENT, ""):
		t := p.advance()
		return ast.NewIdent(t.Span, t.Lexeme), nil

	case p.checkOp("("):
		return p.parseParenOrTuple()

	case p.checkOp("["):
		return p.parseListLitOrComp()

	case p.checkOp("{"):
		return p.parseDictLitOrComp()

	default:
		return nil, p.errorf("expected an expression, found %s", p.describe(start))
	}
}

func (p *Parser) parseCast() (ast.Expr, error) {
	start := p.advance() // 'cast'

	if _, err := p.expect(lexer.OP, "["); err != nil {
		return nil, err
	}

	target, err := p.parseType()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.OP, "]"); err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.OP, "("); err != nil {
		return nil, err
	}

	operand, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.OP, ")"); err != nil {
		return nil, err
	}

	return ast.NewCast(p.span(start), target, operand), nil
}

func (p *Parser) parseSizeof() (ast.Expr, error) {
	start := p.advance() // 'sizeof'

	if _, err := p.expect(lexer.OP, "("); err != nil {
		return nil, err
	}

	target, err := p.parseType()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.OP, ")"); err != nil {
		return nil, err
	}

	return ast.NewSizeof(p.span(start), target), nil
}

// parseParenOrTuple disambiguates `(expr)` grouping from `(e0, e1, ...)`
// tuple literals; a trailing comma after a single element still produces a
// one-element tuple.
func (p *Parser) parseParenOrTuple() (ast.Expr, error) {
	start := p.advance() // '('

	if p.checkOp(")") {
		p.advance()
		return ast.NewTupleLit(p.span(start), nil), nil
	}

	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if !p.checkOp(",") {
		if _, err := p.expect(lexer.OP, ")"); err != nil {
			return nil, err
		}

		return first, nil
	}

	elems := []ast.Expr{first}

	for p.checkOp(",") {
		p.advance()

		if p.checkOp(")") {
			break
		}

		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		elems = append(elems, e)
	}

	if _, err := p.expect(lexer.OP, ")"); err != nil {
		return nil, err
	}

	return ast.NewTupleLit(p.span(start), elems), nil
}

// parseListLitOrComp parses `[...]`: either a literal element list or a
// single-clause-plus-filters comprehension (§4.2 "Comprehensions").
func (p *Parser) parseListLitOrComp() (ast.Expr, error) {
	start := p.advance() // '['

	if p.checkOp("]") {
		p.advance()
		return ast.NewListLit(p.span(start), nil), nil
	}

	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if p.checkKeyword("for") {
		comp, err := p.parseCompTail(start, ast.CompList, first, nil)
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(lexer.OP, "]"); err != nil {
			return nil, err
		}

		return comp, nil
	}

	elems := []ast.Expr{first}

	for p.checkOp(",") {
		p.advance()

		if p.checkOp("]") {
			break
		}

		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		elems = append(elems, e)
	}

	if _, err := p.expect(lexer.OP, "]"); err != nil {
		return nil, err
	}

	return ast.NewListLit(p.span(start), elems), nil
}

// parseDictLitOrComp parses `{...}`: dict literal or dict comprehension.
func (p *Parser) parseDictLitOrComp() (ast.Expr, error) {
	start := p.advance() // '{'

	if p.checkOp("}") {
		p.advance()
		return ast.NewDictLit(p.span(start), nil), nil
	}

	key, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.OP, ":"); err != nil {
		return nil, err
	}

	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if p.checkKeyword("for") {
		comp, err := p.parseCompTail(start, ast.CompDict, val, key)
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(lexer.OP, "}"); err != nil {
			return nil, err
		}

		return comp, nil
	}

	pairs := []ast.DictPair{{Key: key, Value: val}}

	for p.checkOp(",") {
		p.advance()

		if p.checkOp("}") {
			break
		}

		k, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(lexer.OP, ":"); err != nil {
			return nil, err
		}

		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		pairs = append(pairs, ast.DictPair{Key: k, Value: v})
	}

	if _, err := p.expect(lexer.OP, "}"); err != nil {
		return nil, err
	}

	return ast.NewDictLit(p.span(start), pairs), nil
}

func (p *Parser) parseCompTail(start lexer.Token, kind ast.CompKind, elem, key ast.Expr) (ast.Expr, error) {
	var iters []ast.CompIter

	var filters []ast.Expr

	for p.checkKeyword("for") {
		p.advance()

		name, err := p.expect(lexer.IDENT, "")
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(lexer.KEYWORD, "in"); err != nil {
			return nil, err
		}

		iter, err := p.parseOr()
		if err != nil {
			return nil, err
		}

		iters = append(iters, ast.CompIter{Var: name.Lexeme, Iter: iter})

		for p.checkKeyword("if") {
			p.advance()

			f, err := p.parseOr()
			if err != nil {
				return nil, err
			}

			filters = append(filters, f)
		}
	}

	return ast.NewComp(p.span(start), kind, elem, key, iters, filters), nil
}

// parseFString splits an f-string token's raw inner text into literal runs
// and `{expr}` fragments, re-lexing and re-parsing each fragment as a full
// expression (§4.2 "F-strings"). `{{` and `}}` escape to literal braces.
func (p *Parser) parseFString(t lexer.Token) (ast.Expr, error) {
	raw := t.StringValue

	var parts []ast.FStringPart

	var lit strings.Builder

	i := 0
	for i < len(raw) {
		switch {
		case raw[i] == '{' && i+1 < len(raw) && raw[i+1] == '{':
			lit.WriteByte('{')
			i += 2

		case raw[i] == '}' && i+1 < len(raw) && raw[i+1] == '}':
			lit.WriteByte('}')
			i += 2

		case raw[i] == '{':
			if lit.Len() > 0 {
				parts = append(parts, ast.FStringPart{Literal: lit.String()})
				lit.Reset()
			}

			depth := 1
			j := i + 1

			for j < len(raw) && depth > 0 {
				switch raw[j] {
				case '{':
					depth++
				case '}':
					depth--
				}

				if depth == 0 {
					break
				}

				j++
			}

			if depth != 0 {
				return nil, p.errorf("unterminated f-string expression")
			}

			exprText := raw[i+1 : j]

			expr, err := p.parseFStringFragment(t, exprText)
			if err != nil {
				return nil, err
			}

			parts = append(parts, ast.FStringPart{Expr: expr})
			i = j + 1

		default:
			lit.WriteByte(raw[i])
			i++
		}
	}

	if lit.Len() > 0 {
		parts = append(parts, ast.FStringPart{Literal: lit.String()})
	}

	return ast.NewFString(t.Span, parts), nil
}

func (p *Parser) parseFStringFragment(t lexer.Token, text string) (ast.Expr, error) {
	file := source.NewFile(p.file.Name, text)

	tokens, err := lexer.New(file, nil).Run()
	if err != nil {
		return nil, p.errorf("invalid f-string expression %q: %v", text, err)
	}

	fp := New(file, tokens, nil)

	expr, err := fp.parseExpr()
	if err != nil {
		return nil, p.errorf("invalid f-string expression %q: %v", text, err)
	}

	return expr, nil
}
