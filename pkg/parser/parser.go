// Package parser turns a lexer.Token stream into an ast.Decl list, per
// spec §4.2. Grounded on the manual recursive-descent shape of
// pkg/asm/assembler/parser.go (one method per grammar production, operating
// over a token cursor) from the teacher repository.
package parser

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ruapotato/Pynux/pkg/ast"
	"github.com/ruapotato/Pynux/pkg/lexer"
	"github.com/ruapotato/Pynux/pkg/source"
)

// Parser consumes a token sequence and produces the AST root. Constructed
// fresh per compilation unit (§5).
type Parser struct {
	file   *source.File
	tokens []lexer.Token
	pos    int
	log    *logrus.Entry
}

// New constructs a Parser over tokens produced by lexer.Lexer.Run for file.
func New(file *source.File, tokens []lexer.Token, log *logrus.Logger) *Parser {
	if log == nil {
		log = logrus.New()
		log.Out = nopWriter{}
	}

	return &Parser{file: file, tokens: tokens, log: log.WithField("stage", "parse").WithField("file", file.Name)}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

// Parse parses the full token stream into a top-level declaration list.
func (p *Parser) Parse() ([]ast.Decl, error) {
	var decls []ast.Decl

	p.skipNewlines()

	for !p.atEOF() {
		d, err := p.parseTopLevel()
		if err != nil {
			return nil, err
		}

		decls = append(decls, d)
		p.skipNewlines()
	}

	p.log.WithField("decls", len(decls)).Debug("parse complete")

	return decls, nil
}

// --- token cursor helpers ---

func (p *Parser) cur() lexer.Token { return p.tokens[p.pos] }

func (p *Parser) atEOF() bool { return p.cur().Kind == lexer.EOF }

func (p *Parser) advance() lexer.Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}

	return t
}

func (p *Parser) check(kind lexer.Kind, lexeme string) bool {
	t := p.cur()

	return t.Kind == kind && (lexeme == "" || t.Lexeme == lexeme)
}

func (p *Parser) checkKeyword(kw string) bool { return p.check(lexer.KEYWORD, kw) }
func (p *Parser) checkOp(op string) bool       { return p.check(lexer.OP, op) }

func (p *Parser) accept(kind lexer.Kind, lexeme string) (lexer.Token, bool) {
	if p.check(kind, lexeme) {
		return p.advance(), true
	}

	return lexer.Token{}, false
}

func (p *Parser) expect(kind lexer.Kind, lexeme string) (lexer.Token, error) {
	if t, ok := p.accept(kind, lexeme); ok {
		return t, nil
	}

	want := lexeme
	if want == "" {
		want = kind.String()
	}

	return lexer.Token{}, p.errorf("expected %q, found %s", want, p.describe(p.cur()))
}

func (p *Parser) describe(t lexer.Token) string {
	if t.Kind == lexer.EOF {
		return "end of file"
	}

	return fmt.Sprintf("%s %q", t.Kind, t.Lexeme)
}

func (p *Parser) errorf(format string, args ...interface{}) *Error {
	t := p.cur()

	return &Error{
		File:    p.file.Name,
		Pos:     t.Pos,
		Span:    t.Span,
		Message: fmt.Sprintf(format, args...),
	}
}

func (p *Parser) skipNewlines() {
	for p.check(lexer.NEWLINE, "") {
		p.advance()
	}
}

func (p *Parser) span(start lexer.Token) source.Span {
	end := p.tokens[p.pos-1]

	return start.Span.Join(end.Span)
}

// --- top level ---

func (p *Parser) parseTopLevel() (ast.Decl, error) {
	var decorators []string

	for p.checkOp("@") {
		p.advance()

		name, err := p.expect(lexer.IDENT, "")
		if err != nil {
			return nil, err
		}

		decorators = append(decorators, name.Lexeme)
		p.skipNewlines()
	}

	switch {
	case p.checkKeyword("def"):
		return p.parseFunctionDef(decorators)
	case p.checkKeyword("extern"):
		return p.parseExternDef()
	case p.checkKeyword("struct"):
		return p.parseStructDef(hasDecorator(decorators, "packed"))
	case p.checkKeyword("union"):
		return p.parseUnionDef()
	case p.checkKeyword("class"):
		return p.parseClassDef()
	case p.checkKeyword("import"):
		return p.parseImport()
	case p.checkKeyword("from"):
		return p.parseFromImport()
	case p.check(lexer.IDENT, ""):
		return p.parseGlobalVar()
	default:
		return nil, p.errorf("expected a top-level declaration, found %s", p.describe(p.cur()))
	}
}

func hasDecorator(decorators []string, name string) bool {
	for _, d := range decorators {
		if d == name {
			return true
		}
	}

	return false
}

func (p *Parser) parseFunctionDef(decorators []string) (*ast.FunctionDef, error) {
	start := p.advance() // 'def'

	name, err := p.expect(lexer.IDENT, "")
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.OP, "("); err != nil {
		return nil, err
	}

	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.OP, ")"); err != nil {
		return nil, err
	}

	retType := ast.Void

	if p.checkOp("->") {
		p.advance()

		retType, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.FunctionDef{
		SpanVal:    p.span(start),
		Name:       name.Lexeme,
		Params:     params,
		RetType:    retType,
		Body:       body,
		Decorators: decorators,
	}, nil
}

func (p *Parser) parseParamList() ([]ast.Param, error) {
	var params []ast.Param

	for !p.checkOp(")") {
		name, err := p.expect(lexer.IDENT, "")
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(lexer.OP, ":"); err != nil {
			return nil, err
		}

		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}

		param := ast.Param{Name: name.Lexeme, Type: typ}

		if p.checkOp("=") {
			p.advance()

			def, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			param.Default = def
		}

		params = append(params, param)

		if p.checkOp(",") {
			p.advance()
			continue
		}

		break
	}

	return params, nil
}

func (p *Parser) parseExternDef() (*ast.ExternDef, error) {
	start := p.advance() // 'extern'

	if _, err := p.expect(lexer.KEYWORD, "def"); err != nil {
		return nil, err
	}

	name, err := p.expect(lexer.IDENT, "")
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.OP, "("); err != nil {
		return nil, err
	}

	var params []*ast.Type

	for !p.checkOp(")") {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}

		params = append(params, t)

		if p.checkOp(",") {
			p.advance()
			continue
		}

		break
	}

	if _, err := p.expect(lexer.OP, ")"); err != nil {
		return nil, err
	}

	ret := ast.Void

	if p.checkOp("->") {
		p.advance()

		ret, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}

	p.skipNewlines()

	return &ast.ExternDef{SpanVal: p.span(start), Name: name.Lexeme, Signature: ast.FnType(ret, params...)}, nil
}

func (p *Parser) parseStructDef(packed bool) (*ast.StructDef, error) {
	start := p.advance() // 'struct'

	name, err := p.expect(lexer.IDENT, "")
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

	var fields []ast.Param

	for !p.check(lexer.DEDENT, "") {
		p.skipNewlines()

		if p.check(lexer.DEDENT, "") {
			break
		}

		fname, err := p.expect(lexer.IDENT, "")
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(lexer.OP, ":"); err != nil {
			return nil, err
		}

		ftype, err := p.parseType()
		if err != nil {
			return nil, err
		}

		fields = append(fields, ast.Param{Name: fname.Lexeme, Type: ftype})
		p.skipNewlines()
	}

	if _, err := p.expect(lexer.DEDENT, ""); err != nil {
		return nil, err
	}

	return &ast.StructDef{SpanVal: p.span(start), Name: name.Lexeme, Fields: fields, Packed: packed}, nil
}

func (p *Parser) parseUnionDef() (*ast.UnionDef, error) {
	start := p.advance() // 'union'

	name, err := p.expect(lexer.IDENT, "")
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

	var fields []ast.Param

	for !p.check(lexer.DEDENT, "") {
		p.skipNewlines()

		if p.check(lexer.DEDENT, "") {
			break
		}

		fname, err := p.expect(lexer.IDENT, "")
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(lexer.OP, ":"); err != nil {
			return nil, err
		}

		ftype, err := p.parseType()
		if err != nil {
			return nil, err
		}

		fields = append(fields, ast.Param{Name: fname.Lexeme, Type: ftype})
		p.skipNewlines()
	}

	if _, err := p.expect(lexer.DEDENT, ""); err != nil {
		return nil, err
	}

	return &ast.UnionDef{SpanVal: p.span(start), Name: name.Lexeme, Fields: fields}, nil
}

func (p *Parser) parseClassDef() (*ast.ClassDef, error) {
	start := p.advance() // 'class'

	name, err := p.expect(lexer.IDENT, "")
	if err != nil {
		return nil, err
	}

	var bases []string

	if p.checkOp("(") {
		p.advance()

		for !p.checkOp(")") {
			b, err := p.expect(lexer.IDENT, "")
			if err != nil {
				return nil, err
			}

			bases = append(bases, b.Lexeme)

			if p.checkOp(",") {
				p.advance()
				continue
			}

			break
		}

		if _, err := p.expect(lexer.OP, ")"); err != nil {
			return nil, err
		}
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

	class := &ast.ClassDef{SpanVal: start.Span, Name: name.Lexeme, Bases: bases}

	for !p.check(lexer.DEDENT, "") {
		p.skipNewlines()

		if p.check(lexer.DEDENT, "") {
			break
		}

		if p.checkKeyword("def") {
			method, err := p.parseFunctionDef(nil)
			if err != nil {
				return nil, err
			}

			class.Methods = append(class.Methods, method)
		} else {
			fname, err := p.expect(lexer.IDENT, "")
			if err != nil {
				return nil, err
			}

			if _, err := p.expect(lexer.OP, ":"); err != nil {
				return nil, err
			}

			ftype, err := p.parseType()
			if err != nil {
				return nil, err
			}

			class.Fields = append(class.Fields, ast.Param{Name: fname.Lexeme, Type: ftype})
		}

		p.skipNewlines()
	}

	if _, err := p.expect(lexer.DEDENT, ""); err != nil {
		return nil, err
	}

	class.SpanVal = p.span(start)

	return class, nil
}

func (p *Parser) parseImport() (*ast.Import, error) {
	start := p.advance() // 'import'

	name, err := p.expect(lexer.IDENT, "")
	if err != nil {
		return nil, err
	}

	module := name.Lexeme
	alias := ""

	for p.checkOp(".") {
		p.advance()

		part, err := p.expect(lexer.IDENT, "")
		if err != nil {
			return nil, err
		}

		module += "." + part.Lexeme
	}

	if p.checkKeyword("as") {
		p.advance()

		a, err := p.expect(lexer.IDENT, "")
		if err != nil {
			return nil, err
		}

		alias = a.Lexeme
	}

	p.skipNewlines()

	return &ast.Import{SpanVal: p.span(start), Module: module, Alias: alias}, nil
}

func (p *Parser) parseFromImport() (*ast.Import, error) {
	start := p.advance() // 'from'

	name, err := p.expect(lexer.IDENT, "")
	if err != nil {
		return nil, err
	}

	module := name.Lexeme

	for p.checkOp(".") {
		p.advance()

		part, err := p.expect(lexer.IDENT, "")
		if err != nil {
			return nil, err
		}

		module += "." + part.Lexeme
	}

	if _, err := p.expect(lexer.KEYWORD, "import"); err != nil {
		return nil, err
	}

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

	p.skipNewlines()

	return &ast.Import{SpanVal: p.span(start), Module: module, Names: names}, nil
}

func (p *Parser) parseGlobalVar() (*ast.GlobalVar, error) {
	start := p.cur()

	name, err := p.expect(lexer.IDENT, "")
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.OP, ":"); err != nil {
		return nil, err
	}

	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}

	var init ast.Expr

	if p.checkOp("=") {
		p.advance()

		init, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}

	p.skipNewlines()

	return &ast.GlobalVar{SpanVal: p.span(start), Name: name.Lexeme, Type: typ, Init: init, Label: name.Lexeme}, nil
}

// parseBlock parses `: NEWLINE INDENT stmt* DEDENT` (§4.2 "Statement
// parsing").
func (p *Parser) parseBlock() ([]ast.Stmt, error) {
	if _, err := p.expect(lexer.OP, ":"); err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.NEWLINE, ""); err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.INDENT, ""); err != nil {
		return nil, err
	}

	var stmts []ast.Stmt

	for !p.check(lexer.DEDENT, "") {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}

		stmts = append(stmts, s)
		p.skipNewlines()
	}

	if _, err := p.expect(lexer.DEDENT, ""); err != nil {
		return nil, err
	}

	return stmts, nil
}
