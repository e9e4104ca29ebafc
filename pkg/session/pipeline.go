package session

import (
	"github.com/sirupsen/logrus"

	"github.com/ruapotato/Pynux/pkg/ast"
	"github.com/ruapotato/Pynux/pkg/check"
	"github.com/ruapotato/Pynux/pkg/codegen"
	"github.com/ruapotato/Pynux/pkg/lexer"
	"github.com/ruapotato/Pynux/pkg/parser"
	"github.com/ruapotato/Pynux/pkg/source"
)

// Tokenize runs the lexer stage alone, for `pynuxc tokens` (SPEC_FULL.md
// "CLI surface").
func Tokenize(file *source.File, log *logrus.Logger) ([]lexer.Token, error) {
	return lexer.New(file, log).Run()
}

// ParseChecked runs lex, parse and check, returning the fully bound
// declaration list `pynuxc ast` dumps and `Compile` lowers.
func ParseChecked(file *source.File, log *logrus.Logger) ([]ast.Decl, error) {
	tokens, err := Tokenize(file, log)
	if err != nil {
		return nil, err
	}

	decls, err := parser.New(file, tokens, log).Parse()
	if err != nil {
		return nil, err
	}

	if err := check.New(file, log).Check(decls); err != nil {
		return nil, err
	}

	return decls, nil
}

// Compile runs the full pipeline (lex, parse, check, emit) and returns the
// unit's assembly text, per §6's one compile-and-emit contract.
func Compile(file *source.File, cfg Config, log *logrus.Logger) (string, error) {
	decls, err := ParseChecked(file, log)
	if err != nil {
		return "", err
	}

	gen := codegen.New(file, string(cfg.Target), cfg.EmitDebugComments, log)

	return gen.Generate(decls)
}
