// Package check implements the Pynux type checker (spec §4.4): name
// resolution, assignability, operator typing, intrinsic recognition, and
// the SPEC_FULL.md resolutions for try/except and floating-point
// arithmetic. Grounded on the single-pass, AST-annotating checker shape of
// go-corset's pkg/corset/compiler (register-then-resolve over a flat
// module symbol table), adapted from constraint columns to Pynux's
// variable/function/struct namespace.
package check

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/ruapotato/Pynux/pkg/ast"
	"github.com/ruapotato/Pynux/pkg/source"
)

// Checker consumes a parsed declaration list and annotates every
// expression with its resolved type and binding. Constructed fresh per
// compilation unit (§5: no shared mutable module-level state).
type Checker struct {
	file *source.File
	log  *logrus.Entry

	globals   map[string]*ast.GlobalVar
	functions map[string]*ast.FunctionDef
	externs   map[string]*ast.ExternDef
	structs   map[string]*ast.StructDef
	unions    map[string]*ast.UnionDef
	classes   map[string]*ast.ClassDef

	resolvedTypes map[string]*ast.Type

	fs *funcScope
}

// New constructs a Checker over file. log may be nil, in which case a
// discarding logger is used.
func New(file *source.File, log *logrus.Logger) *Checker {
	if log == nil {
		log = logrus.New()
		log.SetOutput(discardWriter{})
	}

	return &Checker{
		file:          file,
		log:           log.WithField("stage", "check").WithField("file", file.Name),
		globals:       map[string]*ast.GlobalVar{},
		functions:     map[string]*ast.FunctionDef{},
		externs:       cloneExterns(runtimeExterns),
		structs:       map[string]*ast.StructDef{},
		unions:        map[string]*ast.UnionDef{},
		classes:       map[string]*ast.ClassDef{},
		resolvedTypes: map[string]*ast.Type{},
	}
}

// cloneExterns copies the predeclared runtime ABI symbols (spec.md §6) into
// a fresh map per Checker, so a source-level `extern` redeclaration can
// overwrite its own entry without mutating the shared table.
func cloneExterns(src map[string]*ast.ExternDef) map[string]*ast.ExternDef {
	out := make(map[string]*ast.ExternDef, len(src))
	for name, d := range src {
		out[name] = d
	}

	return out
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// Check type-checks the full declaration list, annotating the AST in
// place. It returns the first error encountered (§4.4 "Contract").
func (c *Checker) Check(decls []ast.Decl) error {
	if err := c.registerDecls(decls); err != nil {
		return err
	}

	if err := c.resolveNamedTypes(); err != nil {
		return err
	}

	for name, g := range c.globals {
		t, err := c.resolveType(g.Type)
		if err != nil {
			return err
		}

		g.Type = t
		c.globals[name] = g
	}

	for _, d := range decls {
		switch d := d.(type) {
		case *ast.FunctionDef:
			if err := c.checkFunction(d); err != nil {
				return err
			}
		case *ast.GlobalVar:
			if err := c.checkGlobalVar(d); err != nil {
				return err
			}
		case *ast.ClassDef:
			if err := c.checkClass(d); err != nil {
				return err
			}
		}
	}

	c.log.WithFields(logrus.Fields{
		"functions": len(c.functions),
		"globals":   len(c.globals),
	}).Debug("check complete")

	return nil
}

// registerDecls performs the forward-declaration pass so that mutually
// referencing top-level declarations (a function calling one declared
// later, a struct embedding a pointer to another declared later) resolve
// regardless of source order.
func (c *Checker) registerDecls(decls []ast.Decl) error {
	var names []string

	register := func(name string, span source.Span) error {
		if lo.Contains(names, name) {
			return c.errorfSpan(span, "duplicate declaration of %q", name)
		}

		names = append(names, name)

		return nil
	}

	for _, d := range decls {
		switch d := d.(type) {
		case *ast.FunctionDef:
			if err := register(d.Name, d.Span()); err != nil {
				return err
			}

			c.functions[d.Name] = d
		case *ast.GlobalVar:
			if err := register(d.Name, d.Span()); err != nil {
				return err
			}

			c.globals[d.Name] = d
		case *ast.StructDef:
			if err := register(d.Name, d.Span()); err != nil {
				return err
			}

			c.structs[d.Name] = d
		case *ast.UnionDef:
			if err := register(d.Name, d.Span()); err != nil {
				return err
			}

			c.unions[d.Name] = d
		case *ast.ClassDef:
			if err := register(d.Name, d.Span()); err != nil {
				return err
			}

			c.classes[d.Name] = d
		case *ast.ExternDef:
			if err := register(d.Name, d.Span()); err != nil {
				return err
			}

			c.externs[d.Name] = d
		case *ast.Import:
			// Flat linkage: recorded but not verified against another unit
			// (§4.4 "Name resolution rules").
		}
	}

	return nil
}

func (c *Checker) checkGlobalVar(g *ast.GlobalVar) error {
	if g.Init == nil {
		return nil
	}

	initType, err := c.checkExpr(g.Init)
	if err != nil {
		return err
	}

	if !c.assignable(initType, g.Type) {
		return c.errorfSpan(g.Init.Span(), "cannot assign %s to global %q of type %s", initType, g.Name, g.Type)
	}

	return nil
}

func (c *Checker) checkClass(cd *ast.ClassDef) error {
	for _, m := range cd.Methods {
		if err := c.checkFunction(m); err != nil {
			return err
		}
	}

	return nil
}

func (c *Checker) errorfSpan(span source.Span, format string, args ...interface{}) *Error {
	return &Error{
		File:    c.file.Name,
		Pos:     c.file.SpanPos(span),
		Span:    span,
		Message: fmt.Sprintf(format, args...),
	}
}

// errorfAt is used by the type-resolution pass, which works over bare
// Type values with no span of their own; it reports at the start of the
// file being checked, which is acceptable for the "unknown type" class of
// error since it always also surfaces via the declaration that used it.
func (c *Checker) errorfAt(_ string, format string, args ...interface{}) *Error {
	return &Error{
		File:    c.file.Name,
		Pos:     source.Pos{Line: 1, Col: 1},
		Message: fmt.Sprintf(format, args...),
	}
}
