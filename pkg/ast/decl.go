package ast

import "github.com/ruapotato/Pynux/pkg/source"

// Param is one function parameter.
type Param struct {
	Name    string
	Type    *Type
	Default Expr // optional
}

// FunctionDef declares a function (§4.3).
type FunctionDef struct {
	SpanVal    source.Span
	Name       string
	Params     []Param
	RetType    *Type
	Body       []Stmt
	Decorators []string // e.g. "interrupt", "packed"

	// Populated by the checker.
	FrameSize int
}

func (d *FunctionDef) Span() source.Span { return d.SpanVal }
func (d *FunctionDef) declNode()         {}

// HasDecorator reports whether name appears in Decorators.
func (d *FunctionDef) HasDecorator(name string) bool {
	for _, dec := range d.Decorators {
		if dec == name {
			return true
		}
	}

	return false
}

// GlobalVar declares a module-scope variable (§4.3).
type GlobalVar struct {
	SpanVal source.Span
	Name    string
	Type    *Type
	Init    Expr // optional

	// Label is the assembly symbol name for this global, set by the parser
	// to Name.
	Label string
}

func (d *GlobalVar) Span() source.Span { return d.SpanVal }
func (d *GlobalVar) declNode()         {}

// StructDef declares a struct type (§4.3).
type StructDef struct {
	SpanVal source.Span
	Name    string
	Fields  []Param // Type used as field type, Default unused
	Packed  bool
}

func (d *StructDef) Span() source.Span { return d.SpanVal }
func (d *StructDef) declNode()         {}

// UnionDef declares a union type (§4.3).
type UnionDef struct {
	SpanVal source.Span
	Name    string
	Fields  []Param
}

func (d *UnionDef) Span() source.Span { return d.SpanVal }
func (d *UnionDef) declNode()         {}

// ClassDef declares a class (§4.3, §9 "Inheritance"): lowered by the
// checker to a flattened struct (base fields first) plus free functions
// taking `self: Ptr[Class]` as their first parameter.
type ClassDef struct {
	SpanVal source.Span
	Name    string
	Bases   []string
	Fields  []Param
	Methods []*FunctionDef
}

func (d *ClassDef) Span() source.Span { return d.SpanVal }
func (d *ClassDef) declNode()         {}

// ExternDef declares an externally-linked symbol (§4.3). Matches the
// external ABI contract in spec §6 when Name is one of the fixed runtime
// helper symbols, but is otherwise used for cross-module linkage (§4.4
// "Imports").
type ExternDef struct {
	SpanVal   source.Span
	Name      string
	Signature *Type // Fn type
}

func (d *ExternDef) Span() source.Span { return d.SpanVal }
func (d *ExternDef) declNode()         {}

// Import declares a module or name import (§4.3). Linkage is flat (§4.4):
// the checker records the symbol name but does not verify cross-file
// existence.
type Import struct {
	SpanVal source.Span
	Module  string
	Names   []string // from X import a, b  (nil for "import X")
	Alias   string    // import X as Y  (empty if none)
}

func (d *Import) Span() source.Span { return d.SpanVal }
func (d *Import) declNode()         {}
