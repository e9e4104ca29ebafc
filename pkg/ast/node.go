package ast

import "github.com/ruapotato/Pynux/pkg/source"

// Node is implemented by every declaration, statement and expression node.
type Node interface {
	Span() source.Span
}

// Decl is a top-level declaration (§4.3 "Declarations").
type Decl interface {
	Node
	declNode()
}

// Stmt is a statement within a function body (§4.3 "Statements").
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression (§4.3 "Expressions"). After checking, every Expr
// carries its resolved Type and, where applicable, a resolved Binding
// (§3 invariant: "Every identifier ... resolves to exactly one binding").
type Expr interface {
	Node
	exprNode()
	// ResolvedType returns the type the checker annotated this expression
	// with, or nil before checking has run.
	ResolvedType() *Type
	setType(*Type)
}

// BindingKind distinguishes the four binding forms an identifier may
// resolve to (§3 "Symbol table").
type BindingKind uint

const (
	BindNone BindingKind = iota
	BindLocal
	BindParam
	BindGlobal
	BindFunction
)

// Binding is what a resolved identifier points to.
type Binding struct {
	Kind BindingKind
	// Offset is the stack-frame byte offset for BindLocal/BindParam.
	Offset int
	// Symbol is the global/function label for BindGlobal/BindFunction.
	Symbol string
}

// exprBase factors the span/type/binding bookkeeping every Expr needs.
type exprBase struct {
	span    source.Span
	typ     *Type
	Binding *Binding
}

func (e *exprBase) Span() source.Span    { return e.span }
func (e *exprBase) exprNode()            {}
func (e *exprBase) ResolvedType() *Type  { return e.typ }
func (e *exprBase) setType(t *Type)      { e.typ = t }

// SetType lets the checker annotate an expression after resolving it; the
// unexported setType backs Expr's interface method so outside packages go
// through this helper instead of poking the field directly.
func SetType(e Expr, t *Type) { e.setType(t) }
