package ast

import "github.com/ruapotato/Pynux/pkg/source"

// IntLit is an integer literal.
type IntLit struct {
	exprBase
	Value int64
}

// FloatLit is a floating-point literal.
type FloatLit struct {
	exprBase
	Value float64
}

// StrLit is a string literal; Value already has escapes decoded (§3).
type StrLit struct {
	exprBase
	Value string
}

// BoolLit is True/False.
type BoolLit struct {
	exprBase
	Value bool
}

// NoneLit is the `None` literal.
type NoneLit struct{ exprBase }

// FStringPart is one fragment of an f-string: either a literal run or a
// re-parsed expression (§4.2 "F-strings").
type FStringPart struct {
	Literal string // set when Expr is nil
	Expr    Expr
}

// FString is `f"..."`, parsed into alternating literal/expression parts.
type FString struct {
	exprBase
	Parts []FStringPart
}

// Ident is a bare identifier reference, resolved to a Binding by the
// checker (§3 invariant).
type Ident struct {
	exprBase
	Name string
}

// Attr is `base.name` (struct/union field access, or, pre-lowering, a
// class method reference).
type Attr struct {
	exprBase
	Base Expr
	Name string
	// FieldOffset is filled in by the checker once Base's struct/union
	// type is known.
	FieldOffset int
}

// Index is `base[idx]`.
type Index struct {
	exprBase
	Base Expr
	Idx  Expr
}

// Slice is `base[start:stop:step]`, all three optional (§4.2).
type Slice struct {
	exprBase
	Base  Expr
	Start Expr // nil -> 0
	Stop  Expr // nil -> -1 sentinel ("to end")
	Step  Expr // nil -> 1
}

// Call is a function call, `fn(args, kwargs)`. The parser puts every
// `name=value` argument in Kwargs; the checker and generator read only
// Args.
type Call struct {
	exprBase
	Fn     Expr
	Args   []Expr
	Kwargs map[string]Expr

	// Intrinsic is set by the checker when Fn names one of the built-in
	// intrinsics (§4.4 "Special call recognition"), empty otherwise.
	Intrinsic string
}

// UnaryOp is a prefix unary operator (`-`, `~`, `not`).
type UnaryOp struct {
	exprBase
	Op      string
	Operand Expr
}

// BinOp is a binary operator expression.
type BinOp struct {
	exprBase
	Op  string
	LHS Expr
	RHS Expr
}

// Ternary is `then if cond else else_`.
type Ternary struct {
	exprBase
	Cond Expr
	Then Expr
	Else Expr
}

// AddressOf is `&expr`.
type AddressOf struct {
	exprBase
	Operand Expr
}

// Deref is `*expr`.
type Deref struct {
	exprBase
	Operand Expr
}

// Cast is `cast[T](expr)`.
type Cast struct {
	exprBase
	Target *Type
	Operand Expr
}

// Sizeof is `sizeof(T)`.
type Sizeof struct {
	exprBase
	Target *Type
}

// Lambda is an anonymous function expression.
type Lambda struct {
	exprBase
	Params []Param
	Body   Expr
}

// ListLit is `[e0, e1, ...]`.
type ListLit struct {
	exprBase
	Elems []Expr
}

// DictPair is one `key: value` entry of a DictLit.
type DictPair struct {
	Key   Expr
	Value Expr
}

// DictLit is `{k0: v0, k1: v1, ...}`.
type DictLit struct {
	exprBase
	Pairs []DictPair
}

// TupleLit is `(e0, e1, ...)`.
type TupleLit struct {
	exprBase
	Elems []Expr
}

// StructFieldInit is one `field=expr` entry of a StructLit (§4.2: positional
// form is forbidden).
type StructFieldInit struct {
	Name  string
	Value Expr
}

// StructLit is `T{field=expr, ...}`.
type StructLit struct {
	exprBase
	Type   *Type
	Fields []StructFieldInit
}

// CompKind distinguishes list/dict comprehensions.
type CompKind uint

const (
	CompList CompKind = iota
	CompDict
)

// CompIter is one `for var in iter` clause of a comprehension.
type CompIter struct {
	Var  string
	Iter Expr
}

// Comp is a list/dict comprehension.
type Comp struct {
	exprBase
	Kind    CompKind
	Elem    Expr // list element, or DictPair-shaped via Key/Value below
	Key     Expr // dict comprehension key (Kind == CompDict)
	Iters   []CompIter
	Filters []Expr
}

// Constructors. One per node keeps parser call sites short and keeps the
// embedded exprBase construction (span only; type/binding set later) in one
// place per type.

func NewIntLit(span source.Span, v int64) *IntLit { return &IntLit{exprBase{span: span}, v} }
func NewFloatLit(span source.Span, v float64) *FloatLit {
	return &FloatLit{exprBase{span: span}, v}
}
func NewStrLit(span source.Span, v string) *StrLit { return &StrLit{exprBase{span: span}, v} }
func NewBoolLit(span source.Span, v bool) *BoolLit { return &BoolLit{exprBase{span: span}, v} }
func NewNoneLit(span source.Span) *NoneLit         { return &NoneLit{exprBase{span: span}} }

func NewFString(span source.Span, parts []FStringPart) *FString {
	return &FString{exprBase{span: span}, parts}
}

func NewIdent(span source.Span, name string) *Ident { return &Ident{exprBase{span: span}, name} }

func NewAttr(span source.Span, base Expr, name string) *Attr {
	return &Attr{exprBase: exprBase{span: span}, Base: base, Name: name}
}

func NewIndex(span source.Span, base, idx Expr) *Index {
	return &Index{exprBase{span: span}, base, idx}
}

func NewSlice(span source.Span, base, start, stop, step Expr) *Slice {
	return &Slice{exprBase{span: span}, base, start, stop, step}
}

func NewCall(span source.Span, fn Expr, args []Expr, kwargs map[string]Expr) *Call {
	return &Call{exprBase: exprBase{span: span}, Fn: fn, Args: args, Kwargs: kwargs}
}

func NewUnaryOp(span source.Span, op string, operand Expr) *UnaryOp {
	return &UnaryOp{exprBase{span: span}, op, operand}
}

func NewBinOp(span source.Span, op string, lhs, rhs Expr) *BinOp {
	return &BinOp{exprBase{span: span}, op, lhs, rhs}
}

func NewTernary(span source.Span, cond, then, els Expr) *Ternary {
	return &Ternary{exprBase{span: span}, cond, then, els}
}

func NewAddressOf(span source.Span, operand Expr) *AddressOf {
	return &AddressOf{exprBase{span: span}, operand}
}

func NewDeref(span source.Span, operand Expr) *Deref {
	return &Deref{exprBase{span: span}, operand}
}

func NewCast(span source.Span, target *Type, operand Expr) *Cast {
	return &Cast{exprBase{span: span}, target, operand}
}

func NewSizeof(span source.Span, target *Type) *Sizeof {
	return &Sizeof{exprBase{span: span}, target}
}

func NewLambda(span source.Span, params []Param, body Expr) *Lambda {
	return &Lambda{exprBase{span: span}, params, body}
}

func NewListLit(span source.Span, elems []Expr) *ListLit {
	return &ListLit{exprBase{span: span}, elems}
}

func NewDictLit(span source.Span, pairs []DictPair) *DictLit {
	return &DictLit{exprBase{span: span}, pairs}
}

func NewTupleLit(span source.Span, elems []Expr) *TupleLit {
	return &TupleLit{exprBase{span: span}, elems}
}

func NewStructLit(span source.Span, t *Type, fields []StructFieldInit) *StructLit {
	return &StructLit{exprBase{span: span}, t, fields}
}

func NewComp(span source.Span, kind CompKind, elem, key Expr, iters []CompIter, filters []Expr) *Comp {
	return &Comp{exprBase{span: span}, kind, elem, key, iters, filters}
}
