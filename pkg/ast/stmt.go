package ast

import "github.com/ruapotato/Pynux/pkg/source"

type stmtBase struct{ SpanVal source.Span }

func (s *stmtBase) Span() source.Span { return s.SpanVal }
func (s *stmtBase) stmtNode()         {}

// Assign is a plain assignment, possibly introducing a new local (§4.4
// "Plain assignment").
type Assign struct {
	stmtBase
	Target Expr
	Value  Expr
	// Declared is set when this assignment introduces a typed local
	// (`x: T = e`), in which case DeclaredType is non-nil.
	Declared     bool
	DeclaredType *Type
}

// AugAssign is `target op= value`.
type AugAssign struct {
	stmtBase
	Target Expr
	Op     string
	Value  Expr
}

// ElifArm is one `elif cond: body` clause.
type ElifArm struct {
	Cond Expr
	Body []Stmt
}

// If is an if/elif/else chain.
type If struct {
	stmtBase
	Cond     Expr
	Then     []Stmt
	ElifArms []ElifArm
	Else     []Stmt // nil if absent
}

// While is a while loop.
type While struct {
	stmtBase
	Cond Expr
	Body []Stmt
}

// ForRange is the desugared form of `for i in range(...)` (§4.4).
type ForRange struct {
	stmtBase
	Var   string
	Start Expr
	Stop  Expr
	Step  Expr // non-nil; defaults to IntLit(1)
	Body  []Stmt

	// VarOffset is the stack slot assigned to Var by the checker.
	VarOffset int
}

// ForIter is `for x in iterable: body` where iterable is not a `range(...)`
// call.
type ForIter struct {
	stmtBase
	Var  string
	Iter Expr
	Body []Stmt
}

// Break is `break`.
type Break struct{ stmtBase }

// Continue is `continue`.
type Continue struct{ stmtBase }

// Return is `return [value]`.
type Return struct {
	stmtBase
	Value Expr // nil for bare `return`
}

// Raise is `raise [exc]`.
type Raise struct {
	stmtBase
	Exc Expr // nil for bare `raise`
}

// ExceptHandler is one `except` clause of a Try.
type ExceptHandler struct {
	ExcType string // type name, or "" for bare except
	Body    []Stmt
}

// Try is try/except/else/finally (§4.3, §9: a stub pending the open
// question resolution in SPEC_FULL.md).
type Try struct {
	stmtBase
	Body     []Stmt
	Handlers []ExceptHandler
	Else     []Stmt
	Finally  []Stmt
}

// With is `with ctx as name: body`, lowered by the generator into
// `__pynux_context_enter`/`__pynux_context_exit` calls (§4.4, §9).
type With struct {
	stmtBase
	Ctx    Expr
	AsName string // empty if no `as`
	Body   []Stmt
}

// MatchArm is one `case pattern: body`.
type MatchArm struct {
	// Wildcard is true for `case _:`.
	Wildcard bool
	// Literal is non-nil for `case <literal>:`.
	Literal Expr
	// Bind is non-empty for `case name:` (identifier-binding pattern).
	Bind string
	Body []Stmt
}

// Match is `match scrutinee: case ...`, reduced by the generator to an
// if/elif chain (§4.4 "match").
type Match struct {
	stmtBase
	Scrutinee Expr
	Arms      []MatchArm
}

// Asm is a verbatim inline-assembly block (§4.2, §4.5: copied through with
// no save/restore).
type Asm struct {
	stmtBase
	Text string
}

// Pass is a no-op statement.
type Pass struct{ stmtBase }

// ExprStmt is an expression evaluated for effect.
type ExprStmt struct {
	stmtBase
	Expr Expr
}

// Global marks names as referring to the module-scope global within the
// enclosing function (§4.4 "Name resolution rules").
type Global struct {
	stmtBase
	Names []string
}

// NewSpanStmt helpers construct the stmtBase for each node type; kept as a
// single constructor per type below for readability at call sites in the
// parser.

func NewAssign(span source.Span, target, value Expr, declared bool, declType *Type) *Assign {
	return &Assign{stmtBase{span}, target, value, declared, declType}
}

func NewAugAssign(span source.Span, target Expr, op string, value Expr) *AugAssign {
	return &AugAssign{stmtBase{span}, target, op, value}
}

func NewIf(span source.Span, cond Expr, then []Stmt, elifs []ElifArm, els []Stmt) *If {
	return &If{stmtBase{span}, cond, then, elifs, els}
}

func NewWhile(span source.Span, cond Expr, body []Stmt) *While {
	return &While{stmtBase{span}, cond, body}
}

func NewForRange(span source.Span, v string, start, stop, step Expr, body []Stmt) *ForRange {
	return &ForRange{stmtBase: stmtBase{span}, Var: v, Start: start, Stop: stop, Step: step, Body: body}
}

func NewForIter(span source.Span, v string, iter Expr, body []Stmt) *ForIter {
	return &ForIter{stmtBase{span}, v, iter, body}
}

func NewBreak(span source.Span) *Break       { return &Break{stmtBase{span}} }
func NewContinue(span source.Span) *Continue { return &Continue{stmtBase{span}} }

func NewReturn(span source.Span, value Expr) *Return {
	return &Return{stmtBase{span}, value}
}

func NewRaise(span source.Span, exc Expr) *Raise {
	return &Raise{stmtBase{span}, exc}
}

func NewTry(span source.Span, body []Stmt, handlers []ExceptHandler, els, fin []Stmt) *Try {
	return &Try{stmtBase{span}, body, handlers, els, fin}
}

func NewWith(span source.Span, ctx Expr, asName string, body []Stmt) *With {
	return &With{stmtBase{span}, ctx, asName, body}
}

func NewMatch(span source.Span, scrutinee Expr, arms []MatchArm) *Match {
	return &Match{stmtBase{span}, scrutinee, arms}
}

func NewAsm(span source.Span, text string) *Asm { return &Asm{stmtBase{span}, text} }
func NewPass(span source.Span) *Pass             { return &Pass{stmtBase{span}} }

func NewExprStmt(span source.Span, e Expr) *ExprStmt {
	return &ExprStmt{stmtBase{span}, e}
}

func NewGlobal(span source.Span, names []string) *Global {
	return &Global{stmtBase{span}, names}
}
