package check

import (
	"github.com/ruapotato/Pynux/pkg/ast"
)

// checkExpr resolves e's type and binding, recursing into subexpressions,
// and returns the resolved type (also left on e via ast.SetType).
func (c *Checker) checkExpr(e ast.Expr) (*ast.Type, error) {
	t, err := c.inferExpr(e)
	if err != nil {
		return nil, err
	}

	ast.SetType(e, t)

	return t, nil
}

func (c *Checker) inferExpr(e ast.Expr) (*ast.Type, error) {
	switch e := e.(type) {
	case *ast.IntLit:
		return ast.Int32, nil
	case *ast.FloatLit:
		return ast.Float64, nil
	case *ast.StrLit:
		return ast.PtrTo(ast.Char), nil
	case *ast.BoolLit:
		return ast.Bool, nil
	case *ast.NoneLit:
		return ast.PtrTo(ast.Void), nil
	case *ast.FString:
		return c.checkFString(e)
	case *ast.Ident:
		return c.checkIdent(e)
	case *ast.Attr:
		return c.checkAttr(e)
	case *ast.Index:
		return c.checkIndex(e)
	case *ast.Slice:
		return c.checkSlice(e)
	case *ast.Call:
		return c.checkCall(e)
	case *ast.UnaryOp:
		return c.checkUnaryOp(e)
	case *ast.BinOp:
		return c.checkBinOp(e)
	case *ast.Ternary:
		return c.checkTernary(e)
	case *ast.AddressOf:
		return c.checkAddressOf(e)
	case *ast.Deref:
		return c.checkDeref(e)
	case *ast.Cast:
		return c.checkCast(e)
	case *ast.Sizeof:
		return c.checkSizeof(e)
	case *ast.Lambda:
		return c.checkLambda(e)
	case *ast.ListLit:
		return c.checkListLit(e)
	case *ast.DictLit:
		return c.checkDictLit(e)
	case *ast.TupleLit:
		return c.checkTupleLit(e)
	case *ast.StructLit:
		return c.checkStructLit(e)
	case *ast.Comp:
		return c.checkComp(e)
	default:
		return nil, c.errorfSpan(e.Span(), "internal: unchecked expression kind %T", e)
	}
}

func (c *Checker) checkFString(e *ast.FString) (*ast.Type, error) {
	for i := range e.Parts {
		if e.Parts[i].Expr != nil {
			if _, err := c.checkExpr(e.Parts[i].Expr); err != nil {
				return nil, err
			}
		}
	}

	return ast.PtrTo(ast.Char), nil
}

func (c *Checker) checkIdent(e *ast.Ident) (*ast.Type, error) {
	if c.fs != nil {
		if !c.fs.globals[e.Name] {
			if l, ok := c.fs.lookup(e.Name); ok {
				kind := ast.BindLocal
				if l.isParam {
					kind = ast.BindParam
				}

				e.Binding = &ast.Binding{Kind: kind, Offset: l.offset}

				return l.typ, nil
			}
		}
	}

	if g, ok := c.globals[e.Name]; ok {
		e.Binding = &ast.Binding{Kind: ast.BindGlobal, Symbol: g.Label}
		return g.Type, nil
	}

	if fn, ok := c.functions[e.Name]; ok {
		e.Binding = &ast.Binding{Kind: ast.BindFunction, Symbol: fn.Name}
		return ast.FnType(fn.RetType, paramTypes(fn.Params)...), nil
	}

	if ext, ok := c.externs[e.Name]; ok {
		e.Binding = &ast.Binding{Kind: ast.BindFunction, Symbol: ext.Name}
		return ext.Signature, nil
	}

	if isIntrinsic(e.Name) {
		e.Binding = &ast.Binding{Kind: ast.BindFunction, Symbol: e.Name}
		return ast.FnType(ast.Void), nil
	}

	return nil, c.errorfSpan(e.Span(), "undefined name %q", e.Name)
}

func paramTypes(params []ast.Param) []*ast.Type {
	out := make([]*ast.Type, len(params))
	for i, p := range params {
		out[i] = p.Type
	}

	return out
}

func (c *Checker) checkAttr(e *ast.Attr) (*ast.Type, error) {
	baseType, err := c.checkExpr(e.Base)
	if err != nil {
		return nil, err
	}

	structType := baseType
	if structType.Tag == ast.TPtr {
		structType = structType.Elem
	}

	if structType.Tag != ast.TStruct && structType.Tag != ast.TUnion {
		return nil, c.errorfSpan(e.Span(), "attribute access on non-struct type %s", baseType)
	}

	for _, f := range structType.Fields {
		if f.Name == e.Name {
			e.FieldOffset = f.Offset
			return f.Type, nil
		}
	}

	return nil, c.errorfSpan(e.Span(), "%s has no field %q", structType, e.Name)
}

func (c *Checker) checkIndex(e *ast.Index) (*ast.Type, error) {
	baseType, err := c.checkExpr(e.Base)
	if err != nil {
		return nil, err
	}

	idxType, err := c.checkExpr(e.Idx)
	if err != nil {
		return nil, err
	}

	if !idxType.IsInteger() {
		return nil, c.errorfSpan(e.Idx.Span(), "index must be an integer, got %s", idxType)
	}

	switch baseType.Tag {
	case ast.TArray, ast.TPtr, ast.TList:
		return baseType.Elem, nil
	case ast.TStr:
		return ast.Char, nil
	case ast.TDict:
		return baseType.Elem, nil
	default:
		return nil, c.errorfSpan(e.Span(), "cannot index type %s", baseType)
	}
}

func (c *Checker) checkSlice(e *ast.Slice) (*ast.Type, error) {
	baseType, err := c.checkExpr(e.Base)
	if err != nil {
		return nil, err
	}

	for _, sub := range []ast.Expr{e.Start, e.Stop, e.Step} {
		if sub == nil {
			continue
		}

		t, err := c.checkExpr(sub)
		if err != nil {
			return nil, err
		}

		if !t.IsInteger() {
			return nil, c.errorfSpan(sub.Span(), "slice bound must be an integer, got %s", t)
		}
	}

	if baseType.Tag != ast.TStr && !(baseType.Tag == ast.TPtr && baseType.Elem.Tag == ast.TChar) {
		return nil, c.errorfSpan(e.Span(), "slicing is only supported on str, got %s", baseType)
	}

	return ast.PtrTo(ast.Char), nil
}

func (c *Checker) checkUnaryOp(e *ast.UnaryOp) (*ast.Type, error) {
	t, err := c.checkExpr(e.Operand)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case "not":
		if t.Tag != ast.TBool {
			return nil, c.errorfSpan(e.Span(), "'not' requires bool, got %s", t)
		}

		return ast.Bool, nil
	case "-", "~":
		if t.IsFloat() {
			return nil, c.errorfSpan(e.Span(), "floating-point arithmetic is not supported on this target")
		}

		if !t.IsInteger() {
			return nil, c.errorfSpan(e.Span(), "operator %q requires an integer operand, got %s", e.Op, t)
		}

		return t, nil
	default:
		return nil, c.errorfSpan(e.Span(), "internal: unknown unary operator %q", e.Op)
	}
}

var arithOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true, "//": true, "**": true,
	"<<": true, ">>": true, "&": true, "|": true, "^": true,
}

var compareOps = map[string]bool{
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
}

func (c *Checker) checkBinOp(e *ast.BinOp) (*ast.Type, error) {
	lhs, err := c.checkExpr(e.LHS)
	if err != nil {
		return nil, err
	}

	rhs, err := c.checkExpr(e.RHS)
	if err != nil {
		return nil, err
	}

	switch {
	case e.Op == "and" || e.Op == "or":
		if lhs.Tag != ast.TBool || rhs.Tag != ast.TBool {
			return nil, c.errorfSpan(e.Span(), "%q requires bool operands, got %s and %s", e.Op, lhs, rhs)
		}

		return ast.Bool, nil

	case e.Op == "in":
		if rhs.Tag != ast.TStr && !(rhs.Tag == ast.TPtr && rhs.Elem.Tag == ast.TChar) {
			return nil, c.errorfSpan(e.Span(), "'in' requires a str right-hand side, got %s", rhs)
		}

		return ast.Bool, nil

	case arithOps[e.Op]:
		return c.checkArith(e, lhs, rhs)

	case compareOps[e.Op]:
		if !c.comparable(lhs, rhs) {
			return nil, c.errorfSpan(e.Span(), "cannot compare %s and %s", lhs, rhs)
		}

		return ast.Bool, nil

	default:
		return nil, c.errorfSpan(e.Span(), "internal: unknown binary operator %q", e.Op)
	}
}

func (c *Checker) checkArith(e *ast.BinOp, lhs, rhs *ast.Type) (*ast.Type, error) {
	if lhs.IsFloat() || rhs.IsFloat() {
		return nil, c.errorfSpan(e.Span(), "floating-point arithmetic is not supported on this target")
	}

	// Pointer arithmetic (§4.4 "Operator typing").
	if lhs.Tag == ast.TPtr && rhs.IsInteger() && (e.Op == "+" || e.Op == "-") {
		return lhs, nil
	}

	if lhs.Tag == ast.TPtr && rhs.Tag == ast.TPtr && e.Op == "-" {
		if !ast.Equal(lhs, rhs) {
			return nil, c.errorfSpan(e.Span(), "pointer subtraction requires matching pointer types, got %s and %s", lhs, rhs)
		}

		return ast.Int32, nil
	}

	if !lhs.IsInteger() || !rhs.IsInteger() {
		return nil, c.errorfSpan(e.Span(), "operator %q requires integer operands, got %s and %s", e.Op, lhs, rhs)
	}

	if lhs.IsSigned() != rhs.IsSigned() {
		return nil, c.errorfSpan(e.Span(), "operator %q requires operands of the same signedness, got %s and %s", e.Op, lhs, rhs)
	}

	return widerOf(lhs, rhs), nil
}

func widerOf(a, b *ast.Type) *ast.Type {
	if a.Size() >= b.Size() {
		return a
	}

	return b
}

func (c *Checker) comparable(lhs, rhs *ast.Type) bool {
	if lhs.IsInteger() && rhs.IsInteger() && lhs.IsSigned() == rhs.IsSigned() {
		return true
	}

	if lhs.IsFloat() && rhs.IsFloat() {
		return true
	}

	return ast.Equal(lhs, rhs)
}

func (c *Checker) checkTernary(e *ast.Ternary) (*ast.Type, error) {
	condType, err := c.checkExpr(e.Cond)
	if err != nil {
		return nil, err
	}

	if condType.Tag != ast.TBool {
		return nil, c.errorfSpan(e.Cond.Span(), "ternary condition must be bool, got %s", condType)
	}

	thenType, err := c.checkExpr(e.Then)
	if err != nil {
		return nil, err
	}

	elsType, err := c.checkExpr(e.Else)
	if err != nil {
		return nil, err
	}

	if !c.assignable(elsType, thenType) {
		return nil, c.errorfSpan(e.Span(), "ternary branches have incompatible types %s and %s", thenType, elsType)
	}

	return thenType, nil
}

func (c *Checker) checkAddressOf(e *ast.AddressOf) (*ast.Type, error) {
	if !isLvalue(e.Operand) {
		return nil, c.errorfSpan(e.Span(), "cannot take the address of a non-lvalue")
	}

	t, err := c.checkExpr(e.Operand)
	if err != nil {
		return nil, err
	}

	return ast.PtrTo(t), nil
}

func isLvalue(e ast.Expr) bool {
	switch e.(type) {
	case *ast.Ident, *ast.Attr, *ast.Index, *ast.Deref:
		return true
	default:
		return false
	}
}

func (c *Checker) checkDeref(e *ast.Deref) (*ast.Type, error) {
	t, err := c.checkExpr(e.Operand)
	if err != nil {
		return nil, err
	}

	if t.Tag != ast.TPtr {
		return nil, c.errorfSpan(e.Span(), "cannot dereference non-pointer type %s", t)
	}

	return t.Elem, nil
}

func (c *Checker) checkCast(e *ast.Cast) (*ast.Type, error) {
	opType, err := c.checkExpr(e.Operand)
	if err != nil {
		return nil, err
	}

	target, err := c.resolveType(e.Target)
	if err != nil {
		return nil, err
	}

	e.Target = target

	if target.IsFloat() || opType.IsFloat() {
		return nil, c.errorfSpan(e.Span(), "floating-point arithmetic is not supported on this target")
	}

	return target, nil
}

func (c *Checker) checkSizeof(e *ast.Sizeof) (*ast.Type, error) {
	target, err := c.resolveType(e.Target)
	if err != nil {
		return nil, err
	}

	e.Target = target

	return ast.Uint32, nil
}

func (c *Checker) checkLambda(e *ast.Lambda) (*ast.Type, error) {
	prev := c.fs
	fs := newFuncScope(nil)
	c.fs = fs

	for i := range e.Params {
		p := &e.Params[i]
		if p.Type == nil {
			p.Type = ast.Int32
		}

		fs.declare(p.Name, p.Type, true)
	}

	bodyType, err := c.checkExpr(e.Body)

	c.fs = prev

	if err != nil {
		return nil, err
	}

	return ast.FnType(bodyType, paramTypes(e.Params)...), nil
}

func (c *Checker) checkListLit(e *ast.ListLit) (*ast.Type, error) {
	if len(e.Elems) == 0 {
		return ast.ListOf(ast.Int32), nil
	}

	first, err := c.checkExpr(e.Elems[0])
	if err != nil {
		return nil, err
	}

	for _, el := range e.Elems[1:] {
		t, err := c.checkExpr(el)
		if err != nil {
			return nil, err
		}

		if !c.assignable(t, first) {
			return nil, c.errorfSpan(el.Span(), "list element type %s does not match %s", t, first)
		}
	}

	return ast.ListOf(first), nil
}

func (c *Checker) checkDictLit(e *ast.DictLit) (*ast.Type, error) {
	if len(e.Pairs) == 0 {
		return ast.DictOf(ast.Int32, ast.Int32), nil
	}

	keyType, err := c.checkExpr(e.Pairs[0].Key)
	if err != nil {
		return nil, err
	}

	valType, err := c.checkExpr(e.Pairs[0].Value)
	if err != nil {
		return nil, err
	}

	for _, pair := range e.Pairs[1:] {
		k, err := c.checkExpr(pair.Key)
		if err != nil {
			return nil, err
		}

		v, err := c.checkExpr(pair.Value)
		if err != nil {
			return nil, err
		}

		if !c.assignable(k, keyType) || !c.assignable(v, valType) {
			return nil, c.errorfSpan(pair.Key.Span(), "dict entry type mismatch")
		}
	}

	return ast.DictOf(keyType, valType), nil
}

func (c *Checker) checkTupleLit(e *ast.TupleLit) (*ast.Type, error) {
	types := make([]*ast.Type, len(e.Elems))

	for i, el := range e.Elems {
		t, err := c.checkExpr(el)
		if err != nil {
			return nil, err
		}

		types[i] = t
	}

	return ast.TupleOf(types...), nil
}

func (c *Checker) checkStructLit(e *ast.StructLit) (*ast.Type, error) {
	target, err := c.resolveType(e.Type)
	if err != nil {
		return nil, err
	}

	e.Type = target

	for _, init := range e.Fields {
		valType, err := c.checkExpr(init.Value)
		if err != nil {
			return nil, err
		}

		var field *ast.Field

		for i := range target.Fields {
			if target.Fields[i].Name == init.Name {
				field = &target.Fields[i]
				break
			}
		}

		if field == nil {
			return nil, c.errorfSpan(init.Value.Span(), "%s has no field %q", target, init.Name)
		}

		if !c.assignable(valType, field.Type) {
			return nil, c.errorfSpan(init.Value.Span(), "cannot assign %s to field %q of type %s", valType, init.Name, field.Type)
		}
	}

	return target, nil
}

func (c *Checker) checkComp(e *ast.Comp) (*ast.Type, error) {
	prev := c.fs
	fs := newFuncScope(nil)
	c.fs = fs

	for _, it := range e.Iters {
		iterType, err := c.checkExpr(it.Iter)
		if err != nil {
			c.fs = prev
			return nil, err
		}

		elemType := ast.Int32

		switch iterType.Tag {
		case ast.TList, ast.TArray:
			elemType = iterType.Elem
		case ast.TStr:
			elemType = ast.Char
		}

		fs.declare(it.Var, elemType, false)
	}

	for _, f := range e.Filters {
		if _, err := c.checkExpr(f); err != nil {
			c.fs = prev
			return nil, err
		}
	}

	var result *ast.Type

	if e.Kind == ast.CompDict {
		keyType, err := c.checkExpr(e.Key)
		if err != nil {
			c.fs = prev
			return nil, err
		}

		valType, err := c.checkExpr(e.Elem)
		if err != nil {
			c.fs = prev
			return nil, err
		}

		result = ast.DictOf(keyType, valType)
	} else {
		elemType, err := c.checkExpr(e.Elem)
		if err != nil {
			c.fs = prev
			return nil, err
		}

		result = ast.ListOf(elemType)
	}

	c.fs = prev

	return result, nil
}

// assignable implements §4.4 "Assignability".
func (c *Checker) assignable(from, to *ast.Type) bool {
	if from == nil || to == nil {
		return false
	}

	if ast.Equal(from, to) {
		return true
	}

	if from.IsInteger() && to.IsInteger() && from.IsSigned() == to.IsSigned() && to.Size() >= from.Size() {
		return true
	}

	if from.IsFloat() && to.IsFloat() {
		return true
	}

	if from.Tag == ast.TArray && to.Tag == ast.TPtr && ast.Equal(from.Elem, to.Elem) {
		return true
	}

	if from.Tag == ast.TPtr && from.Elem.Tag == ast.TVoid && (to.Tag == ast.TPtr || to.Tag == ast.TOptional) {
		return true
	}

	if from.Tag == ast.TPtr && from.Elem.Tag == ast.TChar {
		if to.Tag == ast.TStr {
			return true
		}

		if to.Tag == ast.TPtr && to.Elem.Tag == ast.TChar {
			return true
		}
	}

	return false
}
