package codegen

import (
	"fmt"

	"github.com/ruapotato/Pynux/pkg/ast"
)

// genExpr evaluates e and leaves the result in r0, following the
// stack-machine lowering discipline (§4.5 "Expression lowering"): a binary
// operator evaluates its LHS, pushes it, evaluates its RHS into r0, pops
// the LHS into r1, and operates.
func (g *Generator) genExpr(e ast.Expr) error {
	switch e := e.(type) {
	case *ast.IntLit:
		g.e.instr("ldr r0, =%d", e.Value)
		return nil

	case *ast.FloatLit:
		return g.errorf(e.Span(), "floating-point arithmetic is not supported on this target")

	case *ast.BoolLit:
		if e.Value {
			g.e.instr("movs r0, #1")
		} else {
			g.e.instr("movs r0, #0")
		}
		return nil

	case *ast.NoneLit:
		g.e.instr("movs r0, #0")
		return nil

	case *ast.StrLit:
		label := g.e.internString(e.Value)
		g.e.instr("ldr r0, =%s", label)
		return nil

	case *ast.FString:
		return g.genFString(e)

	case *ast.Ident:
		return g.genIdentLoad(e)

	case *ast.Attr:
		return g.genAttrLoad(e)

	case *ast.Index:
		return g.genIndexLoad(e)

	case *ast.Slice:
		return g.genSlice(e)

	case *ast.Call:
		return g.genCall(e)

	case *ast.UnaryOp:
		return g.genUnaryOp(e)

	case *ast.BinOp:
		return g.genBinOp(e)

	case *ast.Ternary:
		return g.genTernary(e)

	case *ast.AddressOf:
		return g.genAddressOf(e)

	case *ast.Deref:
		return g.genDeref(e)

	case *ast.Cast:
		return g.genCast(e)

	case *ast.Sizeof:
		g.e.instr("ldr r0, =%d", e.Target.Size())
		return nil

	case *ast.Lambda:
		return g.genLambdaRef(e)

	case *ast.TupleLit:
		return g.errorf(e.Span(), "tuple values have no runtime representation outside assignment targets")

	case *ast.ListLit, *ast.DictLit, *ast.Comp:
		return g.errorf(e.Span(), "list/dict literals and comprehensions are not supported by this code generator")

	case *ast.StructLit:
		return g.errorf(e.Span(), "struct literals must appear directly as the value of an assignment")

	default:
		return g.errorf(e.Span(), "internal: unhandled expression node %T", e)
	}
}

// genAddr computes the address of an lvalue expression into r0: identifiers
// resolve to an `add`/`sub r0, r7, #d` frame-pointer address (locals, see
// localAddr) or `ldr r0, =label` (globals),
// field/index access chains off genAddr of the base.
func (g *Generator) genAddr(e ast.Expr) error {
	switch e := e.(type) {
	case *ast.Ident:
		b := e.Binding
		if b == nil {
			return g.errorf(e.Span(), "internal: identifier %q has no binding", e.Name)
		}

		switch b.Kind {
		case ast.BindLocal, ast.BindParam:
			g.localAddr("r0", b.Offset)
			return nil
		case ast.BindGlobal:
			g.e.instr("ldr r0, =%s", b.Symbol)
			return nil
		default:
			return g.errorf(e.Span(), "cannot take the address of %q", e.Name)
		}

	case *ast.Attr:
		if err := g.genAddr(e.Base); err != nil {
			return err
		}

		if e.FieldOffset != 0 {
			g.e.instr("adds r0, r0, #%d", e.FieldOffset)
		}

		return nil

	case *ast.Index:
		return g.genIndexAddr(e)

	case *ast.Deref:
		return g.genExpr(e.Operand)

	default:
		return g.errorf(e.Span(), "internal: expression is not an lvalue")
	}
}

func (g *Generator) genIdentLoad(e *ast.Ident) error {
	b := e.Binding
	if b == nil {
		return g.errorf(e.Span(), "internal: identifier %q has no binding", e.Name)
	}

	switch b.Kind {
	case ast.BindLocal, ast.BindParam:
		g.loadLocal(e.ResolvedType(), "r0", b.Offset)
		return nil

	case ast.BindGlobal:
		g.e.instr("ldr r0, =%s", b.Symbol)
		g.loadIndirect(e.ResolvedType(), "r0", "r0")
		return nil

	case ast.BindFunction:
		g.e.instr("ldr r0, =%s", b.Symbol)
		return nil

	default:
		return g.errorf(e.Span(), "internal: unresolved identifier %q", e.Name)
	}
}

func (g *Generator) loadIndirect(t *ast.Type, dst, base string) {
	switch t.Size() {
	case 1:
		if t.IsSigned() {
			g.e.instr("ldrsb %s, [%s]", dst, base)
		} else {
			g.e.instr("ldrb %s, [%s]", dst, base)
		}
	case 2:
		if t.IsSigned() {
			g.e.instr("ldrsh %s, [%s]", dst, base)
		} else {
			g.e.instr("ldrh %s, [%s]", dst, base)
		}
	default:
		g.e.instr("ldr %s, [%s]", dst, base)
	}
}

func (g *Generator) storeIndirect(t *ast.Type, src, base string) {
	switch t.Size() {
	case 1:
		g.e.instr("strb %s, [%s]", src, base)
	case 2:
		g.e.instr("strh %s, [%s]", src, base)
	default:
		g.e.instr("str %s, [%s]", src, base)
	}
}

func (g *Generator) genAttrLoad(e *ast.Attr) error {
	if err := g.genAddr(e); err != nil {
		return err
	}

	g.loadIndirect(e.ResolvedType(), "r0", "r0")

	return nil
}

// genIndexAddr computes the element address of base[idx] into r0: array
// indexing is base-relative (no bounds check, per §4.4 "Non-goals"),
// pointer indexing dereferences first.
func (g *Generator) genIndexAddr(e *ast.Index) error {
	baseType := e.Base.ResolvedType()

	var elemType *ast.Type
	if baseType.Tag == ast.TArray || baseType.Tag == ast.TPtr {
		elemType = baseType.Elem
	} else {
		elemType = ast.Int32
	}

	if baseType.Tag == ast.TArray {
		if err := g.genAddr(e.Base); err != nil {
			return err
		}
	} else {
		if err := g.genExpr(e.Base); err != nil {
			return err
		}
	}

	g.e.instr("push {r0}")

	if err := g.genExpr(e.Idx); err != nil {
		return err
	}

	g.e.instr("mov r1, r0")
	g.e.instr("pop {r0}")

	shift := shiftForSize(elemType.Size())
	if shift > 0 {
		g.e.instr("lsls r1, r1, #%d", shift)
	}

	g.e.instr("adds r0, r0, r1")

	return nil
}

func shiftForSize(n int) int {
	switch n {
	case 1:
		return 0
	case 2:
		return 1
	case 4:
		return 2
	case 8:
		return 3
	default:
		return 0
	}
}

func (g *Generator) genIndexLoad(e *ast.Index) error {
	if err := g.genIndexAddr(e); err != nil {
		return err
	}

	g.loadIndirect(e.ResolvedType(), "r0", "r0")

	return nil
}

// genSlice lowers `s[a:b:c]` to `__pynux_slice(s, a, b, c)` (§4.4
// "Slicing"): missing bounds use the documented sentinels.
func (g *Generator) genSlice(e *ast.Slice) error {
	if err := g.genExpr(e.Base); err != nil {
		return err
	}
	g.e.instr("push {r0}")

	if err := g.genIntOrDefault(e.Start, 0); err != nil {
		return err
	}
	g.e.instr("push {r0}")

	if err := g.genIntOrDefault(e.Stop, -1); err != nil {
		return err
	}
	g.e.instr("push {r0}")

	if err := g.genIntOrDefault(e.Step, 1); err != nil {
		return err
	}
	g.e.instr("push {r0}")

	g.e.instr("pop {r3}")
	g.e.instr("pop {r2}")
	g.e.instr("pop {r1}")
	g.e.instr("pop {r0}")
	g.e.instr("bl __pynux_slice")

	return nil
}

func (g *Generator) genIntOrDefault(e ast.Expr, def int64) error {
	if e == nil {
		g.e.instr("ldr r0, =%d", def)
		return nil
	}

	return g.genExpr(e)
}

func (g *Generator) genUnaryOp(e *ast.UnaryOp) error {
	switch e.Op {
	case "not":
		if err := g.genExpr(e.Operand); err != nil {
			return err
		}
		g.e.instr("cmp r0, #0")
		g.e.instr("ite eq")
		g.e.instr("moveq r0, #1")
		g.e.instr("movne r0, #0")
		return nil

	case "-":
		if err := g.genExpr(e.Operand); err != nil {
			return err
		}
		g.e.instr("rsbs r0, r0, #0")
		return nil

	case "~":
		if err := g.genExpr(e.Operand); err != nil {
			return err
		}
		g.e.instr("mvns r0, r0")
		return nil

	default:
		return g.errorf(e.Span(), "internal: unhandled unary operator %q", e.Op)
	}
}

func (g *Generator) genDeref(e *ast.Deref) error {
	if err := g.genExpr(e.Operand); err != nil {
		return err
	}

	g.loadIndirect(e.ResolvedType(), "r0", "r0")

	return nil
}

func (g *Generator) genAddressOf(e *ast.AddressOf) error {
	return g.genAddr(e.Operand)
}

// genBinOp evaluates LHS then RHS, pops the LHS into r1, and emits the
// operator (§4.5 "Expression lowering"): `push LHS, eval RHS into r0, pop
// LHS into r1, operate`.
func (g *Generator) genBinOp(e *ast.BinOp) error {
	switch e.Op {
	case "and":
		return g.genShortCircuit(e, true)
	case "or":
		return g.genShortCircuit(e, false)
	case "in":
		return g.genMembership(e)
	}

	if err := g.genExpr(e.LHS); err != nil {
		return err
	}
	g.e.instr("push {r0}")

	if err := g.genExpr(e.RHS); err != nil {
		return err
	}
	g.e.instr("mov r1, r0")
	g.e.instr("pop {r0}")
	// Now r0 = LHS, r1 = RHS.

	switch e.Op {
	case "+":
		g.e.instr("adds r0, r0, r1")
	case "-":
		g.e.instr("subs r0, r0, r1")
	case "*":
		g.e.instr("muls r0, r1, r0")
	case "/":
		g.e.instr("bl __aeabi_idiv")
	case "//":
		if lhsUnsigned(e.LHS) {
			g.e.instr("bl __aeabi_uidivmod")
		} else {
			g.e.instr("bl __aeabi_idivmod")
		}
	case "%":
		if lhsUnsigned(e.LHS) {
			g.e.instr("bl __aeabi_uidivmod")
		} else {
			g.e.instr("bl __aeabi_idivmod")
		}
		g.e.instr("mov r0, r1")
	case "**":
		g.e.instr("bl __pynux_pow")
	case "&":
		g.e.instr("ands r0, r0, r1")
	case "|":
		g.e.instr("orrs r0, r0, r1")
	case "^":
		g.e.instr("eors r0, r0, r1")
	case "<<":
		g.e.instr("lsls r0, r0, r1")
	case ">>":
		if lhsUnsigned(e.LHS) {
			g.e.instr("lsrs r0, r0, r1")
		} else {
			g.e.instr("asrs r0, r0, r1")
		}
	case "==", "!=", "<", "<=", ">", ">=":
		g.genComparison(e.Op, lhsUnsigned(e.LHS))
	default:
		return g.errorf(e.Span(), "internal: unhandled binary operator %q", e.Op)
	}

	return nil
}

func lhsUnsigned(e ast.Expr) bool {
	t := e.ResolvedType()
	return t != nil && t.IsInteger() && !t.IsSigned()
}

// genComparison emits `cmp r0, r1` (LHS, RHS) followed by the matching
// conditional-move pair, selecting the signed or unsigned condition codes.
func (g *Generator) genComparison(op string, unsigned bool) {
	g.e.instr("cmp r0, r1")

	var cond, inv string
	switch op {
	case "==":
		cond, inv = "eq", "ne"
	case "!=":
		cond, inv = "ne", "eq"
	case "<":
		if unsigned {
			cond, inv = "lo", "hs"
		} else {
			cond, inv = "lt", "ge"
		}
	case "<=":
		if unsigned {
			cond, inv = "ls", "hi"
		} else {
			cond, inv = "le", "gt"
		}
	case ">":
		if unsigned {
			cond, inv = "hi", "ls"
		} else {
			cond, inv = "gt", "le"
		}
	case ">=":
		if unsigned {
			cond, inv = "hs", "lo"
		} else {
			cond, inv = "ge", "lt"
		}
	}

	g.e.instr("ite %s", cond)
	g.e.instr("mov%s r0, #1", cond)
	g.e.instr("mov%s r0, #0", inv)
}

// genShortCircuit lowers `and`/`or` without evaluating the RHS unless
// needed (Python truthiness on the short-circuit result itself is not
// modeled; both operands must already be bool per the checker).
func (g *Generator) genShortCircuit(e *ast.BinOp, isAnd bool) error {
	skip := g.e.newLabel()

	if err := g.genExpr(e.LHS); err != nil {
		return err
	}

	g.e.instr("cmp r0, #0")
	if isAnd {
		g.e.instr("beq %s", skip)
	} else {
		g.e.instr("bne %s", skip)
	}

	if err := g.genExpr(e.RHS); err != nil {
		return err
	}

	g.e.label(skip)

	return nil
}

func (g *Generator) genMembership(e *ast.BinOp) error {
	if err := g.genExpr(e.LHS); err != nil {
		return err
	}
	g.e.instr("push {r0}")

	if err := g.genExpr(e.RHS); err != nil {
		return err
	}
	g.e.instr("mov r1, r0")
	g.e.instr("pop {r0}")
	g.e.instr("bl __pynux_in")

	return nil
}

func (g *Generator) genTernary(e *ast.Ternary) error {
	elseLabel := g.e.newLabel()
	endLabel := g.e.newLabel()

	if err := g.genExpr(e.Cond); err != nil {
		return err
	}

	g.e.instr("cmp r0, #0")
	g.e.instr("beq %s", elseLabel)

	if err := g.genExpr(e.Then); err != nil {
		return err
	}
	g.e.instr("b %s", endLabel)

	g.e.label(elseLabel)
	if err := g.genExpr(e.Else); err != nil {
		return err
	}

	g.e.label(endLabel)

	return nil
}

func (g *Generator) genCast(e *ast.Cast) error {
	if e.Target.IsFloat() {
		return g.errorf(e.Span(), "floating-point arithmetic is not supported on this target")
	}

	if err := g.genExpr(e.Operand); err != nil {
		return err
	}

	switch e.Target.Size() {
	case 1:
		if e.Target.IsSigned() {
			g.e.instr("sxtb r0, r0")
		} else {
			g.e.instr("uxtb r0, r0")
		}
	case 2:
		if e.Target.IsSigned() {
			g.e.instr("sxth r0, r0")
		} else {
			g.e.instr("uxth r0, r0")
		}
	}

	return nil
}

// genFString lowers an f-string used as a general expression into the same
// fragment-by-fragment print sequence print() uses, leaving r0 holding the
// address of the last literal fragment (or of an interned empty string
// when there is none) as a harmless placeholder value
// (f-strings have no runtime string-buffer representation in this target).
func (g *Generator) genFString(e *ast.FString) error {
	var last string

	for _, part := range e.Parts {
		if part.Expr == nil {
			last = g.e.internString(part.Literal)
			g.e.instr("ldr r0, =%s", last)
			g.e.instr("bl print_str")
			continue
		}

		if err := g.genExpr(part.Expr); err != nil {
			return err
		}

		if err := g.emitPrintForType(part.Expr.ResolvedType()); err != nil {
			return err
		}
	}

	if last == "" {
		last = g.e.internString("")
	}
	g.e.instr("ldr r0, =%s", last)

	return nil
}

func (g *Generator) emitPrintForType(t *ast.Type) error {
	if t == nil {
		g.e.instr("bl print_int")
		return nil
	}

	switch {
	case t.IsPointerLike():
		g.e.instr("bl print_str")
	case t.IsInteger(), t.Tag == ast.TBool, t.Tag == ast.TChar:
		g.e.instr("bl print_int")
	default:
		return fmt.Errorf("internal: no print form for type %s", t)
	}

	return nil
}

func (g *Generator) genLambdaRef(e *ast.Lambda) error {
	name := g.nextLambdaName()
	g.pendingLambda = append(g.pendingLambda, pendingLambda{name: name, lit: e})
	g.e.instr("ldr r0, =%s", name)
	return nil
}
