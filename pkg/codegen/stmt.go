package codegen

import (
	"fmt"

	"github.com/ruapotato/Pynux/pkg/ast"
)

func (g *Generator) genStmt(s ast.Stmt) error {
	switch s := s.(type) {
	case *ast.Assign:
		return g.genAssign(s)
	case *ast.AugAssign:
		return g.genAugAssign(s)
	case *ast.If:
		return g.genIf(s)
	case *ast.While:
		return g.genWhile(s)
	case *ast.ForRange:
		return g.genForRange(s)
	case *ast.ForIter:
		return g.genForIter(s)
	case *ast.Break:
		g.e.instr("b %s", g.e.currentLoop().breakLabel)
		return nil
	case *ast.Continue:
		g.e.instr("b %s", g.e.currentLoop().continueLabel)
		return nil
	case *ast.Return:
		return g.genReturn(s)
	case *ast.Raise:
		return g.genRaise(s)
	case *ast.Try:
		return g.genTry(s)
	case *ast.With:
		return g.genWith(s)
	case *ast.Match:
		return g.genMatch(s)
	case *ast.Asm:
		g.e.text.WriteString(s.Text)
		if len(s.Text) == 0 || s.Text[len(s.Text)-1] != '\n' {
			g.e.text.WriteString("\n")
		}
		return nil
	case *ast.Pass:
		return nil
	case *ast.ExprStmt:
		if call, ok := s.Expr.(*ast.Call); ok && call.Intrinsic == "" {
			return g.genCallStmt(call)
		}
		return g.genExpr(s.Expr)
	case *ast.Global:
		return nil
	default:
		return g.errorf(s.Span(), "internal: unhandled statement node %T", s)
	}
}

// genCallStmt emits a call whose value is discarded; identical to genCall
// since nothing needs to preserve r0 afterward.
func (g *Generator) genCallStmt(call *ast.Call) error {
	return g.genCall(call)
}

// genAssign stores the evaluated value into Target's storage. A struct
// literal value is special-cased: fields are stored directly into the
// target's slot instead of materializing a standalone aggregate value
// (§4.5: aggregates never pass through r0 as a whole).
func (g *Generator) genAssign(s *ast.Assign) error {
	if lit, ok := s.Value.(*ast.StructLit); ok {
		return g.genStructLitInto(s.Target, lit)
	}

	if err := g.genExpr(s.Value); err != nil {
		return err
	}

	return g.genStoreTo(s.Target)
}

// genStoreTo stores r0 into Target's storage.
func (g *Generator) genStoreTo(target ast.Expr) error {
	switch t := target.(type) {
	case *ast.Ident:
		b := t.Binding
		if b == nil {
			return g.errorf(t.Span(), "internal: assignment target %q has no binding", t.Name)
		}

		switch b.Kind {
		case ast.BindLocal, ast.BindParam:
			g.storeLocal(t.ResolvedType(), "r0", b.Offset)
			return nil
		case ast.BindGlobal:
			g.e.instr("mov r1, r0")
			g.e.instr("ldr r0, =%s", b.Symbol)
			g.storeIndirect(t.ResolvedType(), "r1", "r0")
			return nil
		default:
			return g.errorf(t.Span(), "cannot assign to %q", t.Name)
		}

	case *ast.Attr:
		g.e.instr("push {r0}")
		if err := g.genAddr(t); err != nil {
			return err
		}
		g.e.instr("mov r1, r0")
		g.e.instr("pop {r0}")
		g.storeIndirect(t.ResolvedType(), "r0", "r1")
		return nil

	case *ast.Index:
		g.e.instr("push {r0}")
		if err := g.genIndexAddr(t); err != nil {
			return err
		}
		g.e.instr("mov r1, r0")
		g.e.instr("pop {r0}")
		g.storeIndirect(t.ResolvedType(), "r0", "r1")
		return nil

	case *ast.Deref:
		g.e.instr("push {r0}")
		if err := g.genExpr(t.Operand); err != nil {
			return err
		}
		g.e.instr("mov r1, r0")
		g.e.instr("pop {r0}")
		g.storeIndirect(t.ResolvedType(), "r0", "r1")
		return nil

	default:
		return g.errorf(target.Span(), "internal: unsupported assignment target %T", target)
	}
}

// genStructLitInto stores each field of lit directly into target's slot,
// field by field, rather than building a temporary struct value.
func (g *Generator) genStructLitInto(target ast.Expr, lit *ast.StructLit) error {
	if err := g.genAddr(target); err != nil {
		return err
	}
	g.e.instr("push {r0}")

	for _, f := range lit.Fields {
		fieldType, offset := structField(lit.Type, f.Name)

		if err := g.genExpr(f.Value); err != nil {
			return err
		}

		g.e.instr("mov r1, r0")
		g.e.instr("ldr r0, [sp]")
		if offset != 0 {
			g.e.instr("adds r0, r0, #%d", offset)
		}
		g.storeIndirect(fieldType, "r1", "r0")
	}

	g.e.instr("add sp, sp, #4")

	return nil
}

func structField(t *ast.Type, name string) (*ast.Type, int) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f.Type, f.Offset
		}
	}

	return ast.Int32, 0
}

// genAugAssign lowers `target op= value` to a plain load-op-store; pointer
// `+=`/`-=` with an integer RHS scales the RHS by the pointee size exactly
// as ordinary pointer arithmetic does.
func (g *Generator) genAugAssign(s *ast.AugAssign) error {
	bin := ast.NewBinOp(s.Span(), s.Op, s.Target, s.Value)
	ast.SetType(bin, s.Target.ResolvedType())

	if err := g.genExpr(bin); err != nil {
		return err
	}

	return g.genStoreTo(s.Target)
}

func (g *Generator) genIf(s *ast.If) error {
	endLabel := g.e.newLabel()

	if err := g.genCondBranchChain(s.Cond, s.Then, endLabel); err != nil {
		return err
	}

	for _, arm := range s.ElifArms {
		if err := g.genCondBranchChain(arm.Cond, arm.Body, endLabel); err != nil {
			return err
		}
	}

	if s.Else != nil {
		for _, st := range s.Else {
			if err := g.genStmt(st); err != nil {
				return err
			}
		}
	}

	g.e.label(endLabel)

	return nil
}

// genCondBranchChain emits one `if cond: body` arm of an if/elif chain: on
// a false condition it falls through to the next arm (the caller's next
// call), on a true condition it runs body and jumps to endLabel.
func (g *Generator) genCondBranchChain(cond ast.Expr, body []ast.Stmt, endLabel string) error {
	next := g.e.newLabel()

	if err := g.genExpr(cond); err != nil {
		return err
	}

	g.e.instr("cmp r0, #0")
	g.e.instr("beq %s", next)

	for _, st := range body {
		if err := g.genStmt(st); err != nil {
			return err
		}
	}

	g.e.instr("b %s", endLabel)
	g.e.label(next)

	return nil
}

func (g *Generator) genWhile(s *ast.While) error {
	top := g.e.newLabel()
	end := g.e.newLabel()

	g.e.label(top)

	if err := g.genExpr(s.Cond); err != nil {
		return err
	}
	g.e.instr("cmp r0, #0")
	g.e.instr("beq %s", end)

	g.e.pushLoop(end, top)

	for _, st := range s.Body {
		if err := g.genStmt(st); err != nil {
			g.e.popLoop()
			return err
		}
	}

	g.e.popLoop()

	g.e.instr("b %s", top)
	g.e.label(end)

	return nil
}

// genForRange lowers the desugared `for i in range(start, stop, step)`
// form directly (§4.4): the loop variable lives at VarOffset, assigned by
// the checker.
func (g *Generator) genForRange(s *ast.ForRange) error {
	top := g.e.newLabel()
	end := g.e.newLabel()
	cont := g.e.newLabel()

	if err := g.genExpr(s.Start); err != nil {
		return err
	}
	g.storeLocal(ast.Int32, "r0", s.VarOffset)

	g.e.label(top)
	g.loadLocal(ast.Int32, "r0", s.VarOffset)
	g.e.instr("push {r0}")

	if err := g.genExpr(s.Stop); err != nil {
		return err
	}
	g.e.instr("mov r1, r0")
	g.e.instr("pop {r0}")

	stepPositive := isNonNegativeConst(s.Step)
	g.e.instr("cmp r0, r1")
	if stepPositive {
		g.e.instr("bge %s", end)
	} else {
		g.e.instr("ble %s", end)
	}

	g.e.pushLoop(end, cont)

	for _, st := range s.Body {
		if err := g.genStmt(st); err != nil {
			g.e.popLoop()
			return err
		}
	}

	g.e.popLoop()

	g.e.label(cont)
	g.loadLocal(ast.Int32, "r0", s.VarOffset)
	g.e.instr("push {r0}")
	if err := g.genExpr(s.Step); err != nil {
		return err
	}
	g.e.instr("mov r1, r0")
	g.e.instr("pop {r0}")
	g.e.instr("adds r0, r0, r1")
	g.storeLocal(ast.Int32, "r0", s.VarOffset)
	g.e.instr("b %s", top)

	g.e.label(end)

	return nil
}

func isNonNegativeConst(e ast.Expr) bool {
	if lit, ok := e.(*ast.IntLit); ok {
		return lit.Value >= 0
	}

	return true
}

// genForIter lowers `for x in iterable: body` over a string, the only
// iterable the checker accepts outside `range(...)` (§4.4): walks bytes via
// a running pointer until the NUL terminator. The running pointer is kept
// in a dedicated `.bss` scratch slot (one per static nesting depth) rather
// than in the function's frame.
func (g *Generator) genForIter(s *ast.ForIter) error {
	ident, ok := findIdentBinding(s)
	if !ok {
		return g.errorf(s.Span(), "internal: for-iter loop variable %q has no binding", s.Var)
	}

	depth := g.forIterDepth
	g.forIterDepth++
	defer func() { g.forIterDepth-- }()

	slot := fmt.Sprintf("__pynux_iter_ptr_%d", depth)
	if depth >= g.iterSlotsEmitted {
		g.e.bss.WriteString(slot + ":\n\t.space 4\n")
		g.iterSlotsEmitted++
	}

	top := g.e.newLabel()
	end := g.e.newLabel()
	cont := g.e.newLabel()

	if err := g.genExpr(s.Iter); err != nil {
		return err
	}
	g.e.instr("ldr r1, =%s", slot)
	g.e.instr("str r0, [r1]")

	g.e.label(top)
	g.e.instr("ldr r1, =%s", slot)
	g.e.instr("ldr r0, [r1]")
	g.e.instr("ldrb r1, [r0]")
	g.e.instr("cmp r1, #0")
	g.e.instr("beq %s", end)
	g.storeLocal(ast.Char, "r1", ident.Offset)

	g.e.pushLoop(end, cont)

	for _, st := range s.Body {
		if err := g.genStmt(st); err != nil {
			g.e.popLoop()
			return err
		}
	}

	g.e.popLoop()

	g.e.label(cont)
	g.e.instr("ldr r1, =%s", slot)
	g.e.instr("ldr r0, [r1]")
	g.e.instr("adds r0, r0, #1")
	g.e.instr("str r0, [r1]")
	g.e.instr("b %s", top)

	g.e.label(end)

	return nil
}

// findIdentBinding recovers the checker-assigned binding of a ForIter's
// loop variable by scanning its first reference in the body; ForIter,
// unlike ForRange, has no dedicated offset field since the checker treats
// the loop variable like any other locally-declared name.
func findIdentBinding(s *ast.ForIter) (*ast.Binding, bool) {
	var found *ast.Binding

	var walkExpr func(ast.Expr) bool
	walkExpr = func(e ast.Expr) bool {
		if e == nil {
			return false
		}
		if ident, ok := e.(*ast.Ident); ok && ident.Name == s.Var && ident.Binding != nil {
			found = ident.Binding
			return true
		}
		return false
	}

	var walkStmts func([]ast.Stmt) bool
	walkStmts = func(body []ast.Stmt) bool {
		for _, st := range body {
			switch st := st.(type) {
			case *ast.ExprStmt:
				if walkExprTree(st.Expr, walkExpr) {
					return true
				}
			case *ast.Assign:
				if walkExprTree(st.Target, walkExpr) || walkExprTree(st.Value, walkExpr) {
					return true
				}
			case *ast.If:
				if walkStmts(st.Then) || walkStmts(st.Else) {
					return true
				}
				for _, a := range st.ElifArms {
					if walkStmts(a.Body) {
						return true
					}
				}
			case *ast.While:
				if walkStmts(st.Body) {
					return true
				}
			}
		}
		return false
	}

	walkStmts(s.Body)

	if found == nil {
		return nil, false
	}

	return found, true
}

// walkExprTree performs a shallow pre-order search for the first Ident
// matching visit's criterion, recursing into the common composite shapes.
func walkExprTree(e ast.Expr, visit func(ast.Expr) bool) bool {
	if e == nil {
		return false
	}
	if visit(e) {
		return true
	}

	switch e := e.(type) {
	case *ast.BinOp:
		return walkExprTree(e.LHS, visit) || walkExprTree(e.RHS, visit)
	case *ast.UnaryOp:
		return walkExprTree(e.Operand, visit)
	case *ast.Call:
		for _, a := range e.Args {
			if walkExprTree(a, visit) {
				return true
			}
		}
	case *ast.Attr:
		return walkExprTree(e.Base, visit)
	case *ast.Index:
		return walkExprTree(e.Base, visit) || walkExprTree(e.Idx, visit)
	}

	return false
}

func (g *Generator) genReturn(s *ast.Return) error {
	if s.Value != nil {
		if err := g.genExpr(s.Value); err != nil {
			return err
		}
	}

	g.e.instr("b .L%s_epilogue", g.e.fnName)

	return nil
}

// genRaise lowers `raise` to the runtime's print-and-halt stub (§9 "Open
// questions": raises inside a handled try are rejected at check time, so
// only unhandled raises reach codegen).
func (g *Generator) genRaise(s *ast.Raise) error {
	if s.Exc != nil {
		if err := g.genExpr(s.Exc); err != nil {
			return err
		}
	} else {
		g.e.instr("movs r0, #0")
	}

	g.e.instr("bl __pynux_raise")

	return nil
}

// genTry emits the try body and, since the checker already rejected any
// body that could actually raise, runs handlers as dead code (kept for
// completeness of the block layout per §4.4) followed unconditionally by
// finally.
func (g *Generator) genTry(s *ast.Try) error {
	for _, st := range s.Body {
		if err := g.genStmt(st); err != nil {
			return err
		}
	}

	for _, st := range s.Else {
		if err := g.genStmt(st); err != nil {
			return err
		}
	}

	end := g.e.newLabel()
	g.e.instr("b %s", end)

	for _, h := range s.Handlers {
		g.e.label(g.e.newLabel())
		for _, st := range h.Body {
			if err := g.genStmt(st); err != nil {
				return err
			}
		}
	}

	g.e.label(end)

	for _, st := range s.Finally {
		if err := g.genStmt(st); err != nil {
			return err
		}
	}

	return nil
}

// genWith lowers `with ctx as name: body` to the documented desugaring
// (§4.4): `name = __pynux_context_enter(ctx); try: body; finally:
// __pynux_context_exit(ctx)`.
func (g *Generator) genWith(s *ast.With) error {
	depth := g.withDepth
	g.withDepth++
	defer func() { g.withDepth-- }()

	slot := fmt.Sprintf("__pynux_with_ctx_%d", depth)
	if depth >= g.withSlotsEmitted {
		g.e.bss.WriteString(slot + ":\n\t.space 4\n")
		g.withSlotsEmitted++
	}

	if err := g.genExpr(s.Ctx); err != nil {
		return err
	}
	g.e.instr("ldr r1, =%s", slot)
	g.e.instr("str r0, [r1]")
	g.e.instr("bl __pynux_context_enter")

	if s.AsName != "" {
		if b, ok := findWithBinding(s); ok {
			g.storeLocal(ast.PtrTo(ast.Void), "r0", b.Offset)
		}
	}

	for _, st := range s.Body {
		if err := g.genStmt(st); err != nil {
			return err
		}
	}

	g.e.instr("ldr r1, =%s", slot)
	g.e.instr("ldr r0, [r1]")
	g.e.instr("bl __pynux_context_exit")

	return nil
}

func findWithBinding(s *ast.With) (*ast.Binding, bool) {
	var found *ast.Binding
	visit := func(e ast.Expr) bool {
		if ident, ok := e.(*ast.Ident); ok && ident.Name == s.AsName && ident.Binding != nil {
			found = ident.Binding
			return true
		}
		return false
	}

	for _, st := range s.Body {
		if es, ok := st.(*ast.ExprStmt); ok && walkExprTree(es.Expr, visit) {
			return found, true
		}
	}

	return nil, false
}

// genMatch lowers `match scrutinee: case ...` to an if/elif chain (§4.4
// "match"): the scrutinee is evaluated once into a `.bss` scratch slot,
// `__pynux_match_val_<depth>`, one per static nesting depth.
func (g *Generator) genMatch(s *ast.Match) error {
	depth := g.matchDepth
	g.matchDepth++
	defer func() { g.matchDepth-- }()

	slot := fmt.Sprintf("__pynux_match_val_%d", depth)
	if depth >= g.matchSlotsEmitted {
		g.e.bss.WriteString(slot + ":\n\t.space 4\n")
		g.matchSlotsEmitted++
	}

	end := g.e.newLabel()

	if err := g.genExpr(s.Scrutinee); err != nil {
		return err
	}
	g.e.instr("ldr r1, =%s", slot)
	g.e.instr("str r0, [r1]")

	for _, arm := range s.Arms {
		next := g.e.newLabel()

		if !arm.Wildcard && arm.Literal != nil {
			g.e.instr("ldr r1, =%s", slot)
			g.e.instr("ldr r0, [r1]")
			g.e.instr("push {r0}")
			if err := g.genExpr(arm.Literal); err != nil {
				return err
			}
			g.e.instr("mov r1, r0")
			g.e.instr("pop {r0}")
			g.e.instr("cmp r0, r1")
			g.e.instr("bne %s", next)
		}

		for _, st := range arm.Body {
			if err := g.genStmt(st); err != nil {
				return err
			}
		}

		g.e.instr("b %s", end)
		g.e.label(next)

		if arm.Wildcard {
			break
		}
	}

	g.e.label(end)

	return nil
}
