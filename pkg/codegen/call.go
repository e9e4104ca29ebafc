package codegen

import (
	"strings"

	"github.com/ruapotato/Pynux/pkg/ast"
)

// genCall lowers a function call per §4.5 (arguments evaluated left to
// right) and the §6 "open question" resolution (arguments beyond the
// fourth go on the stack in order, so arg[4] sits at [sp, #0]). Each
// argument is evaluated in source order into r0 and stored straight to its
// absolute slot in a reserved frame, so evaluation order never depends on
// how the slots are later split between registers and stack: the first
// four slots are then loaded into r0-r3 and dropped, leaving any remainder
// exactly where the callee expects it.
func (g *Generator) genCall(e *ast.Call) error {
	if e.Intrinsic != "" {
		return g.genIntrinsicCall(e)
	}

	n := len(e.Args)

	if n > 0 {
		g.e.instr("sub sp, sp, #%d", n*4)

		for i, arg := range e.Args {
			if err := g.genExpr(arg); err != nil {
				return err
			}
			g.e.instr("str r0, [sp, #%d]", i*4)
		}
	}

	regArgs := n
	if regArgs > 4 {
		regArgs = 4
	}

	regs := []string{"r0", "r1", "r2", "r3"}
	for i := 0; i < regArgs; i++ {
		g.e.instr("ldr %s, [sp, #%d]", regs[i], i*4)
	}

	switch {
	case n > 4:
		g.e.instr("add sp, sp, #16")
	case n > 0:
		g.e.instr("add sp, sp, #%d", n*4)
	}

	if err := g.genCallTarget(e.Fn); err != nil {
		return err
	}

	if n > 4 {
		g.e.instr("add sp, sp, #%d", (n-4)*4)
	}

	return nil
}

// genCallTarget emits the branch-and-link. A direct reference to a known
// function/extern uses `bl <symbol>`; anything else (a lambda value, a
// function-typed local) is evaluated to an address and called with `blx`.
func (g *Generator) genCallTarget(fn ast.Expr) error {
	if ident, ok := fn.(*ast.Ident); ok && ident.Binding != nil && ident.Binding.Kind == ast.BindFunction {
		g.e.instr("bl %s", ident.Binding.Symbol)
		return nil
	}

	g.e.instr("push {r0, r1, r2, r3}")
	if err := g.genExpr(fn); err != nil {
		return err
	}
	g.e.instr("mov r4, r0")
	g.e.instr("pop {r0, r1, r2, r3}")
	g.e.instr("blx r4")

	return nil
}

func (g *Generator) genIntrinsicCall(e *ast.Call) error {
	name := e.Intrinsic

	switch name {
	case "dmb", "dsb", "isb", "wfi", "wfe", "sev", "clrex":
		g.e.instr(name)
		return nil

	case "critical_enter":
		g.e.instr("cpsid i")
		return nil

	case "critical_exit":
		g.e.instr("cpsie i")
		return nil

	case "clz", "rbit", "rev", "rev16":
		if err := g.genExpr(e.Args[0]); err != nil {
			return err
		}
		g.e.instr("%s r0, r0", name)
		return nil

	case "len":
		if err := g.genExpr(e.Args[0]); err != nil {
			return err
		}
		g.e.instr("bl __pynux_strlen")
		return nil

	case "ord", "chr":
		if err := g.genExpr(e.Args[0]); err != nil {
			return err
		}
		g.e.instr("uxtb r0, r0")
		return nil

	case "abs":
		if err := g.genExpr(e.Args[0]); err != nil {
			return err
		}
		g.e.instr("asrs r1, r0, #31")
		g.e.instr("eors r0, r0, r1")
		g.e.instr("subs r0, r0, r1")
		return nil

	case "min", "max":
		return g.genMinMax(e, name == "min")

	case "print":
		return g.genPrint(e)

	case "input":
		return g.genInput(e)

	default:
		if strings.HasPrefix(name, "atomic_") {
			return g.genAtomic(e, name)
		}
		if strings.HasPrefix(name, "bit_") || strings.HasPrefix(name, "bits_") {
			return g.genBitOp(e, name)
		}

		return g.errorf(e.Span(), "internal: unhandled intrinsic %q", name)
	}
}

func (g *Generator) genMinMax(e *ast.Call, isMin bool) error {
	if err := g.genExpr(e.Args[0]); err != nil {
		return err
	}

	for _, arg := range e.Args[1:] {
		g.e.instr("push {r0}")
		if err := g.genExpr(arg); err != nil {
			return err
		}
		g.e.instr("mov r1, r0")
		g.e.instr("pop {r0}")
		// r0 = running result, r1 = candidate.
		g.e.instr("cmp r1, r0")
		if isMin {
			g.e.instr("it lt")
			g.e.instr("movlt r0, r1")
		} else {
			g.e.instr("it gt")
			g.e.instr("movgt r0, r1")
		}
	}

	return nil
}

// genPrint lowers `print(...)` to a sequence of `print_str`/`print_int`
// calls (chosen from each argument's resolved type) followed by one
// `print_newline` (§6 external symbol table).
func (g *Generator) genPrint(e *ast.Call) error {
	for _, arg := range e.Args {
		if err := g.genExpr(arg); err != nil {
			return err
		}
		if err := g.emitPrintForType(arg.ResolvedType()); err != nil {
			return g.errorf(arg.Span(), "%s", err.Error())
		}
	}

	g.e.instr("bl print_newline")
	g.e.instr("movs r0, #0")

	return nil
}

// genInput lowers `input()` to a call through a single static line buffer
// (§6: `__pynux_read_line | char*(char* buf)`), allocated once in `.bss` on
// first use.
func (g *Generator) genInput(e *ast.Call) error {
	if !g.inputBufEmitted {
		g.e.bss.WriteString("__pynux_input_buf:\n\t.space 128\n")
		g.inputBufEmitted = true
	}

	g.e.instr("ldr r0, =__pynux_input_buf")
	g.e.instr("bl __pynux_read_line")

	return nil
}

// genAtomic lowers the fixed atomic_* subset (§4.4 "Emitted code's
// concurrency model"): add/sub/or/and/xor load-modify-store and cas become
// ldrex/strex retry loops, load/store a single plain ldr/str. Any other
// atomic_* name is an error.
func (g *Generator) genAtomic(e *ast.Call, name string) error {
	op := strings.TrimPrefix(name, "atomic_")

	switch op {
	case "load":
		if err := g.genExpr(e.Args[0]); err != nil {
			return err
		}
		g.e.instr("ldr r0, [r0]")
		return nil

	case "store":
		if err := g.genExpr(e.Args[0]); err != nil {
			return err
		}
		g.e.instr("push {r0}")
		if err := g.genExpr(e.Args[1]); err != nil {
			return err
		}
		g.e.instr("mov r1, r0")
		g.e.instr("pop {r0}")
		g.e.instr("str r1, [r0]")
		return nil

	case "cas":
		if err := g.genExpr(e.Args[0]); err != nil {
			return err
		}
		g.e.instr("push {r0}")
		if err := g.genExpr(e.Args[1]); err != nil {
			return err
		}
		g.e.instr("push {r0}")
		if err := g.genExpr(e.Args[2]); err != nil {
			return err
		}
		g.e.instr("mov r3, r0")
		g.e.instr("pop {r2}")
		g.e.instr("pop {r0}")
		retry := g.e.newLabel()
		done := g.e.newLabel()
		g.e.label(retry)
		g.e.instr("ldrex r1, [r0]")
		g.e.instr("cmp r1, r2")
		g.e.instr("bne %s", done)
		g.e.instr("strex r4, r3, [r0]")
		g.e.instr("cmp r4, #0")
		g.e.instr("bne %s", retry)
		g.e.label(done)
		g.e.instr("mov r0, r1")
		return nil

	case "add", "sub", "or", "and", "xor":
		if err := g.genExpr(e.Args[0]); err != nil {
			return err
		}
		g.e.instr("push {r0}")
		if err := g.genExpr(e.Args[1]); err != nil {
			return err
		}
		g.e.instr("mov r2, r0")
		g.e.instr("pop {r0}")

		retry := g.e.newLabel()
		g.e.label(retry)
		g.e.instr("ldrex r1, [r0]")
		g.e.instr("%s r3, r1, r2", atomicAluOp(op))
		g.e.instr("strex r4, r3, [r0]")
		g.e.instr("cmp r4, #0")
		g.e.instr("bne %s", retry)
		g.e.instr("mov r0, r1")
		return nil

	default:
		return g.errorf(e.Span(), "unsupported atomic operation %q", name)
	}
}

func atomicAluOp(op string) string {
	switch op {
	case "add":
		return "add"
	case "sub":
		return "sub"
	case "or":
		return "orr"
	case "and":
		return "and"
	case "xor":
		return "eor"
	default:
		return "add"
	}
}

// genBitOp lowers the fixed bit_*/bits_* subset: single-bit set/clear
// /toggle/test on a pointed-to word, and multi-bit extract (bits_extract) on
// a bare integer value. Any other bit_*/bits_* name is an error.
func (g *Generator) genBitOp(e *ast.Call, name string) error {
	switch name {
	case "bit_set", "bit_clear", "bit_toggle":
		if err := g.genExpr(e.Args[0]); err != nil {
			return err
		}
		g.e.instr("push {r0}")
		if err := g.genExpr(e.Args[1]); err != nil {
			return err
		}
		g.e.instr("movs r2, #1")
		g.e.instr("lsls r2, r2, r0")
		g.e.instr("pop {r0}")
		g.e.instr("ldr r1, [r0]")

		switch name {
		case "bit_set":
			g.e.instr("orrs r1, r1, r2")
		case "bit_clear":
			g.e.instr("bics r1, r1, r2")
		case "bit_toggle":
			g.e.instr("eors r1, r1, r2")
		}

		g.e.instr("str r1, [r0]")
		g.e.instr("mov r0, r1")
		return nil

	case "bit_test":
		if err := g.genExpr(e.Args[0]); err != nil {
			return err
		}
		g.e.instr("push {r0}")
		if err := g.genExpr(e.Args[1]); err != nil {
			return err
		}
		g.e.instr("pop {r1}")
		g.e.instr("ldr r1, [r1]")
		g.e.instr("lsrs r1, r1, r0")
		g.e.instr("movs r0, #1")
		g.e.instr("ands r0, r0, r1")
		return nil

	case "bits_extract":
		if err := g.genExpr(e.Args[0]); err != nil {
			return err
		}
		g.e.instr("push {r0}")
		if err := g.genExpr(e.Args[1]); err != nil {
			return err
		}
		g.e.instr("push {r0}")
		if err := g.genExpr(e.Args[2]); err != nil {
			return err
		}
		g.e.instr("mov r2, r0")
		g.e.instr("pop {r1}")
		g.e.instr("pop {r0}")
		// r0 = value, r1 = start, r2 = len
		g.e.instr("lsrs r0, r0, r1")
		g.e.instr("movs r3, #1")
		g.e.instr("lsls r3, r3, r2")
		g.e.instr("subs r3, r3, #1")
		g.e.instr("ands r0, r0, r3")
		return nil

	default:
		return g.errorf(e.Span(), "unsupported bit operation %q", name)
	}
}
