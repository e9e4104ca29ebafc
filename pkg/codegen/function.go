package codegen

import (
	"github.com/ruapotato/Pynux/pkg/ast"
)

// genFunction emits one function's prologue, body, and epilogue (§4.5
// "ABI the generator must respect" / "Stack frame layout").
func (g *Generator) genFunction(fn *ast.FunctionDef) error {
	g.e.startFunction(fn.Name)
	g.e.directive(".global %s", fn.Name)
	g.e.directive(".type %s, %%function", fn.Name)
	g.e.label(fn.Name)

	interrupt := fn.HasDecorator("interrupt")

	prevFrame := g.curFrameSize
	g.curFrameSize = fn.FrameSize

	g.genPrologue(fn, interrupt)

	for _, s := range fn.Body {
		if err := g.genStmt(s); err != nil {
			g.curFrameSize = prevFrame
			return err
		}
	}

	g.genEpilogue(fn, interrupt)

	g.curFrameSize = prevFrame

	return nil
}

// genPrologue pushes callee-saved registers and `lr`, sets `r7` as the
// frame pointer, reserves the local frame below it, and copies incoming
// register arguments (r0-r3), then any arguments the caller left on its
// stack, into their local slots. Every local/param access goes
// through `r7` rather than `sp` (§4.5 "Local storage") so that transient
// `push`/`pop` pairs elsewhere in a function's body never shift a local's
// address — only `sp` moves, `r7` stays fixed for the function's duration.
func (g *Generator) genPrologue(fn *ast.FunctionDef, interrupt bool) {
	if interrupt {
		g.e.comment("interrupt prologue: save working registers")
		g.e.instr("push {r0-r3, r7, r12, lr}")
	} else {
		g.e.instr("push {r4-r7, lr}")
	}

	g.e.instr("mov r7, sp")

	if fn.FrameSize > 0 {
		g.e.instr("sub sp, sp, #%d", fn.FrameSize)
	}

	// Bytes pushed above the caller's stack arguments: arg[4] sits right
	// above the saved registers, at [r7, #saved].
	saved := 20 // r4-r7, lr
	if interrupt {
		saved = 28 // r0-r3, r7, r12, lr
	}

	off := 0
	for i, p := range fn.Params {
		if i < 4 {
			g.storeLocal(p.Type, "r"+string(rune('0'+i)), off)
		} else {
			g.e.instr("ldr r0, [r7, #%d]", saved+(i-4)*4)
			g.storeLocal(p.Type, "r0", off)
		}
		off += alignSize(p.Type.Size())
	}
}

// alignSize mirrors pkg/check's funcScope.declare slot rounding: every
// local/param gets a 4-byte-aligned stack slot regardless of its load/store
// width (§4.5 "Local storage").
func alignSize(n int) int {
	if n <= 0 {
		n = 1
	}

	return (n + 3) &^ 3
}

// genEpilogue restores the stack and returns. Interrupt handlers use the
// exception-return form; ordinary functions pop `pc` directly.
func (g *Generator) genEpilogue(fn *ast.FunctionDef, interrupt bool) {
	label := ".L" + fn.Name + "_epilogue"
	g.e.label(label)

	g.e.instr("mov sp, r7")

	if interrupt {
		g.e.instr("pop {r0-r3, r7, r12, lr}")
		g.e.instr("bx lr")
	} else {
		g.e.instr("pop {r4-r7, pc}")
	}
}

// frameOffset translates a checker-assigned local/param offset (counted up
// from 0 at the first declared name) into its signed displacement from the
// frame pointer `r7`, which sits just above the whole local area.
func (g *Generator) frameOffset(off int) int {
	return off - g.curFrameSize
}

func (g *Generator) localAddr(reg string, off int) {
	d := g.frameOffset(off)
	if d >= 0 {
		g.e.instr("add %s, r7, #%d", reg, d)
	} else {
		g.e.instr("sub %s, r7, #%d", reg, -d)
	}
}

// storeLocal writes register reg into the local/param slot at off, using
// the load/store form matching t's size (§4.5 "Local storage": "Byte-sized
// locals use ldrb/strb, halfword strh").
func (g *Generator) storeLocal(t *ast.Type, reg string, off int) {
	d := g.frameOffset(off)

	switch t.Size() {
	case 1:
		g.e.instr("strb %s, [r7, #%d]", reg, d)
	case 2:
		g.e.instr("strh %s, [r7, #%d]", reg, d)
	default:
		g.e.instr("str %s, [r7, #%d]", reg, d)
	}
}

func (g *Generator) loadLocal(t *ast.Type, reg string, off int) {
	d := g.frameOffset(off)

	switch t.Size() {
	case 1:
		if t.IsSigned() {
			g.e.instr("ldrsb %s, [r7, #%d]", reg, d)
		} else {
			g.e.instr("ldrb %s, [r7, #%d]", reg, d)
		}
	case 2:
		if t.IsSigned() {
			g.e.instr("ldrsh %s, [r7, #%d]", reg, d)
		} else {
			g.e.instr("ldrh %s, [r7, #%d]", reg, d)
		}
	default:
		g.e.instr("ldr %s, [r7, #%d]", reg, d)
	}
}
