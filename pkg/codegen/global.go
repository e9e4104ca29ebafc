package codegen

import (
	"fmt"
	"strings"

	"github.com/ruapotato/Pynux/pkg/ast"
)

func (g *Generator) genGlobalVar(gv *ast.GlobalVar) error {
	label := gv.Label
	if label == "" {
		label = gv.Name
	}

	g.e.directive(".global %s", label)

	constInit := gv.Init != nil && isConstExpr(gv.Init)

	var word int64

	if constInit {
		w, err := constWord(gv.Init)
		if err != nil {
			return g.errorf(gv.Init.Span(), "%s", err.Error())
		}

		word = w
	}

	// Uninitialized, zero-initialized and non-constant globals all take a
	// zeroed `.bss` slot; only the non-constant ones need __init_<unit>.
	if !constInit || word == 0 {
		g.e.bss.WriteString(fmt.Sprintf("%s:\n\t.space %d\n", label, gv.Type.Size()))

		if gv.Init != nil && !constInit {
			g.initStmts = append(g.initStmts, gv)
		}

		return nil
	}

	switch gv.Type.Size() {
	case 1:
		fmt.Fprintf(&g.e.data, "%s:\n\t.byte %d\n", label, word)
	case 2:
		fmt.Fprintf(&g.e.data, "%s:\n\t.hword %d\n", label, word)
	default:
		fmt.Fprintf(&g.e.data, "%s:\n\t.word %d\n", label, word)
	}

	return nil
}

// genInitFunction emits `__init_<unit>`, which runs every non-constant
// global initializer in declaration order (§4.5 "Global variables"). Only
// emitted when at least one such initializer exists.
func (g *Generator) genInitFunction() error {
	name := "__init_" + sanitizeUnitName(g.file.Name)

	g.e.startFunction(name)
	g.e.directive(".global %s", name)
	g.e.directive(".type %s, %%function", name)
	g.e.label(name)
	g.e.instr("push {lr}")

	for _, gv := range g.initStmts {
		if err := g.genExpr(gv.Init); err != nil {
			return err
		}

		label := gv.Label
		if label == "" {
			label = gv.Name
		}

		g.e.instr("mov r1, r0")
		g.e.instr("ldr r0, =%s", label)
		g.storeIndirect(gv.Type, "r1", "r0")
	}

	g.e.instr("pop {pc}")

	return nil
}

// sanitizeUnitName turns a source file name into a valid assembly symbol
// fragment: strip the directory and extension, replace anything outside
// [A-Za-z0-9_] with '_'.
func sanitizeUnitName(fileName string) string {
	base := fileName

	if idx := strings.LastIndexAny(base, "/\\"); idx >= 0 {
		base = base[idx+1:]
	}

	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}

	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	if b.Len() == 0 {
		return "unit"
	}

	return b.String()
}

// isConstExpr is the conservative compile-time-constant test the generator
// uses to decide `.data`-with-initializer vs `.bss`-plus-synthetic-init
// (§4.5 "Global variables"): only bare literals qualify.
func isConstExpr(e ast.Expr) bool {
	switch e.(type) {
	case *ast.IntLit, *ast.BoolLit, *ast.NoneLit:
		return true
	default:
		return false
	}
}

func constWord(e ast.Expr) (int64, error) {
	switch e := e.(type) {
	case *ast.IntLit:
		return e.Value, nil
	case *ast.BoolLit:
		if e.Value {
			return 1, nil
		}

		return 0, nil
	case *ast.NoneLit:
		return 0, nil
	default:
		return 0, fmt.Errorf("internal: non-constant initializer reached constWord")
	}
}
