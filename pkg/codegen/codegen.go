// Package codegen lowers a checked Pynux AST to GAS-syntax ARM Thumb-2
// assembly (spec §4.5). Grounded on the linear, single-pass instruction
// emission shape of go-corset's pkg/air "lowering to the arithmetisation
// layer" passes (one Go function per AST shape, writing directly to an
// output sink rather than building an intermediate instruction list),
// adapted here from constraint lowering to real machine code emission.
package codegen

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ruapotato/Pynux/pkg/ast"
	"github.com/ruapotato/Pynux/pkg/source"
)

// Generator consumes a checked declaration list and produces the unit's
// assembly text. Constructed fresh per compilation unit (§5).
type Generator struct {
	file *source.File
	log  *logrus.Entry
	e    *emitter

	lambdaCounter int
	pendingLambda []pendingLambda

	// initStmts holds globals with a non-constant initializer, run in
	// declaration order from a synthetic `__init_<unit>` function
	// (§4.5 "Global variables").
	initStmts []*ast.GlobalVar

	mainSeen        bool
	inputBufEmitted bool

	// Scratch-slot bookkeeping for constructs whose value must stay live
	// across a nested statement body (§4.5 "Local storage"): for-iter's
	// running pointer, with's context value, and match's scrutinee each get
	// a `.bss` slot keyed by their static nesting depth rather than a
	// frame slot.
	forIterDepth     int
	iterSlotsEmitted int
	withDepth        int
	withSlotsEmitted int
	matchDepth       int
	matchSlotsEmitted int

	// curFrameSize is the FrameSize of the function currently being
	// emitted, needed to translate a checker-assigned local offset into
	// its displacement from the frame pointer r7 (see frameOffset).
	curFrameSize int
}

type pendingLambda struct {
	name string
	lit  *ast.Lambda
}

// New constructs a Generator targeting target ("cortex-m3", "cortex-m0plus",
// or "cortex-m4"). log may be nil, in which case a discarding logger is
// used.
func New(file *source.File, target string, emitDebugComments bool, log *logrus.Logger) *Generator {
	if log == nil {
		log = logrus.New()
		log.SetOutput(discardWriter{})
	}

	return &Generator{
		file: file,
		log:  log.WithField("stage", "emit").WithField("file", file.Name),
		e:    newEmitter(target, emitDebugComments),
	}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// Generate emits the full translation unit and returns the assembly text
// (§4.5 "Contract").
func (g *Generator) Generate(decls []ast.Decl) (string, error) {
	var mainFn, kernelMainFn *ast.FunctionDef

	for _, d := range decls {
		if fn, ok := d.(*ast.FunctionDef); ok {
			switch fn.Name {
			case "main":
				mainFn = fn
			case "kernel_main":
				kernelMainFn = fn
			}
		}
	}

	for _, d := range decls {
		switch d := d.(type) {
		case *ast.GlobalVar:
			if err := g.genGlobalVar(d); err != nil {
				return "", err
			}
		case *ast.FunctionDef:
			if err := g.genFunction(d); err != nil {
				return "", err
			}
		case *ast.ClassDef:
			for _, m := range d.Methods {
				if err := g.genFunction(m); err != nil {
					return "", err
				}
			}
		}
	}

	for i := 0; i < len(g.pendingLambda); i++ {
		pl := g.pendingLambda[i]
		if err := g.genLambdaBody(pl); err != nil {
			return "", err
		}
	}

	if len(g.initStmts) > 0 {
		if err := g.genInitFunction(); err != nil {
			return "", err
		}
	}

	// Main entry point (§4.5 "Main entry point").
	if mainFn != nil {
		g.e.directive(".global main")
	} else if kernelMainFn != nil {
		g.e.directive(".global kernel_main")
	}

	g.log.WithField("strings", len(g.e.stringOrder)).Debug("emit complete")

	return g.e.output(), nil
}

func (g *Generator) errorf(span source.Span, format string, args ...interface{}) *Error {
	return &Error{
		File:    g.file.Name,
		Pos:     g.file.SpanPos(span),
		Message: fmt.Sprintf(format, args...),
	}
}

func (g *Generator) nextLambdaName() string {
	g.lambdaCounter++
	return fmt.Sprintf("__lambda_%d", g.lambdaCounter)
}
