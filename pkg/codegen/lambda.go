package codegen

import "github.com/ruapotato/Pynux/pkg/ast"

// genLambdaBody emits the synthetic top-level function backing one lambda
// literal (§4.5: closures have no runtime representation, a lambda
// compiles exactly like an ordinary function). Its frame holds only the
// parameters the checker declared (pkg/check's checkLambda), offset from
// 0 in declaration order exactly as an ordinary function's do.
func (g *Generator) genLambdaBody(pl pendingLambda) error {
	frameSize := 0
	for _, p := range pl.lit.Params {
		frameSize += alignSize(p.Type.Size())
	}

	fn := &ast.FunctionDef{
		Name:      pl.name,
		Params:    pl.lit.Params,
		FrameSize: frameSize,
	}

	g.e.startFunction(fn.Name)
	g.e.directive(".global %s", fn.Name)
	g.e.directive(".type %s, %%function", fn.Name)
	g.e.label(fn.Name)

	prevFrame := g.curFrameSize
	g.curFrameSize = frameSize

	g.genPrologue(fn, false)

	if err := g.genExpr(pl.lit.Body); err != nil {
		g.curFrameSize = prevFrame
		return err
	}

	g.genEpilogue(fn, false)

	g.curFrameSize = prevFrame

	return nil
}
