package check

import "github.com/ruapotato/Pynux/pkg/ast"

// checkFunction type-checks one function body: parameters become locals
// at offset 0 upward, statements are checked in order, and the final
// frame size (rounded to §4.5's 8-byte stack alignment) is written back
// onto the FunctionDef for the generator.
func (c *Checker) checkFunction(fn *ast.FunctionDef) error {
	prev := c.fs
	fs := newFuncScope(fn)
	c.fs = fs

	for i := range fn.Params {
		p := &fn.Params[i]

		resolved, err := c.resolveType(p.Type)
		if err != nil {
			c.fs = prev
			return err
		}

		p.Type = resolved
		fs.declare(p.Name, resolved, true)
	}

	retType, err := c.resolveType(fn.RetType)
	if err != nil {
		c.fs = prev
		return err
	}

	fn.RetType = retType

	for _, s := range fn.Body {
		if err := c.checkStmt(s); err != nil {
			c.fs = prev
			return err
		}
	}

	if fn.RetType.Tag != ast.TVoid {
		if !stmtsGuaranteeReturn(fn.Body) {
			c.fs = prev
			return c.errorfSpan(fn.Span(), "function %q must return a value of type %s on every path", fn.Name, fn.RetType)
		}
	}

	frame := (fs.nextOffset + 7) &^ 7
	fn.FrameSize = frame

	c.fs = prev

	return nil
}

// stmtsGuaranteeReturn is a conservative, syntactic check (§4.4 "use of an
// uninitialized local (best-effort, syntactic)" sets the precedent for
// best-effort analysis elsewhere in the checker): it accepts a body as
// return-complete when its last statement is a Return, or an If whose
// every arm is itself return-complete, or a Raise (which never falls
// through).
func stmtsGuaranteeReturn(body []ast.Stmt) bool {
	if len(body) == 0 {
		return false
	}

	switch last := body[len(body)-1].(type) {
	case *ast.Return:
		return true
	case *ast.Raise:
		return true
	case *ast.If:
		if last.Else == nil {
			return false
		}

		if !stmtsGuaranteeReturn(last.Then) || !stmtsGuaranteeReturn(last.Else) {
			return false
		}

		for _, arm := range last.ElifArms {
			if !stmtsGuaranteeReturn(arm.Body) {
				return false
			}
		}

		return true
	case *ast.Match:
		hasWildcard := false

		for _, arm := range last.Arms {
			if !stmtsGuaranteeReturn(arm.Body) {
				return false
			}

			if arm.Wildcard {
				hasWildcard = true
			}
		}

		return hasWildcard
	case *ast.With:
		return stmtsGuaranteeReturn(last.Body)
	case *ast.Try:
		if !stmtsGuaranteeReturn(last.Body) {
			return false
		}

		for _, h := range last.Handlers {
			if !stmtsGuaranteeReturn(h.Body) {
				return false
			}
		}

		return true
	default:
		return false
	}
}
