package check

import "github.com/ruapotato/Pynux/pkg/ast"

// noArgIntrinsics take no arguments and produce no value — barrier and
// power-management instructions (§4.4 "Special call recognition").
var noArgIntrinsics = map[string]bool{
	"dmb": true, "dsb": true, "isb": true, "wfi": true, "wfe": true, "sev": true,
	"critical_enter": true, "critical_exit": true, "clrex": true,
}

// unaryIntIntrinsics take one integer argument and produce an integer
// result — single-instruction bit manipulation ops.
var unaryIntIntrinsics = map[string]bool{
	"clz": true, "rbit": true, "rev": true, "rev16": true,
}

func (c *Checker) checkCall(e *ast.Call) (*ast.Type, error) {
	if ident, ok := e.Fn.(*ast.Ident); ok && isIntrinsic(ident.Name) {
		return c.checkIntrinsicCall(e, ident.Name)
	}

	fnType, err := c.checkExpr(e.Fn)
	if err != nil {
		return nil, err
	}

	if fnType.Tag != ast.TFn {
		return nil, c.errorfSpan(e.Span(), "cannot call non-function type %s", fnType)
	}

	if len(e.Args) > len(fnType.Params) {
		return nil, c.errorfSpan(e.Span(), "too many arguments: expected %d, got %d", len(fnType.Params), len(e.Args))
	}

	for i, arg := range e.Args {
		argType, err := c.checkExpr(arg)
		if err != nil {
			return nil, err
		}

		if i < len(fnType.Params) && !c.assignable(argType, fnType.Params[i]) {
			return nil, c.errorfSpan(arg.Span(), "argument %d: cannot assign %s to parameter of type %s", i+1, argType, fnType.Params[i])
		}
	}

	if len(e.Args) < len(fnType.Params) {
		if ident, ok := e.Fn.(*ast.Ident); ok {
			if fn, ok := c.functions[ident.Name]; ok {
				for i := len(e.Args); i < len(fn.Params); i++ {
					if fn.Params[i].Default == nil {
						return nil, c.errorfSpan(e.Span(), "too few arguments: expected %d, got %d", len(fnType.Params), len(e.Args))
					}
				}
			} else {
				return nil, c.errorfSpan(e.Span(), "too few arguments: expected %d, got %d", len(fnType.Params), len(e.Args))
			}
		}
	}

	return fnType.Ret, nil
}

func (c *Checker) checkIntrinsicCall(e *ast.Call, name string) (*ast.Type, error) {
	e.Intrinsic = name

	for _, arg := range e.Args {
		if _, err := c.checkExpr(arg); err != nil {
			return nil, err
		}
	}

	switch {
	case name == "range":
		return nil, c.errorfSpan(e.Span(), "range() may only be used directly in a for ... in range(...) loop")

	case name == "print" || name == "input":
		return ast.PtrTo(ast.Char), nil

	case name == "len":
		if len(e.Args) != 1 {
			return nil, c.errorfSpan(e.Span(), "len() takes exactly one argument")
		}

		return ast.Uint32, nil

	case name == "ord":
		if len(e.Args) != 1 {
			return nil, c.errorfSpan(e.Span(), "ord() takes exactly one argument")
		}

		return ast.Int32, nil

	case name == "chr":
		if len(e.Args) != 1 {
			return nil, c.errorfSpan(e.Span(), "chr() takes exactly one argument")
		}

		return ast.Char, nil

	case name == "abs" || name == "min" || name == "max":
		if len(e.Args) == 0 {
			return nil, c.errorfSpan(e.Span(), "%s() takes at least one argument", name)
		}

		return returnFirstArgType(e), nil

	case noArgIntrinsics[name]:
		if len(e.Args) != 0 {
			return nil, c.errorfSpan(e.Span(), "%s() takes no arguments", name)
		}

		return ast.Void, nil

	case unaryIntIntrinsics[name]:
		if len(e.Args) != 1 {
			return nil, c.errorfSpan(e.Span(), "%s() takes exactly one argument", name)
		}

		return ast.Int32, nil

	case isIntrinsicPrefixed(name, "atomic_"), isIntrinsicPrefixed(name, "bit_"), isIntrinsicPrefixed(name, "bits_"):
		return ast.Int32, nil

	default:
		return ast.Void, nil
	}
}

func returnFirstArgType(e *ast.Call) *ast.Type {
	if len(e.Args) == 0 {
		return ast.Int32
	}

	t := e.Args[0].ResolvedType()
	if t == nil {
		return ast.Int32
	}

	return t
}
