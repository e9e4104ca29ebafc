package check

import "github.com/ruapotato/Pynux/pkg/ast"

// local is one stack-resident name inside the function currently being
// checked: a parameter or a local introduced by plain/typed assignment.
// Pynux has no block scoping (§4.4): a name introduced anywhere in a
// function body is visible for the rest of the function, matching
// Python's function-level scoping.
type local struct {
	typ     *ast.Type
	offset  int
	isParam bool
}

// funcScope tracks the locals of the function currently being checked, the
// names routed to the module scope via `global`, and the enclosing loop
// nesting depth for break/continue validation.
type funcScope struct {
	fn         *ast.FunctionDef
	locals     map[string]*local
	order      []string
	nextOffset int
	globals    map[string]bool
	loopDepth  int
}

func newFuncScope(fn *ast.FunctionDef) *funcScope {
	return &funcScope{
		fn:      fn,
		locals:  map[string]*local{},
		globals: map[string]bool{},
	}
}

// alignSize rounds a size up to a 4-byte stack slot, per §4.5 "Local
// storage" (byte/halfword locals still get a slot; the generator picks the
// narrow load/store form from the type, not the slot width).
func alignSize(n int) int {
	if n <= 0 {
		n = 1
	}

	return (n + 3) &^ 3
}

func (s *funcScope) declare(name string, t *ast.Type, isParam bool) *local {
	l := &local{typ: t, offset: s.nextOffset, isParam: isParam}
	s.nextOffset += alignSize(t.Size())
	s.locals[name] = l
	s.order = append(s.order, name)

	return l
}

func (s *funcScope) lookup(name string) (*local, bool) {
	l, ok := s.locals[name]
	return l, ok
}
