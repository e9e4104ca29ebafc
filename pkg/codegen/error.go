package codegen

import (
	"fmt"

	"github.com/ruapotato/Pynux/pkg/source"
)

// Error is the diagnostic produced by the code generator (§7 "EmitError"):
// either an internal invariant violation, such as an AST node reaching the
// generator without a resolved type, or a source construct the generator
// does not lower (list/dict literals, comprehensions, tuple values,
// unsupported atomic/bit intrinsics).
type Error struct {
	File    string
	Pos     source.Pos
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%s: emit: %s", e.File, e.Pos, e.Message)
}
