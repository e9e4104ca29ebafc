package check

import (
	"fmt"

	"github.com/ruapotato/Pynux/pkg/source"
)

// Error is the diagnostic produced by the type checker (§7 "TypeError"):
// undefined name, type mismatch, bad arity, misuse of break/continue/
// return, address-of non-lvalue, and the SPEC_FULL.md try/except and
// floating-point rejections.
type Error struct {
	File    string
	Pos     source.Pos
	Span    source.Span
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%s: type: %s", e.File, e.Pos, e.Message)
}
