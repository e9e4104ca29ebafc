package lexer

import (
	"fmt"

	"github.com/ruapotato/Pynux/pkg/source"
)

// Error is the diagnostic produced by the lexer (§7 "LexError"): unterminated
// string, unknown character, bad escape, or mixed indentation conflict.
type Error struct {
	File    string
	Pos     source.Pos
	Span    source.Span
	Message string
}

// Error implements the error interface, formatted per §7:
// "file:line:col: stage: message".
func (e *Error) Error() string {
	return fmt.Sprintf("%s:%s: lex: %s", e.File, e.Pos, e.Message)
}
