package parser

import (
	"fmt"

	"github.com/ruapotato/Pynux/pkg/source"
)

// Error is the diagnostic produced by the parser (§7 "ParseError"):
// unexpected token, missing `:`/`)`/`]`, or a block expected where none was
// found. Per §4.2 "Error recovery", parsing fails immediately with no
// recovery attempted.
type Error struct {
	File     string
	Pos      source.Pos
	Span     source.Span
	Expected string
	Found    string
	Message  string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = fmt.Sprintf("expected %s, found %s", e.Expected, e.Found)
	}

	return fmt.Sprintf("%s:%s: parse: %s", e.File, e.Pos, msg)
}
