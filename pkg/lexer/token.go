package lexer

import (
	"fmt"

	"github.com/ruapotato/Pynux/pkg/source"
)

// Kind enumerates the closed set of token categories produced by the lexer,
// per spec §3 "Token".
type Kind uint

// Token kinds. INDENT/DEDENT/NEWLINE are synthetic, inserted by the layout
// pass rather than scanned directly from input.
const (
	EOF Kind = iota
	IDENT
	INT
	FLOAT
	STRING
	FSTRING
	NEWLINE
	INDENT
	DEDENT
	OP
	KEYWORD
)

// String renders a Kind for diagnostics and `tokens --json` dumps.
func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case IDENT:
		return "IDENT"
	case INT:
		return "INT"
	case FLOAT:
		return "FLOAT"
	case STRING:
		return "STRING"
	case FSTRING:
		return "FSTRING"
	case NEWLINE:
		return "NEWLINE"
	case INDENT:
		return "INDENT"
	case DEDENT:
		return "DEDENT"
	case OP:
		return "OP"
	case KEYWORD:
		return "KEYWORD"
	default:
		return fmt.Sprintf("Kind(%d)", uint(k))
	}
}

// Token is one lexical unit, carrying its decoded value where applicable
// (escapes already processed for strings, radix already decoded for
// integers) along with its source span.
type Token struct {
	Kind Kind
	// Lexeme is the raw matched text (for OP/KEYWORD/IDENT, the text
	// itself; for literals, the original source text before decoding).
	Lexeme string
	// IntValue holds the decoded value for INT tokens.
	IntValue int64
	// FloatValue holds the decoded value for FLOAT tokens.
	FloatValue float64
	// StringValue holds the escape-decoded value for STRING tokens, or the
	// raw inner text (escapes un-decoded, left for the parser's fragment
	// re-lexing per §4.2) for FSTRING tokens.
	StringValue string
	Span        source.Span
	Pos         source.Pos
}

func (t Token) String() string {
	switch t.Kind {
	case INT:
		return fmt.Sprintf("%s(%d)", t.Kind, t.IntValue)
	case FLOAT:
		return fmt.Sprintf("%s(%g)", t.Kind, t.FloatValue)
	case STRING, FSTRING:
		return fmt.Sprintf("%s(%q)", t.Kind, t.StringValue)
	default:
		return fmt.Sprintf("%s(%s)", t.Kind, t.Lexeme)
	}
}

// Keywords is the closed set recognized as keyword tokens rather than
// identifiers, per spec §4.1. Type names are deliberately absent: they
// resolve as identifiers and are recognized later by the parser's type
// grammar (§4.2 "Type syntax").
var Keywords = map[string]bool{
	"def": true, "return": true, "if": true, "elif": true, "else": true,
	"while": true, "for": true, "in": true, "break": true, "continue": true,
	"True": true, "False": true, "None": true, "class": true, "struct": true,
	"union": true, "pass": true, "global": true, "import": true, "from": true,
	"as": true, "lambda": true, "and": true, "or": true, "not": true,
	"is": true, "try": true, "except": true, "finally": true, "raise": true,
	"with": true, "match": true, "case": true, "asm": true, "extern": true,
	"volatile": true,
}
