package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruapotato/Pynux/pkg/source"
)

func run(t *testing.T, src string) []Token {
	t.Helper()

	file := source.NewFile("test.py", src)
	toks, err := New(file, nil).Run()
	require.NoError(t, err)

	return toks
}

func kinds(toks []Token) []Kind {
	ks := make([]Kind, len(toks))
	for i, tok := range toks {
		ks[i] = tok.Kind
	}

	return ks
}

func TestLexSimpleFunction(t *testing.T) {
	toks := run(t, "def main() -> int32:\n    return 0\n")

	assert.Equal(t, EOF, toks[len(toks)-1].Kind)
	assert.Contains(t, kinds(toks), INDENT)
	assert.Contains(t, kinds(toks), DEDENT)
}

func TestLexIndentDedentBalanced(t *testing.T) {
	toks := run(t, "if a:\n    if b:\n        c = 1\nd = 2\n")

	indents, dedents := 0, 0

	for _, k := range kinds(toks) {
		switch k {
		case INDENT:
			indents++
		case DEDENT:
			dedents++
		}
	}

	assert.Equal(t, indents, dedents, "every INDENT must be balanced by a DEDENT by EOF")
}

func TestLexDeeplyNestedIndentationSucceeds(t *testing.T) {
	var src string
	for i := 0; i < 64; i++ {
		src += strings.Repeat("    ", i) + "if x:\n"
	}

	src += strings.Repeat("    ", 64) + "pass\n"

	_, err := New(source.NewFile("deep.py", src), nil).Run()
	require.NoError(t, err)
}

func TestLexIntegerBoundary(t *testing.T) {
	toks := run(t, "x: int32 = -2147483648\n")

	found := false

	for _, tok := range toks {
		if tok.Kind == INT && tok.IntValue == 2147483648 {
			found = true
		}
	}

	assert.True(t, found, "expected the unsigned literal 2147483648 token (negation is a separate unary op)")
}

func TestLexCommentsAndBlankLinesOnlyYieldEOF(t *testing.T) {
	toks := run(t, "# just a comment\n\n# another\n")

	for _, tok := range toks {
		assert.NotEqual(t, STRING, tok.Kind)
		assert.NotEqual(t, IDENT, tok.Kind)
	}

	assert.Equal(t, EOF, toks[len(toks)-1].Kind)
}

func TestLexStringEscapes(t *testing.T) {
	toks := run(t, `s = "a\nb\tc\"d"` + "\n")

	var got string

	for _, tok := range toks {
		if tok.Kind == STRING {
			got = tok.StringValue
		}
	}

	assert.Equal(t, "a\nb\tc\"d", got)
}

func TestLexRoundTripTokenCountStable(t *testing.T) {
	src := "def add(a: int32, b: int32) -> int32:\n    return a + b\n"

	first := run(t, src)
	second := run(t, src)

	require.Equal(t, len(first), len(second))

	for i := range first {
		assert.Equal(t, first[i].Kind, second[i].Kind)
		assert.Equal(t, first[i].Lexeme, second[i].Lexeme)
	}
}
