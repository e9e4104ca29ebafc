package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruapotato/Pynux/pkg/ast"
	"github.com/ruapotato/Pynux/pkg/lexer"
	"github.com/ruapotato/Pynux/pkg/source"
)

func parse(t *testing.T, src string) []ast.Decl {
	t.Helper()

	file := source.NewFile("test.py", src)

	toks, err := lexer.New(file, nil).Run()
	require.NoError(t, err)

	decls, err := New(file, toks, nil).Parse()
	require.NoError(t, err)

	return decls
}

func TestParseFunctionDef(t *testing.T) {
	decls := parse(t, "def add(a: int32, b: int32) -> int32:\n    return a + b\n")

	require.Len(t, decls, 1)

	fn, ok := decls[0].(*ast.FunctionDef)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	assert.Len(t, fn.Params, 2)
}

func TestParseGlobalVarAndFunction(t *testing.T) {
	decls := parse(t, "c: int32 = 0\ndef main() -> int32:\n    global c\n    c = 7\n    return 0\n")

	require.Len(t, decls, 2)

	gv, ok := decls[0].(*ast.GlobalVar)
	require.True(t, ok)
	assert.Equal(t, "c", gv.Name)

	_, ok = decls[1].(*ast.FunctionDef)
	assert.True(t, ok)
}

func TestParseDeterministic(t *testing.T) {
	src := "def add(a: int32, b: int32) -> int32:\n    return a + b\ndef main() -> int32:\n    return add(1, 2)\n"

	file := source.NewFile("det.py", src)
	toks, err := lexer.New(file, nil).Run()
	require.NoError(t, err)

	first, err := New(file, toks, nil).Parse()
	require.NoError(t, err)

	second, err := New(file, toks, nil).Parse()
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))

	for i := range first {
		assert.Equal(t, first[i].Span(), second[i].Span())
	}
}

func TestParseEmptySourceYieldsNoDecls(t *testing.T) {
	decls := parse(t, "")
	assert.Empty(t, decls)
}

func TestParseForRangeLoop(t *testing.T) {
	decls := parse(t, "def main() -> int32:\n    for i in range(3):\n        print_int(i)\n    return 0\n")

	fn := decls[0].(*ast.FunctionDef)
	require.Len(t, fn.Body, 2)

	_, ok := fn.Body[0].(*ast.ForRange)
	assert.True(t, ok)
}

func TestParseMissingColonIsError(t *testing.T) {
	file := source.NewFile("bad.py", "def main() -> int32\n    return 0\n")

	toks, err := lexer.New(file, nil).Run()
	require.NoError(t, err)

	_, err = New(file, toks, nil).Parse()
	assert.Error(t, err)
}
