package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruapotato/Pynux/pkg/ast"
	"github.com/ruapotato/Pynux/pkg/lexer"
	"github.com/ruapotato/Pynux/pkg/parser"
	"github.com/ruapotato/Pynux/pkg/source"
)

func checkSrc(t *testing.T, src string) ([]ast.Decl, error) {
	t.Helper()

	file := source.NewFile("test.py", src)

	toks, err := lexer.New(file, nil).Run()
	require.NoError(t, err)

	decls, err := parser.New(file, toks, nil).Parse()
	require.NoError(t, err)

	return decls, New(file, nil).Check(decls)
}

// Every expression in a successfully checked AST has a non-nil resolved
// type and every identifier a resolved binding (spec §8 "Checker
// soundness").
func TestCheckSoundnessAssignsTypesAndBindings(t *testing.T) {
	decls, err := checkSrc(t, "def add(a: int32, b: int32) -> int32:\n    return a + b\n")
	require.NoError(t, err)

	fn := decls[0].(*ast.FunctionDef)
	ret := fn.Body[0].(*ast.Return)
	bin := ret.Value.(*ast.BinOp)

	require.NotNil(t, bin.ResolvedType())

	lhs := bin.LHS.(*ast.Ident)
	require.NotNil(t, lhs.Binding)
	assert.Equal(t, ast.BindParam, lhs.Binding.Kind)
}

func TestCheckRejectsUndefinedName(t *testing.T) {
	_, err := checkSrc(t, "def main() -> int32:\n    return undefined_thing\n")
	assert.Error(t, err)
}

func TestCheckRejectsTypeMismatch(t *testing.T) {
	_, err := checkSrc(t, "def main() -> int32:\n    x: Ptr[char] = 3\n    return 0\n")
	assert.Error(t, err)
}

func TestCheckGlobalBindingKind(t *testing.T) {
	decls, err := checkSrc(t, "c: int32 = 0\ndef main() -> int32:\n    global c\n    return c\n")
	require.NoError(t, err)

	fn := decls[1].(*ast.FunctionDef)
	ret := fn.Body[1].(*ast.Return)
	ident := ret.Value.(*ast.Ident)

	require.NotNil(t, ident.Binding)
	assert.Equal(t, ast.BindGlobal, ident.Binding.Kind)
}

func TestCheckRejectsFloatArithmetic(t *testing.T) {
	_, err := checkSrc(t, "def main() -> int32:\n    x: float32 = 1.0\n    y: float32 = x + x\n    return 0\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floating-point")
}

func TestCheckAcceptsFloatDeclarationWithoutArithmetic(t *testing.T) {
	_, err := checkSrc(t, "def main() -> int32:\n    x: float32 = 1.0\n    return 0\n")
	assert.NoError(t, err)
}

func TestCheckRejectsNonTrivialTryExcept(t *testing.T) {
	src := "def main() -> int32:\n    try:\n        print_newline()\n    except:\n        pass\n    return 0\n"
	_, err := checkSrc(t, src)
	assert.Error(t, err)
}

func TestCheckAcceptsBareFinally(t *testing.T) {
	src := "def main() -> int32:\n    try:\n        x: int32 = 1\n    finally:\n        pass\n    return 0\n"
	_, err := checkSrc(t, src)
	assert.NoError(t, err)
}
