package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruapotato/Pynux/pkg/check"
	"github.com/ruapotato/Pynux/pkg/lexer"
	"github.com/ruapotato/Pynux/pkg/parser"
	"github.com/ruapotato/Pynux/pkg/source"
)

func generate(t *testing.T, src string) string {
	t.Helper()

	file := source.NewFile("test.py", src)

	toks, err := lexer.New(file, nil).Run()
	require.NoError(t, err)

	decls, err := parser.New(file, toks, nil).Parse()
	require.NoError(t, err)

	require.NoError(t, check.New(file, nil).Check(decls))

	asm, err := New(file, "cortex-m3", false, nil).Generate(decls)
	require.NoError(t, err)

	return asm
}

// Every non-interrupt function saves r4-r7+lr and establishes r7 as the
// frame pointer before reserving its frame, independent of how much stack
// space transient pushes inside the body may use (the frame-pointer
// discipline every local/param access relies on).
func TestGenerateFrameSetup(t *testing.T) {
	asm := generate(t, "def add(a: int32, b: int32) -> int32:\n    return a + b\n")

	assert.Contains(t, asm, "push {r4-r7, lr}")
	assert.Contains(t, asm, "mov r7, sp")
	assert.Contains(t, asm, "pop {r4-r7, pc}")
}

func TestGenerateLoopBodyKeepsFramePointerStable(t *testing.T) {
	src := "def main() -> int32:\n    total: int32 = 0\n    for i in range(10):\n        total = total + i\n    return total\n"
	asm := generate(t, src)

	assert.Contains(t, asm, "mov r7, sp")
}

func TestGenerateMainDirective(t *testing.T) {
	asm := generate(t, "def main() -> int32:\n    return 0\n")
	assert.Contains(t, asm, ".global main")
}

func TestGenerateStringInterningSharesLabel(t *testing.T) {
	src := "def main() -> int32:\n    print_str(\"same\")\n    print_str(\"same\")\n    return 0\n"
	asm := generate(t, src)

	assert.Equal(t, 1, strings.Count(asm, "\"same\""))
}
