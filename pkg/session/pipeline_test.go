package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruapotato/Pynux/pkg/source"
)

// These mirror spec.md §8's literal end-to-end scenarios: each must check
// and emit without error, and the resulting assembly must reference the
// runtime symbols the source actually calls.
func TestCompileEndToEndScenarios(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		expect []string
	}{
		{
			name:   "hello string literal",
			src:    "def main() -> int32:\n    print_str(\"Hi!\\n\")\n    return 0\n",
			expect: []string{"bl print_str", ".global main"},
		},
		{
			name:   "function call and addition",
			src:    "def add(a: int32, b: int32) -> int32:\n    return a + b\ndef main() -> int32:\n    print_int(add(2, 40))\n    return 0\n",
			expect: []string{"bl add", "bl print_int"},
		},
		{
			name:   "for-range loop",
			src:    "def main() -> int32:\n    for i in range(3):\n        print_int(i)\n    return 0\n",
			expect: []string{"bl print_int"},
		},
		{
			name:   "global mutation",
			src:    "c: int32 = 0\ndef main() -> int32:\n    global c\n    c = 7\n    print_int(c)\n    return 0\n",
			expect: []string{"c:", ".space 4"},
		},
		{
			name:   "signed division truncation",
			src:    "def main() -> int32:\n    x: int32 = -10\n    print_int(x / 3)\n    return 0\n",
			expect: []string{"__aeabi_idiv"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := source.NewFile("test.py", tt.src)
			cfg := New(CortexM3)

			asm, err := Compile(file, cfg, cfg.Logger(nil))
			require.NoError(t, err)

			for _, want := range tt.expect {
				assert.Contains(t, asm, want)
			}
		})
	}
}

func TestCompileEmptySourceProducesNoMainDirective(t *testing.T) {
	file := source.NewFile("empty.py", "")
	cfg := New(CortexM3)

	asm, err := Compile(file, cfg, cfg.Logger(nil))
	require.NoError(t, err)
	assert.NotContains(t, asm, ".global main")
}

func TestCompileCommentsOnlySourceSucceeds(t *testing.T) {
	file := source.NewFile("comments.py", "# just a comment\n\n# another\n")
	cfg := New(CortexM3)

	_, err := Compile(file, cfg, cfg.Logger(nil))
	require.NoError(t, err)
}

func TestCompileIsDeterministic(t *testing.T) {
	src := "def main() -> int32:\n    print_int(add(2, 40))\n    return 0\ndef add(a: int32, b: int32) -> int32:\n    return a + b\n"

	first := mustCompile(t, src)
	second := mustCompile(t, src)

	assert.Equal(t, first, second)
}

func TestCompileStringInterningSharesLabel(t *testing.T) {
	src := "def main() -> int32:\n    print_str(\"dup\")\n    print_str(\"dup\")\n    return 0\n"

	asm := mustCompile(t, src)

	assert.Equal(t, 1, strings.Count(asm, "\"dup\""))
}

func TestCompileRejectsFloatArithmetic(t *testing.T) {
	src := "def main() -> int32:\n    x: float32 = 1.0\n    y: float32 = x + x\n    return 0\n"

	file := source.NewFile("float.py", src)
	cfg := New(CortexM3)

	_, err := Compile(file, cfg, cfg.Logger(nil))
	require.Error(t, err)
}

func mustCompile(t *testing.T, src string) string {
	t.Helper()

	file := source.NewFile("det.py", src)
	cfg := New(CortexM3)

	asm, err := Compile(file, cfg, cfg.Logger(nil))
	require.NoError(t, err)

	return asm
}
