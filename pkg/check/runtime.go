package check

import (
	"github.com/ruapotato/Pynux/pkg/ast"
	"github.com/ruapotato/Pynux/pkg/source"
)

// charPtr, voidPtr are the two pointer shapes the runtime ABI table uses
// repeatedly.
var (
	charPtr = ast.PtrTo(ast.Char)
	voidPtr = ast.PtrTo(ast.Void)
)

// runtimeExterns is the flat-linkage predeclaration of every symbol in
// spec.md §6's "ABI contract" table: the runtime the generated assembly is
// linked against, not anything this compilation unit declares itself.
// Seeded into every Checker so a bare call to e.g. `print_str(...)` resolves
// without the source needing its own `extern` declaration.
var runtimeExterns = buildRuntimeExterns()

func buildRuntimeExterns() map[string]*ast.ExternDef {
	sig := func(ret *ast.Type, params ...*ast.Type) *ast.Type {
		return ast.FnType(ret, params...)
	}

	defs := []*ast.ExternDef{
		{Name: "uart_init", Signature: sig(ast.Void)},
		{Name: "uart_putc", Signature: sig(ast.Void, ast.Int32)},
		{Name: "uart_getc", Signature: sig(ast.Int32)},
		{Name: "uart_available", Signature: sig(ast.Int32)},

		{Name: "print_str", Signature: sig(ast.Void, charPtr)},
		{Name: "print_int", Signature: sig(ast.Void, ast.Int32)},
		{Name: "print_hex", Signature: sig(ast.Void, ast.Uint32)},
		{Name: "print_newline", Signature: sig(ast.Void)},

		{Name: "__aeabi_uidivmod", Signature: sig(ast.Uint32, ast.Uint32, ast.Uint32)},
		{Name: "__aeabi_idiv", Signature: sig(ast.Int32, ast.Int32, ast.Int32)},
		{Name: "__aeabi_idivmod", Signature: sig(ast.Int32, ast.Int32, ast.Int32)},
		{Name: "__pynux_pow", Signature: sig(ast.Int32, ast.Int32, ast.Int32)},

		{Name: "malloc", Signature: sig(voidPtr, ast.Uint32)},
		{Name: "free", Signature: sig(ast.Void, voidPtr)},
		{Name: "__pynux_strlen", Signature: sig(ast.Int32, charPtr)},
		{Name: "__pynux_strcmp", Signature: sig(ast.Int32, charPtr, charPtr)},
		{Name: "__pynux_strcpy", Signature: sig(charPtr, charPtr, charPtr)},
		{Name: "__pynux_strcat", Signature: sig(charPtr, charPtr, charPtr)},
		{Name: "__pynux_memcpy", Signature: sig(voidPtr, voidPtr, voidPtr, ast.Uint32)},
		{Name: "__pynux_memset", Signature: sig(voidPtr, voidPtr, ast.Int32, ast.Uint32)},

		{Name: "__pynux_read_line", Signature: sig(charPtr, charPtr)},
		{Name: "__pynux_in", Signature: sig(ast.Int32, ast.Int32, charPtr)},

		{Name: "__pynux_str_upper", Signature: sig(charPtr, charPtr)},
		{Name: "__pynux_str_lower", Signature: sig(charPtr, charPtr)},
		{Name: "__pynux_str_strip", Signature: sig(charPtr, charPtr)},
		{Name: "__pynux_str_startswith", Signature: sig(ast.Int32, charPtr, charPtr)},
		{Name: "__pynux_str_endswith", Signature: sig(ast.Int32, charPtr, charPtr)},
		{Name: "__pynux_str_find", Signature: sig(ast.Int32, charPtr, charPtr)},
		{Name: "__pynux_str_isdigit", Signature: sig(ast.Int32, charPtr)},
		{Name: "__pynux_str_isalpha", Signature: sig(ast.Int32, charPtr)},

		{Name: "__pynux_slice", Signature: sig(charPtr, charPtr, ast.Int32, ast.Int32, ast.Int32)},

		{Name: "__pynux_dict_get_int", Signature: sig(ast.Int32, voidPtr, ast.Int32)},
		{Name: "__pynux_dict_set_int", Signature: sig(ast.Void, voidPtr, ast.Int32, ast.Int32)},
		{Name: "__pynux_dict_get_str", Signature: sig(charPtr, voidPtr, charPtr)},

		{Name: "__pynux_assert_fail", Signature: sig(ast.Void)},
		{Name: "__pynux_assert_fail_msg", Signature: sig(ast.Void, charPtr)},
		{Name: "__pynux_raise", Signature: sig(ast.Void, charPtr)},
		{Name: "__pynux_reraise", Signature: sig(ast.Void)},

		{Name: "__pynux_generator_next", Signature: sig(voidPtr, voidPtr)},
		{Name: "__pynux_context_enter", Signature: sig(voidPtr, voidPtr)},
		{Name: "__pynux_context_exit", Signature: sig(ast.Void, voidPtr)},
	}

	out := make(map[string]*ast.ExternDef, len(defs))

	for _, d := range defs {
		d.SpanVal = source.NewSpan(0, 0)
		out[d.Name] = d
	}

	return out
}
