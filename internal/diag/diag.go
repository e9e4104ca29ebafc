// Package diag formats compiler diagnostics for the CLI driver (SPEC_FULL.md
// "Error handling" and §7). The core packages (lexer/parser/check/codegen)
// already format their own `file:line:col: stage: message` text; this
// package only adds optional ANSI severity coloring on top, the way
// go-corset's pkg/util/termio builds escape sequences around plain text
// rather than baking color into the data itself.
package diag

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ansi mirrors the escape-builder shape of termio.AnsiEscape, trimmed to
// the one color this driver needs.
type ansi struct {
	code string
}

func fgRed() ansi    { return ansi{"\033[31m"} }
func reset() ansi    { return ansi{"\033[0m"} }
func (a ansi) String() string { return a.code }

// Printer writes formatted diagnostics to an io.Writer, coloring the
// whole diagnostic line red when color is enabled.
type Printer struct {
	out   io.Writer
	color bool
}

// NewPrinter constructs a Printer for out. Color is auto-detected via
// term.IsTerminal when out is *os.File; pass color explicitly to override
// (e.g. for `--no-color` or tests).
func NewPrinter(out io.Writer) *Printer {
	color := false

	if f, ok := out.(*os.File); ok {
		color = term.IsTerminal(int(f.Fd()))
	}

	return &Printer{out: out, color: color}
}

// WithColor overrides auto-detection.
func (p *Printer) WithColor(color bool) *Printer {
	p.color = color
	return p
}

// Print writes one diagnostic's Error() text followed by a newline.
func (p *Printer) Print(err error) {
	if !p.color {
		fmt.Fprintln(p.out, err.Error())
		return
	}

	fmt.Fprintf(p.out, "%s%s%s\n", fgRed(), err.Error(), reset())
}

// PrintAll writes every diagnostic in errs, one per line.
func (p *Printer) PrintAll(errs []error) {
	for _, err := range errs {
		p.Print(err)
	}
}
