package codegen

import (
	"fmt"
	"strings"
)

// emitter accumulates the four GAS sections (§4.5 "Contract") plus the
// optional `.vectors` section, and tracks the per-function label counter
// and file-wide string interning table. One emitter is constructed per
// compilation unit (§5).
type emitter struct {
	target            string
	emitDebugComments bool

	text    strings.Builder
	rodata  strings.Builder
	data    strings.Builder
	bss     strings.Builder
	vectors strings.Builder

	// strings interns every string literal in source order of first
	// occurrence (§4.5 "Strings", §5 "String intern order ... stable
	// across runs"); stringOrder is the authoritative iteration order,
	// strings maps content to its already-assigned label.
	strings    map[string]string
	stringOrder []string

	fnName       string
	labelCounter int
	loopStack    []loopLabels

	usesVectors bool
}

type loopLabels struct {
	breakLabel    string
	continueLabel string
}

func newEmitter(target string, emitDebugComments bool) *emitter {
	return &emitter{
		target:            target,
		emitDebugComments: emitDebugComments,
		strings:           map[string]string{},
	}
}

func (e *emitter) startFunction(name string) {
	e.fnName = name
	e.labelCounter = 0
}

// newLabel allocates the next `.L<fn>_<id>` label for the function
// currently being emitted (§4.5 "Control flow").
func (e *emitter) newLabel() string {
	e.labelCounter++
	return fmt.Sprintf(".L%s_%d", e.fnName, e.labelCounter)
}

func (e *emitter) pushLoop(breakLabel, continueLabel string) {
	e.loopStack = append(e.loopStack, loopLabels{breakLabel, continueLabel})
}

func (e *emitter) popLoop() {
	e.loopStack = e.loopStack[:len(e.loopStack)-1]
}

func (e *emitter) currentLoop() loopLabels {
	return e.loopStack[len(e.loopStack)-1]
}

// internString returns the `.rodata` label for s, interning it in `.rodata`
// on first occurrence with a trailing NUL and `.align 2` (4-byte) alignment (§4.5
// "Strings").
func (e *emitter) internString(s string) string {
	if label, ok := e.strings[s]; ok {
		return label
	}

	label := fmt.Sprintf(".LC%d", len(e.stringOrder))
	e.strings[s] = label
	e.stringOrder = append(e.stringOrder, s)

	fmt.Fprintf(&e.rodata, "%s:\n", label)
	fmt.Fprintf(&e.rodata, "\t.asciz \"%s\"\n", escapeAsciz(s))
	fmt.Fprintf(&e.rodata, "\t.align 2\n")

	return label
}

func escapeAsciz(s string) string {
	var b strings.Builder

	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}

func (e *emitter) instr(format string, args ...interface{}) {
	fmt.Fprintf(&e.text, "\t"+format+"\n", args...)
}

func (e *emitter) label(name string) {
	fmt.Fprintf(&e.text, "%s:\n", name)
}

func (e *emitter) comment(format string, args ...interface{}) {
	if !e.emitDebugComments {
		return
	}

	fmt.Fprintf(&e.text, "\t@ "+format+"\n", args...)
}

func (e *emitter) directive(format string, args ...interface{}) {
	fmt.Fprintf(&e.text, "\t"+format+"\n", args...)
}

// cpuDirective maps a --target value to its `.cpu` directive operand.
func cpuDirective(target string) string {
	switch target {
	case "cortex-m0plus":
		return "cortex-m0plus"
	case "cortex-m4":
		return "cortex-m4"
	default:
		return "cortex-m3"
	}
}

// output assembles the final assembly text: the three mandatory leading
// directives (§6 "Output"), then `.text`, `.rodata`, `.data`, `.bss`, and
// `.vectors` only when non-empty.
func (e *emitter) output() string {
	var out strings.Builder

	fmt.Fprintf(&out, "\t.syntax unified\n")
	fmt.Fprintf(&out, "\t.cpu %s\n", cpuDirective(e.target))
	fmt.Fprintf(&out, "\t.thumb\n")

	fmt.Fprintf(&out, "\n\t.text\n")
	out.WriteString(e.text.String())

	if e.rodata.Len() > 0 {
		fmt.Fprintf(&out, "\n\t.section .rodata\n")
		out.WriteString(e.rodata.String())
	}

	if e.data.Len() > 0 {
		fmt.Fprintf(&out, "\n\t.data\n")
		out.WriteString(e.data.String())
	}

	if e.bss.Len() > 0 {
		fmt.Fprintf(&out, "\n\t.bss\n")
		out.WriteString(e.bss.String())
	}

	if e.usesVectors && e.vectors.Len() > 0 {
		fmt.Fprintf(&out, "\n\t.section .vectors\n")
		out.WriteString(e.vectors.String())
	}

	return out.String()
}
