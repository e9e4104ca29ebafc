// Package session carries the flat, file-free configuration that threads
// through lexer, parser, checker and generator for one compile (SPEC_FULL.md
// "Configuration"). There is no persisted or network state here — every
// field is set once from CLI flags by pkg/cmd and never touched again.
package session

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Target identifies the Cortex-M core a compile targets (spec §4.5).
type Target string

// Supported targets, listed in the order `pynuxc targets` prints them.
const (
	CortexM0Plus Target = "cortex-m0plus"
	CortexM3     Target = "cortex-m3"
	CortexM4     Target = "cortex-m4"
)

// Targets is the closed set of valid --target values.
var Targets = []Target{CortexM0Plus, CortexM3, CortexM4}

// Valid reports whether t is one of the supported targets.
func (t Target) Valid() bool {
	for _, v := range Targets {
		if v == t {
			return true
		}
	}

	return false
}

// Config is the full set of knobs a compile can be run with. Zero value is
// not valid on its own; construct via New.
type Config struct {
	// Target selects the ARM Thumb-2 core the generator emits for.
	Target Target
	// EmitDebugComments turns on the generator's `@` annotation comments
	// (such as the interrupt-prologue note); no source-line comments are
	// emitted. Purely cosmetic, never changes emitted instructions.
	EmitDebugComments bool
	// Verbosity maps directly onto a logrus level: 0 is logrus.WarnLevel,
	// 1 (-v) is logrus.InfoLevel, 2+ (-vv) is logrus.DebugLevel.
	Verbosity int
}

// New constructs a Config with the given target, defaulting Verbosity to 0
// (warnings only) and EmitDebugComments to false.
func New(target Target) Config {
	return Config{Target: target}
}

// Logger builds a *logrus.Logger honoring Verbosity. out may be nil, in
// which case the logger discards everything (matching the nil-logger
// fallback every stage already accepts).
func (c Config) Logger(out io.Writer) *logrus.Logger {
	log := logrus.New()

	if out == nil {
		log.SetOutput(io.Discard)
		return log
	}

	log.SetOutput(out)

	switch {
	case c.Verbosity >= 2:
		log.SetLevel(logrus.DebugLevel)
	case c.Verbosity == 1:
		log.SetLevel(logrus.InfoLevel)
	default:
		log.SetLevel(logrus.WarnLevel)
	}

	return log
}
