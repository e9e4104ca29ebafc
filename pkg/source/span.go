// Package source provides the shared byte-position bookkeeping used by every
// stage of the compiler to report diagnostics against the original file.
package source

import "fmt"

// Span represents a contiguous slice of an original source file, identified
// by rune offsets rather than by the substring itself so that a span can be
// mapped back onto the originating File to recover line/column information.
type Span struct {
	start int
	end   int
}

// NewSpan constructs a span over [start,end).
func NewSpan(start, end int) Span {
	if start > end {
		panic("invalid span")
	}

	return Span{start, end}
}

// Start returns the first rune index covered by this span.
func (s Span) Start() int { return s.start }

// End returns one past the last rune index covered by this span.
func (s Span) End() int { return s.end }

// Join returns the smallest span covering both s and other.
func (s Span) Join(other Span) Span {
	start := s.start
	if other.start < start {
		start = other.start
	}

	end := s.end
	if other.end > end {
		end = other.end
	}

	return Span{start, end}
}

// Pos is a 1-based line/column pair, the form every diagnostic in this
// compiler is ultimately reported in.
type Pos struct {
	Line int
	Col  int
}

// String formats a position as "line:col".
func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}
