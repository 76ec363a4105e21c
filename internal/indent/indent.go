package indent

import (
	"strings"

	"github.com/r9s-ai/yarn-indent/internal/lines"
)

// Markers are the characters written for block open and block close.
type Markers struct {
	Indent rune
	Dedent rune
}

// Frame is one level of the indentation stack. Emitted is false for
// bookkeeping frames pushed on option lines that never opened a block.
type Frame struct {
	Depth   int
	Emitted bool
}

// Stats summarizes one encoding pass.
type Stats struct {
	Lines    int
	Indents  int
	Dedents  int
	Open     int
	MaxStack int
}

// Balanced reports whether every emitted indent has a matching dedent.
func (s Stats) Balanced() bool {
	return s.Indents == s.Dedents
}

// Encoder tracks indentation across the lines of a single document.
type Encoder struct {
	markers        Markers
	stack          []Frame
	awaitingIndent bool
	out            []string
	stats          Stats
}

// NewEncoder returns an encoder whose stack holds only the root sentinel.
func NewEncoder(m Markers) *Encoder {
	return &Encoder{
		markers: m,
		stack:   []Frame{{Depth: 0, Emitted: false}},
	}
}

// Encode runs lines through a fresh encoder. The input must already be
// normalized: terminators stripped and tabs expanded.
func Encode(in []string, m Markers) []string {
	enc := NewEncoder(m)
	for _, line := range in {
		enc.Push(line)
	}
	return enc.Lines()
}

// Push processes the next line of the document.
func (e *Encoder) Push(line string) {
	d := lines.Depth(line)
	top := e.top()

	var prefix strings.Builder
	switch {
	case e.awaitingIndent && d > top.Depth:
		e.stack = append(e.stack, Frame{Depth: d, Emitted: true})
		e.attach(&prefix, e.markers.Indent)
		e.stats.Indents++
		e.awaitingIndent = false
	case d < top.Depth:
		for e.top().Depth > d {
			popped := e.pop()
			if popped.Emitted {
				e.attach(&prefix, e.markers.Dedent)
				e.stats.Dedents++
			}
		}
	default:
		e.awaitingIndent = false
	}

	if lines.IsOptionTrigger(line) {
		e.awaitingIndent = true
		if e.top().Depth < d {
			e.stack = append(e.stack, Frame{Depth: d, Emitted: false})
		}
	}

	if len(e.stack)-1 > e.stats.MaxStack {
		e.stats.MaxStack = len(e.stack) - 1
	}
	e.out = append(e.out, prefix.String()+line)
	e.stats.Lines++
}

// Close appends a dedent to the last line for every block still open and
// returns the resulting lines. A document with no lines is left untouched.
func (e *Encoder) Close() []string {
	if len(e.out) == 0 {
		return e.Lines()
	}
	for len(e.stack) > 1 {
		if e.pop().Emitted {
			e.out[len(e.out)-1] += string(e.markers.Dedent)
			e.stats.Dedents++
		}
	}
	e.awaitingIndent = false
	return e.Lines()
}

// Lines returns a copy of the encoded output so far.
func (e *Encoder) Lines() []string {
	out := make([]string, len(e.out))
	copy(out, e.out)
	return out
}

// Stats returns counters for the lines pushed so far. Open counts the
// emitted frames still on the stack.
func (e *Encoder) Stats() Stats {
	s := e.stats
	for _, f := range e.stack {
		if f.Emitted {
			s.Open++
		}
	}
	return s
}

// Stack returns a copy of the current indentation stack, sentinel first.
func (e *Encoder) Stack() []Frame {
	out := make([]Frame, len(e.stack))
	copy(out, e.stack)
	return out
}

func (e *Encoder) top() Frame {
	return e.stack[len(e.stack)-1]
}

func (e *Encoder) pop() Frame {
	f := e.top()
	e.stack = e.stack[:len(e.stack)-1]
	return f
}

// attach writes a marker at the end of the previous output line. The first
// line of a document has no predecessor, so the marker goes into prefix.
func (e *Encoder) attach(prefix *strings.Builder, marker rune) {
	if len(e.out) == 0 {
		prefix.WriteRune(marker)
		return
	}
	e.out[len(e.out)-1] += string(marker)
}
