package preprocess

import (
	"github.com/r9s-ai/yarn-indent/internal/indent"
	"github.com/r9s-ai/yarn-indent/internal/lines"
)

const (
	// DefaultIndentMarker is the bell character.
	DefaultIndentMarker = '\a'
	// DefaultDedentMarker is the vertical tab character.
	DefaultDedentMarker = '\v'

	DebugIndentMarker = '{'
	DebugDedentMarker = '}'
)

// Options controls marker selection and normalization.
type Options struct {
	IndentMarker rune
	DedentMarker rune
	Debug        bool
	TabWidth     int
	CloseBlocks  bool
}

// Result is the processed text together with the encoder counters.
type Result struct {
	Text  string
	Lines []string
	Stats indent.Stats
}

// Markers resolves the marker pair. Debug mode overrides everything, an
// unset marker falls back to its default.
func (o Options) Markers() indent.Markers {
	if o.Debug {
		return indent.Markers{Indent: DebugIndentMarker, Dedent: DebugDedentMarker}
	}
	m := indent.Markers{Indent: o.IndentMarker, Dedent: o.DedentMarker}
	if m.Indent == 0 {
		m.Indent = DefaultIndentMarker
	}
	if m.Dedent == 0 {
		m.Dedent = DefaultDedentMarker
	}
	return m
}

// Text rewrites the indentation of a Yarn script into explicit markers.
func Text(src string, opts Options) string {
	return Run(src, opts).Text
}

// Run is Text with the intermediate lines and counters exposed.
func Run(src string, opts Options) Result {
	enc := indent.NewEncoder(opts.Markers())
	for _, line := range lines.Split(src, opts.TabWidth) {
		enc.Push(line)
	}

	var out []string
	if opts.CloseBlocks {
		out = enc.Close()
	} else {
		out = enc.Lines()
	}
	return Result{
		Text:  lines.Join(out),
		Lines: out,
		Stats: enc.Stats(),
	}
}
