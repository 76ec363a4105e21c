package indent

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var braces = Markers{Indent: '{', Dedent: '}'}

func TestEncodeScenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "option opens block and shallower line closes it",
			in:   []string{"foo", "-> bar", "    baz", "qux"},
			want: []string{"foo", "-> bar{", "    baz}", "qux"},
		},
		{
			name: "consecutive options at the same depth",
			in:   []string{"-> a", "-> b", "    c", "-> d"},
			want: []string{"-> a", "-> b{", "    c}", "-> d"},
		},
		{
			name: "indented first line without a prior option",
			in:   []string{"    first"},
			want: []string{"    first"},
		},
		{
			name: "two levels close at once",
			in:   []string{"-> a", "    -> b", "        c", "d"},
			want: []string{"-> a{", "    -> b{", "        c}}", "d"},
		},
		{
			name: "indented option without a deeper follower",
			in:   []string{"a", "    -> opt", "    x", "y"},
			want: []string{"a", "    -> opt", "    x", "y"},
		},
		{
			name: "partial dedent is tolerated",
			in:   []string{"-> a", "        b", "    c", "d"},
			want: []string{"-> a{", "        b}", "    c", "d"},
		},
		{
			name: "empty input",
			in:   nil,
			want: []string{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Encode(tt.in, braces))
		})
	}
}

func TestEncodeIndentResetsAfterSameLevelLine(t *testing.T) {
	t.Parallel()

	// "b" disarms tracking, so the deeper "c" is not a block.
	got := Encode([]string{"-> a", "b", "    c", "d"}, braces)
	assert.Equal(t, []string{"-> a", "b", "    c", "d"}, got)
}

func TestEncodeBookkeepingFrameIsPoppedSilently(t *testing.T) {
	t.Parallel()

	enc := NewEncoder(braces)
	for _, line := range []string{"a", "    -> opt", "    x"} {
		enc.Push(line)
	}
	require.Equal(t, []Frame{{Depth: 0}, {Depth: 4, Emitted: false}}, enc.Stack())

	enc.Push("y")
	assert.Equal(t, []Frame{{Depth: 0}}, enc.Stack())
	assert.Equal(t, []string{"a", "    -> opt", "    x", "y"}, enc.Lines())
	assert.Zero(t, enc.Stats().Dedents)
}

func TestEncodeBookkeepingFrameUnderRealBlock(t *testing.T) {
	t.Parallel()

	// An option at the depth of the current block adds no frame.
	in := []string{"-> a", "    b", "    -> c", "        d", "e"}
	want := []string{"-> a{", "    b", "    -> c{", "        d}}", "e"}
	assert.Equal(t, want, Encode(in, braces))

	// The option at depth 2 is recorded as bookkeeping below the real
	// block at depth 6. Only the real block emits a dedent.
	in = []string{"x", "  -> a", "      b", "c"}
	want = []string{"x", "  -> a{", "      b}", "c"}
	assert.Equal(t, want, Encode(in, braces))
}

func TestEncodeKeepsLineCount(t *testing.T) {
	t.Parallel()

	in := []string{"-> a", "    b", "", "    c", "d"}
	got := Encode(in, braces)
	require.Len(t, got, len(in))
	// The blank line has depth 0 and closes the block early.
	assert.Equal(t, []string{"-> a{", "    b}", "", "    c", "d"}, got)
}

func TestEncodeFirstLinePrefix(t *testing.T) {
	t.Parallel()

	enc := NewEncoder(braces)
	enc.awaitingIndent = true
	enc.Push("    deep")
	assert.Equal(t, []string{"{    deep"}, enc.Lines())

	enc = NewEncoder(braces)
	enc.stack = append(enc.stack, Frame{Depth: 4, Emitted: true}, Frame{Depth: 8, Emitted: false}, Frame{Depth: 12, Emitted: true})
	enc.Push("x")
	assert.Equal(t, []string{"}}x"}, enc.Lines())
}

func TestEncoderCloseUnwindsOpenBlocks(t *testing.T) {
	t.Parallel()

	enc := NewEncoder(braces)
	for _, line := range []string{"-> a", "    -> b", "        c"} {
		enc.Push(line)
	}
	st := enc.Stats()
	assert.Equal(t, 2, st.Open)
	assert.False(t, st.Balanced())

	got := enc.Close()
	assert.Equal(t, []string{"-> a{", "    -> b{", "        c}}"}, got)
	st = enc.Stats()
	assert.Zero(t, st.Open)
	assert.True(t, st.Balanced())
	assert.Equal(t, 2, st.MaxStack)
}

func TestEncoderCloseOnEmptyDocument(t *testing.T) {
	t.Parallel()

	assert.Empty(t, NewEncoder(braces).Close())
}

func TestEncodeStats(t *testing.T) {
	t.Parallel()

	enc := NewEncoder(braces)
	for _, line := range []string{"-> a", "    -> b", "        c", "d"} {
		enc.Push(line)
	}
	assert.Equal(t, Stats{Lines: 4, Indents: 2, Dedents: 2, Open: 0, MaxStack: 2}, enc.Stats())
}

func TestEncodeLinesReturnsCopy(t *testing.T) {
	t.Parallel()

	enc := NewEncoder(braces)
	enc.Push("-> a")
	got := enc.Lines()
	got[0] = "mutated"
	assert.Equal(t, []string{"-> a"}, enc.Lines())
}

func TestEncodeProperties(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		doc := randomDocument(rng, 1+rng.Intn(40), true)

		enc := NewEncoder(braces)
		for _, line := range doc {
			enc.Push(line)
		}
		open := enc.Stats()
		require.Equal(t, open.Indents-open.Dedents, open.Open, "doc %q", doc)

		out := enc.Close()
		require.Len(t, out, len(doc))
		st := enc.Stats()
		require.True(t, st.Balanced(), "doc %q", doc)
		require.Equal(t, st.Indents, countRune(out, '{'))
		require.Equal(t, st.Dedents, countRune(out, '}'))
		require.Equal(t, []Frame{{}}, enc.Stack())
	}
}

func TestEncodeNoOptionsNoMarkers(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		doc := randomDocument(rng, 1+rng.Intn(30), false)
		require.Equal(t, doc, Encode(doc, braces))
	}
}

func TestEncodeSameLevelRunEmitsNothing(t *testing.T) {
	t.Parallel()

	in := []string{"-> a", "    b", "    c", "    d", "    e"}
	got := Encode(in, braces)
	assert.Equal(t, "-> a{", got[0])
	for _, line := range got[1:] {
		assert.NotContains(t, line, "{")
		assert.NotContains(t, line, "}")
	}
}

func randomDocument(rng *rand.Rand, n int, options bool) []string {
	doc := make([]string, n)
	for i := range doc {
		depth := rng.Intn(4) * 4
		body := "line"
		if options && rng.Intn(3) == 0 {
			body = "-> choice"
		}
		doc[i] = strings.Repeat(" ", depth) + body
	}
	return doc
}

func countRune(lines []string, r rune) int {
	n := 0
	for _, line := range lines {
		n += strings.Count(line, string(r))
	}
	return n
}
