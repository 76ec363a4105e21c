// Package lines normalizes Yarn script text into lines ready for
// indentation tracking and joins processed lines back together.
package lines

import "strings"

// DefaultTabWidth is the number of spaces a tab expands to.
const DefaultTabWidth = 4

// OptionPrefix marks a line that may open an indented block.
const OptionPrefix = "->"

// Split converts line terminators to \n, drops a single trailing terminator,
// and expands every tab to tabWidth spaces. A non-positive tabWidth selects
// DefaultTabWidth.
func Split(text string, tabWidth int) []string {
	if text == "" {
		return nil
	}
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")

	tab := strings.Repeat(" ", tabWidth)
	out := strings.Split(text, "\n")
	for i, line := range out {
		out[i] = strings.ReplaceAll(line, "\t", tab)
	}
	return out
}

// Depth counts the leading spaces of line.
func Depth(line string) int {
	n := 0
	for n < len(line) && line[n] == ' ' {
		n++
	}
	return n
}

// IsOptionTrigger reports whether the trimmed line starts with OptionPrefix.
func IsOptionTrigger(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), OptionPrefix)
}

// Join is the inverse of Split for already processed lines. No terminator is
// written after the last line.
func Join(lines []string) string {
	return strings.Join(lines, "\n")
}
