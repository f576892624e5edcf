package tinyc

import (
	"fmt"
	"strconv"
	"strings"
)

// formatCodeFrame renders the source line at pos, preceded by the line above
// it when that line is not blank, with a caret under the column. It returns
// "" when pos lies outside source.
func formatCodeFrame(source string, pos Position) string {
	if source == "" || pos.Line <= 0 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if pos.Line > len(lines) {
		return ""
	}

	target := []rune(lines[pos.Line-1])
	column := min(max(pos.Column, 1), len(target)+1)
	width := len(strconv.Itoa(pos.Line))

	var b strings.Builder
	fmt.Fprintf(&b, "  --> line %d, column %d", pos.Line, column)
	if pos.Line > 1 {
		if prev := lines[pos.Line-2]; strings.TrimSpace(prev) != "" {
			fmt.Fprintf(&b, "\n %*d | %s", width, pos.Line-1, prev)
		}
	}
	fmt.Fprintf(&b, "\n %*d | %s", width, pos.Line, string(target))
	fmt.Fprintf(&b, "\n %*s | %s^", width, "", caretPadding(target[:column-1]))
	return b.String()
}

// caretPadding keeps tabs from prefix so the caret lines up under the
// rendered line.
func caretPadding(prefix []rune) string {
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
