package template

import (
	"strings"
	"unicode"
)

// lineAt returns the line of text that contains the byte range [start,end).
func lineAt(text string, start, end int) string {
	lineStart := strings.LastIndexByte(text[:start], '\n') + 1
	lineEnd := len(text)
	if i := strings.IndexByte(text[end:], '\n'); i >= 0 {
		lineEnd = end + i
	}
	return text[lineStart:lineEnd]
}

// leadingSpace returns the whitespace prefix of line.
func leadingSpace(line string) string {
	return line[:len(line)-len(strings.TrimLeftFunc(line, unicode.IsSpace))]
}

// splitLines splits s on "\n", dropping one trailing empty line and any
// "\r" before each line break.
func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// indentContinuation prefixes every line after the first with prefix. The
// first line lands after the indentation already present in the text.
func indentContinuation(s, prefix string) string {
	lines := splitLines(s)
	for i := 1; i < len(lines); i++ {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}

// adjustIndent reindents a multiline replacement when p is the only
// non-whitespace content of its line in input, so YAML block scalars stay
// valid. Other replacements are returned unchanged.
func adjustIndent(input string, p Placeholder, replacement string) string {
	if !strings.Contains(replacement, "\n") {
		return replacement
	}
	line := lineAt(input, p.Start, p.End)
	if strings.TrimSpace(line) != p.Raw {
		return replacement
	}
	return indentContinuation(replacement, leadingSpace(line))
}
