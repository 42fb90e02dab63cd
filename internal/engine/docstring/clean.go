package docstring

import (
	"strings"
)

const tabWidth = 8

// Literal returns the body of a Python string literal: prefix letters and
// quotes are removed, escapes are left untouched. ok is false for bytes and
// f-string literals, which never become docstrings.
func Literal(raw string) (body string, ok bool) {
	s := strings.TrimSpace(raw)
	unprefixed := strings.TrimLeft(s, "rRuUbBfF")
	if strings.ContainsAny(s[:len(s)-len(unprefixed)], "bBfF") {
		return "", false
	}
	s = unprefixed
	for _, quote := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(s, quote) {
			s = strings.TrimPrefix(s, quote)
			return strings.TrimSuffix(s, quote), true
		}
	}
	return s, true
}

// Clean normalizes docstring text the way inspect.cleandoc does: tabs are
// expanded, the first line is left-trimmed, the common indentation of the
// remaining lines is removed, and blank lines at both ends are dropped.
func Clean(doc string) string {
	if strings.TrimSpace(doc) == "" {
		return ""
	}
	doc = strings.ReplaceAll(doc, "\r\n", "\n")
	lines := strings.Split(expandTabs(doc), "\n")

	margin := -1
	for _, line := range lines[1:] {
		content := strings.TrimLeft(line, " ")
		if content == "" {
			continue
		}
		indent := len(line) - len(content)
		if margin < 0 || indent < margin {
			margin = indent
		}
	}

	lines[0] = strings.TrimSpace(lines[0])
	for i := 1; i < len(lines); i++ {
		if margin > 0 && len(lines[i]) >= margin {
			lines[i] = lines[i][margin:]
		} else {
			lines[i] = strings.TrimLeft(lines[i], " ")
		}
		lines[i] = strings.TrimRight(lines[i], " ")
	}

	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		switch r {
		case '\t':
			spaces := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", spaces))
			col += spaces
		case '\n':
			b.WriteRune(r)
			col = 0
		default:
			b.WriteRune(r)
			col++
		}
	}
	return b.String()
}
