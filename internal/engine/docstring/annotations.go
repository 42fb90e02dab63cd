package docstring

import (
	"regexp"
	"strings"
)

// Annotations holds the structured fields recognized in a docstring.
type Annotations struct {
	Params     map[string]string
	Return     string
	ReturnType string
	Summary    string
}

type fieldKind int

const (
	fieldNone fieldKind = iota
	fieldParam
	fieldReturn
	fieldRType
)

var (
	paramLine  = regexp.MustCompile(`^:param\s+([^:]*?)\s*:\s*(.*)$`)
	returnLine = regexp.MustCompile(`^:returns?:?(?:\s+(.*))?$`)
	rtypeLine  = regexp.MustCompile(`^:rtype:?(?:\s+(.*))?$`)
)

type field struct {
	kind fieldKind
	name string
	text string
}

// Parse extracts :param, :return and :rtype fields from a cleaned docstring.
// Recognized lines (with their indented continuation lines) are removed from
// the summary; anything else, malformed field lines included, stays in it.
func Parse(doc string) Annotations {
	out := Annotations{Params: make(map[string]string)}
	if strings.TrimSpace(doc) == "" {
		return out
	}

	var (
		summary []string
		current *field
	)
	flush := func() {
		if current == nil {
			return
		}
		text := strings.TrimSpace(current.text)
		switch current.kind {
		case fieldParam:
			out.Params[current.name] = text
		case fieldReturn:
			out.Return = text
		case fieldRType:
			out.ReturnType = text
		}
		current = nil
	}

	for _, line := range strings.Split(doc, "\n") {
		trimmed := strings.TrimSpace(line)
		if f, ok := parseField(trimmed); ok {
			flush()
			current = &f
			continue
		}
		if current != nil && trimmed != "" && isIndented(line) {
			current.text += " " + trimmed
			continue
		}
		flush()
		summary = append(summary, line)
	}
	flush()

	out.Summary = strings.TrimSpace(strings.Join(summary, "\n"))
	return out
}

func parseField(line string) (field, bool) {
	if !strings.HasPrefix(line, ":") {
		return field{}, false
	}
	if m := paramLine.FindStringSubmatch(line); m != nil {
		words := strings.Fields(m[1])
		if len(words) == 0 {
			return field{}, false
		}
		return field{kind: fieldParam, name: words[len(words)-1], text: m[2]}, true
	}
	if m := rtypeLine.FindStringSubmatch(line); m != nil {
		return field{kind: fieldRType, text: m[1]}, true
	}
	if m := returnLine.FindStringSubmatch(line); m != nil {
		return field{kind: fieldReturn, text: m[1]}, true
	}
	return field{}, false
}

func isIndented(line string) bool {
	return strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
}
