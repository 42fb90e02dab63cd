package loader

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"smalldoc/internal/core/errors"
	"smalldoc/internal/core/ports"

	"github.com/gobwas/glob"
)

const packageMarker = "__init__.py"

type Options struct {
	// ExcludeDirs are glob patterns matched against sub-unit directory names.
	ExcludeDirs []string
}

// Loader resolves dotted Python identifiers to parsed units on disk.
type Loader struct {
	parser      ports.ModuleParser
	excludeDirs []glob.Glob
}

var _ ports.UnitLoader = (*Loader)(nil)

func New(p ports.ModuleParser, opts Options) (*Loader, error) {
	if p == nil {
		return nil, errors.New(errors.CodeValidationError, "module parser is required")
	}
	compiled := make([]glob.Glob, 0, len(opts.ExcludeDirs))
	for _, pattern := range opts.ExcludeDirs {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeValidationError, fmt.Sprintf("invalid exclude dir pattern %q", pattern))
		}
		compiled = append(compiled, g)
	}
	return &Loader{parser: p, excludeDirs: compiled}, nil
}

func (l *Loader) NewSession() ports.UnitSession {
	return newSession(l)
}

func (l *Loader) excluded(name string) bool {
	for _, g := range l.excludeDirs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

func (l *Loader) parseFile(path string) (*parsedFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	mod, err := l.parser.ParseModule(path, content)
	if err != nil {
		return nil, err
	}
	return &parsedFile{module: mod}, nil
}

// validIdentifier reports whether every dotted segment is a Python name.
func validIdentifier(identifier string) bool {
	if identifier == "" {
		return false
	}
	for _, seg := range strings.Split(identifier, ".") {
		if !isPythonName(seg) {
			return false
		}
	}
	return true
}

func isPythonName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
