package loader

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"smalldoc/internal/core/errors"
	"smalldoc/internal/engine/parser"
	"smalldoc/internal/shared/util"
)

type parsedFile struct {
	module *parser.Module
}

type namespace struct {
	functions []parser.Function
	classes   []parser.Class
}

// Session is the per-build view of the loader: its search list, parse cache
// and resolved namespaces are never shared with another build.
type Session struct {
	loader *Loader

	mu         sync.Mutex
	searchPath []string
	files      map[string]*parsedFile

	nsMu       sync.Mutex
	namespaces map[string]namespace
}

func newSession(l *Loader) *Session {
	return &Session{
		loader:     l,
		files:      make(map[string]*parsedFile),
		namespaces: make(map[string]namespace),
	}
}

func (s *Session) AddSearchPath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchPath = append(s.searchPath, path)
}

// SearchPath returns a snapshot of the search list.
func (s *Session) SearchPath() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.searchPath...)
}

func (s *Session) Resolve(ctx context.Context, identifier string) (*parser.Module, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validIdentifier(identifier) {
		return nil, nil
	}

	segments := strings.Split(identifier, ".")
	for _, root := range s.SearchPath() {
		base := filepath.Join(append([]string{root}, segments...)...)
		if init := filepath.Join(base, packageMarker); util.IsFile(init) {
			return s.load(identifier, init, true)
		}
		if file := base + ".py"; util.IsFile(file) {
			return s.load(identifier, file, false)
		}
	}
	return nil, nil
}

func (s *Session) load(identifier, path string, isPackage bool) (*parser.Module, error) {
	pf, err := s.file(path)
	if err != nil {
		err = errors.LoadFault(err, identifier)
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}

	ns := s.namespace(path)
	mod := *pf.module
	mod.Name = identifier
	mod.Dir = filepath.Dir(path)
	mod.IsPackage = isPackage
	mod.Functions = ns.functions
	mod.Classes = ns.classes
	return &mod, nil
}

func (s *Session) file(path string) (*parsedFile, error) {
	s.mu.Lock()
	pf, ok := s.files[path]
	s.mu.Unlock()
	if ok {
		return pf, nil
	}

	pf, err := s.loader.parseFile(path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, ok := s.files[path]; ok {
		return cached, nil
	}
	s.files[path] = pf
	return pf, nil
}

// maxNamespaceRounds bounds the fixpoint iteration in settle. Re-export
// chains settle in about as many rounds as they are long.
const maxNamespaceRounds = 64

// namespace returns the functions and classes bound in the module at path,
// including names pulled in through relative from-imports. Bindings apply in
// source order, so a later definition or import replaces an earlier one.
//
// Modules that re-export from each other are settled together, so the result
// for path never depends on which module of a cycle was resolved first.
func (s *Session) namespace(path string) namespace {
	s.nsMu.Lock()
	defer s.nsMu.Unlock()
	if ns, ok := s.namespaces[path]; ok {
		return ns
	}
	for file, ns := range s.settle(path) {
		s.namespaces[file] = ns
	}
	return s.namespaces[path]
}

// settle computes the namespaces of path and of every module it reaches
// through relative imports. Each round recomputes all of them from the
// previous round's values until nothing changes. A module's value in every
// round depends only on the modules it reaches, so it is the same whichever
// module the computation started from.
func (s *Session) settle(path string) map[string]namespace {
	files := s.reachable(path)
	current := make(map[string]namespace, len(files))
	for _, file := range files {
		current[file] = namespace{}
	}

	for round := 0; round < maxNamespaceRounds; round++ {
		next := make(map[string]namespace, len(files))
		changed := false
		for _, file := range files {
			ns := s.bindings(file, current)
			if !reflect.DeepEqual(ns, current[file]) {
				changed = true
			}
			next[file] = ns
		}
		current = next
		if !changed {
			return current
		}
	}
	slog.Warn("re-exports did not settle", "path", path, "rounds", maxNamespaceRounds)
	return current
}

// reachable lists path and the readable modules it reaches through relative
// imports, in path order.
func (s *Session) reachable(path string) []string {
	seen := map[string]bool{}
	queue := []string{path}
	var files []string
	for len(queue) > 0 {
		file := queue[0]
		queue = queue[1:]
		if seen[file] {
			continue
		}
		seen[file] = true

		pf, err := s.file(file)
		if err != nil {
			slog.Debug("skipping unreadable re-export source", "path", file, "error", err)
			continue
		}
		files = append(files, file)
		for _, imp := range pf.module.Imports {
			if target := relativeTarget(file, imp); target != "" && !seen[target] {
				queue = append(queue, target)
			}
		}
	}
	return sortedCopy(files)
}

// bindings computes one round of the namespace of file, reading imported
// names from the previous round's namespaces.
func (s *Session) bindings(file string, previous map[string]namespace) namespace {
	pf, err := s.file(file)
	if err != nil {
		return namespace{}
	}
	functions := append([]parser.Function(nil), pf.module.Functions...)
	classes := append([]parser.Class(nil), pf.module.Classes...)
	for _, imp := range parser.SortedImports(pf.module.Imports) {
		target := relativeTarget(file, imp)
		if target == "" || target == file {
			continue
		}
		source, ok := previous[target]
		if !ok {
			continue
		}
		fns, cls := imported(source, imp)
		functions = append(functions, fns...)
		classes = append(classes, cls...)
	}

	var ns namespace
	ns.functions, ns.classes = parser.LastBindings(functions, classes)
	return ns
}

// imported returns the members of source that imp binds, renamed to their
// bound names and located at the import statement.
func imported(source namespace, imp parser.Import) ([]parser.Function, []parser.Class) {
	var (
		functions []parser.Function
		classes   []parser.Class
	)
	bind := func(name, bound string) {
		for _, fn := range source.functions {
			if fn.Name == name {
				fn.Name = bound
				fn.Location = imp.Location
				functions = append(functions, fn)
			}
		}
		for _, cls := range source.classes {
			if cls.Name == name {
				cls.Name = bound
				cls.Location = imp.Location
				classes = append(classes, cls)
			}
		}
	}

	if imp.Wildcard {
		for _, fn := range source.functions {
			if !strings.HasPrefix(fn.Name, "_") {
				bind(fn.Name, fn.Name)
			}
		}
		for _, cls := range source.classes {
			if !strings.HasPrefix(cls.Name, "_") {
				bind(cls.Name, cls.Name)
			}
		}
		return functions, classes
	}
	for _, name := range imp.Names {
		bind(name.Name, name.Bound())
	}
	return functions, classes
}

// relativeTarget maps a relative import in file from to the source file it
// reads names from, or "" when no such file exists.
func relativeTarget(from string, imp parser.Import) string {
	if imp.Level < 1 {
		return ""
	}
	base := filepath.Dir(from)
	for i := 1; i < imp.Level; i++ {
		base = filepath.Dir(base)
	}
	if imp.Module != "" {
		base = filepath.Join(append([]string{base}, strings.Split(imp.Module, ".")...)...)
		if init := filepath.Join(base, packageMarker); util.IsFile(init) {
			return init
		}
		if file := base + ".py"; util.IsFile(file) {
			return file
		}
		slog.Debug("unresolved relative import", "from", from, "module", imp.Module, "level", imp.Level)
		return ""
	}
	if init := filepath.Join(base, packageMarker); util.IsFile(init) {
		return init
	}
	return ""
}

// SubUnits lists directories under a package that qualify as sub-units: not
// hidden or dunder-prefixed, carrying __init__.py, importable by name and not
// excluded by configuration.
func (s *Session) SubUnits(unit *parser.Module) ([]string, error) {
	if unit == nil || !unit.IsPackage {
		return nil, nil
	}
	entries, err := os.ReadDir(unit.Dir)
	if err != nil {
		err = errors.LoadFault(err, unit.Name)
		return nil, errors.AddContext(err, errors.CtxPath, unit.Dir)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "__") {
			continue
		}
		full := filepath.Join(unit.Dir, name)
		if !util.IsDir(full) || !util.IsFile(filepath.Join(full, packageMarker)) {
			continue
		}
		if !isPythonName(name) {
			slog.Debug("skipping package directory with non-importable name", "path", full)
			continue
		}
		if s.loader.excluded(name) {
			continue
		}
		names = append(names, name)
	}
	return sortedCopy(names), nil
}
