package parser

import "sort"

// LastBindings applies Python's namespace rule to a set of definitions: each
// name keeps only the definition bound last (highest line), regardless of
// whether it is a function or a class. Input order is otherwise preserved.
func LastBindings(functions []Function, classes []Class) ([]Function, []Class) {
	type binding struct {
		line    int
		isClass bool
		index   int
	}
	last := make(map[string]binding, len(functions)+len(classes))
	consider := func(name string, b binding) {
		if prev, ok := last[name]; ok && prev.line > b.line {
			return
		}
		last[name] = b
	}
	for i, fn := range functions {
		consider(fn.Name, binding{line: fn.Location.Line, index: i})
	}
	for i, cls := range classes {
		consider(cls.Name, binding{line: cls.Location.Line, isClass: true, index: i})
	}

	outFns := make([]Function, 0, len(functions))
	for i, fn := range functions {
		if b := last[fn.Name]; !b.isClass && b.index == i {
			outFns = append(outFns, fn)
		}
	}
	outClasses := make([]Class, 0, len(classes))
	for i, cls := range classes {
		if b := last[cls.Name]; b.isClass && b.index == i {
			outClasses = append(outClasses, cls)
		}
	}
	return outFns, outClasses
}

// SortedImports returns imports ordered by source line.
func SortedImports(imports []Import) []Import {
	out := append([]Import(nil), imports...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Location.Line < out[j].Location.Line
	})
	return out
}
