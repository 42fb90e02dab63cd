package doctree

import (
	"sort"
	"strings"
)

// classSelfReference is bound implicitly in every class body and is never
// documented.
const classSelfReference = "__class__"

func isShown(name string, showPrivate bool) bool {
	if name == classSelfReference {
		return false
	}
	return showPrivate || !strings.HasPrefix(name, "_")
}

func sortFunctions(fns []FunctionDoc) {
	sort.SliceStable(fns, func(i, j int) bool { return fns[i].Name < fns[j].Name })
}

func sortTypes(types []TypeDoc) {
	sort.SliceStable(types, func(i, j int) bool { return types[i].Name < types[j].Name })
}

func sortParameters(params []ParameterDoc) {
	sort.SliceStable(params, func(i, j int) bool { return params[i].Name < params[j].Name })
}

func sortUnits(units []UnitDoc) {
	sort.SliceStable(units, func(i, j int) bool { return units[i].Name < units[j].Name })
}
