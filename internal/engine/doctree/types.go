package doctree

// UnitDoc documents a module or package. Name is the fully qualified dotted
// identifier; all three member lists are sorted by name.
type UnitDoc struct {
	Name      string        `json:"name" yaml:"name"`
	Summary   string        `json:"summary" yaml:"summary"`
	Functions []FunctionDoc `json:"functions" yaml:"functions"`
	Types     []TypeDoc     `json:"types" yaml:"types"`
	SubUnits  []UnitDoc     `json:"sub_units" yaml:"sub_units"`
}

// TypeDoc documents a class. Types never carry sub-units.
type TypeDoc struct {
	Name        string        `json:"name" yaml:"name"`
	Bases       string        `json:"bases" yaml:"bases"`
	Decorators  []string      `json:"decorators" yaml:"decorators"`
	Summary     string        `json:"summary" yaml:"summary"`
	Functions   []FunctionDoc `json:"functions" yaml:"functions"`
	NestedTypes []TypeDoc     `json:"nested_types" yaml:"nested_types"`
}

type FunctionDoc struct {
	Name       string         `json:"name" yaml:"name"`
	Parameters []ParameterDoc `json:"parameters" yaml:"parameters"`
	Returns    ReturnDoc      `json:"returns" yaml:"returns"`
	Signature  string         `json:"signature" yaml:"signature"`
	Decorators []string       `json:"decorators" yaml:"decorators"`
	Summary    string         `json:"summary" yaml:"summary"`
}

// ParameterDoc names carry a "*" or "**" prefix for variadic catch-alls.
type ParameterDoc struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
}

type ReturnDoc struct {
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
}

// Count returns the number of units, types and functions in the tree rooted
// at u.
func (u *UnitDoc) Count() (units, types, functions int) {
	if u == nil {
		return 0, 0, 0
	}
	units = 1
	functions = len(u.Functions)
	for i := range u.Types {
		t, f := u.Types[i].count()
		types += t
		functions += f
	}
	for i := range u.SubUnits {
		su, st, sf := u.SubUnits[i].Count()
		units += su
		types += st
		functions += sf
	}
	return units, types, functions
}

func (t *TypeDoc) count() (types, functions int) {
	types = 1
	functions = len(t.Functions)
	for i := range t.NestedTypes {
		nt, nf := t.NestedTypes[i].count()
		types += nt
		functions += nf
	}
	return types, functions
}
