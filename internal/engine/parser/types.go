package parser

// Module is the symbol table of one Python source file.
type Module struct {
	Name      string // Dotted unit identifier, set by the loader
	Path      string // Source file path
	Dir       string // Directory holding the unit's members
	IsPackage bool   // True for <dir>/__init__.py units
	Doc       string // Cleaned module docstring
	Functions []Function
	Classes   []Class
	Imports   []Import // Relative from-imports only
}

type Function struct {
	Name       string
	Doc        string // Cleaned docstring
	Params     []Param
	Declared   []string // Parameter list entries as written, separators included
	ReturnType string // Return annotation source text, empty if absent
	Async      bool
	Decorators []string
	Location   Location
}

type ParamKind int

const (
	ParamPositional ParamKind = iota
	ParamPositionalOnly
	ParamKeywordOnly
	ParamVarArgs
	ParamKwArgs
)

type Param struct {
	Name string // Bare name, without * or ** markers
	Kind ParamKind
	Type string // Annotation source text, empty if absent
	Text string // Declaration as written, whitespace collapsed
}

type Class struct {
	Name       string
	Doc        string
	Bases      string // Superclass list as written, without parentheses
	Methods    []Function
	Classes    []Class
	Decorators []string
	Location   Location
}

// Import records `from .mod import a, b as c` style statements.
type Import struct {
	Level    int    // Number of leading dots
	Module   string // Dotted module after the dots, may be empty
	Names    []ImportedName
	Wildcard bool
	Location Location
}

type ImportedName struct {
	Name  string
	Alias string
}

// Bound returns the name the import binds in the importing namespace.
func (n ImportedName) Bound() string {
	if n.Alias != "" {
		return n.Alias
	}
	return n.Name
}

type Location struct {
	File   string
	Line   int
	Column int
}
