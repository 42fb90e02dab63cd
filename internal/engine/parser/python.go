package parser

import (
	"strings"

	"smalldoc/internal/engine/docstring"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// PythonExtractor builds a module symbol table from a tree-sitter-python tree.
// Only statements directly in the module body (or a class body) are members;
// definitions nested in functions or conditional blocks are not.
type PythonExtractor struct{}

func (e *PythonExtractor) Extract(root *sitter.Node, source []byte, filePath string) (*Module, error) {
	mod := &Module{Path: filePath}
	ctx := &ExtractionContext{Source: source, Module: mod}

	mod.Doc = e.docstring(ctx, root)
	mod.Functions, mod.Classes = e.members(ctx, root)

	for i := uint(0); i < root.ChildCount(); i++ {
		child := root.Child(i)
		if child != nil && child.Kind() == "import_from_statement" {
			if imp, ok := e.extractFromImport(ctx, child); ok {
				mod.Imports = append(mod.Imports, imp)
			}
		}
	}
	return mod, nil
}

// members collects the functions and classes bound directly in body. When a
// name is bound more than once the last binding wins.
func (e *PythonExtractor) members(ctx *ExtractionContext, body *sitter.Node) ([]Function, []Class) {
	var (
		functions []Function
		classes   []Class
	)
	if body == nil {
		return functions, classes
	}

	for i := uint(0); i < body.ChildCount(); i++ {
		stmt := body.Child(i)
		if stmt == nil {
			continue
		}
		var decorators []string
		def := stmt
		if stmt.Kind() == "decorated_definition" {
			decorators = e.decorators(ctx, stmt)
			def = stmt.ChildByFieldName("definition")
			if def == nil {
				continue
			}
		}

		switch def.Kind() {
		case "function_definition":
			fn := e.extractFunction(ctx, def)
			fn.Decorators = decorators
			functions = append(functions, fn)
		case "class_definition":
			cls := e.extractClass(ctx, def)
			cls.Decorators = decorators
			classes = append(classes, cls)
		}
	}
	return LastBindings(functions, classes)
}

func (e *PythonExtractor) extractFunction(ctx *ExtractionContext, node *sitter.Node) Function {
	fn := Function{
		Name:     ctx.Text(node.ChildByFieldName("name")),
		Async:    childOfKind(node, "async") != nil,
		Location: ctx.Location(node),
	}
	if ret := node.ChildByFieldName("return_type"); ret != nil {
		fn.ReturnType = ctx.CompactText(ret)
	}
	params := node.ChildByFieldName("parameters")
	fn.Params = e.extractParams(ctx, params)
	fn.Declared = declaredParams(ctx, params)
	fn.Doc = e.docstring(ctx, node.ChildByFieldName("body"))
	return fn
}

func (e *PythonExtractor) extractParams(ctx *ExtractionContext, params *sitter.Node) []Param {
	if params == nil {
		return nil
	}

	var out []Param
	kind := ParamPositional
	for i := uint(0); i < params.ChildCount(); i++ {
		child := params.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "positional_separator":
			// Everything declared so far was positional-only.
			for j := range out {
				if out[j].Kind == ParamPositional {
					out[j].Kind = ParamPositionalOnly
				}
			}
			continue
		case "keyword_separator":
			kind = ParamKeywordOnly
			continue
		}

		param, ok := e.extractParam(ctx, child)
		if !ok {
			continue
		}
		switch param.Kind {
		case ParamVarArgs:
			kind = ParamKeywordOnly
		case ParamKwArgs:
		default:
			param.Kind = kind
		}
		out = append(out, param)
	}
	return out
}

func (e *PythonExtractor) extractParam(ctx *ExtractionContext, node *sitter.Node) (Param, bool) {
	param := Param{Text: ctx.CompactText(node)}

	switch node.Kind() {
	case "identifier":
		param.Name = ctx.Text(node)
	case "default_parameter":
		param.Name = ctx.Text(node.ChildByFieldName("name"))
	case "typed_parameter", "typed_default_parameter":
		param.Type = ctx.CompactText(node.ChildByFieldName("type"))
		target := node.ChildByFieldName("name")
		if target == nil {
			target = firstNamedChild(node)
		}
		if target == nil {
			return Param{}, false
		}
		inner, ok := e.extractParam(ctx, target)
		if !ok {
			return Param{}, false
		}
		param.Name = inner.Name
		param.Kind = inner.Kind
	case "list_splat_pattern":
		param.Name = ctx.ChildText(node, "identifier")
		param.Kind = ParamVarArgs
	case "dictionary_splat_pattern":
		param.Name = ctx.ChildText(node, "identifier")
		param.Kind = ParamKwArgs
	default:
		return Param{}, false
	}
	return param, param.Name != ""
}

// declaredParams lists each entry of a parameter list as written, markers
// such as "/" and "*" included.
func declaredParams(ctx *ExtractionContext, params *sitter.Node) []string {
	if params == nil {
		return nil
	}
	var out []string
	for i := uint(0); i < params.NamedChildCount(); i++ {
		child := params.NamedChild(i)
		if child == nil || child.Kind() == "comment" {
			continue
		}
		out = append(out, ctx.CompactText(child))
	}
	return out
}

func firstNamedChild(node *sitter.Node) *sitter.Node {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		if child := node.NamedChild(i); child != nil {
			return child
		}
	}
	return nil
}

func (e *PythonExtractor) extractClass(ctx *ExtractionContext, node *sitter.Node) Class {
	cls := Class{
		Name:     ctx.Text(node.ChildByFieldName("name")),
		Location: ctx.Location(node),
	}
	if bases := node.ChildByFieldName("superclasses"); bases != nil {
		cls.Bases = strings.TrimSuffix(strings.TrimPrefix(ctx.CompactText(bases), "("), ")")
	}
	body := node.ChildByFieldName("body")
	cls.Doc = e.docstring(ctx, body)
	cls.Methods, cls.Classes = e.members(ctx, body)
	return cls
}

func (e *PythonExtractor) extractFromImport(ctx *ExtractionContext, node *sitter.Node) (Import, bool) {
	imp := Import{Location: ctx.Location(node)}
	relative := false
	afterImport := false

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "import":
			afterImport = true
		case "relative_import":
			relative = true
			text := ctx.Text(child)
			module := strings.TrimLeft(text, ".")
			imp.Level = len(text) - len(module)
			imp.Module = strings.TrimSpace(module)
		case "wildcard_import":
			imp.Wildcard = true
		case "dotted_name":
			if afterImport {
				imp.Names = append(imp.Names, ImportedName{Name: ctx.Text(child)})
			}
		case "aliased_import":
			imp.Names = append(imp.Names, ImportedName{
				Name:  ctx.Text(child.ChildByFieldName("name")),
				Alias: ctx.Text(child.ChildByFieldName("alias")),
			})
		}
	}
	return imp, relative
}

func (e *PythonExtractor) decorators(ctx *ExtractionContext, node *sitter.Node) []string {
	var out []string
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || child.Kind() != "decorator" {
			continue
		}
		dec := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(ctx.Text(child)), "@"))
		if dec != "" {
			out = append(out, dec)
		}
	}
	return out
}

// docstring returns the cleaned docstring of a module or block: its first
// statement when that statement is a bare string literal.
func (e *PythonExtractor) docstring(ctx *ExtractionContext, body *sitter.Node) string {
	if body == nil {
		return ""
	}
	for i := uint(0); i < body.NamedChildCount(); i++ {
		stmt := body.NamedChild(i)
		if stmt == nil || stmt.Kind() == "comment" {
			continue
		}
		if stmt.Kind() != "expression_statement" || stmt.NamedChildCount() == 0 {
			return ""
		}
		return docstring.Clean(stringValue(ctx, stmt.NamedChild(0)))
	}
	return ""
}

// stringValue returns the body of a plain string literal, joining the parts
// of an implicitly concatenated one. Any other node, or one with a bytes or
// f-string part, yields "".
func stringValue(ctx *ExtractionContext, node *sitter.Node) string {
	if node == nil {
		return ""
	}
	switch node.Kind() {
	case "string":
		body, ok := docstring.Literal(ctx.Text(node))
		if !ok {
			return ""
		}
		return body
	case "concatenated_string":
		var b strings.Builder
		for i := uint(0); i < node.NamedChildCount(); i++ {
			part := node.NamedChild(i)
			if part == nil || part.Kind() == "comment" {
				continue
			}
			if part.Kind() != "string" {
				return ""
			}
			body, ok := docstring.Literal(ctx.Text(part))
			if !ok {
				return ""
			}
			b.WriteString(body)
		}
		return b.String()
	}
	return ""
}
