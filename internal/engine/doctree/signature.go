package doctree

import (
	"strings"

	"smalldoc/internal/engine/docstring"
	"smalldoc/internal/engine/parser"
)

// ExtractFunction merges a function's declared signature with the Sphinx
// fields of its docstring. Types come only from annotations in the
// signature; descriptions come only from the docstring.
func ExtractFunction(fn parser.Function) FunctionDoc {
	ann := docstring.Parse(fn.Doc)

	params := make([]ParameterDoc, 0, len(fn.Params))
	for _, p := range fn.Params {
		switch p.Kind {
		case parser.ParamVarArgs:
			params = append(params, ParameterDoc{Name: "*" + p.Name})
		case parser.ParamKwArgs:
			params = append(params, ParameterDoc{Name: "**" + p.Name})
		default:
			params = append(params, ParameterDoc{
				Name:        p.Name,
				Type:        p.Type,
				Description: ann.Params[p.Name],
			})
		}
	}
	sortParameters(params)

	returnType := fn.ReturnType
	if returnType == "" {
		returnType = ann.ReturnType
	}

	return FunctionDoc{
		Name:       fn.Name,
		Parameters: params,
		Returns: ReturnDoc{
			Type:        returnType,
			Description: ann.Return,
		},
		Signature:  Signature(fn),
		Decorators: append([]string{}, fn.Decorators...),
		Summary:    ann.Summary,
	}
}

// Signature renders fn's declaration line without the trailing colon.
// Decorators are not part of it.
func Signature(fn parser.Function) string {
	var b strings.Builder
	if fn.Async {
		b.WriteString("async ")
	}
	b.WriteString("def ")
	b.WriteString(fn.Name)
	b.WriteByte('(')
	b.WriteString(strings.Join(fn.Declared, ", "))
	b.WriteByte(')')
	if fn.ReturnType != "" {
		b.WriteString(" -> ")
		b.WriteString(fn.ReturnType)
	}
	return b.String()
}
