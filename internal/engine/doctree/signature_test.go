package doctree

import (
	"testing"

	"smalldoc/internal/engine/parser"

	"github.com/stretchr/testify/assert"
)

func TestExtractFunction_MergesAnnotations(t *testing.T) {
	fn := parser.Function{
		Name: "connect",
		Doc: `Open a connection.

:param host: server name
:param port: tcp port
:param unused: not in the signature
:return: the session
:rtype: Session`,
		Params: []parser.Param{
			{Name: "port", Kind: parser.ParamPositional, Type: "int", Text: "port: int"},
			{Name: "host", Kind: parser.ParamPositional, Text: "host"},
		},
		Declared: []string{"port: int", "host"},
	}

	doc := ExtractFunction(fn)

	assert.Equal(t, "connect", doc.Name)
	assert.Equal(t, "Open a connection.", doc.Summary)
	assert.Equal(t, []ParameterDoc{
		{Name: "host", Type: "", Description: "server name"},
		{Name: "port", Type: "int", Description: "tcp port"},
	}, doc.Parameters)
	assert.Equal(t, ReturnDoc{Type: "Session", Description: "the session"}, doc.Returns)
	assert.Equal(t, "def connect(port: int, host)", doc.Signature)
}

func TestExtractFunction_ReturnTypePrecedence(t *testing.T) {
	tests := []struct {
		name       string
		annotation string
		doc        string
		want       string
	}{
		{"annotation wins", "int", ":rtype: str", "int"},
		{"rtype fallback", "", ":rtype: str", "str"},
		{"neither", "", "Nothing here.", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := ExtractFunction(parser.Function{Name: "f", ReturnType: tt.annotation, Doc: tt.doc})
			assert.Equal(t, tt.want, doc.Returns.Type)
		})
	}
}

func TestExtractFunction_Variadics(t *testing.T) {
	fn := parser.Function{
		Name: "call",
		Doc:  ":param args: ignored for catch-alls",
		Params: []parser.Param{
			{Name: "x", Kind: parser.ParamPositional, Text: "x"},
			{Name: "args", Kind: parser.ParamVarArgs, Text: "*args"},
			{Name: "key", Kind: parser.ParamKeywordOnly, Type: "str", Text: "key: str"},
			{Name: "kwargs", Kind: parser.ParamKwArgs, Text: "**kwargs"},
		},
		Declared:   []string{"x", "*args", "key: str", "**kwargs"},
		ReturnType: "None",
	}

	doc := ExtractFunction(fn)

	assert.Equal(t, []ParameterDoc{
		{Name: "**kwargs"},
		{Name: "*args"},
		{Name: "key", Type: "str"},
		{Name: "x"},
	}, doc.Parameters)
	assert.Equal(t, "def call(x, *args, key: str, **kwargs) -> None", doc.Signature)
}

func TestExtractFunction_NoDocstring(t *testing.T) {
	doc := ExtractFunction(parser.Function{Name: "bare"})

	assert.Equal(t, "def bare()", doc.Signature)
	assert.Empty(t, doc.Summary)
	assert.NotNil(t, doc.Parameters)
	assert.Empty(t, doc.Parameters)
	assert.Equal(t, ReturnDoc{}, doc.Returns)
}

func TestSignature_IndependentOfDocstring(t *testing.T) {
	fn := parser.Function{Name: "f", Declared: []string{"a", "/", "b", "*", "c=1"}}
	a := Signature(fn)
	fn.Doc = ":param a: changed"
	assert.Equal(t, a, Signature(fn))
	assert.Equal(t, "def f(a, /, b, *, c=1)", a)
}

func TestExtractFunction_AsyncAndDecorators(t *testing.T) {
	fn := parser.Function{
		Name:       "fetch",
		Declared:   []string{"url"},
		ReturnType: "bytes",
		Async:      true,
		Decorators: []string{"retry(3)", "cached"},
	}

	doc := ExtractFunction(fn)

	assert.Equal(t, "async def fetch(url) -> bytes", doc.Signature)
	assert.Equal(t, []string{"retry(3)", "cached"}, doc.Decorators)

	plain := ExtractFunction(parser.Function{Name: "plain"})
	assert.NotNil(t, plain.Decorators)
	assert.Empty(t, plain.Decorators)
}
