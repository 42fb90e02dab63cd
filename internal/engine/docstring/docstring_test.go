package docstring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Fields(t *testing.T) {
	doc := `Parse your code and docstring then generate a dict with it.
:param working_path: The working directory to fetch your module
:param module_name: The name of the module
:param show_private: If True, parser will navigate through private members.
:return: Dictionary which contain metadata and doc.
:rtype dict`

	got := Parse(doc)

	assert.Equal(t, "Parse your code and docstring then generate a dict with it.", got.Summary)
	assert.Equal(t, map[string]string{
		"working_path": "The working directory to fetch your module",
		"module_name":  "The name of the module",
		"show_private": "If True, parser will navigate through private members.",
	}, got.Params)
	assert.Equal(t, "Dictionary which contain metadata and doc.", got.Return)
	assert.Equal(t, "dict", got.ReturnType)
}

func TestParse_EmptyDoc(t *testing.T) {
	for _, doc := range []string{"", "   ", "\n\n"} {
		got := Parse(doc)
		require.NotNil(t, got.Params)
		assert.Empty(t, got.Params)
		assert.Empty(t, got.Summary)
		assert.Empty(t, got.Return)
		assert.Empty(t, got.ReturnType)
	}
}

func TestParse_ContinuationLines(t *testing.T) {
	doc := `Summary line.

:param a: first part
    second part
:returns: the
    result
Trailing text.`

	got := Parse(doc)
	assert.Equal(t, "first part second part", got.Params["a"])
	assert.Equal(t, "the result", got.Return)
	assert.Equal(t, "Summary line.\n\nTrailing text.", got.Summary)
}

func TestParse_MalformedLinesStayInSummary(t *testing.T) {
	doc := `Does things.
:param missing_colon the colon is missing
:raises ValueError: when broken`

	got := Parse(doc)
	assert.Empty(t, got.Params)
	assert.Equal(t, "Does things.\n:param missing_colon the colon is missing\n:raises ValueError: when broken", got.Summary)
}

func TestParse_TypedParamAndDuplicates(t *testing.T) {
	doc := `:param int count: how many
:param count: overridden
:param unknown: not in the signature`

	got := Parse(doc)
	assert.Equal(t, "overridden", got.Params["count"])
	assert.Equal(t, "not in the signature", got.Params["unknown"])
	assert.Empty(t, got.Summary)
}

func TestClean(t *testing.T) {
	raw := "\n    First line.\n\n        Indented more.\n    Back.\n    "
	assert.Equal(t, "First line.\n\n    Indented more.\nBack.", Clean(raw))
	assert.Equal(t, "", Clean("   \n  "))
	assert.Equal(t, "One liner.", Clean("  One liner.  "))
}

func TestClean_Tabs(t *testing.T) {
	raw := "Title.\n\tBody."
	assert.Equal(t, "Title.\nBody.", Clean(raw))
}

func TestLiteral(t *testing.T) {
	cases := map[string]string{
		`"""Triple."""`:   "Triple.",
		`'''Single q.'''`: "Single q.",
		`"plain"`:         "plain",
		`r"""raw \d"""`:   `raw \d`,
		`'x'`:             "x",
	}
	for in, want := range cases {
		got, ok := Literal(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{`b"""bytes doc"""`, `f"""{x} doc"""`, `Rb'raw bytes'`, `F"x"`} {
		_, ok := Literal(in)
		assert.False(t, ok, in)
	}
}
