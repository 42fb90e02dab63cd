package doctree

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"smalldoc/internal/core/errors"
	"smalldoc/internal/core/ports"
	"smalldoc/internal/engine/loader"
	"smalldoc/internal/engine/parser"
	"smalldoc/internal/shared/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fakemodule = map[string]string{
	"fakemodule/__init__.py": `"""Fake module for tests."""

from .helpers import helper


def public(a: int, b, *args, **kwargs) -> bool:
    """Do public things.

    :param a: first value
    :param b: second value
    :return: whether it worked
    """


def _private():
    pass


class Widget:
    """A widget.

    Spans lines.
    """

    def render(self, width: int = 80):
        """Render it.

        :param width: columns
        :rtype: str
        """

    def _hidden(self):
        pass

    class Part:
        """Nested part."""

        def size(self):
            """:rtype: int"""

    class _Secret:
        pass


class _Internal:
    pass
`,
	"fakemodule/helpers.py": `def helper(x):
    """Help.

    :param x: input
    """
`,
	"fakemodule/sub/__init__.py": `"""Sub package."""

def sub_func():
    pass
`,
	"fakemodule/sub/deep/__init__.py": `def deep_func():
    pass
`,
	"fakemodule/_private_sub/__init__.py": `def hidden():
    pass
`,
	"fakemodule/alpha/__init__.py": `"""Alpha."""
`,
	"fakemodule/data/readme.txt": "not a package",
}

func writeFixture(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func newTestBuilder(t *testing.T, opts Options, excludes ...string) *Builder {
	t.Helper()
	p, err := parser.NewParser(parser.NewGrammarLoader())
	require.NoError(t, err)
	l, err := loader.New(p, loader.Options{ExcludeDirs: excludes})
	require.NoError(t, err)
	return NewBuilder(l, opts)
}

func functionNames(fns []FunctionDoc) []string {
	out := make([]string, 0, len(fns))
	for _, fn := range fns {
		out = append(out, fn.Name)
	}
	return out
}

func typeNames(types []TypeDoc) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, t.Name)
	}
	return out
}

func unitNames(units []UnitDoc) []string {
	out := make([]string, 0, len(units))
	for _, u := range units {
		out = append(out, u.Name)
	}
	return out
}

func TestBuild_PublicTree(t *testing.T) {
	root := writeFixture(t, fakemodule)
	b := newTestBuilder(t, Options{})

	doc, err := b.Build(context.Background(), root, "fakemodule", false)
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.Equal(t, "fakemodule", doc.Name)
	assert.Equal(t, "Fake module for tests.", doc.Summary)
	assert.Equal(t, []string{"helper", "public"}, functionNames(doc.Functions))
	assert.Equal(t, []string{"Widget"}, typeNames(doc.Types))
	assert.Equal(t, []string{"fakemodule.alpha", "fakemodule.sub"}, unitNames(doc.SubUnits))

	public := doc.Functions[1]
	assert.Equal(t, "def public(a: int, b, *args, **kwargs) -> bool", public.Signature)
	assert.Equal(t, "Do public things.", public.Summary)
	assert.Equal(t, []ParameterDoc{
		{Name: "**kwargs"},
		{Name: "*args"},
		{Name: "a", Type: "int", Description: "first value"},
		{Name: "b", Description: "second value"},
	}, public.Parameters)
	assert.Equal(t, ReturnDoc{Type: "bool", Description: "whether it worked"}, public.Returns)

	widget := doc.Types[0]
	assert.Equal(t, "A widget.\n\nSpans lines.", widget.Summary)
	assert.Equal(t, []string{"render"}, functionNames(widget.Functions))
	assert.Equal(t, []string{"Part"}, typeNames(widget.NestedTypes))
	assert.Equal(t, ReturnDoc{Type: "str"}, widget.Functions[0].Returns)
	assert.Equal(t, []ParameterDoc{
		{Name: "self"},
		{Name: "width", Type: "int", Description: "columns"},
	}, widget.Functions[0].Parameters)
	assert.Empty(t, widget.NestedTypes[0].NestedTypes)
	assert.Equal(t, "int", widget.NestedTypes[0].Functions[0].Returns.Type)

	sub := doc.SubUnits[1]
	assert.Equal(t, "Sub package.", sub.Summary)
	assert.Equal(t, []string{"sub_func"}, functionNames(sub.Functions))
	require.Len(t, sub.SubUnits, 1)
	assert.Equal(t, "fakemodule.sub.deep", sub.SubUnits[0].Name)
	assert.Equal(t, []string{"deep_func"}, functionNames(sub.SubUnits[0].Functions))
}

func TestBuild_DeclarationDetails(t *testing.T) {
	root := writeFixture(t, map[string]string{
		"svc.py": `import dataclasses


@dataclasses.dataclass
class Job(Base, metaclass=Meta):
    @property
    def state(self):
        pass


async def run(job: Job) -> None:
    pass
`,
	})
	b := newTestBuilder(t, Options{})

	doc, err := b.Build(context.Background(), root, "svc", false)
	require.NoError(t, err)
	require.NotNil(t, doc)

	require.Len(t, doc.Types, 1)
	job := doc.Types[0]
	assert.Equal(t, "Base, metaclass=Meta", job.Bases)
	assert.Equal(t, []string{"dataclasses.dataclass"}, job.Decorators)
	require.Len(t, job.Functions, 1)
	assert.Equal(t, []string{"property"}, job.Functions[0].Decorators)

	require.Len(t, doc.Functions, 1)
	assert.Equal(t, "async def run(job: Job) -> None", doc.Functions[0].Signature)
	assert.Empty(t, doc.Functions[0].Decorators)
}

func TestBuild_ShowPrivate(t *testing.T) {
	root := writeFixture(t, fakemodule)
	b := newTestBuilder(t, Options{})

	doc, err := b.Build(context.Background(), root, "fakemodule", true)
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.Equal(t, []string{"_private", "helper", "public"}, functionNames(doc.Functions))
	assert.Equal(t, []string{"Widget", "_Internal"}, typeNames(doc.Types))
	assert.Equal(t, []string{"fakemodule._private_sub", "fakemodule.alpha", "fakemodule.sub"}, unitNames(doc.SubUnits))

	widget := doc.Types[0]
	assert.Equal(t, []string{"_hidden", "render"}, functionNames(widget.Functions))
	assert.Equal(t, []string{"Part", "_Secret"}, typeNames(widget.NestedTypes))
}

// Every name in a tree built without private members is public, and every
// list is sorted.
func TestBuild_Invariants(t *testing.T) {
	root := writeFixture(t, fakemodule)
	b := newTestBuilder(t, Options{})

	doc, err := b.Build(context.Background(), root, "fakemodule", false)
	require.NoError(t, err)

	var checkType func(TypeDoc)
	checkFunctions := func(fns []FunctionDoc) {
		names := functionNames(fns)
		assert.IsNonDecreasing(t, names)
		for _, n := range names {
			assert.NotEqual(t, '_', rune(n[0]), n)
		}
		for _, fn := range fns {
			var params []string
			for _, p := range fn.Parameters {
				params = append(params, p.Name)
			}
			assert.IsNonDecreasing(t, params)
		}
	}
	checkType = func(td TypeDoc) {
		assert.NotEqual(t, '_', rune(td.Name[0]), td.Name)
		checkFunctions(td.Functions)
		assert.IsNonDecreasing(t, typeNames(td.NestedTypes))
		for _, nt := range td.NestedTypes {
			checkType(nt)
		}
	}
	var checkUnit func(UnitDoc)
	checkUnit = func(u UnitDoc) {
		checkFunctions(u.Functions)
		assert.IsNonDecreasing(t, typeNames(u.Types))
		assert.IsNonDecreasing(t, unitNames(u.SubUnits))
		for _, td := range u.Types {
			checkType(td)
		}
		for _, su := range u.SubUnits {
			assert.NotEqual(t, '_', rune(util.LastSegment(su.Name)[0]), su.Name)
			checkUnit(su)
		}
	}
	checkUnit(*doc)
}

func TestBuild_Deterministic(t *testing.T) {
	root := writeFixture(t, fakemodule)
	b := newTestBuilder(t, Options{})

	first, err := b.Build(context.Background(), root, "fakemodule", true)
	require.NoError(t, err)
	second, err := b.Build(context.Background(), root, "fakemodule", true)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBuild_ParallelMatchesSequential(t *testing.T) {
	root := writeFixture(t, fakemodule)

	sequential, err := newTestBuilder(t, Options{}).Build(context.Background(), root, "fakemodule", true)
	require.NoError(t, err)
	parallel, err := newTestBuilder(t, Options{Workers: 4}).Build(context.Background(), root, "fakemodule", true)
	require.NoError(t, err)

	assert.Equal(t, sequential, parallel)
}

func mutualReExports(pairs int) map[string]string {
	files := map[string]string{"cy/__init__.py": ""}
	for i := 0; i < pairs; i++ {
		a, b := fmt.Sprintf("a%d", i), fmt.Sprintf("b%d", i)
		files["cy/"+a+"/__init__.py"] = "def fa():\n    pass\n\nfrom .." + b + " import fb\n"
		files["cy/"+b+"/__init__.py"] = "def fb():\n    pass\n\nfrom .." + a + " import fa\n"
	}
	return files
}

func TestBuild_MutualReExportsIndependentOfOrder(t *testing.T) {
	root := writeFixture(t, mutualReExports(8))

	sequential, err := newTestBuilder(t, Options{}).Build(context.Background(), root, "cy", false)
	require.NoError(t, err)
	require.Len(t, sequential.SubUnits, 16)
	for _, sub := range sequential.SubUnits {
		assert.Equal(t, []string{"fa", "fb"}, functionNames(sub.Functions), sub.Name)
	}

	parallel := newTestBuilder(t, Options{Workers: 16})
	for i := 0; i < 20; i++ {
		doc, err := parallel.Build(context.Background(), root, "cy", false)
		require.NoError(t, err)
		require.Equal(t, sequential, doc)
	}

	for _, sub := range sequential.SubUnits {
		alone, err := newTestBuilder(t, Options{}).Build(context.Background(), root, sub.Name, false)
		require.NoError(t, err)
		require.NotNil(t, alone)
		assert.Equal(t, sub, *alone)
	}
}

func TestBuild_ExcludedSubUnits(t *testing.T) {
	root := writeFixture(t, fakemodule)
	b := newTestBuilder(t, Options{}, "su*")

	doc, err := b.Build(context.Background(), root, "fakemodule", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"fakemodule.alpha"}, unitNames(doc.SubUnits))
}

func TestBuild_SingleFileModule(t *testing.T) {
	root := writeFixture(t, map[string]string{
		"tool.py": "\"\"\"Tool.\"\"\"\n\ndef run():\n    pass\n",
	})
	b := newTestBuilder(t, Options{})

	doc, err := b.Build(context.Background(), root, "tool", false)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "Tool.", doc.Summary)
	assert.Equal(t, []string{"run"}, functionNames(doc.Functions))
	assert.NotNil(t, doc.SubUnits)
	assert.Empty(t, doc.SubUnits)
}

func TestBuild_AbsentRoot(t *testing.T) {
	b := newTestBuilder(t, Options{})

	doc, err := b.Build(context.Background(), t.TempDir(), "nothing_here", false)
	assert.NoError(t, err)
	assert.Nil(t, doc)
}

func TestBuild_RootLoadFault(t *testing.T) {
	root := writeFixture(t, map[string]string{"broken.py": "def broken(:\n"})
	b := newTestBuilder(t, Options{})

	doc, err := b.Build(context.Background(), root, "broken", false)
	assert.Nil(t, doc)
	require.Error(t, err)
	assert.True(t, errors.IsLoadFault(err))
}

func TestBuild_SubUnitLoadFaultFailsBuild(t *testing.T) {
	files := map[string]string{}
	for k, v := range fakemodule {
		files[k] = v
	}
	files["fakemodule/sub/deep/__init__.py"] = "class Broken(:\n"

	for _, workers := range []int{1, 4} {
		root := writeFixture(t, files)
		doc, err := newTestBuilder(t, Options{Workers: workers}).Build(context.Background(), root, "fakemodule", false)
		assert.Nil(t, doc)
		require.Error(t, err)
		assert.True(t, errors.IsLoadFault(err))

		var de *errors.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "fakemodule.sub.deep", de.Context[errors.CtxUnit])
	}
}

func TestBuild_FirstFaultInNameOrder(t *testing.T) {
	files := map[string]string{
		"pkg/__init__.py":     "",
		"pkg/aaa/__init__.py": "def a(:\n",
		"pkg/zzz/__init__.py": "def z(:\n",
	}
	root := writeFixture(t, files)

	for i := 0; i < 5; i++ {
		_, err := newTestBuilder(t, Options{Workers: 2}).Build(context.Background(), root, "pkg", false)
		var de *errors.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "pkg.aaa", de.Context[errors.CtxUnit])
	}
}

func TestBuild_SymlinkCycle(t *testing.T) {
	root := writeFixture(t, map[string]string{"loop/__init__.py": ""})
	if err := os.Symlink(filepath.Join(root, "loop"), filepath.Join(root, "loop", "again")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	doc, err := newTestBuilder(t, Options{}).Build(context.Background(), root, "loop", false)
	assert.Nil(t, doc)
	require.Error(t, err)
	assert.True(t, errors.IsLoadFault(err))

	var de *errors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "cycle", de.Context[errors.CtxOperation])
}

func TestBuild_CancelledContext(t *testing.T) {
	root := writeFixture(t, fakemodule)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc, err := newTestBuilder(t, Options{}).Build(ctx, root, "fakemodule", false)
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, context.Canceled)
}

type missingSubUnitSession struct {
	ports.UnitSession
}

func (s missingSubUnitSession) SubUnits(*parser.Module) ([]string, error) {
	return []string{"ghost"}, nil
}

type sessionLoader struct {
	newSession func() ports.UnitSession
}

func (l sessionLoader) NewSession() ports.UnitSession { return l.newSession() }

func TestBuild_MissingSubUnitIsLoadFault(t *testing.T) {
	root := writeFixture(t, map[string]string{"pkg/__init__.py": ""})
	p, err := parser.NewParser(parser.NewGrammarLoader())
	require.NoError(t, err)
	l, err := loader.New(p, loader.Options{})
	require.NoError(t, err)

	b := NewBuilder(sessionLoader{newSession: func() ports.UnitSession {
		return missingSubUnitSession{UnitSession: l.NewSession()}
	}}, Options{})

	doc, err := b.Build(context.Background(), root, "pkg", false)
	assert.Nil(t, doc)
	require.Error(t, err)
	assert.True(t, errors.IsLoadFault(err))

	var de *errors.DomainError
	require.ErrorAs(t, err, &de)
	assert.True(t, errors.IsCode(de.Err, errors.CodeNotFound))
}

type recordingSession struct {
	ports.UnitSession
	paths *[]string
}

func (s recordingSession) AddSearchPath(path string) {
	*s.paths = append(*s.paths, path)
	s.UnitSession.AddSearchPath(path)
}

func TestBuild_SearchPathCoversHiddenSubUnits(t *testing.T) {
	root := writeFixture(t, fakemodule)
	p, err := parser.NewParser(parser.NewGrammarLoader())
	require.NoError(t, err)
	l, err := loader.New(p, loader.Options{})
	require.NoError(t, err)

	var paths []string
	b := NewBuilder(sessionLoader{newSession: func() ports.UnitSession {
		return recordingSession{UnitSession: l.NewSession(), paths: &paths}
	}}, Options{})

	doc, err := b.Build(context.Background(), root, "fakemodule", false)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.NotContains(t, unitNames(doc.SubUnits), "fakemodule._private_sub")

	pkg := filepath.Join(root, "fakemodule")
	assert.Equal(t, []string{
		root,
		filepath.Join(pkg, "_private_sub"),
		filepath.Join(pkg, "alpha"),
		filepath.Join(pkg, "sub"),
		filepath.Join(pkg, "sub", "deep"),
	}, paths)
}

func TestUnitDoc_Count(t *testing.T) {
	root := writeFixture(t, fakemodule)
	doc, err := newTestBuilder(t, Options{}).Build(context.Background(), root, "fakemodule", false)
	require.NoError(t, err)

	units, types, functions := doc.Count()
	assert.Equal(t, 4, units)
	assert.Equal(t, 2, types)
	assert.Equal(t, 6, functions)
}
