package doctree

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"smalldoc/internal/core/errors"
	"smalldoc/internal/core/ports"
	"smalldoc/internal/engine/parser"
	"smalldoc/internal/shared/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	// Workers bounds concurrent sibling sub-unit builds. Values below 2 build
	// sequentially.
	Workers int
}

// Builder turns a unit identifier into a documentation tree.
type Builder struct {
	loader  ports.UnitLoader
	workers int
}

func NewBuilder(loader ports.UnitLoader, opts Options) *Builder {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Builder{loader: loader, workers: workers}
}

// build holds the state of one Build call.
type build struct {
	session     ports.UnitSession
	showPrivate bool
	workers     int
}

// Build documents the unit named identifier, resolved against workingPath.
// A unit that cannot be found yields (nil, nil). Any load fault in the unit
// or one of its sub-units aborts the build with a LOAD_FAULT error.
func (b *Builder) Build(ctx context.Context, workingPath, identifier string, showPrivate bool) (*UnitDoc, error) {
	ctx, span := observability.Tracer.Start(ctx, "doctree.Build", trace.WithAttributes(
		attribute.String("unit", identifier),
		attribute.Bool("show_private", showPrivate),
	))
	defer span.End()

	if b == nil || b.loader == nil {
		return nil, errors.New(errors.CodeInternal, "builder has no loader")
	}

	start := time.Now()
	defer func() {
		observability.BuildDuration.Observe(time.Since(start).Seconds())
	}()

	session := b.loader.NewSession()
	session.AddSearchPath(workingPath)
	st := &build{session: session, showPrivate: showPrivate, workers: b.workers}

	root, err := session.Resolve(ctx, identifier)
	if err != nil {
		return nil, st.fail(span, err)
	}
	if root == nil {
		slog.Debug("unit not found", "unit", identifier, "path", workingPath)
		return nil, nil
	}

	doc, err := st.buildUnit(ctx, root, nil)
	if err != nil {
		return nil, st.fail(span, err)
	}
	return doc, nil
}

func (st *build) fail(span trace.Span, err error) error {
	if errors.IsLoadFault(err) {
		observability.LoadFaultsTotal.Inc()
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// buildUnit documents mod and, recursively, its sub-units. ancestors holds
// the real directories of the packages enclosing mod.
func (st *build) buildUnit(ctx context.Context, mod *parser.Module, ancestors []string) (*UnitDoc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx, span := observability.Tracer.Start(ctx, "doctree.buildUnit", trace.WithAttributes(
		attribute.String("unit", mod.Name),
	))
	defer span.End()

	doc := &UnitDoc{
		Name:      mod.Name,
		Summary:   mod.Doc,
		Functions: st.functions(mod.Functions, "function"),
		Types:     st.types(mod.Classes),
		SubUnits:  []UnitDoc{},
	}

	if mod.IsPackage {
		dir := realDir(mod.Dir)
		for _, seen := range ancestors {
			if seen == dir {
				err := errors.LoadFault(errors.New(errors.CodeValidationError, "package directory revisited"), mod.Name)
				err = errors.AddContext(err, errors.CtxPath, mod.Dir)
				return nil, errors.AddContext(err, errors.CtxOperation, "cycle")
			}
		}
		ancestors = append(append([]string(nil), ancestors...), dir)

		subUnits, err := st.subUnits(ctx, mod, ancestors)
		if err != nil {
			return nil, err
		}
		doc.SubUnits = subUnits
	}

	observability.UnitsBuiltTotal.Inc()
	slog.Debug("built unit",
		"unit", mod.Name,
		"functions", len(doc.Functions),
		"types", len(doc.Types),
		"sub_units", len(doc.SubUnits),
	)
	return doc, nil
}

func (st *build) subUnits(ctx context.Context, parent *parser.Module, ancestors []string) ([]UnitDoc, error) {
	names, err := st.session.SubUnits(parent)
	if err != nil {
		return nil, err
	}

	shown := make([]string, 0, len(names))
	for _, name := range names {
		st.session.AddSearchPath(filepath.Join(parent.Dir, name))
		if isShown(name, st.showPrivate) {
			shown = append(shown, name)
		}
	}

	results := make([]*UnitDoc, len(shown))
	errs := make([]error, len(shown))
	buildOne := func(i int) {
		identifier := parent.Name + "." + shown[i]
		mod, err := st.session.Resolve(ctx, identifier)
		switch {
		case err != nil:
			errs[i] = err
		case mod == nil:
			errs[i] = errors.LoadFault(errors.New(errors.CodeNotFound, fmt.Sprintf("sub-unit %s not found", identifier)), identifier)
		default:
			results[i], errs[i] = st.buildUnit(ctx, mod, ancestors)
		}
	}

	if st.workers > 1 && len(shown) > 1 {
		var g errgroup.Group
		g.SetLimit(st.workers)
		for i := range shown {
			g.Go(func() error {
				buildOne(i)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range shown {
			buildOne(i)
			if errs[i] != nil {
				break
			}
		}
	}

	out := make([]UnitDoc, 0, len(shown))
	for i := range shown {
		if errs[i] != nil {
			return nil, errs[i]
		}
		out = append(out, *results[i])
	}
	sortUnits(out)
	return out, nil
}

func (st *build) functions(fns []parser.Function, kind string) []FunctionDoc {
	out := make([]FunctionDoc, 0, len(fns))
	for _, fn := range fns {
		if !isShown(fn.Name, st.showPrivate) {
			continue
		}
		out = append(out, ExtractFunction(fn))
	}
	sortFunctions(out)
	observability.SymbolsDocumentedTotal.WithLabelValues(kind).Add(float64(len(out)))
	return out
}

func (st *build) types(classes []parser.Class) []TypeDoc {
	out := make([]TypeDoc, 0, len(classes))
	for _, cls := range classes {
		if !isShown(cls.Name, st.showPrivate) {
			continue
		}
		out = append(out, TypeDoc{
			Name:        cls.Name,
			Bases:       cls.Bases,
			Decorators:  append([]string{}, cls.Decorators...),
			Summary:     cls.Doc,
			Functions:   st.functions(cls.Methods, "method"),
			NestedTypes: st.types(cls.Classes),
		})
	}
	sortTypes(out)
	observability.SymbolsDocumentedTotal.WithLabelValues("type").Add(float64(len(out)))
	return out
}

func realDir(dir string) string {
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}
