package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"smalldoc/internal/core/errors"
	"smalldoc/internal/engine/doctree"
	"smalldoc/internal/output"
	"smalldoc/internal/shared/util"

	"github.com/google/uuid"
)

// Result describes one completed build.
type Result struct {
	BuildID  string
	Unit     string
	Tree     *doctree.UnitDoc
	Format   string
	Output   []byte
	Path     string // Empty when the output was not written to a file
	Duration time.Duration
}

// Generate builds the configured unit and renders it. The rendered bytes are
// written to the configured output path when one is set. A unit that cannot
// be found is reported as a NOT_FOUND error.
func (a *App) Generate(ctx context.Context) (Result, error) {
	cfg, builder := a.current()
	res := Result{
		BuildID: uuid.NewString(),
		Unit:    cfg.Unit,
		Format:  cfg.Output.Format,
	}
	logger := slog.With("build_id", res.BuildID, "unit", cfg.Unit)

	if cfg.Unit == "" {
		return res, errors.New(errors.CodeValidationError, "no unit given")
	}

	start := time.Now()
	tree, err := builder.Build(ctx, cfg.WorkingPath, cfg.Unit, cfg.ShowPrivate)
	res.Duration = time.Since(start)
	if err == nil && tree == nil {
		err = errors.AddContext(
			errors.New(errors.CodeNotFound, fmt.Sprintf("unit %q not found", cfg.Unit)),
			errors.CtxPath, cfg.WorkingPath,
		)
	}
	if err != nil {
		a.State.Record(cfg.Unit, err)
		logger.Error("build failed", "error", err)
		return res, err
	}
	res.Tree = tree

	data, err := output.Write(cfg.Output.Format, tree)
	if err != nil {
		a.State.Record(cfg.Unit, err)
		return res, err
	}
	res.Output = data

	if cfg.Output.Path != "" {
		if err := util.WriteFileWithDirs(cfg.Output.Path, data, 0o644); err != nil {
			err = errors.AddContext(errors.Wrap(err, errors.CodeInternal, "write output"), errors.CtxPath, cfg.Output.Path)
			a.State.Record(cfg.Unit, err)
			return res, err
		}
		res.Path = cfg.Output.Path
	}

	a.State.Record(cfg.Unit, nil)
	units, types, functions := tree.Count()
	logger.Info("build complete",
		"units", units,
		"types", types,
		"functions", functions,
		"duration", res.Duration,
		"path", res.Path,
	)
	return res, nil
}
