package app

import (
	"context"
	"log/slog"

	"smalldoc/internal/core/config"
	"smalldoc/internal/core/watcher"
	"smalldoc/internal/shared/observability"
	"smalldoc/internal/shared/util"
)

// Watch rebuilds whenever a Python source under the working path changes,
// and applies valid edits of configPath (when non-empty) to later builds.
// Rebuilds are rate limited by watch.max_rebuilds_per_second. Watch blocks
// until ctx is done.
func (a *App) Watch(ctx context.Context, configPath string) error {
	cfg := a.Config()
	limiter := util.NewLimiter(cfg.Watch.MaxRebuildsPerSecond, 1)
	rebuild := make(chan struct{}, 1)
	trigger := func() {
		select {
		case rebuild <- struct{}{}:
		default:
		}
	}

	w, err := watcher.NewWatcher(cfg.Watch.Debounce, cfg.Exclude.Dirs, func(paths []string) {
		slog.Debug("sources changed", "count", len(paths), "first", paths[0])
		trigger()
	})
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Watch([]string{cfg.WorkingPath}); err != nil {
		return err
	}

	if configPath != "" {
		cw := config.NewWatcher(configPath, func(next *config.Config) {
			if err := a.SetConfig(next); err != nil {
				slog.Warn("ignoring config change", "error", err)
				return
			}
			w.SetDebounce(next.Watch.Debounce)
			trigger()
		})
		if err := cw.Start(ctx); err != nil {
			slog.Warn("config file will not be reloaded", "path", configPath, "error", err)
		} else {
			defer cw.Stop()
		}
	}

	slog.Info("watching for changes", "path", cfg.WorkingPath, "unit", cfg.Unit)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-rebuild:
			if err := limiter.Wait(ctx, 1); err != nil {
				return nil
			}
			res, err := a.Generate(ctx)
			outcome := "ok"
			if err != nil {
				outcome = "error"
			}
			observability.RebuildsTotal.WithLabelValues(outcome).Inc()
			a.emitUpdate(Update{Result: res, Err: err})
		}
	}
}
