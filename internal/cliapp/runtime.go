package cliapp

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	coreapp "smalldoc/internal/core/app"
	"smalldoc/internal/core/config"
	"smalldoc/internal/core/errors"
	"smalldoc/internal/shared/observability"
)

const (
	exitOK       = 0
	exitFault    = 1
	exitNotFound = 2
)

func Run(args []string) int {
	return run(args, os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		return exitFault
	}

	if opts.version {
		fmt.Fprintf(stdout, "smalldoc v%s\n", versionString)
		return exitOK
	}
	if len(opts.args) > 1 {
		fmt.Fprintln(stderr, "usage: smalldoc [flags] <unit>")
		return exitFault
	}

	configureLogging(stderr, opts.verbose)

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return exitFault
	}
	applyOptions(opts, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Observability.OTLPEndpoint, versionString)
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownTracing(shutdownCtx)
		}()
	}

	app, err := coreapp.New(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return exitFault
	}

	if addr := cfg.Observability.MetricsAddr; addr != "" {
		srv := observability.NewServer(addr, app.State)
		if err := srv.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			return exitFault
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Stop(shutdownCtx)
		}()
	}

	code := generate(ctx, app, stdout, stderr)
	if !opts.watch {
		return code
	}

	app.SetUpdateHandler(func(u coreapp.Update) {
		report(u.Result, u.Err, stdout, stderr)
	})
	configPath := opts.configPath
	if _, err := os.Stat(configPath); err != nil {
		configPath = ""
	}
	if err := app.Watch(ctx, configPath); err != nil {
		slog.Error("watch failed", "error", err)
		return exitFault
	}
	return exitOK
}

func generate(ctx context.Context, app *coreapp.App, stdout, stderr io.Writer) int {
	res, err := app.Generate(ctx)
	report(res, err, stdout, stderr)
	switch {
	case err == nil:
		return exitOK
	case errors.IsCode(err, errors.CodeNotFound):
		return exitNotFound
	default:
		return exitFault
	}
}

// report prints rendered output to stdout when it was not written to a file
// and a one-line summary to stderr.
func report(res coreapp.Result, err error, stdout, stderr io.Writer) {
	if err == nil && res.Path == "" {
		_, _ = stdout.Write(res.Output)
	}
	fmt.Fprintln(stderr, formatSummary(res, err))
}

func loadConfig(path string) (*config.Config, error) {
	if path == defaultConfigPath {
		return config.LoadOrDefault(path)
	}
	return config.Load(path)
}

func configureLogging(w io.Writer, verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
}
