package cliapp

import (
	"flag"
	"io"
	"path/filepath"

	"smalldoc/internal/core/config"
	"smalldoc/internal/output"
	"smalldoc/internal/shared/util"
)

const versionString = "0.1.0"

const defaultConfigPath = "./" + config.DefaultFile

type cliOptions struct {
	configPath  string
	workingPath string
	private     bool
	format      string
	out         string
	workers     int
	watch       bool
	metricsAddr string
	verbose     bool
	version     bool
	args        []string

	// set holds the names of flags given explicitly on the command line.
	set map[string]bool
}

func parseOptions(args []string, stderr io.Writer) (cliOptions, error) {
	opts := cliOptions{set: make(map[string]bool)}
	fs := flag.NewFlagSet("smalldoc", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", defaultConfigPath, "Path to config file")
	fs.StringVar(&opts.workingPath, "path", "", "Directory the unit is resolved against")
	fs.BoolVar(&opts.private, "private", false, "Include names starting with an underscore")
	fs.StringVar(&opts.format, "format", "", "Output format: json, yaml, markdown, html, dot or mermaid")
	fs.StringVar(&opts.out, "out", "", "Write output to this file, or to <unit>.<ext> inside this directory, instead of stdout")
	fs.IntVar(&opts.workers, "workers", 0, "Concurrent sub-unit builds")
	fs.BoolVar(&opts.watch, "watch", false, "Rebuild whenever a source file changes")
	fs.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve /metrics and /health on this address")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	opts.args = fs.Args()
	return opts, nil
}

// applyOptions overrides cfg with explicitly given flags and the positional
// unit argument.
func applyOptions(opts cliOptions, cfg *config.Config) {
	if len(opts.args) > 0 {
		cfg.Unit = opts.args[0]
	}
	if opts.set["path"] {
		cfg.WorkingPath = opts.workingPath
	}
	if opts.set["private"] {
		cfg.ShowPrivate = opts.private
	}
	if opts.set["format"] {
		cfg.Output.Format = opts.format
	}
	if opts.set["out"] {
		cfg.Output.Path = opts.out
	}
	if opts.set["workers"] {
		cfg.Build.Workers = opts.workers
	}
	if opts.set["metrics-addr"] {
		cfg.Observability.MetricsAddr = opts.metricsAddr
	}
	if cfg.Output.Path != "" && util.IsDir(cfg.Output.Path) {
		cfg.Output.Path = filepath.Join(cfg.Output.Path, cfg.Unit+output.Extension(cfg.Output.Format))
	}
}
