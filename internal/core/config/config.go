package config

import (
	"time"
)

const DefaultFile = "smalldoc.toml"

type Config struct {
	WorkingPath   string        `toml:"working_path" validate:"required"`
	Unit          string        `toml:"unit"`
	ShowPrivate   bool          `toml:"show_private"`
	Build         Build         `toml:"build"`
	Exclude       Exclude       `toml:"exclude"`
	Output        Output        `toml:"output"`
	Watch         Watch         `toml:"watch"`
	Observability Observability `toml:"observability"`
}

type Build struct {
	Workers int `toml:"workers" validate:"gte=1,lte=256"`
}

type Exclude struct {
	// Dirs are glob patterns matched against sub-unit directory names.
	Dirs []string `toml:"dirs"`
}

type Output struct {
	Format string `toml:"format" validate:"oneof=json yaml markdown html dot mermaid"`
	Path   string `toml:"path"`
}

type Watch struct {
	Debounce             time.Duration `toml:"debounce" validate:"gte=0"`
	MaxRebuildsPerSecond float64       `toml:"max_rebuilds_per_second" validate:"gte=0"`
}

type Observability struct {
	MetricsAddr  string `toml:"metrics_addr" validate:"omitempty,hostname_port"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.WorkingPath == "" {
		cfg.WorkingPath = "."
	}
	if cfg.Build.Workers == 0 {
		cfg.Build.Workers = 1
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "json"
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.MaxRebuildsPerSecond == 0 {
		cfg.Watch.MaxRebuildsPerSecond = 2
	}
}
