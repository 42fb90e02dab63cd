package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"smalldoc/internal/core/errors"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/gobwas/glob"
)

var validate = validator.New()

// Load reads a TOML config file, applies defaults and environment overrides
// and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "read config"), errors.CtxPath, path)
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "decode config"), errors.CtxPath, path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		err := errors.New(errors.CodeValidationError, "unknown config keys: "+strings.Join(keys, ", "))
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}

	applyDefaults(&cfg)
	ApplyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	return &cfg, nil
}

// LoadOrDefault behaves like Load but falls back to DefaultConfig when path
// does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); stderrors.Is(err, fs.ErrNotExist) {
		cfg := DefaultConfig()
		ApplyEnvOverrides(cfg)
		return cfg, Validate(cfg)
	}
	return Load(path)
}

// Validate checks struct constraints and that every exclude pattern
// compiles.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return errors.Wrap(err, errors.CodeValidationError, "invalid config")
	}
	if cfg.Unit != "" {
		for _, seg := range strings.Split(cfg.Unit, ".") {
			if seg == "" {
				return errors.New(errors.CodeValidationError, fmt.Sprintf("invalid unit identifier %q", cfg.Unit))
			}
		}
	}
	for _, pattern := range cfg.Exclude.Dirs {
		if _, err := glob.Compile(pattern); err != nil {
			return errors.Wrap(err, errors.CodeValidationError, fmt.Sprintf("invalid exclude pattern %q", pattern))
		}
	}
	return nil
}
