package app

import (
	"sync"

	"smalldoc/internal/core/config"
	"smalldoc/internal/engine/doctree"
	"smalldoc/internal/engine/loader"
	"smalldoc/internal/engine/parser"
	"smalldoc/internal/shared/observability"
)

// Update is emitted after every build, successful or not.
type Update struct {
	Result Result
	Err    error
}

// App wires configuration to the parser, loader and tree builder.
type App struct {
	Parser *parser.Parser
	State  *observability.BuildState

	mu      sync.RWMutex
	config  *config.Config
	builder *doctree.Builder

	updateMu sync.RWMutex
	onUpdate func(Update)
}

func New(cfg *config.Config) (*App, error) {
	p, err := parser.NewParser(parser.NewGrammarLoader())
	if err != nil {
		return nil, err
	}
	a := &App{
		Parser: p,
		State:  &observability.BuildState{},
	}
	if err := a.SetConfig(cfg); err != nil {
		return nil, err
	}
	return a, nil
}

// SetConfig validates cfg and swaps it in for subsequent builds.
func (a *App) SetConfig(cfg *config.Config) error {
	if err := config.Validate(cfg); err != nil {
		return err
	}
	l, err := loader.New(a.Parser, loader.Options{ExcludeDirs: cfg.Exclude.Dirs})
	if err != nil {
		return err
	}
	builder := doctree.NewBuilder(l, doctree.Options{Workers: cfg.Build.Workers})

	a.mu.Lock()
	defer a.mu.Unlock()
	a.config = cfg
	a.builder = builder
	return nil
}

func (a *App) Config() *config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.config
}

func (a *App) current() (*config.Config, *doctree.Builder) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.config, a.builder
}

func (a *App) SetUpdateHandler(handler func(Update)) {
	a.updateMu.Lock()
	defer a.updateMu.Unlock()
	a.onUpdate = handler
}

func (a *App) emitUpdate(update Update) {
	a.updateMu.RLock()
	handler := a.onUpdate
	a.updateMu.RUnlock()
	if handler != nil {
		handler(update)
	}
}
