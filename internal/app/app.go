package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/puran-water/flownote/internal/convert"
	"github.com/puran-water/flownote/internal/ctxlog"
	"github.com/puran-water/flownote/internal/expand"
	"github.com/puran-water/flownote/internal/notation"
	"github.com/puran-water/flownote/internal/registry"
	"github.com/puran-water/flownote/internal/template"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle. The registry, template store, and engines are built once in
// NewApp and never mutated afterwards.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	config    *Config
	registry  *registry.Registry
	templates *template.Store
	converter *convert.Engine
	expander  *expand.Engine
}

// NewApp is the constructor for the main application. Output goes to outW;
// logs go to logW so converted results stay pipeable.
func NewApp(outW, logW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if cfg.DefinitionsPath != "" {
		if err := reg.LoadDefinitions(ctx, cfg.DefinitionsPath); err != nil {
			return nil, fmt.Errorf("loading component definitions: %w", err)
		}
	}
	logger.Debug("Type registry constructed.", "keys", len(reg.KnownKeys()))

	templates := template.NewStore(cfg.TemplatesPath, reg)
	parser := notation.NewParser(nil)

	return &App{
		outW:      outW,
		logger:    logger,
		config:    cfg,
		registry:  reg,
		templates: templates,
		converter: convert.NewEngine(parser, reg),
		expander:  expand.New(templates, reg),
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Expander returns the template expansion engine.
func (a *App) Expander() *expand.Engine {
	return a.expander
}
