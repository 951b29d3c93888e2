package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/asmtree/internal/catalog"
	"github.com/specialistvlad/asmtree/internal/ctxlog"
	"github.com/specialistvlad/asmtree/internal/language"
	"github.com/specialistvlad/asmtree/internal/metadata"
	"github.com/specialistvlad/asmtree/internal/nodeid"
	"github.com/specialistvlad/asmtree/internal/settings"
	"github.com/specialistvlad/asmtree/internal/state"
	"github.com/specialistvlad/asmtree/internal/tree"
)

var (
	// ErrNodeNotFound is returned when an identity path matches no node.
	ErrNodeNotFound = errors.New("no node at path")
	// ErrNotNavigable is returned when activating a node selects nothing.
	ErrNotNavigable = errors.New("node does not navigate anywhere")
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx       context.Context
	logger    *slog.Logger
	config    *Config
	loader    *catalog.Loader
	settings  *settings.Manager
	display   *language.DisplaySettings
	formatter *language.Plain
	state     *state.File

	set      *metadata.Set
	registry *tree.Registry
	last     *lastSelection
}

// lastSelection is the selector used outside the interactive browser.
type lastSelection struct {
	node *tree.Node
}

func (s *lastSelection) SelectAndFocus(n *tree.Node) {
	s.node = n
}

// NewApp builds the application and loads the catalog. Logs go to logW.
// colorize enables colored comment output (still subject to the syntax
// highlight preference).
func NewApp(logW io.Writer, cfg *Config, colorize bool) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	store := settings.NewMemory()
	if cfg.SettingsPath != "" {
		var err error
		store, err = settings.Open(cfg.SettingsPath)
		if err != nil {
			return nil, err
		}
	}
	display, err := language.NewDisplaySettings(store)
	if err != nil {
		return nil, fmt.Errorf("failed to load display settings: %w", err)
	}

	a := &App{
		ctx:       ctx,
		logger:    logger,
		config:    cfg,
		loader:    catalog.NewLoader(cfg.Jobs),
		settings:  store,
		display:   display,
		formatter: language.NewPlain(display, colorize),
		state:     state.NewFile(cfg.StatePath),
		last:      &lastSelection{},
	}
	a.set, a.registry, err = a.build()
	if err != nil {
		return nil, err
	}
	return a, nil
}

// build loads the catalog into a fresh set and registry.
func (a *App) build() (*metadata.Set, *tree.Registry, error) {
	asms, err := a.loader.Load(a.ctx, a.config.CatalogPaths...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	set := metadata.NewSet()
	reg, err := tree.NewRegistry(set, a.logger)
	if err != nil {
		return nil, nil, err
	}
	reg.SetSelector(a.last)
	for _, asm := range asms {
		if err := set.Add(asm); err != nil {
			if errors.Is(err, metadata.ErrDuplicateAssembly) {
				a.logger.Warn("Skipping duplicate assembly.", "assembly", asm.FullName(), "file", asm.FileName)
				continue
			}
			return nil, nil, err
		}
		if _, err := reg.Add(asm); err != nil {
			return nil, nil, err
		}
	}
	a.logger.Info("Catalog loaded.", "assemblies", set.Len())
	return set, reg, nil
}

// Reload rebuilds the tree from the catalog files and carries over which
// nodes were expanded. It returns the new registry and the counterpart of
// selected in the new tree, if it still exists.
func (a *App) Reload(selected *tree.Node) (*tree.Registry, *tree.Node, error) {
	snap := state.Capture(a.registry.Root(), selected)
	set, reg, err := a.build()
	if err != nil {
		return nil, nil, err
	}
	a.set, a.registry = set, reg
	return reg, state.Restore(a.ctx, reg.Root(), snap), nil
}

// Context returns the application context carrying the logger.
func (a *App) Context() context.Context { return a.ctx }

// Registry returns the current registry. Reload replaces it.
func (a *App) Registry() *tree.Registry { return a.registry }

// Assemblies returns the loaded assembly set.
func (a *App) Assemblies() *metadata.Set { return a.set }

// Formatter returns the formatter used for output.
func (a *App) Formatter() language.Formatter { return a.formatter }

// Display returns the persisted display preferences.
func (a *App) Display() *language.DisplaySettings { return a.display }

// Lookup finds the node at the identity path raw, loading along the way.
func (a *App) Lookup(raw string) (*tree.Node, error) {
	addr, err := nodeid.Parse(raw)
	if err != nil {
		return nil, err
	}
	n, ok := a.registry.Root().Find(addr)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, raw)
	}
	return n, nil
}

// Navigate activates the node at raw and returns the node it selected.
func (a *App) Navigate(raw string) (*tree.Node, error) {
	n, err := a.Lookup(raw)
	if err != nil {
		return nil, err
	}
	a.last.node = nil
	if !n.Activate() || a.last.node == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotNavigable, raw)
	}
	return a.last.node, nil
}
