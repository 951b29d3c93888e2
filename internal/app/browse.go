package app

import (
	"context"
	"io"

	"github.com/specialistvlad/asmtree/internal/state"
	"github.com/specialistvlad/asmtree/internal/tree"
	"github.com/specialistvlad/asmtree/internal/viewer"
)

// Browse runs the interactive browser, restoring the previous session's
// expanded nodes and selection and saving them again on exit.
func (a *App) Browse(ctx context.Context, in io.Reader, out io.Writer) error {
	sel := a.restoreState()
	m := viewer.New(a.registry, a.formatter)
	m.SetReload(a.Reload)
	if sel != nil {
		m.SelectAndFocus(sel)
	}

	final, err := viewer.Run(ctx, m, in, out)
	a.registry.SetSelector(a.last)
	if err != nil {
		return err
	}
	a.saveState(final)
	return nil
}

// restoreState replays the saved session onto the tree and returns the node
// to select.
func (a *App) restoreState() *tree.Node {
	snap, ok, err := a.state.Load()
	if err != nil {
		a.logger.Warn("Ignoring unreadable viewer state.", "path", a.state.Path(), "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	return state.Restore(a.ctx, a.registry.Root(), snap)
}

func (a *App) saveState(m *viewer.Model) {
	snap := state.Capture(m.Registry().Root(), m.Selected())
	if err := a.state.Save(snap); err != nil {
		a.logger.Warn("Failed to save viewer state.", "path", a.state.Path(), "error", err)
	}
}
