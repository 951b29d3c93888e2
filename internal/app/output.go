package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/asmtree/internal/tree"
)

// DumpOptions controls Dump.
type DumpOptions struct {
	// Depth limits how many levels below the root are loaded and printed.
	Depth int
	// Comments prints each node as a comment line instead of its display text.
	Comments bool
}

// Dump prints the tree, loading nodes down to opts.Depth.
func (a *App) Dump(w io.Writer, opts DumpOptions) error {
	return a.dump(w, a.registry.Root(), 0, opts)
}

func (a *App) dump(w io.Writer, n *tree.Node, depth int, opts DumpOptions) error {
	indent := strings.Repeat("  ", depth)
	if _, err := io.WriteString(w, indent); err != nil {
		return err
	}
	if opts.Comments {
		if err := n.WriteComment(w, a.formatter); err != nil {
			return err
		}
	} else if _, err := fmt.Fprintln(w, n.Text(a.formatter)); err != nil {
		return err
	}
	if depth >= opts.Depth {
		return nil
	}
	for _, c := range n.Children() {
		if err := a.dump(w, c, depth+1, opts); err != nil {
			return err
		}
	}
	return nil
}

// Paths prints the identity path of every loaded node.
func (a *App) Paths(w io.Writer) error {
	var err error
	a.registry.Root().Walk(func(n *tree.Node) bool {
		if err != nil {
			return false
		}
		_, err = fmt.Fprintln(w, n.IdentityPath().String())
		return true
	})
	return err
}

// LoadDepth loads the tree down to depth levels below the root.
func (a *App) LoadDepth(depth int) {
	var load func(n *tree.Node, d int)
	load = func(n *tree.Node, d int) {
		if d >= depth {
			return
		}
		for _, c := range n.Children() {
			load(c, d+1)
		}
	}
	load(a.registry.Root(), 0)
}
