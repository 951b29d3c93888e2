package state

import (
	"context"

	"github.com/specialistvlad/asmtree/internal/ctxlog"
	"github.com/specialistvlad/asmtree/internal/nodeid"
	"github.com/specialistvlad/asmtree/internal/tree"
)

// SchemaVersion is bumped whenever Snapshot's encoding changes. Files with
// another version are ignored.
const SchemaVersion uint16 = 1

// Snapshot is the persisted viewer state.
type Snapshot struct {
	Schema uint16
	// Expanded holds identity paths of expanded nodes, parents before children.
	Expanded []string
	// Selected is the identity path of the selected node, if any.
	Selected string
}

// Capture records the expanded nodes reachable from root through expanded
// ancestors, plus the selected node. Nothing is loaded while capturing.
func Capture(root, selected *tree.Node) Snapshot {
	snap := Snapshot{Schema: SchemaVersion}
	root.Walk(func(n *tree.Node) bool {
		if n == root {
			return true
		}
		if !n.IsExpanded() {
			return false
		}
		snap.Expanded = append(snap.Expanded, n.IdentityPath().String())
		return true
	})
	if selected != nil {
		snap.Selected = selected.IdentityPath().String()
	}
	return snap
}

// Restore expands every recorded node that still exists under root and
// returns the node to select, or nil. Paths that no longer resolve are
// skipped.
func Restore(ctx context.Context, root *tree.Node, snap Snapshot) *tree.Node {
	logger := ctxlog.FromContext(ctx)

	restored := 0
	for _, raw := range snap.Expanded {
		n, ok := find(root, raw)
		if !ok {
			logger.Debug("Expanded node no longer exists.", "path", raw)
			continue
		}
		n.SetExpanded(true)
		restored++
	}

	var selected *tree.Node
	if snap.Selected != "" {
		if n, ok := find(root, snap.Selected); ok {
			selected = n
		} else {
			logger.Debug("Selected node no longer exists.", "path", snap.Selected)
		}
	}
	logger.Debug("Viewer state restored.", "expanded", restored, "skipped", len(snap.Expanded)-restored)
	return selected
}

func find(root *tree.Node, raw string) (*tree.Node, bool) {
	addr, err := nodeid.Parse(raw)
	if err != nil {
		return nil, false
	}
	return root.Find(addr)
}
