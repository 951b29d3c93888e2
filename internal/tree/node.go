package tree

import (
	"io"
	"slices"

	"github.com/specialistvlad/asmtree/internal/language"
	"github.com/specialistvlad/asmtree/internal/metadata"
	"github.com/specialistvlad/asmtree/internal/nodeid"
)

// LoadState tracks lazy loading of a node's children.
type LoadState uint8

const (
	NotLoaded LoadState = iota
	Loading
	Loaded
)

// String returns the string representation of LoadState.
func (s LoadState) String() string {
	switch s {
	case NotLoaded:
		return "not-loaded"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// Data is the kind-specific payload of a node. The set of implementations is
// closed to this package.
type Data interface {
	// segment is the node's own component of its identity path.
	segment() nodeid.Segment
	// lazy reports whether the node defers creating its children.
	lazy() bool
	// createChildren builds the children of n. Only called by EnsureChildren.
	createChildren(n *Node) []*Node
	text(n *Node, f language.Formatter) string
	icon(n *Node, f language.Formatter, expanded bool) language.IconID
	comment(n *Node) string
}

// Node is one position in the tree.
type Node struct {
	// parent is a back-pointer for traversal. The parent owns the child list.
	parent   *Node
	children []*Node
	state    LoadState
	data     Data
	group    Group
	expanded bool
}

func newNode(data Data, group Group) *Node {
	n := &Node{data: data, group: group, state: Loaded}
	if data.lazy() {
		n.state = NotLoaded
	}
	return n
}

// Parent returns the tree parent, or nil for the root and detached nodes.
func (n *Node) Parent() *Node {
	return n.parent
}

// Data returns the kind-specific payload.
func (n *Node) Data() Data {
	return n.data
}

// Group returns the sibling group tag.
func (n *Node) Group() Group {
	return n.group
}

// State returns the lazy-load state.
func (n *Node) State() LoadState {
	return n.state
}

// Children loads the children if needed and returns them. The returned slice
// must not be modified; it stops reflecting the node after Invalidate.
func (n *Node) Children() []*Node {
	n.EnsureChildren()
	return n.children
}

// EnsureChildren runs the child factory exactly once per load cycle.
func (n *Node) EnsureChildren() {
	if n.state != NotLoaded {
		return
	}
	n.state = Loading
	defer func() {
		// A factory that panicked leaves the node loadable again.
		if n.state == Loading {
			n.state = NotLoaded
		}
	}()
	created := n.data.createChildren(n)
	for _, c := range created {
		c.parent = n
	}
	n.children = slices.Clip(created)
	n.state = Loaded
}

// Invalidate drops the children of a lazy node so the next Children call
// recreates them. It is a no-op for nodes whose children are not lazy.
func (n *Node) Invalidate() {
	if !n.data.lazy() {
		return
	}
	n.children = nil
	n.state = NotLoaded
}

// HasChildren tells the viewer whether to draw an expander. Unloaded nodes
// are assumed to have children, except references to core libraries, which
// are loaded on the spot because they almost never have any.
func (n *Node) HasChildren() bool {
	if d, ok := n.data.(*AssemblyRefData); ok && d.Ref.IsCorLib() {
		n.EnsureChildren()
	}
	if n.state != Loaded {
		return true
	}
	return len(n.children) > 0
}

// IsExpanded reports the viewer's expanded flag.
func (n *Node) IsExpanded() bool {
	return n.expanded
}

// SetExpanded sets the viewer's expanded flag, loading children on expand.
func (n *Node) SetExpanded(v bool) {
	n.expanded = v
	if v {
		n.EnsureChildren()
	}
}

// IdentityPath returns the node's stable address: its ancestors' segments
// followed by its own.
func (n *Node) IdentityPath() nodeid.Address {
	var path []nodeid.Segment
	for cur := n; cur != nil; cur = cur.parent {
		path = append(path, cur.data.segment())
	}
	slices.Reverse(path)
	return nodeid.Address{Path: path}
}

// Text returns the display text produced by f.
func (n *Node) Text(f language.Formatter) string {
	return n.data.text(n, f)
}

// Icon returns the icon produced by f.
func (n *Node) Icon(f language.Formatter, expanded bool) language.IconID {
	return n.data.icon(n, f, expanded)
}

// WriteComment writes the node as a comment line for textual dumps.
func (n *Node) WriteComment(w io.Writer, f language.Formatter) error {
	return f.WriteCommentLine(w, n.data.comment(n))
}

// Resolve resolves a reference node to the loaded entity it names. It is
// attempted fresh on every call. Non-reference nodes never resolve.
func (n *Node) Resolve() (metadata.Entity, bool) {
	switch d := n.data.(type) {
	case *AssemblyRefData:
		if a, ok := d.resolve(); ok {
			return a, true
		}
	case *BaseTypeData:
		if t, ok := d.resolve(); ok {
			return t, true
		}
	}
	return nil, false
}

// Activate navigates from a reference node to the canonical node of the
// entity it names. It returns false, and does nothing, when the node is not
// a reference, the reference does not resolve, or the entity has no node.
func (n *Node) Activate() bool {
	var owner *Node
	switch d := n.data.(type) {
	case *AssemblyRefData:
		owner = d.owner
	case *BaseTypeData:
		owner = d.owner
	default:
		return false
	}
	reg, ok := registryOf(owner)
	if !ok {
		return false
	}
	entity, ok := n.Resolve()
	if !ok {
		reg.logger.Debug("Activation skipped, reference does not resolve.", "path", n.IdentityPath().String())
		return false
	}
	target, ok := reg.Locate(entity)
	if !ok {
		reg.logger.Debug("Activation skipped, entity has no canonical node.", "path", n.IdentityPath().String())
		return false
	}
	return reg.SelectAndFocus(target)
}

// Find walks addr from n, loading children along the way. The first segment
// of addr must be n's own segment.
func (n *Node) Find(addr nodeid.Address) (*Node, bool) {
	if addr.Len() == 0 || addr.Path[0] != n.data.segment() {
		return nil, false
	}
	cur := n
	for _, seg := range addr.Path[1:] {
		var next *Node
		for _, c := range cur.Children() {
			if c.data.segment() == seg {
				next = c
				break
			}
		}
		if next == nil {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Walk visits n and its already loaded descendants depth-first. Returning
// false from fn skips the node's subtree. Walk never triggers a load.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// insert places child after the last sibling whose group order is not
// greater than the child's. The children slice is replaced, not modified.
func (n *Node) insert(child *Node) {
	n.EnsureChildren()
	idx := len(n.children)
	for i, c := range n.children {
		if c.group.Order > child.group.Order {
			idx = i
			break
		}
	}
	child.parent = n
	n.children = slices.Insert(slices.Clone(n.children), idx, child)
}

// detach removes child from n's children. The children slice is replaced.
func (n *Node) detach(child *Node) bool {
	idx := slices.Index(n.children, child)
	if idx < 0 {
		return false
	}
	n.children = slices.Delete(slices.Clone(n.children), idx, idx+1)
	child.parent = nil
	return true
}

// registryOf finds the registry by walking from n up to the root.
func registryOf(n *Node) (*Registry, bool) {
	for cur := n; cur != nil; cur = cur.parent {
		if l, ok := cur.data.(*ListData); ok {
			return l.registry, true
		}
	}
	return nil, false
}
