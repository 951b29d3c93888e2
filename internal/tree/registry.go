package tree

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/specialistvlad/asmtree/internal/metadata"
)

// Selector moves the viewer's selection to a node and makes it visible.
type Selector interface {
	SelectAndFocus(n *Node)
}

// Registry maps loaded entities to their canonical nodes and owns the root.
// Add, Remove and Locate touch nodes and must run on the goroutine that owns
// the tree. Len, SetSelector and SelectAndFocus only read or swap guarded
// fields and may be called from anywhere.
type Registry struct {
	mu       sync.RWMutex
	nodes    map[metadata.EntityKey]*Node
	root     *Node
	resolver metadata.Resolver
	selector Selector
	logger   *slog.Logger
}

// NewRegistry creates an empty registry over resolver. A nil logger discards
// everything.
func NewRegistry(resolver metadata.Resolver, logger *slog.Logger) (*Registry, error) {
	if resolver == nil {
		return nil, ErrNilResolver
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &Registry{
		nodes:    make(map[metadata.EntityKey]*Node),
		resolver: resolver,
		logger:   logger,
	}
	r.root = newNode(&ListData{registry: r}, groupList)
	return r, nil
}

// Root returns the assembly list node.
func (r *Registry) Root() *Node {
	return r.root
}

// Resolver returns the resolver used by reference nodes.
func (r *Registry) Resolver() metadata.Resolver {
	return r.resolver
}

// SetSelector installs the viewer hook used by SelectAndFocus.
func (r *Registry) SetSelector(s Selector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selector = s
}

// Add creates the canonical node of a and inserts it under the root. The
// node is attached before it becomes visible to Locate.
func (r *Registry) Add(a *metadata.Assembly) (*Node, error) {
	if a == nil {
		return nil, ErrNilEntity
	}
	n := newNode(&AssemblyData{Assembly: a}, GroupAssembly)

	r.mu.Lock()
	defer r.mu.Unlock()
	key := a.Key()
	if _, exists := r.nodes[key]; exists {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyRegistered, a.FullName())
	}
	r.root.insert(n)
	r.nodes[key] = n
	r.logger.Debug("Assembly node registered.", "assembly", a.FullName())
	return n, nil
}

// Remove unregisters and detaches the canonical node of a. References to a
// stop resolving once the resolver forgets it too.
func (r *Registry) Remove(a *metadata.Assembly) bool {
	if a == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := a.Key()
	n, ok := r.nodes[key]
	if !ok {
		return false
	}
	delete(r.nodes, key)
	r.root.detach(n)
	r.logger.Debug("Assembly node removed.", "assembly", a.FullName())
	return true
}

// Locate returns the canonical node of a loaded entity. Types are found
// among the children of their assembly's node, which loads them if needed.
func (r *Registry) Locate(e metadata.Entity) (*Node, bool) {
	switch e := e.(type) {
	case *metadata.Assembly:
		if e == nil {
			return nil, false
		}
		r.mu.RLock()
		n, ok := r.nodes[e.Key()]
		r.mu.RUnlock()
		return n, ok
	case *metadata.TypeDef:
		if e == nil || e.Assembly == nil {
			return nil, false
		}
		asmNode, ok := r.Locate(e.Assembly)
		if !ok {
			return nil, false
		}
		for _, c := range asmNode.Children() {
			if d, ok := c.data.(*TypeData); ok && d.Type == e {
				return c, true
			}
		}
	}
	return nil, false
}

// SelectAndFocus hands n to the installed selector. It returns false when
// no selector is installed.
func (r *Registry) SelectAndFocus(n *Node) bool {
	r.mu.RLock()
	s := r.selector
	r.mu.RUnlock()
	if s == nil || n == nil {
		return false
	}
	s.SelectAndFocus(n)
	return true
}

// Len returns the number of registered entities.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nodes)
}
