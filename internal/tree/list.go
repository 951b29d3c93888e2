package tree

import (
	"github.com/specialistvlad/asmtree/internal/language"
	"github.com/specialistvlad/asmtree/internal/nodeid"
)

// ListData is the root of the tree. Its children are the canonical assembly
// nodes, added and removed through the Registry.
type ListData struct {
	registry *Registry
}

// Registry returns the registry owning the root.
func (d *ListData) Registry() *Registry { return d.registry }

func (*ListData) segment() nodeid.Segment { return nodeid.NewSegment("asmlist", "") }

func (*ListData) lazy() bool { return false }

func (*ListData) createChildren(*Node) []*Node { return nil }

func (*ListData) comment(*Node) string { return "Assemblies" }

func (*ListData) text(*Node, language.Formatter) string { return "Assemblies" }

func (*ListData) icon(*Node, language.Formatter, bool) language.IconID {
	return language.IconAssemblyList
}
