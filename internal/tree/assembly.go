package tree

import (
	"github.com/specialistvlad/asmtree/internal/language"
	"github.com/specialistvlad/asmtree/internal/metadata"
	"github.com/specialistvlad/asmtree/internal/nodeid"
)

// AssemblyData is the canonical node of a loaded assembly. Its children are
// the references folder followed by the declared types.
type AssemblyData struct {
	Assembly *metadata.Assembly
}

func (d *AssemblyData) segment() nodeid.Segment {
	return nodeid.NewSegment("asm", d.Assembly.FullName())
}

func (*AssemblyData) lazy() bool { return true }

func (d *AssemblyData) createChildren(n *Node) []*Node {
	children := make([]*Node, 0, len(d.Assembly.Types)+1)
	children = append(children, must(NewReferencesFolder(n)))
	for _, t := range d.Assembly.Types {
		children = append(children, newNode(&TypeData{Type: t}, GroupType))
	}
	return children
}

func (d *AssemblyData) text(_ *Node, f language.Formatter) string {
	return f.Text(d.Assembly)
}

func (d *AssemblyData) icon(_ *Node, f language.Formatter, expanded bool) language.IconID {
	return f.Icon(d.Assembly, expanded)
}

func (d *AssemblyData) comment(*Node) string {
	return d.Assembly.FullName()
}
