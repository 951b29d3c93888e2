package tree

import (
	"fmt"

	"github.com/specialistvlad/asmtree/internal/language"
	"github.com/specialistvlad/asmtree/internal/metadata"
	"github.com/specialistvlad/asmtree/internal/nodeid"
)

// ReferencesFolderData groups the assembly references of its owner assembly.
type ReferencesFolderData struct {
	owner *Node
}

// NewReferencesFolder creates the "References" container of an assembly node.
func NewReferencesFolder(owner *Node) (*Node, error) {
	if owner == nil {
		return nil, ErrNilOwner
	}
	if _, ok := owner.data.(*AssemblyData); !ok {
		return nil, fmt.Errorf("%w: references folder needs an assembly, got %T", ErrOwnerKind, owner.data)
	}
	return newNode(&ReferencesFolderData{owner: owner}, GroupReferencesFolder), nil
}

func (*ReferencesFolderData) segment() nodeid.Segment { return nodeid.NewSegment("asmrefs", "") }

func (*ReferencesFolderData) lazy() bool { return true }

func (*ReferencesFolderData) comment(*Node) string { return "References" }

func (d *ReferencesFolderData) createChildren(*Node) []*Node {
	asm := d.owner.data.(*AssemblyData).Assembly
	children := make([]*Node, 0, len(asm.References))
	for _, ref := range asm.References {
		children = append(children, must(NewAssemblyReferenceNode(ref, d.owner)))
	}
	return children
}

func (*ReferencesFolderData) text(*Node, language.Formatter) string { return "References" }

func (*ReferencesFolderData) icon(_ *Node, _ language.Formatter, expanded bool) language.IconID {
	if expanded {
		return language.IconReferenceFolderOpened
	}
	return language.IconReferenceFolderClosed
}

// AssemblyRefData is a reference to another assembly. Its children are the
// references of the resolved assembly, each owned by the resolved assembly's
// canonical node.
type AssemblyRefData struct {
	Ref   metadata.AssemblyRef
	owner *Node
}

// NewAssemblyReferenceNode creates a reference node for ref, declared by the
// assembly of owner.
func NewAssemblyReferenceNode(ref metadata.AssemblyRef, owner *Node) (*Node, error) {
	if owner == nil {
		return nil, ErrNilOwner
	}
	if _, ok := owner.data.(*AssemblyData); !ok {
		return nil, fmt.Errorf("%w: assembly reference needs an assembly, got %T", ErrOwnerKind, owner.data)
	}
	return newNode(&AssemblyRefData{Ref: ref, owner: owner}, GroupAssemblyRef), nil
}

// Owner returns the canonical node of the declaring assembly.
func (d *AssemblyRefData) Owner() *Node { return d.owner }

func (d *AssemblyRefData) ownerAssembly() *metadata.Assembly {
	return d.owner.data.(*AssemblyData).Assembly
}

func (d *AssemblyRefData) resolve() (*metadata.Assembly, bool) {
	reg, ok := registryOf(d.owner)
	if !ok {
		return nil, false
	}
	return reg.resolver.ResolveAssembly(d.Ref)
}

func (d *AssemblyRefData) segment() nodeid.Segment {
	return nodeid.NewSegmentWithToken("asmref", d.Ref.FullName(), uint32(d.Ref.Token))
}

func (*AssemblyRefData) lazy() bool { return true }

func (d *AssemblyRefData) createChildren(n *Node) []*Node {
	reg, ok := registryOf(d.owner)
	if !ok {
		return nil
	}
	asm, ok := reg.resolver.ResolveAssembly(d.Ref)
	if !ok {
		reg.logger.Debug("Reference not loaded, no children.", "reference", d.Ref.FullName())
		return nil
	}
	target, ok := reg.Locate(asm)
	if !ok {
		reg.logger.Debug("Resolved assembly has no canonical node.", "assembly", asm.FullName())
		return nil
	}
	resolved := target.data.(*AssemblyData).Assembly
	children := make([]*Node, 0, len(resolved.References))
	for _, ref := range resolved.References {
		children = append(children, must(NewAssemblyReferenceNode(ref, target)))
	}
	return children
}

func (d *AssemblyRefData) text(_ *Node, f language.Formatter) string {
	s := f.Text(d.Ref)
	if d.ownerAssembly().HasAmbiguousReference(d.Ref) {
		s += d.Ref.Token.SuffixString()
	}
	return s
}

func (d *AssemblyRefData) icon(_ *Node, f language.Formatter, expanded bool) language.IconID {
	return f.Icon(d.Ref, expanded)
}

func (d *AssemblyRefData) comment(*Node) string {
	if d.Ref.IsWindowsRuntime() {
		return d.Ref.Name + " [WinRT]"
	}
	return d.Ref.FullName()
}
