package tree

import (
	"fmt"

	"github.com/specialistvlad/asmtree/internal/language"
	"github.com/specialistvlad/asmtree/internal/metadata"
	"github.com/specialistvlad/asmtree/internal/nodeid"
)

// inheritance is implemented by nodes that can feed a base types folder.
type inheritance interface {
	childTypes() (base *metadata.TypeRef, interfaces []metadata.TypeRef, ok bool)
}

// TypeData is the canonical node of a declared type.
type TypeData struct {
	Type *metadata.TypeDef
}

func (d *TypeData) childTypes() (*metadata.TypeRef, []metadata.TypeRef, bool) {
	return d.Type.BaseType, d.Type.Interfaces, true
}

func (d *TypeData) segment() nodeid.Segment {
	return nodeid.NewSegmentWithToken("type", d.Type.FullName(), uint32(d.Type.Token))
}

func (*TypeData) lazy() bool { return true }

func (d *TypeData) createChildren(n *Node) []*Node {
	if d.Type.BaseType == nil && len(d.Type.Interfaces) == 0 {
		return nil
	}
	return []*Node{must(NewBaseTypesFolder(n))}
}

func (d *TypeData) text(_ *Node, f language.Formatter) string {
	return f.Text(d.Type)
}

func (d *TypeData) icon(_ *Node, f language.Formatter, expanded bool) language.IconID {
	return f.Icon(d.Type, expanded)
}

func (d *TypeData) comment(*Node) string {
	return d.Type.FullName()
}

// BaseTypesFolderData lists the base type and the implemented interfaces of
// its owner, base type first.
type BaseTypesFolderData struct {
	owner *Node
}

// NewBaseTypesFolder creates a "Base Types" container over a type node or a
// base type node.
func NewBaseTypesFolder(owner *Node) (*Node, error) {
	if owner == nil {
		return nil, ErrNilOwner
	}
	if _, ok := owner.data.(inheritance); !ok {
		return nil, fmt.Errorf("%w: base types folder needs a type, got %T", ErrOwnerKind, owner.data)
	}
	return newNode(&BaseTypesFolderData{owner: owner}, GroupBaseTypesFolder), nil
}

// Owner returns the node whose inheritance the folder lists.
func (d *BaseTypesFolderData) Owner() *Node { return d.owner }

func (*BaseTypesFolderData) segment() nodeid.Segment { return nodeid.NewSegment("basetypes", "") }

func (*BaseTypesFolderData) lazy() bool { return true }

func (*BaseTypesFolderData) comment(*Node) string { return "Base Types" }

func (d *BaseTypesFolderData) createChildren(*Node) []*Node {
	base, interfaces, ok := d.owner.data.(inheritance).childTypes()
	if !ok {
		return nil
	}
	children := make([]*Node, 0, len(interfaces)+1)
	if base != nil {
		children = append(children, must(NewBaseTypeNode(*base, true, d.owner)))
	}
	for _, iface := range interfaces {
		children = append(children, must(NewBaseTypeNode(iface, false, d.owner)))
	}
	return children
}

func (*BaseTypesFolderData) text(*Node, language.Formatter) string { return "Base Types" }

func (*BaseTypesFolderData) icon(_ *Node, _ language.Formatter, expanded bool) language.IconID {
	if expanded {
		return language.IconBaseTypeOpened
	}
	return language.IconBaseTypeClosed
}

// BaseTypeData is a reference to a base class or an implemented interface.
// Its only child, if any, is a base types folder for the referenced type.
type BaseTypeData struct {
	Ref    metadata.TypeRef
	IsBase bool
	owner  *Node
}

// NewBaseTypeNode creates a base type reference node. owner is the type node
// (or base type node) whose inheritance lists ref.
func NewBaseTypeNode(ref metadata.TypeRef, isBase bool, owner *Node) (*Node, error) {
	if owner == nil {
		return nil, ErrNilOwner
	}
	if _, ok := owner.data.(inheritance); !ok {
		return nil, fmt.Errorf("%w: base type needs a type, got %T", ErrOwnerKind, owner.data)
	}
	group := GroupInterfaceBaseType
	if isBase {
		group = GroupBaseType
	}
	return newNode(&BaseTypeData{Ref: ref, IsBase: isBase, owner: owner}, group), nil
}

func (d *BaseTypeData) resolve() (*metadata.TypeDef, bool) {
	reg, ok := registryOf(d.owner)
	if !ok {
		return nil, false
	}
	return reg.resolver.ResolveType(d.Ref)
}

// childTypes resolves the referenced type fresh on every call.
func (d *BaseTypeData) childTypes() (*metadata.TypeRef, []metadata.TypeRef, bool) {
	t, ok := d.resolve()
	if !ok {
		return nil, nil, false
	}
	return t.BaseType, t.Interfaces, true
}

func (d *BaseTypeData) segment() nodeid.Segment {
	return nodeid.NewSegmentWithToken("basetype", d.Ref.FullName(), uint32(d.Ref.Token))
}

func (*BaseTypeData) lazy() bool { return true }

// createChildren resolves the referenced type and, when it has bases of its
// own, lists them in a nested base types folder.
func (d *BaseTypeData) createChildren(n *Node) []*Node {
	base, interfaces, ok := d.childTypes()
	if !ok || (base == nil && len(interfaces) == 0) {
		return nil
	}
	return []*Node{must(NewBaseTypesFolder(n))}
}

func (d *BaseTypeData) text(_ *Node, f language.Formatter) string {
	return f.Text(d.Ref)
}

func (d *BaseTypeData) icon(_ *Node, f language.Formatter, expanded bool) language.IconID {
	if !d.IsBase {
		return language.IconInterface
	}
	return f.Icon(d.Ref, expanded)
}

func (d *BaseTypeData) comment(*Node) string {
	return d.Ref.FullName()
}

// ChildTypes returns the base type and interfaces of the type a base type
// node refers to. ok is false for other kinds and for unresolved references.
func (n *Node) ChildTypes() (base *metadata.TypeRef, interfaces []metadata.TypeRef, ok bool) {
	d, isBase := n.data.(*BaseTypeData)
	if !isBase {
		return nil, nil, false
	}
	return d.childTypes()
}
