package tree

// Group tags sibling nodes of the same family. Order decides where a node
// is inserted among existing siblings; within a group, insertion order is kept.
type Group struct {
	Name  string
	Order float64
}

var (
	GroupAssembly          = Group{Name: "assembly", Order: 0}
	GroupReferencesFolder  = Group{Name: "asmrefs", Order: 0}
	GroupAssemblyRef       = Group{Name: "asmref", Order: 0}
	GroupType              = Group{Name: "type", Order: 1}
	GroupBaseTypesFolder   = Group{Name: "basetypes", Order: 0}
	GroupBaseType          = Group{Name: "basetype", Order: 0}
	GroupInterfaceBaseType = Group{Name: "interface", Order: 1}
	groupList              = Group{Name: "asmlist", Order: 0}
)
