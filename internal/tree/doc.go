// Package tree is the lazy node model behind the assembly browser.
//
// # Why Tree Package Exists
//
// The metadata being browsed is a graph: assemblies reference each other
// (sometimes cyclically) and types point at base types and interfaces in other
// assemblies. The viewer needs a tree. This package projects the graph onto a
// tree without copying it:
//   - Real entities (assemblies, types) have exactly one canonical node,
//     tracked by the Registry.
//   - Reference nodes (assembly references, base types) only carry a name.
//     Their children and their navigation target come from resolving that name
//     and reusing the canonical node, never from duplicating its subtree.
//   - Every node computes its children at most once, on first expansion.
//
// # Node Kinds
//
// The set of node kinds is closed. Each kind is a Data implementation carrying
// only what it needs:
//
//	ListData            root; owns the Registry
//	AssemblyData        canonical assembly node
//	ReferencesFolderData  "References" container under an assembly
//	AssemblyRefData     reference to another assembly (resolves lazily)
//	TypeData            canonical type node
//	BaseTypesFolderData "Base Types" container under a type
//	BaseTypeData        reference to a base type or implemented interface
//
// # Lifecycle
//
//  1. **Creation:** the Registry creates assembly nodes under the root as
//     assemblies are added; everything else is created when its parent loads.
//  2. **Loading:** Children() runs the kind's child factory once. The state
//     goes NotLoaded -> Loading -> Loaded, and re-entrant calls while Loading
//     see no children rather than loading twice.
//  3. **Invalidation:** Invalidate() drops the children and resets the state.
//     Slices handed out earlier are never modified afterwards; they are simply
//     stale.
//  4. **Removal:** removing an assembly from the Registry detaches its node.
//     References to it resolve to nothing from then on.
//
// # Thread-Safety
//
// Nodes are owned by one goroutine (the UI loop, or the command being run)
// and are not safe for concurrent use. Registry.Add and Registry.Remove
// mutate the root's children and must run on that goroutine as well. A
// loader working in the background hands its finished assemblies over to it
// instead of registering them directly. Each Add or Remove is a single
// locked step, so an entity is never in the index without being attached.
package tree
