// Package metadata models the loaded binary-module metadata the tree browses:
// assemblies and type definitions (entities) and the name-based references
// between them (symbolic references).
//
// Entities are owned by whoever loaded them. The tree only holds pointers to
// them and never mutates them after they have been added to a Set.
//
// Set is the in-memory EntityResolver: it answers "which loaded entity does
// this reference name" and tolerates assemblies being added and removed at any
// time. Resolution is a plain lookup; nothing here performs I/O.
package metadata
