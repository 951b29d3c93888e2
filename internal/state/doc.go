// Package state persists what the viewer showed: which nodes were expanded
// and which one was selected, as identity paths. Because paths survive
// rebuilding the tree, a snapshot taken before a reload (or before exiting)
// can be replayed onto a fresh tree.
package state
