// Package viewer is the interactive terminal browser over the node tree.
// The Model is the tree's Selector: activating a reference moves the cursor
// to the canonical node, expanding its ancestors on the way.
package viewer
