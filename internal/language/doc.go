// Package language turns entities and references into display text, icons
// and comment lines. The tree never formats anything itself: it hands its
// subject to a Formatter, so the formatter can be swapped without touching
// any node.
package language
