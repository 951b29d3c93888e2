// Package app wires the browser together: configuration, logging, catalog
// loading, the node tree, persisted settings and viewer state. It is
// decoupled from any specific entrypoint like a CLI.
package app
