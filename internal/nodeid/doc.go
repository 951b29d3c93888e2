// internal/nodeid/doc.go

/*
Package nodeid provides a structured, type-safe representation for tree node
identity paths.

The canonical format is a slash-separated sequence of segments, each made of
a kind tag, an optional quoted key and an optional metadata token, e.g.
`asmlist/asm("Foo, Version=1.0.0.0, Culture=neutral, PublicKeyToken=null")/asmrefs/asmref("mscorlib")@23000001`.

Two nodes occupy the same tree position iff their addresses are equal. The
string form is what gets persisted, so it never depends on child indexes.
*/
package nodeid
