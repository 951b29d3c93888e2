// internal/nodeid/types.go
package nodeid

// Segment represents a single component of an identity path, e.g. `asmref("Foo")@23000001`.
type Segment struct {
	Kind  string
	Key   string
	Token uint32 // 0 indicates no token is present.
}

// NewSegment creates a segment with a kind and a key but no token.
func NewSegment(kind, key string) Segment {
	return Segment{Kind: kind, Key: key}
}

// NewSegmentWithToken creates a segment that includes a disambiguating metadata token.
func NewSegmentWithToken(kind, key string, token uint32) Segment {
	return Segment{Kind: kind, Key: key, Token: token}
}

// HasToken returns true if the segment carries a metadata token.
func (s Segment) HasToken() bool {
	return s.Token != 0
}

// Address is the structured representation of a node's identity path.
type Address struct {
	Path []Segment
}
