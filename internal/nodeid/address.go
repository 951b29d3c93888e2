// internal/nodeid/address.go
package nodeid

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// String serializes the Address into its canonical path string representation.
func (a Address) String() string {
	var sb strings.Builder
	for i, segment := range a.Path {
		if i > 0 {
			sb.WriteRune('/')
		}
		sb.WriteString(segment.String())
	}
	return sb.String()
}

// String serializes a single segment.
func (s Segment) String() string {
	var sb strings.Builder
	sb.WriteString(s.Kind)
	if s.Key != "" {
		sb.WriteRune('(')
		sb.WriteString(strconv.Quote(s.Key))
		sb.WriteRune(')')
	}
	if s.HasToken() {
		sb.WriteString(fmt.Sprintf("@%08X", s.Token))
	}
	return sb.String()
}

// Equal checks whether two addresses name the same tree position.
func (a Address) Equal(other Address) bool {
	return slices.Equal(a.Path, other.Path)
}

// Child returns a new address with seg appended. The receiver is not modified.
func (a Address) Child(seg Segment) Address {
	path := make([]Segment, 0, len(a.Path)+1)
	path = append(path, a.Path...)
	return Address{Path: append(path, seg)}
}

// Len returns the number of segments in the address.
func (a Address) Len() int {
	return len(a.Path)
}

// Last returns the final segment of the address.
func (a Address) Last() (Segment, bool) {
	if len(a.Path) == 0 {
		return Segment{}, false
	}
	return a.Path[len(a.Path)-1], true
}

// HasPrefix reports whether prefix is an ancestor-or-self path of a.
func (a Address) HasPrefix(prefix Address) bool {
	if len(prefix.Path) > len(a.Path) {
		return false
	}
	return slices.Equal(a.Path[:len(prefix.Path)], prefix.Path)
}
