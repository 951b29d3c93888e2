// internal/nodeid/address_test.go
package nodeid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddress_String(t *testing.T) {
	testCases := []struct {
		name        string
		addr        Address
		expectedStr string
	}{
		{
			name: "kinds only",
			addr: Address{
				Path: []Segment{NewSegment("asmlist", ""), NewSegment("basetypes", "")},
			},
			expectedStr: "asmlist/basetypes",
		},
		{
			name: "key and token",
			addr: Address{
				Path: []Segment{NewSegment("asm", "Foo"), NewSegmentWithToken("asmref", "Bar, Version=1.0.0.0", 0x23000001)},
			},
			expectedStr: `asm("Foo")/asmref("Bar, Version=1.0.0.0")@23000001`,
		},
		{
			name: "key with quotes and slashes",
			addr: Address{
				Path: []Segment{NewSegment("type", `A/B"C`)},
			},
			expectedStr: `type("A/B\"C")`,
		},
		{
			name:        "empty address",
			addr:        Address{},
			expectedStr: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedStr, tc.addr.String())
		})
	}
}

func TestAddress_RoundTrip(t *testing.T) {
	testIDs := []string{
		"asmlist",
		`asmlist/asm("Foo, Version=1.0.0.0, Culture=neutral, PublicKeyToken=null")`,
		`asmlist/asm("Foo")/asmrefs/asmref("mscorlib, Version=4.0.0.0")@23000001`,
		`asmlist/asm("Foo")/type("Foo.Bar")@02000002/basetypes/basetype("System.Object")@01000001`,
	}

	for _, id := range testIDs {
		t.Run(id, func(t *testing.T) {
			addr, err := Parse(id)
			require.NoError(t, err)

			roundTripID := addr.String()
			assert.Equal(t, id, roundTripID)

			roundTripAddr, err := Parse(roundTripID)
			require.NoError(t, err)
			assert.True(t, addr.Equal(roundTripAddr))
		})
	}
}

func TestAddress_Equal(t *testing.T) {
	addr1 := MustParse(`asm("A")/asmref("B")@23000001`)
	addr2 := MustParse(`asm("A")/asmref("B")@23000001`)
	addr3 := MustParse(`asm("A")/asmref("B")@23000002`)
	addr4 := MustParse(`asm("A")/asmref("C")@23000001`)

	assert.True(t, addr1.Equal(addr2))
	assert.False(t, addr1.Equal(addr3))
	assert.False(t, addr1.Equal(addr4))
	assert.False(t, addr1.Equal(Address{}))
	assert.True(t, Address{}.Equal(Address{}))
}

func TestAddress_ChildDoesNotAlias(t *testing.T) {
	parent := Address{Path: make([]Segment, 1, 4)}
	parent.Path[0] = NewSegment("asmlist", "")

	a := parent.Child(NewSegment("asm", "A"))
	b := parent.Child(NewSegment("asm", "B"))

	assert.Equal(t, `asmlist/asm("A")`, a.String())
	assert.Equal(t, `asmlist/asm("B")`, b.String())
	assert.Equal(t, "asmlist", parent.String())
	assert.True(t, a.HasPrefix(parent))
	assert.False(t, parent.HasPrefix(a))
}

func TestAddress_Last(t *testing.T) {
	_, ok := Address{}.Last()
	assert.False(t, ok)

	seg, ok := MustParse(`asm("A")/asmrefs`).Last()
	require.True(t, ok)
	assert.Equal(t, "asmrefs", seg.Kind)
	assert.Empty(t, seg.Key)
}
