package metadata

import "fmt"

// Token is a metadata token: a table index in the high byte and a row id in
// the low three bytes.
type Token uint32

// Metadata table indexes used by this package.
const (
	TableTypeRef     uint8 = 0x01
	TableTypeDef     uint8 = 0x02
	TableAssembly    uint8 = 0x20
	TableAssemblyRef uint8 = 0x23
)

// NewToken builds a token from a table index and a 1-based row id.
func NewToken(table uint8, rid uint32) Token {
	return Token(uint32(table)<<24 | rid&0x00FFFFFF)
}

// Table returns the table index of the token.
func (t Token) Table() uint8 {
	return uint8(t >> 24)
}

// Rid returns the row id of the token.
func (t Token) Rid() uint32 {
	return uint32(t) & 0x00FFFFFF
}

// String returns the token as eight upper-case hex digits.
func (t Token) String() string {
	return fmt.Sprintf("%08X", uint32(t))
}

// SuffixString returns the token in the form appended to display text, e.g. " @23000001".
func (t Token) SuffixString() string {
	return " @" + t.String()
}
