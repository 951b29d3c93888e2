// internal/nodeid/parser.go
package nodeid

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrEmptyPath is returned when parsing an empty identifier.
var ErrEmptyPath = errors.New("identifier cannot be empty")

// kindRegex matches the kind tag at the start of a segment.
var kindRegex = regexp.MustCompile(`^[a-z][a-z0-9_-]*`)

// tokenRegex matches the optional `@XXXXXXXX` token suffix.
var tokenRegex = regexp.MustCompile(`^@([0-9A-Fa-f]{8})`)

// Parse creates a new Address by parsing its canonical string representation.
func Parse(rawID string) (Address, error) {
	if rawID == "" {
		return Address{}, ErrEmptyPath
	}

	var addr Address
	rest := rawID
	for {
		seg, remaining, err := parseSegment(rest)
		if err != nil {
			return Address{}, fmt.Errorf("invalid identifier %q: %w", rawID, err)
		}
		addr.Path = append(addr.Path, seg)
		if remaining == "" {
			return addr, nil
		}
		if remaining[0] != '/' {
			return Address{}, fmt.Errorf("invalid identifier %q: unexpected %q after segment %s", rawID, remaining[:1], seg)
		}
		rest = remaining[1:]
		if rest == "" {
			return Address{}, fmt.Errorf("invalid identifier %q: path contains empty segment", rawID)
		}
	}
}

// MustParse is like Parse but panics on error. Intended for constants and tests.
func MustParse(rawID string) Address {
	addr, err := Parse(rawID)
	if err != nil {
		panic(err)
	}
	return addr
}

func parseSegment(s string) (Segment, string, error) {
	kind := kindRegex.FindString(s)
	if kind == "" {
		if strings.HasPrefix(s, "/") {
			return Segment{}, "", errors.New("path contains empty segment")
		}
		return Segment{}, "", fmt.Errorf("invalid segment kind at %q", s)
	}
	seg := Segment{Kind: kind}
	s = s[len(kind):]

	if strings.HasPrefix(s, "(") {
		quoted, err := strconv.QuotedPrefix(s[1:])
		if err != nil {
			return Segment{}, "", fmt.Errorf("segment %q has a malformed key: %w", kind, err)
		}
		key, err := strconv.Unquote(quoted)
		if err != nil {
			// Unreachable: QuotedPrefix already validated the literal.
			return Segment{}, "", fmt.Errorf("internal error unquoting key: %w", err)
		}
		s = s[1+len(quoted):]
		if !strings.HasPrefix(s, ")") {
			return Segment{}, "", fmt.Errorf("segment %q key is not closed", kind)
		}
		if key == "" {
			return Segment{}, "", fmt.Errorf("segment %q has an empty key", kind)
		}
		seg.Key = key
		s = s[1:]
	}

	if m := tokenRegex.FindStringSubmatch(s); m != nil {
		token, err := strconv.ParseUint(m[1], 16, 32)
		if err != nil {
			return Segment{}, "", fmt.Errorf("internal error parsing token: %w", err)
		}
		seg.Token = uint32(token)
		s = s[len(m[0]):]
	} else if strings.HasPrefix(s, "@") {
		return Segment{}, "", fmt.Errorf("segment %q has a malformed token", kind)
	}

	return seg, s, nil
}
