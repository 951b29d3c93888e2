package metadata

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a four-part assembly version.
type Version struct {
	Major, Minor, Build, Revision uint16
}

// String formats the version as "major.minor.build.revision".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Build, v.Revision)
}

// Compare returns -1, 0 or +1 comparing v against other component-wise.
func (v Version) Compare(other Version) int {
	a := [4]uint16{v.Major, v.Minor, v.Build, v.Revision}
	b := [4]uint16{other.Major, other.Minor, other.Build, other.Revision}
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// ParseVersion parses "1", "1.2", "1.2.3" or "1.2.3.4". Missing parts are zero.
func ParseVersion(s string) (Version, error) {
	var v Version
	if strings.TrimSpace(s) == "" {
		return v, nil
	}
	parts := strings.Split(s, ".")
	if len(parts) > 4 {
		return Version{}, fmt.Errorf("invalid version %q: too many components", s)
	}
	dst := [4]*uint16{&v.Major, &v.Minor, &v.Build, &v.Revision}
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 16)
		if err != nil {
			return Version{}, fmt.Errorf("invalid version %q: %w", s, err)
		}
		*dst[i] = uint16(n)
	}
	return v, nil
}
