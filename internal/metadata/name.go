package metadata

import (
	"strings"
)

// corLibNames are the simple names of the core libraries of the supported runtimes.
var corLibNames = map[string]struct{}{
	"mscorlib":               {},
	"system.runtime":         {},
	"system.private.corelib": {},
	"netstandard":            {},
}

// AssemblyName identifies an assembly by its simple name, version, culture
// and public key token.
type AssemblyName struct {
	Name           string
	Version        Version
	Culture        string
	PublicKeyToken string
}

// FullName returns the display name, e.g.
// "Foo, Version=1.0.0.0, Culture=neutral, PublicKeyToken=null".
func (n AssemblyName) FullName() string {
	culture := n.Culture
	if culture == "" {
		culture = "neutral"
	}
	pkt := strings.ToLower(n.PublicKeyToken)
	if pkt == "" {
		pkt = "null"
	}
	return n.Name + ", Version=" + n.Version.String() + ", Culture=" + culture + ", PublicKeyToken=" + pkt
}

// SameSimpleName reports whether both names have the same simple name, ignoring case.
func (n AssemblyName) SameSimpleName(other AssemblyName) bool {
	return strings.EqualFold(n.Name, other.Name)
}

// IsCorLib reports whether the name denotes a runtime core library.
func (n AssemblyName) IsCorLib() bool {
	_, ok := corLibNames[strings.ToLower(n.Name)]
	return ok
}
