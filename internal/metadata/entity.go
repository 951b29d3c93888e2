package metadata

import (
	"strings"
)

// Subject is anything a formatter can render: an entity or a symbolic
// reference. The set of implementations is closed.
type Subject interface {
	isSubject()
}

// EntityKey is the identity of a loaded entity, independent of tree position.
type EntityKey string

// Entity is a loaded module-level object with a stable identity.
type Entity interface {
	Subject
	Key() EntityKey
}

// ContentType is the content type flag carried by an assembly reference.
type ContentType uint8

const (
	// ContentTypeDefault is an ordinary assembly reference.
	ContentTypeDefault ContentType = iota
	// ContentTypeWindowsRuntime marks a reference to a runtime-bridge (WinRT) module.
	ContentTypeWindowsRuntime
)

// String returns the string representation of ContentType.
func (c ContentType) String() string {
	switch c {
	case ContentTypeDefault:
		return "default"
	case ContentTypeWindowsRuntime:
		return "windows_runtime"
	default:
		return "unknown"
	}
}

// Assembly is a loaded assembly: its own identity, the assemblies it
// references and the types it declares, all in declaration order.
type Assembly struct {
	AssemblyName
	// FileName is where the assembly was loaded from, informational only.
	FileName   string
	Token      Token
	References []AssemblyRef
	Types      []*TypeDef
}

// NewAssembly creates an empty assembly with the conventional assembly token.
func NewAssembly(name AssemblyName) *Assembly {
	return &Assembly{AssemblyName: name, Token: NewToken(TableAssembly, 1)}
}

func (*Assembly) isSubject() {}

// Key returns the identity of the assembly: full name plus token.
func (a *Assembly) Key() EntityKey {
	return EntityKey(strings.ToLower(a.FullName()) + "@" + a.Token.String())
}

// AddReference appends an assembly reference, assigning the first free row
// token from the next row on when the reference has none.
func (a *Assembly) AddReference(ref AssemblyRef) AssemblyRef {
	if ref.Token == 0 {
		ref.Token = freeToken(TableAssemblyRef, uint32(len(a.References)+1), func(tok Token) bool {
			for _, r := range a.References {
				if r.Token == tok {
					return true
				}
			}
			return false
		})
	}
	a.References = append(a.References, ref)
	return ref
}

// AddType appends a type definition, assigning the first free row token from
// the next row on when the type has none, and links it back to the assembly.
func (a *Assembly) AddType(t *TypeDef) *TypeDef {
	if t.Token == 0 {
		// Row 1 is reserved for <Module>.
		t.Token = freeToken(TableTypeDef, uint32(len(a.Types)+2), func(tok Token) bool {
			_, ok := a.TypeByToken(tok)
			return ok
		})
	}
	t.Assembly = a
	a.Types = append(a.Types, t)
	return t
}

// TypeByToken returns the declared type carrying tok.
func (a *Assembly) TypeByToken(tok Token) (*TypeDef, bool) {
	for _, t := range a.Types {
		if t.Token == tok {
			return t, true
		}
	}
	return nil, false
}

func freeToken(table uint8, rid uint32, used func(Token) bool) Token {
	tok := NewToken(table, rid)
	for used(tok) {
		rid++
		tok = NewToken(table, rid)
	}
	return tok
}

// FindType returns the declared type with the given namespace and name.
func (a *Assembly) FindType(namespace, name string) (*TypeDef, bool) {
	for _, t := range a.Types {
		if t.Namespace == namespace && t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// HasAmbiguousReference reports whether more than one reference of the
// assembly shares ref's simple name.
func (a *Assembly) HasAmbiguousReference(ref AssemblyRef) bool {
	n := 0
	for _, r := range a.References {
		if r.SameSimpleName(ref.AssemblyName) {
			n++
		}
	}
	return n > 1
}

// AssemblyRef is a symbolic reference to an assembly by name.
type AssemblyRef struct {
	AssemblyName
	Token       Token
	ContentType ContentType
}

func (AssemblyRef) isSubject() {}

// IsWindowsRuntime reports whether the reference targets a WinRT module.
func (r AssemblyRef) IsWindowsRuntime() bool {
	return r.ContentType == ContentTypeWindowsRuntime
}

// TypeDef is a type declared by a loaded assembly.
type TypeDef struct {
	Namespace string
	Name      string
	Token     Token
	Interface bool
	// BaseType is nil for interfaces and for the root of a hierarchy.
	BaseType   *TypeRef
	Interfaces []TypeRef
	// Assembly is the declaring assembly; set by Assembly.AddType.
	Assembly *Assembly
}

func (*TypeDef) isSubject() {}

// FullName returns "Namespace.Name", or just Name for the global namespace.
func (t *TypeDef) FullName() string {
	return joinTypeName(t.Namespace, t.Name)
}

// Key returns the identity of the type: declaring assembly plus token.
func (t *TypeDef) Key() EntityKey {
	if t.Assembly == nil {
		return EntityKey("@" + t.Token.String())
	}
	return t.Assembly.Key() + EntityKey("/"+t.Token.String())
}

// TypeRef is a symbolic reference to a type, scoped by the simple name of
// the assembly expected to declare it.
type TypeRef struct {
	Scope     string
	Namespace string
	Name      string
	Token     Token
}

func (TypeRef) isSubject() {}

// FullName returns "Namespace.Name", or just Name for the global namespace.
func (r TypeRef) FullName() string {
	return joinTypeName(r.Namespace, r.Name)
}

// ParseTypeRef parses "[Scope]Namespace.Name" or "Namespace.Name". The last
// dot separates namespace and name.
func ParseTypeRef(s string) TypeRef {
	var ref TypeRef
	if strings.HasPrefix(s, "[") {
		if end := strings.IndexByte(s, ']'); end > 0 {
			ref.Scope = s[1:end]
			s = s[end+1:]
		}
	}
	if dot := strings.LastIndexByte(s, '.'); dot >= 0 {
		ref.Namespace, ref.Name = s[:dot], s[dot+1:]
	} else {
		ref.Name = s
	}
	return ref
}

func joinTypeName(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}
