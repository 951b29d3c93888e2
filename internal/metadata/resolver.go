package metadata

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrDuplicateAssembly is returned when an assembly with the same identity is already loaded.
var ErrDuplicateAssembly = errors.New("assembly already loaded")

// Resolver maps symbolic references to the loaded entities they name.
// A false result means "not loaded"; it is never an error.
type Resolver interface {
	ResolveAssembly(ref AssemblyRef) (*Assembly, bool)
	ResolveType(ref TypeRef) (*TypeDef, bool)
}

// Set is the in-memory collection of loaded assemblies and the Resolver over them.
// All methods are safe for concurrent use; each Add/Remove is a single
// visible state transition.
type Set struct {
	mu         sync.RWMutex
	assemblies []*Assembly
	byKey      map[EntityKey]*Assembly
}

// NewSet creates an empty assembly set.
func NewSet() *Set {
	return &Set{byKey: make(map[EntityKey]*Assembly)}
}

// Add loads an assembly into the set.
func (s *Set) Add(a *Assembly) error {
	if a == nil {
		return errors.New("metadata: nil assembly")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := a.Key()
	if _, exists := s.byKey[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateAssembly, a.FullName())
	}
	s.byKey[key] = a
	s.assemblies = append(s.assemblies, a)
	return nil
}

// Remove unloads the assembly with the given identity. It returns false if it was not loaded.
func (s *Set) Remove(key EntityKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byKey[key]
	if !ok {
		return false
	}
	delete(s.byKey, key)
	for i, cur := range s.assemblies {
		if cur == a {
			s.assemblies = append(s.assemblies[:i:i], s.assemblies[i+1:]...)
			break
		}
	}
	return true
}

// Assemblies returns a snapshot of the loaded assemblies in load order.
func (s *Set) Assemblies() []*Assembly {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Assembly, len(s.assemblies))
	copy(out, s.assemblies)
	return out
}

// Len returns the number of loaded assemblies.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.assemblies)
}

// ResolveAssembly finds the loaded assembly named by ref. An exact full-name
// match wins; otherwise the first loaded assembly with the same simple name
// is used.
func (s *Set) ResolveAssembly(ref AssemblyRef) (*Assembly, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	full := ref.FullName()
	for _, a := range s.assemblies {
		if strings.EqualFold(a.FullName(), full) {
			return a, true
		}
	}
	for _, a := range s.assemblies {
		if a.SameSimpleName(ref.AssemblyName) {
			return a, true
		}
	}
	return nil, false
}

// ResolveType finds the type named by ref in the loaded assembly whose simple
// name equals ref.Scope. An empty scope searches every loaded assembly in
// load order.
func (s *Set) ResolveType(ref TypeRef) (*TypeDef, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.assemblies {
		if ref.Scope != "" && !strings.EqualFold(a.Name, ref.Scope) {
			continue
		}
		if t, ok := a.FindType(ref.Namespace, ref.Name); ok {
			return t, true
		}
	}
	return nil, false
}
