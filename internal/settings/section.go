package settings

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Section is a named group of typed attributes.
type Section struct {
	id    string
	attrs map[string]cty.Value
	order []string
}

func newSection(id string) *Section {
	return &Section{id: id, attrs: make(map[string]cty.Value)}
}

// ID returns the section identifier.
func (s *Section) ID() string {
	return s.id
}

// Names returns the attribute names in the order they were first set.
func (s *Section) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Value returns the raw cty value of an attribute.
func (s *Section) Value(name string) (cty.Value, bool) {
	v, ok := s.attrs[name]
	return v, ok
}

// SetAttribute stores a Go value under name, converting it to its implied cty type.
func (s *Section) SetAttribute(name string, value any) error {
	ty, err := gocty.ImpliedType(value)
	if err != nil {
		return fmt.Errorf("settings: attribute %q: unable to infer cty.Type: %w", name, err)
	}
	v, err := gocty.ToCtyValue(value, ty)
	if err != nil {
		return fmt.Errorf("settings: attribute %q: %w", name, err)
	}
	s.setValue(name, v)
	return nil
}

func (s *Section) setValue(name string, v cty.Value) {
	if _, exists := s.attrs[name]; !exists {
		s.order = append(s.order, name)
	}
	s.attrs[name] = v
}

// Attribute reads an attribute into T. It returns false when the attribute is
// missing, null, or cannot be converted to T.
func Attribute[T any](s *Section, name string) (T, bool) {
	var out T
	if s == nil {
		return out, false
	}
	v, ok := s.attrs[name]
	if !ok || v.IsNull() || !v.IsKnown() {
		return out, false
	}
	if err := gocty.FromCtyValue(v, &out); err != nil {
		return out, false
	}
	return out, true
}
