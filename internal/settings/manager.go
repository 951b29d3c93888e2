package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

// Store is the contract display preferences are written against.
type Store interface {
	// GetOrCreateSection returns the section with the given id, creating an
	// empty one if it does not exist.
	GetOrCreateSection(id string) *Section
	// RecreateSection replaces the section with an empty one and returns it.
	RecreateSection(id string) *Section
	// Save persists all sections.
	Save() error
}

// Manager is the reference Store. With an empty path it is purely in-memory.
type Manager struct {
	mu       sync.Mutex
	path     string
	sections map[string]*Section
	order    []string
}

// NewMemory creates an in-memory settings manager. Save is a no-op.
func NewMemory() *Manager {
	return &Manager{sections: make(map[string]*Section)}
}

// fileRoot is the top-level schema of a settings file.
type fileRoot struct {
	Sections []*sectionBlock `hcl:"section,block"`
}

type sectionBlock struct {
	ID   string   `hcl:"id,label"`
	Body hcl.Body `hcl:",remain"`
}

// Open loads the settings file at path. A missing file yields an empty
// manager that will create the file on Save.
func Open(path string) (*Manager, error) {
	m := &Manager{path: path, sections: make(map[string]*Section)}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return m, nil
		}
		return nil, fmt.Errorf("settings: error accessing %s: %w", path, err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("settings: failed to parse %s: %w", path, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("settings: failed to decode %s: %w", path, diags)
	}

	for _, block := range root.Sections {
		sect := m.getOrCreate(block.ID)
		attrs, diags := block.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, fmt.Errorf("settings: section %q in %s: %w", block.ID, path, diags)
		}
		for _, name := range sortedAttributeNames(attrs) {
			val, diags := attrs[name].Expr.Value(nil)
			if diags.HasErrors() {
				return nil, fmt.Errorf("settings: section %q attribute %q: %w", block.ID, name, diags)
			}
			sect.setValue(name, val)
		}
	}
	return m, nil
}

// Path returns the backing file path, or "" for an in-memory manager.
func (m *Manager) Path() string {
	return m.path
}

// GetOrCreateSection implements Store.
func (m *Manager) GetOrCreateSection(id string) *Section {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getOrCreate(id)
}

// RecreateSection implements Store.
func (m *Manager) RecreateSection(id string) *Section {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sections[id]; !exists {
		m.order = append(m.order, id)
	}
	sect := newSection(id)
	m.sections[id] = sect
	return sect
}

// Section returns an existing section without creating it.
func (m *Manager) Section(id string) (*Section, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sect, ok := m.sections[id]
	return sect, ok
}

func (m *Manager) getOrCreate(id string) *Section {
	if sect, ok := m.sections[id]; ok {
		return sect
	}
	sect := newSection(id)
	m.sections[id] = sect
	m.order = append(m.order, id)
	return sect
}

// Save writes every section to the backing file, atomically replacing it.
func (m *Manager) Save() error {
	if m.path == "" {
		return nil
	}
	m.mu.Lock()
	data := m.render()
	m.mu.Unlock()

	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	f, err := os.CreateTemp(dir, ".settings-*")
	if err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("settings: writing %s: %w", f.Name(), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	return os.Rename(f.Name(), m.path)
}

func (m *Manager) render() []byte {
	out := hclwrite.NewEmptyFile()
	body := out.Body()
	for i, id := range m.order {
		sect := m.sections[id]
		if i > 0 {
			body.AppendNewline()
		}
		block := body.AppendNewBlock("section", []string{id}).Body()
		for _, name := range sect.order {
			block.SetAttributeValue(name, sect.attrs[name])
		}
	}
	return out.Bytes()
}

func sortedAttributeNames(attrs hcl.Attributes) []string {
	type named struct {
		name string
		pos  hcl.Pos
	}
	list := make([]named, 0, len(attrs))
	for name, attr := range attrs {
		list = append(list, named{name: name, pos: attr.Range.Start})
	}
	// Keep file order so a round trip does not reshuffle attributes.
	slices.SortFunc(list, func(a, b named) int { return a.pos.Byte - b.pos.Byte })
	names := make([]string, len(list))
	for i, n := range list {
		names[i] = n.name
	}
	return names
}
