package language

import (
	"errors"

	"github.com/specialistvlad/asmtree/internal/settings"
)

// DisplaySectionID is the settings section holding display preferences.
const DisplaySectionID = "6AA691D6-C3B8-4823-87EC-DC2E9134CB3E"

// DisplaySettings holds the user's display preferences. Values are read from
// the store once, at construction, and written back on every later change.
type DisplaySettings struct {
	store           settings.Store
	syntaxHighlight bool
	disableSave     bool
	onChange        []func()
}

// NewDisplaySettings reads the display preferences from store.
func NewDisplaySettings(store settings.Store) (*DisplaySettings, error) {
	if store == nil {
		return nil, errors.New("language: nil settings store")
	}
	d := &DisplaySettings{store: store, syntaxHighlight: true}

	d.disableSave = true
	sect := store.GetOrCreateSection(DisplaySectionID)
	if v, ok := settings.Attribute[bool](sect, "SyntaxHighlight"); ok {
		// Listeners fire; nothing is written while loading.
		if err := d.SetSyntaxHighlight(v); err != nil {
			return nil, err
		}
	}
	d.disableSave = false
	return d, nil
}

// SyntaxHighlight reports whether comment and code output is colored.
func (d *DisplaySettings) SyntaxHighlight() bool {
	return d.syntaxHighlight
}

// SetSyntaxHighlight changes the preference and persists it.
func (d *DisplaySettings) SetSyntaxHighlight(v bool) error {
	if d.syntaxHighlight == v {
		return nil
	}
	d.syntaxHighlight = v
	for _, fn := range d.onChange {
		fn()
	}
	return d.onModified()
}

// OnChange registers fn to run after any preference changes.
func (d *DisplaySettings) OnChange(fn func()) {
	d.onChange = append(d.onChange, fn)
}

func (d *DisplaySettings) onModified() error {
	if d.disableSave {
		return nil
	}
	sect := d.store.RecreateSection(DisplaySectionID)
	if err := sect.SetAttribute("SyntaxHighlight", d.syntaxHighlight); err != nil {
		return err
	}
	return d.store.Save()
}
