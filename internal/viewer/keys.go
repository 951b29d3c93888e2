package viewer

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Expand   key.Binding
	Collapse key.Binding
	Activate key.Binding
	Refresh  key.Binding
	Reload   key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Expand:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "expand")),
		Collapse: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "collapse")),
		Activate: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "go to definition")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh node")),
		Reload:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reload catalog")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Expand, k.Collapse, k.Activate, k.Refresh, k.Reload, k.Quit}
}
