package viewer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/specialistvlad/asmtree/internal/language"
	"github.com/specialistvlad/asmtree/internal/tree"
)

// ReloadFunc rebuilds the tree and returns the new registry together with
// the node that should be selected afterwards (nil for none).
type ReloadFunc func(selected *tree.Node) (*tree.Registry, *tree.Node, error)

type row struct {
	node  *tree.Node
	depth int
}

// Model is the Bubble Tea model of the browser.
type Model struct {
	registry  *tree.Registry
	formatter language.Formatter
	reload    ReloadFunc
	keys      keyMap

	rows     []row
	selected *tree.Node
	cursor   int
	offset   int
	width    int
	height   int
	status   string
}

// New creates a browser over reg and installs it as reg's selector.
func New(reg *tree.Registry, f language.Formatter) *Model {
	m := &Model{formatter: f, keys: defaultKeyMap(), width: 80, height: 24}
	m.attach(reg)
	return m
}

// SetReload installs the handler of the reload key.
func (m *Model) SetReload(fn ReloadFunc) {
	m.reload = fn
}

func (m *Model) attach(reg *tree.Registry) {
	m.registry = reg
	reg.SetSelector(m)
	reg.Root().SetExpanded(true)
	m.selected = nil
	m.refresh()
}

// Registry returns the registry currently displayed.
func (m *Model) Registry() *tree.Registry {
	return m.registry
}

// Selected returns the node under the cursor, or nil for an empty tree.
func (m *Model) Selected() *tree.Node {
	return m.selected
}

// SelectAndFocus implements tree.Selector.
func (m *Model) SelectAndFocus(n *tree.Node) {
	for p := n.Parent(); p != nil; p = p.Parent() {
		p.SetExpanded(true)
	}
	m.selected = n
	m.refresh()
}

// refresh rebuilds the visible rows and puts the cursor back on the
// selected node, or on the closest remaining row.
func (m *Model) refresh() {
	m.rows = m.rows[:0]
	for _, c := range m.registry.Root().Children() {
		m.appendRows(c, 0)
	}

	if len(m.rows) == 0 {
		m.selected, m.cursor = nil, 0
		return
	}
	idx := -1
	for i, r := range m.rows {
		if r.node == m.selected {
			idx = i
			break
		}
	}
	if idx < 0 {
		idx = min(m.cursor, len(m.rows)-1)
	}
	m.cursor = idx
	m.selected = m.rows[idx].node
	m.scroll()
}

func (m *Model) appendRows(n *tree.Node, depth int) {
	m.rows = append(m.rows, row{node: n, depth: depth})
	if !n.IsExpanded() {
		return
	}
	for _, c := range n.Children() {
		m.appendRows(c, depth+1)
	}
}

func (m *Model) pageSize() int {
	// Two lines are taken by the status bar and the help line.
	return max(m.height-2, 1)
}

func (m *Model) scroll() {
	page := m.pageSize()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+page {
		m.offset = m.cursor - page + 1
	}
}

func (m *Model) move(delta int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor = max(0, min(len(m.rows)-1, m.cursor+delta))
	m.selected = m.rows[m.cursor].node
	m.scroll()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		if msg.Height > 0 {
			m.height = msg.Height
		}
		m.scroll()
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.move(1)
	case key.Matches(msg, m.keys.Expand):
		m.expand()
	case key.Matches(msg, m.keys.Collapse):
		m.collapse()
	case key.Matches(msg, m.keys.Activate):
		m.activate()
	case key.Matches(msg, m.keys.Refresh):
		if n := m.selected; n != nil {
			n.Invalidate()
			if n.IsExpanded() {
				n.EnsureChildren()
			}
			m.refresh()
		}
	case key.Matches(msg, m.keys.Reload):
		m.doReload()
	}
	return nil
}

func (m *Model) expand() {
	n := m.selected
	if n == nil || !n.HasChildren() {
		return
	}
	if !n.IsExpanded() {
		n.SetExpanded(true)
		m.refresh()
		return
	}
	m.move(1)
}

func (m *Model) collapse() {
	n := m.selected
	if n == nil {
		return
	}
	if n.IsExpanded() {
		n.SetExpanded(false)
		m.refresh()
		return
	}
	if p := n.Parent(); p != nil && p != m.registry.Root() {
		m.selected = p
		m.refresh()
	}
}

func (m *Model) activate() {
	n := m.selected
	if n == nil {
		return
	}
	if isReference(n) {
		if !n.Activate() {
			m.status = "not loaded: " + n.Text(m.formatter)
		}
		return
	}
	if n.HasChildren() {
		n.SetExpanded(!n.IsExpanded())
		m.refresh()
	}
}

func isReference(n *tree.Node) bool {
	switch n.Data().(type) {
	case *tree.AssemblyRefData, *tree.BaseTypeData:
		return true
	}
	return false
}

func (m *Model) doReload() {
	if m.reload == nil {
		return
	}
	reg, sel, err := m.reload(m.selected)
	if err != nil {
		m.status = "reload failed: " + err.Error()
		return
	}
	m.attach(reg)
	if sel != nil {
		m.SelectAndFocus(sel)
	}
	m.status = "reloaded"
}

var (
	cursorStyle = lipgloss.NewStyle().Reverse(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	end := min(len(m.rows), m.offset+m.pageSize())
	for i := m.offset; i < end; i++ {
		line := truncate(m.renderRow(m.rows[i]), m.width)
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(m.rows) == 0 {
		b.WriteString("(no assemblies loaded)\n")
	}

	status := m.status
	if status == "" && m.selected != nil {
		status = m.selected.IdentityPath().String()
	}
	b.WriteString(statusStyle.Render(truncate(status, m.width)))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(truncate(m.helpLine(), m.width)))
	return b.String()
}

func (m *Model) renderRow(r row) string {
	n := r.node
	expander := "  "
	if n.HasChildren() {
		expander = "▸ "
		if n.IsExpanded() {
			expander = "▾ "
		}
	}
	icon := n.Icon(m.formatter, n.IsExpanded())
	return fmt.Sprintf("%s%s%s %s", strings.Repeat("  ", r.depth), expander, glyph(icon), n.Text(m.formatter))
}

func (m *Model) helpLine() string {
	parts := make([]string, 0, len(m.keys.help()))
	for _, b := range m.keys.help() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

func glyph(id language.IconID) string {
	switch id {
	case language.IconAssembly:
		return "[A]"
	case language.IconAssemblyReference:
		return "[R]"
	case language.IconAssemblyWarning:
		return "[!]"
	case language.IconAssemblyList:
		return "[L]"
	case language.IconReferenceFolderClosed, language.IconBaseTypeClosed:
		return "[+]"
	case language.IconReferenceFolderOpened, language.IconBaseTypeOpened:
		return "[-]"
	case language.IconInterface:
		return "[I]"
	case language.IconClass:
		return "[C]"
	default:
		return "[?]"
	}
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}

// Run starts the browser on in/out and blocks until the user quits. It
// returns the final model so the caller can persist its state.
func Run(ctx context.Context, m *Model, in io.Reader, out io.Writer) (*Model, error) {
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(out), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return m, fmt.Errorf("browser failed: %w", err)
	}
	if fm, ok := final.(*Model); ok {
		return fm, nil
	}
	return m, nil
}
