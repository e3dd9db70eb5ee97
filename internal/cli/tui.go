package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sahilm/fuzzy"

	"github.com/matzehuels/crumbtrail/pkg/breadcrumb"
	"github.com/matzehuels/crumbtrail/pkg/render"
	"github.com/matzehuels/crumbtrail/pkg/source"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// NodeListModel - Interactive page selection
// =============================================================================

// NodeListModel is the bubbletea model for picking the current page. The
// trail of the highlighted node is previewed below the list. "/" starts a
// fuzzy search over paths and names. Nodes without a path cannot be the
// current page and are not listed.
type NodeListModel struct {
	Nodes     []breadcrumb.Node[source.ID]
	Cursor    int // index into the filtered list
	Selected  *breadcrumb.Node[source.ID]
	Height    int
	Offset    int
	Connector string

	search    textinput.Model
	searching bool
	visible   []int // indexes into Nodes, in display order
	term      render.TerminalRenderer
}

// NewNodeListModel creates a new node list model.
func NewNodeListModel(nodes []breadcrumb.Node[source.ID], connector string) NodeListModel {
	si := textinput.New()
	si.Placeholder = "Type to search..."
	si.Prompt = "/ "

	return NodeListModel{
		Nodes:     nodes,
		Height:    15,
		Connector: connector,
		search:    si,
		visible:   filterNodes(nodes, ""),
		term:      render.NewTerminalRenderer(),
	}
}

func (m NodeListModel) Init() tea.Cmd {
	return nil
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "/":
			m.searching = true
			m.search.Focus()
			return m, textinput.Blink
		case "up", "k":
			m.moveUp()
		case "down", "j":
			m.moveDown()
		case "enter":
			return m.selectCurrent()
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

// updateSearch handles keys while the search input has focus. Arrow keys
// still move the cursor so a match can be picked without leaving search.
func (m NodeListModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.refilter()
			return m, nil
		}
		m.searching = false
		m.search.Blur()
		return m, nil
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "up":
		m.moveUp()
		return m, nil
	case "down":
		m.moveDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refilter()
	return m, cmd
}

func (m *NodeListModel) moveUp() {
	if m.Cursor > 0 {
		m.Cursor--
		if m.Cursor < m.Offset {
			m.Offset = m.Cursor
		}
	}
}

func (m *NodeListModel) moveDown() {
	if m.Cursor < len(m.visible)-1 {
		m.Cursor++
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	}
}

func (m NodeListModel) selectCurrent() (tea.Model, tea.Cmd) {
	if len(m.visible) == 0 {
		return m, nil
	}
	n := m.Nodes[m.visible[m.Cursor]]
	if n.Path == "" {
		return m, nil
	}
	m.Selected = &n
	return m, tea.Quit
}

func (m *NodeListModel) refilter() {
	m.visible = filterNodes(m.Nodes, m.search.Value())
	m.Cursor = 0
	m.Offset = 0
}

// current returns the highlighted node.
func (m NodeListModel) current() (breadcrumb.Node[source.ID], bool) {
	if m.Cursor >= len(m.visible) {
		return breadcrumb.Node[source.ID]{}, false
	}
	return m.Nodes[m.visible[m.Cursor]], true
}

func (m NodeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Page"))
	b.WriteString("\n")
	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
	} else {
		b.WriteString(listDimStyle.Render("↑/↓ navigate  / search  ⏎ select  q quit"))
	}
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.visible))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[m.visible[i]]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, n.Path, n.Name, n.ID.String()})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Path", "Name", "ID").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col == 3 {
				return listDimStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	if preview := m.preview(); preview != "" {
		b.WriteString("  " + preview)
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.visible)), len(m.visible))))

	return b.String()
}

// preview renders the trail of the highlighted node, or "" when it cannot
// be resolved.
func (m NodeListModel) preview() string {
	n, ok := m.current()
	if !ok || n.Path == "" {
		return ""
	}
	chain, err := breadcrumb.Resolve(m.Nodes, n.Path)
	if err != nil || chain.Empty() {
		return ""
	}
	out, err := m.term.Render(context.Background(), render.NameTerm, render.FromChain(chain, m.Connector))
	if err != nil {
		return ""
	}
	return out
}

// =============================================================================
// Search
// =============================================================================

// nodeSource matches against "path name" for each node.
type nodeSource []breadcrumb.Node[source.ID]

func (s nodeSource) String(i int) string { return s[i].Path + " " + s[i].Name }
func (s nodeSource) Len() int            { return len(s) }

// filterNodes returns the indexes of nodes matching query, best match
// first. An empty query keeps every node in input order. Nodes with an
// empty path are skipped.
func filterNodes(nodes []breadcrumb.Node[source.ID], query string) []int {
	var idx []int
	if query == "" {
		for i, n := range nodes {
			if n.Path != "" {
				idx = append(idx, i)
			}
		}
		return idx
	}

	for _, match := range fuzzy.FindFrom(query, nodeSource(nodes)) {
		if nodes[match.Index].Path != "" {
			idx = append(idx, match.Index)
		}
	}
	return idx
}
