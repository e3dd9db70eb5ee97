package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/crumbtrail/pkg/breadcrumb"
	"github.com/matzehuels/crumbtrail/pkg/source"
)

func testNodes() []breadcrumb.Node[source.ID] {
	return []breadcrumb.Node[source.ID]{
		{ID: "1", Path: "/", Name: "Home"},
		{ID: "2", ParentID: "1", Path: "/shop/", Name: "Shop"},
		{ID: "3", ParentID: "2", Path: "/shop/shoes", Name: "Shoes"},
	}
}

func press(m NodeListModel, key string) (NodeListModel, tea.Cmd) {
	var msg tea.KeyMsg
	switch key {
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := m.Update(msg)
	return next.(NodeListModel), cmd
}

func TestNodeListModel_Navigation(t *testing.T) {
	m := NewNodeListModel(testNodes(), "/")

	tests := []struct {
		key  string
		want int
	}{
		{"up", 0}, // clamped at top
		{"down", 1},
		{"j", 2},
		{"down", 2}, // clamped at bottom
		{"k", 1},
		{"up", 0},
	}

	for _, tt := range tests {
		m, _ = press(m, tt.key)
		if m.Cursor != tt.want {
			t.Errorf("after %q Cursor = %d, want %d", tt.key, m.Cursor, tt.want)
		}
	}
}

func TestNodeListModel_Scroll(t *testing.T) {
	m := NewNodeListModel(testNodes(), "/")
	m.Height = 2

	m, _ = press(m, "down")
	m, _ = press(m, "down")
	if m.Offset != 1 {
		t.Errorf("Offset = %d, want 1", m.Offset)
	}
	m, _ = press(m, "up")
	m, _ = press(m, "up")
	if m.Offset != 0 {
		t.Errorf("Offset = %d, want 0", m.Offset)
	}
}

func TestNodeListModel_Select(t *testing.T) {
	m := NewNodeListModel(testNodes(), "/")
	m, _ = press(m, "down")
	m, cmd := press(m, "enter")

	if m.Selected == nil {
		t.Fatal("Selected = nil after enter")
	}
	if m.Selected.Path != "/shop/" {
		t.Errorf("Selected.Path = %q, want %q", m.Selected.Path, "/shop/")
	}
	if cmd == nil {
		t.Error("enter should quit the program")
	}
}

func TestNodeListModel_Quit(t *testing.T) {
	for _, key := range []string{"q", "esc"} {
		m := NewNodeListModel(testNodes(), "/")
		m, cmd := press(m, key)
		if cmd == nil {
			t.Errorf("%q did not return a quit command", key)
		}
		if m.Selected != nil {
			t.Errorf("%q selected a node", key)
		}
	}
}

func TestNodeListModel_EmptyEnter(t *testing.T) {
	m := NewNodeListModel(nil, "/")
	m, cmd := press(m, "enter")
	if m.Selected != nil || cmd != nil {
		t.Error("enter on an empty list should do nothing")
	}
}

func TestNodeListModel_WindowSize(t *testing.T) {
	m := NewNodeListModel(testNodes(), "/")

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	if got := next.(NodeListModel).Height; got != 32 {
		t.Errorf("Height = %d, want 32", got)
	}
	next, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 6})
	if got := next.(NodeListModel).Height; got != 5 {
		t.Errorf("Height = %d, want minimum 5", got)
	}
}

func TestNodeListModel_View(t *testing.T) {
	m := NewNodeListModel(testNodes(), ">")
	m, _ = press(m, "down")
	m, _ = press(m, "down")

	view := m.View()
	for _, want := range []string{"Select Page", "/shop/shoes", "[3/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	preview := m.preview()
	for _, want := range []string{"Home", "Shop", "Shoes", ">"} {
		if !strings.Contains(preview, want) {
			t.Errorf("preview() = %q, missing %q", preview, want)
		}
	}
}

func TestFilterNodes(t *testing.T) {
	nodes := testNodes()

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"/", "/shop/", "/shop/shoes"}},
		{"shoes", []string{"/shop/shoes"}},
		{"Home", []string{"/"}},
		{"zzz", nil},
	}

	for _, tt := range tests {
		var got []string
		for _, i := range filterNodes(nodes, tt.query) {
			got = append(got, nodes[i].Path)
		}
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("filterNodes(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestNodeListModel_SkipsNodesWithoutPath(t *testing.T) {
	nodes := append(testNodes(), breadcrumb.Node[source.ID]{ID: "4", ParentID: "1", Name: "Drafts"})
	m := NewNodeListModel(nodes, "/")

	if len(m.visible) != 3 {
		t.Fatalf("visible = %v, want the 3 nodes with a path", m.visible)
	}
	if got := filterNodes(nodes, "Drafts"); len(got) != 0 {
		t.Errorf("filterNodes(Drafts) = %v, want no match", got)
	}

	m, _ = press(m, "down")
	m, _ = press(m, "down")
	m, _ = press(m, "down") // clamped at the last listed node
	m, _ = press(m, "enter")
	if m.Selected == nil || m.Selected.Path != "/shop/shoes" {
		t.Errorf("Selected = %+v, want /shop/shoes", m.Selected)
	}
}

func TestNodeListModel_Search(t *testing.T) {
	m := NewNodeListModel(testNodes(), "/")

	m, _ = press(m, "/")
	if !m.searching {
		t.Fatal("/ did not start searching")
	}
	for _, r := range "shoes" {
		m, _ = press(m, string(r))
	}
	if len(m.visible) != 1 {
		t.Fatalf("visible = %v, want one match", m.visible)
	}

	// "q" is text while searching, not quit.
	m, _ = press(m, "q")
	if !m.searching || m.search.Value() != "shoesq" {
		t.Errorf("q while searching: searching=%v query=%q", m.searching, m.search.Value())
	}
	m, _ = press(m, "esc") // clears the query
	if len(m.visible) != 3 {
		t.Errorf("visible after clearing = %d, want 3", len(m.visible))
	}
	for _, r := range "shoes" {
		m, _ = press(m, string(r))
	}

	m, _ = press(m, "enter") // leaves search
	if m.searching {
		t.Fatal("enter did not leave search")
	}
	m, _ = press(m, "enter")
	if m.Selected == nil || m.Selected.Path != "/shop/shoes" {
		t.Errorf("Selected = %+v, want /shop/shoes", m.Selected)
	}
}
