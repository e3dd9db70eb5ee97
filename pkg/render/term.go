package render

import (
	"context"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// NameTerm selects the terminal renderer in a [Registry].
const NameTerm = "term"

// TerminalRenderer prints the trail on one line using lipgloss styles.
// Links are underlined, the current crumb is bold, the connector is dimmed.
type TerminalRenderer struct {
	Link      lipgloss.Style
	Current   lipgloss.Style
	Connector lipgloss.Style
}

// NewTerminalRenderer returns a TerminalRenderer with the default palette.
func NewTerminalRenderer() TerminalRenderer {
	return TerminalRenderer{
		Link:      lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Underline(true),
		Current:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36")),
		Connector: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// Render implements Renderer. The name is ignored.
func (r TerminalRenderer) Render(ctx context.Context, name string, data Data) (string, error) {
	sep := data.Connector
	if sep == "" {
		sep = "/"
	}
	sep = " " + r.Connector.Render(sep) + " "

	parts := make([]string, len(data.Crumbs))
	for i, c := range data.Crumbs {
		if c.Current {
			parts[i] = r.Current.Render(c.Name)
		} else {
			parts[i] = r.Link.Render(c.Name)
		}
	}
	return strings.Join(parts, sep) + "\n", nil
}

var _ Renderer = TerminalRenderer{}
