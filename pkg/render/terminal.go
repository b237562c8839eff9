package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/slotboard/slotboard/pkg/slot/span"
)

// Terminal prints a node tree as proportional boxes on a 12-unit row,
// the edit surface's drawing primitive. Overlay affordances are drawn
// only when ShowOverlays is set.
type Terminal struct {
	// Width is the total character width of a full row (default 96, a
	// multiple of the column count so spans divide evenly).
	Width int

	// ShowOverlays draws drag and resize markers on overlaid nodes.
	ShowOverlays bool
}

const defaultTerminalWidth = 96

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	containerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63"))

	overlayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)
)

// Print renders the tree to a string ready for terminal output.
func (t Terminal) Print(n *Node) string {
	if n == nil {
		return ""
	}
	width := t.Width
	if width <= 0 {
		width = defaultTerminalWidth
	}
	return t.print(n, width)
}

func (t Terminal) print(n *Node, width int) string {
	if len(n.Children) == 0 {
		return t.leaf(n, width)
	}

	// Pack children into rows by their span classes, wrapping at 12 units,
	// mirroring the grid the geometry resolver laid out.
	unit := width / span.Columns
	var rows []string
	var row []string
	used := 0
	for _, c := range n.Children {
		w := spanOfNode(c)
		if used+w > span.Columns && used > 0 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, used = nil, 0
		}
		row = append(row, t.print(c, w*unit-2)) // borders take two columns
		used += w
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, rows...)
	if n.Kind == "page" {
		return body
	}
	return containerStyle.Width(width).Render(t.label(n) + "\n" + body)
}

func (t Terminal) leaf(n *Node, width int) string {
	content := n.Content
	if content == "" {
		content = kindStyle.Render("(" + n.Kind + ")")
	}
	return boxStyle.Width(width).Render(t.label(n) + content)
}

// label prefixes a node's body with its overlay markers in edit mode.
func (t Terminal) label(n *Node) string {
	if !t.ShowOverlays || n.Overlay == nil {
		return ""
	}
	markers := []string{"⠿"}
	for _, h := range n.Overlay.Children {
		if hasClass(h, "resize-e") {
			markers = append(markers, "↔")
		}
		if hasClass(h, "resize-s") {
			markers = append(markers, "↕")
		}
	}
	return overlayStyle.Render(strings.Join(markers, " ")) + " "
}

// spanOfNode recovers the grid span from the col-span-N class the
// dispatcher attaches, defaulting to full width.
func spanOfNode(n *Node) int {
	for _, c := range n.Classes {
		var w int
		if _, err := fmt.Sscanf(c, "col-span-%d", &w); err == nil && w >= 1 && w <= span.Columns {
			return w
		}
	}
	return span.Columns
}

func hasClass(n *Node, class string) bool {
	for _, c := range n.Classes {
		if c == class {
			return true
		}
	}
	return false
}
