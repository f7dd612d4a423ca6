package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TreeItem is a single line in a tree display.
type TreeItem struct {
	Title  string
	Level  int
	IsLast bool
	Muted  bool   // drawn dimmed, e.g. a hidden node
	Badge  string // pre-styled, right-aligned
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// RenderTree renders items as an indented tree with box-drawing connectors.
// Level 0 items have no connector. Badges are aligned in one column.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	contents := make([]string, len(items))
	width := 0
	for i, item := range items {
		var prefix strings.Builder
		if item.Level > 0 {
			prefix.WriteString(strings.Repeat(treePipe, item.Level-1))
			if item.IsLast {
				prefix.WriteString(treeCorner)
			} else {
				prefix.WriteString(treeBranch)
			}
		}
		title := item.Title
		if item.Muted {
			title = Dim(title)
		}
		contents[i] = StyleDim.Render(prefix.String()) + title
		width = max(width, lipgloss.Width(contents[i]))
	}

	var b strings.Builder
	for i, item := range items {
		b.WriteString(contents[i])
		if item.Badge != "" {
			b.WriteString(strings.Repeat(" ", width-lipgloss.Width(contents[i])+colGap))
			b.WriteString(item.Badge)
		}
		b.WriteString("\n")
	}
	return b.String()
}
