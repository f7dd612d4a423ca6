package formatter

import (
	"fmt"

	"github.com/graphvinci/graphvinci/internal/domainstate"
	"github.com/graphvinci/graphvinci/internal/menu"
)

// DomainTreeLookup supplies the state shown next to menu tiles.
type DomainTreeLookup interface {
	State(domain string) domainstate.State
	IsNodeVisible(domain, nodeID string) bool
}

// FormatDomainMenu renders a domain menu as a tree. Depth-1 tiles are
// domains; their children are listed only while the domain tile is
// expanded, unless all is set.
func FormatDomainMenu(m *menu.MenuData, ds DomainTreeLookup, all bool) string {
	var items []TreeItem
	for _, d := range m.Children() {
		state := ds.State(d.ID)
		children := d.Children()
		items = append(items, TreeItem{
			Title: Bold(d.Label) + Dim(fmt.Sprintf(" (%d)", len(children))),
			Badge: StatePill(state),
		})
		if !all && !d.Expanded {
			continue
		}
		for i, c := range children {
			items = append(items, TreeItem{
				Title:  c.Label,
				Level:  c.Depth - d.Depth,
				IsLast: i == len(children)-1,
				Muted:  !ds.IsNodeVisible(d.ID, c.Label),
			})
		}
	}
	return RenderTree(items)
}
