package formatter

import (
	"fmt"
	"strings"

	"github.com/graphvinci/graphvinci/internal/domain"
	"github.com/graphvinci/graphvinci/internal/layout"
)

// FormatLayout renders a node's table layout: a title line with kind,
// domain and size, then one line per row.
func FormatLayout(n domain.SchemaNode, t *layout.Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s  %s  %s\n",
		Bold(n.TrueName()),
		Dim(string(n.SuperType())),
		DomainBadge(n.Domain()),
		Dim(fmt.Sprintf("%s×%s", FormatFloat(t.Sizing.RowWidth), FormatFloat(t.Sizing.TableHeight))),
	)

	rows := make([][]string, 0, len(t.Rows))
	for _, r := range t.Placed() {
		rows = append(rows, []string{
			r.Name,
			kindLabel(r.Kind),
			r.Definition,
			FormatFloat(r.Y),
			FormatFloat(r.Opacity),
		})
	}
	b.WriteString(RenderTable([]string{"ROW", "KIND", "TYPE", "Y", "OPACITY"}, rows))
	return b.String()
}

func kindLabel(k layout.RowKind) string {
	switch k {
	case layout.RowHeader:
		return StyleHeader.Render(string(k))
	case layout.RowLink:
		return StyleBlue.Render(string(k))
	default:
		return string(k)
	}
}
