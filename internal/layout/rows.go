package layout

import (
	"sort"

	"github.com/graphvinci/graphvinci/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// RowKind is the role a row plays in a node table.
type RowKind string

const (
	RowHeader   RowKind = "Header"
	RowProperty RowKind = "PROPERTY"
	RowLink     RowKind = "LINK"
)

// Row is one line of a node table. Rows are derived from the node on every
// layout pass and never stored.
type Row struct {
	Kind       RowKind `json:"rootKind"`
	Name       string  `json:"name"`
	Definition string  `json:"definition,omitempty"`
}

// kindRank orders kinds: header, then properties, then links.
func kindRank(k RowKind) int {
	switch k {
	case RowHeader:
		return 0
	case RowLink:
		return 2
	default:
		return 1
	}
}

// Rows builds the ordered row sequence for a node: the header first, property
// rows next and link rows last, each group collated by name. Link fields whose
// name was already seen are dropped, the first occurrence wins.
func Rows(trueName string, properties, links []domain.Field) []Row {
	rows := make([]Row, 0, 1+len(properties)+len(links))
	rows = append(rows, Row{Kind: RowHeader, Name: trueName})
	for _, p := range properties {
		rows = append(rows, Row{Kind: RowProperty, Name: p.Name, Definition: p.Definition})
	}
	seen := make(map[string]bool, len(links))
	for _, l := range links {
		if seen[l.Name] {
			continue
		}
		seen[l.Name] = true
		rows = append(rows, Row{Kind: RowLink, Name: l.Name, Definition: l.Definition})
	}

	// Collators are not safe for concurrent use; build one per call.
	col := collate.New(language.English)
	body := rows[1:]
	sort.SliceStable(body, func(i, j int) bool {
		a, b := body[i], body[j]
		if ra, rb := kindRank(a.Kind), kindRank(b.Kind); ra != rb {
			return ra < rb
		}
		return col.CompareString(a.Name, b.Name) < 0
	})
	return rows
}

// NodeRows is Rows applied to a schema node.
func NodeRows(n domain.SchemaNode) []Row {
	return Rows(n.TrueName(), n.Properties(), n.Links())
}
