// Package menu holds the explorer's hierarchical menu and its toolbar.
package menu

import "context"

// Action runs when a tile is activated.
type Action func(ctx context.Context) error

// Tile is one entry of the menu tree.
type Tile struct {
	ID       string
	Label    string
	Tooltip  string
	Depth    int
	Expanded bool
	// Group separates toolbar buttons into visual clusters.
	Group  int
	Action Action

	children []*Tile
}

// NewTile creates a tile with no children.
func NewTile(id, label string) *Tile {
	return &Tile{ID: id, Label: label}
}

// AddChild appends c and re-derives the depth of c's subtree from t.
func (t *Tile) AddChild(c *Tile) {
	t.children = append(t.children, c)
	setDepth(c, t.Depth+1)
}

// Children returns the tile's children in insertion order.
func (t *Tile) Children() []*Tile {
	return append([]*Tile(nil), t.children...)
}

// HasChildren reports whether the tile has any children.
func (t *Tile) HasChildren() bool { return len(t.children) > 0 }

// Activate runs the tile's action. Tiles without one do nothing.
func (t *Tile) Activate(ctx context.Context) error {
	if t.Action == nil {
		return nil
	}
	return t.Action(ctx)
}

func setDepth(t *Tile, depth int) {
	t.Depth = depth
	for _, c := range t.children {
		setDepth(c, depth+1)
	}
}

// MenuData is the root of a menu tree. It sits at depth 0, so top-level
// tiles have depth 1.
type MenuData struct {
	children []*Tile
}

// New returns an empty menu.
func New() *MenuData { return &MenuData{} }

// AddChild appends a top-level tile.
func (m *MenuData) AddChild(t *Tile) {
	m.children = append(m.children, t)
	setDepth(t, 1)
}

// Children returns the top-level tiles.
func (m *MenuData) Children() []*Tile {
	return append([]*Tile(nil), m.children...)
}

// SetOpenTo expands every tile whose ID equals id and collapses all others.
// An empty id collapses the whole tree.
func (m *MenuData) SetOpenTo(id string) {
	for _, c := range m.children {
		openByID(c, id)
	}
}

func openByID(t *Tile, id string) {
	t.Expanded = id != "" && t.ID == id
	for _, c := range t.children {
		openByID(c, id)
	}
}

// Find returns the first tile in pre-order with the given ID.
func (m *MenuData) Find(id string) (*Tile, bool) {
	for _, t := range m.Tiles() {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// Tiles flattens the tree in pre-order.
func (m *MenuData) Tiles() []*Tile {
	var out []*Tile
	for _, c := range m.children {
		out = appendTiles(out, c)
	}
	return out
}

func appendTiles(out []*Tile, t *Tile) []*Tile {
	out = append(out, t)
	for _, c := range t.children {
		out = appendTiles(out, c)
	}
	return out
}

// MaxDepth returns the depth of the deepest tile, or 0 for an empty menu.
func (m *MenuData) MaxDepth() int {
	deepest := 0
	for _, c := range m.children {
		if d := maxDepth(c); d > deepest {
			deepest = d
		}
	}
	return deepest
}

func maxDepth(t *Tile) int {
	d := t.Depth
	for _, c := range t.children {
		if cd := maxDepth(c); cd > d {
			d = cd
		}
	}
	return d
}
