package layout

import (
	"github.com/graphvinci/graphvinci/internal/domain"
	"github.com/graphvinci/graphvinci/internal/geometry"
)

// Table is the laid out tabular rendering of one schema node.
type Table struct {
	NodeID string
	Rows   []Row
	Sizing Sizing
}

// PlacedRow is a row with its position inside the table.
type PlacedRow struct {
	Row
	Index   int     `json:"index"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Opacity float64 `json:"opacity"`
}

// Build lays out n with metrics m.
func Build(n domain.SchemaNode, m Metrics) *Table {
	rows := NodeRows(n)
	return &Table{NodeID: n.ID(), Rows: rows, Sizing: Size(rows, m)}
}

// Placed returns every row with its y offset and opacity.
func (t *Table) Placed() []PlacedRow {
	out := make([]PlacedRow, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = PlacedRow{
			Row:     r,
			Index:   i,
			Y:       float64(i) * t.Sizing.FullHeight,
			Width:   t.Sizing.RowWidth,
			Height:  t.Sizing.RowHeight,
			Opacity: Opacity(r.Kind, i),
		}
	}
	return out
}

// Origin is the graph-space top-left corner of the table when the node's
// centre is at center.
func (t *Table) Origin(center geometry.Point) geometry.Point {
	return geometry.Point{
		X: center.X - t.Sizing.RowWidth/2,
		Y: center.Y - t.Sizing.TableHeight/2,
	}
}

// IncomingPorts are the local attachment points for edges ending at this node.
func (t *Table) IncomingPorts() []geometry.Point {
	return append([]geometry.Point(nil), t.Sizing.TargetPoints...)
}

// EntityPorts are the left and right anchors of the header row.
func (t *Table) EntityPorts() []geometry.Point {
	for i, r := range t.Rows {
		if r.Kind == RowHeader {
			return t.sidePorts(i)
		}
	}
	return nil
}

// SourcePorts are the left and right anchors of the link row named field.
func (t *Table) SourcePorts(field string) []geometry.Point {
	var ports []geometry.Point
	for i, r := range t.Rows {
		if r.Kind == RowLink && r.Name == field {
			ports = append(ports, t.sidePorts(i)...)
		}
	}
	return ports
}

func (t *Table) sidePorts(i int) []geometry.Point {
	y := float64(i)*t.Sizing.FullHeight + t.Sizing.RowMidPoint
	return []geometry.Point{{X: 0, Y: y}, {X: t.Sizing.RowWidth, Y: y}}
}

// IncomingConnectionPoint is the incoming port nearest to source, in graph
// space, for a node centred at center.
func (t *Table) IncomingConnectionPoint(center, source geometry.Point) (geometry.Point, bool) {
	return geometry.NearestPoint(source, geometry.Translate(t.IncomingPorts(), t.Origin(center)))
}

// EntityConnectionPoint is the header anchor nearest to source.
func (t *Table) EntityConnectionPoint(center, source geometry.Point) (geometry.Point, bool) {
	return geometry.NearestPoint(source, geometry.Translate(t.EntityPorts(), t.Origin(center)))
}

// SourceConnectionPoint is the anchor of link row field nearest to
// destination. It reports false when the table has no such link row.
func (t *Table) SourceConnectionPoint(center geometry.Point, field string, destination geometry.Point) (geometry.Point, bool) {
	return geometry.NearestPoint(destination, geometry.Translate(t.SourcePorts(field), t.Origin(center)))
}
