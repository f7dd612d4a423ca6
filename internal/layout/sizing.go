package layout

import (
	"math"

	"github.com/graphvinci/graphvinci/internal/geometry"
	"github.com/mattn/go-runewidth"
)

// Metrics are the text and row dimensions a table is sized from. Widths are
// measured in terminal cells (wide runes count twice) scaled by CharWidth.
type Metrics struct {
	CharWidth     float64
	RowHeight     float64
	RowGap        float64
	Padding       float64
	ColumnGap     float64
	MinRowWidth   float64
	TargetSpacing float64
}

// DefaultMetrics returns the dimensions used by the explorer.
func DefaultMetrics() Metrics {
	return Metrics{
		CharWidth:     8,
		RowHeight:     24,
		RowGap:        2,
		Padding:       10,
		ColumnGap:     20,
		MinRowWidth:   120,
		TargetSpacing: 40,
	}
}

// Sizing is the geometry of a laid out table in node-local coordinates,
// with the origin at the table's top-left corner.
type Sizing struct {
	RowCount          int
	RowWidth          float64
	RowHeight         float64
	FullHeight        float64
	TableHeight       float64
	RowMidPoint       float64
	LeftTextAnchorX   float64
	CenterTextAnchorX float64
	RightTextAnchorX  float64
	TargetPoints      []geometry.Point
}

// Size computes the table geometry for rows.
func Size(rows []Row, m Metrics) Sizing {
	width := m.MinRowWidth
	for _, r := range rows {
		width = math.Max(width, textWidth(r, m))
	}

	s := Sizing{
		RowCount:          len(rows),
		RowWidth:          width,
		RowHeight:         m.RowHeight,
		FullHeight:        m.RowHeight + m.RowGap,
		RowMidPoint:       m.RowHeight / 2,
		LeftTextAnchorX:   m.Padding,
		CenterTextAnchorX: width / 2,
		RightTextAnchorX:  width - m.Padding,
	}
	s.TableHeight = float64(s.RowCount) * s.FullHeight
	s.TargetPoints = targetPoints(s.RowWidth, s.TableHeight, m.TargetSpacing)
	return s
}

func textWidth(r Row, m Metrics) float64 {
	cells := runewidth.StringWidth(r.Name)
	w := float64(cells)*m.CharWidth + 2*m.Padding
	if r.Kind == RowProperty && r.Definition != "" {
		w += float64(runewidth.StringWidth(r.Definition))*m.CharWidth + m.ColumnGap
	}
	return w
}

// targetPoints spreads incoming attachment points along the top and bottom
// edges and adds one at each side's midpoint.
func targetPoints(width, height, spacing float64) []geometry.Point {
	n := 1
	if spacing > 0 {
		n = int(math.Max(1, math.Floor(width/spacing)))
	}
	step := width / float64(n)
	points := make([]geometry.Point, 0, 2*n+2)
	for i := 0; i < n; i++ {
		x := (float64(i) + 0.5) * step
		points = append(points, geometry.Point{X: x, Y: 0}, geometry.Point{X: x, Y: height})
	}
	points = append(points,
		geometry.Point{X: 0, Y: height / 2},
		geometry.Point{X: width, Y: height / 2},
	)
	return points
}

// Opacity is the fill opacity of the row at index i. Headers are the most
// muted; link and property rows alternate by parity to ease scanning.
func Opacity(kind RowKind, i int) float64 {
	switch kind {
	case RowHeader:
		return 0.2
	case RowLink:
		if i%2 == 1 {
			return 0.4
		}
		return 0.5
	default:
		if i%2 == 1 {
			return 0.8
		}
		return 0.9
	}
}
