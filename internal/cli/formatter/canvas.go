package formatter

import (
	"fmt"
	"math"
	"strings"

	"github.com/graphvinci/graphvinci/internal/geometry"
	"github.com/graphvinci/graphvinci/internal/viz"
)

type canvasLabel struct {
	at   geometry.Point
	text string
}

// RenderCanvas draws a frame's tables and domain glyphs as labels on a
// width×height character grid scaled to the frame's bounding box.
// Later labels overwrite earlier ones where they collide.
func RenderCanvas(f *viz.Frame, width, height int) string {
	width, height = max(width, 10), max(height, 1)

	var labels []canvasLabel
	for _, n := range f.Nodes {
		text := "▭ " + n.ID
		if n.Fixed {
			text = "▣ " + n.ID
		}
		labels = append(labels, canvasLabel{at: n.Center, text: text})
	}
	for _, g := range f.Glyphs {
		labels = append(labels, canvasLabel{at: g.Center, text: fmt.Sprintf("◆ %s(%d)", g.Domain, g.NodeCount)})
	}
	if len(labels) == 0 {
		return Dim("nothing to show")
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, l := range labels {
		minX, maxX = math.Min(minX, l.at.X), math.Max(maxX, l.at.X)
		minY, maxY = math.Min(minY, l.at.Y), math.Max(maxY, l.at.Y)
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}
	for _, l := range labels {
		text := []rune(Truncate(l.text, width))
		col := scale(l.at.X, minX, maxX, width-len(text))
		row := scale(l.at.Y, minY, maxY, height-1)
		copy(grid[row][col:], text)
	}

	lines := make([]string, height)
	for i, r := range grid {
		lines[i] = strings.TrimRight(string(r), " ")
	}
	return strings.Join(lines, "\n")
}

// scale maps v from [lo, hi] onto [0, cells].
func scale(v, lo, hi float64, cells int) int {
	if cells <= 0 || hi-lo == 0 {
		return 0
	}
	return int(math.Round((v - lo) / (hi - lo) * float64(cells)))
}
