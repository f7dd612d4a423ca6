package viz

import (
	"github.com/graphvinci/graphvinci/internal/domain"
	"github.com/graphvinci/graphvinci/internal/domainstate"
	"github.com/graphvinci/graphvinci/internal/geometry"
	"github.com/graphvinci/graphvinci/internal/graph"
	"github.com/graphvinci/graphvinci/internal/layout"
)

// Frame is the geometry of one render pass.
type Frame struct {
	Viewport graph.Viewport `json:"viewport"`
	Nodes    []NodeFrame    `json:"nodes"`
	Glyphs   []DomainGlyph  `json:"glyphs"`
	Edges    []EdgeFrame    `json:"edges"`
	Domains  []DomainFrame  `json:"domains"`
}

// NodeFrame is a visible node drawn as a table.
type NodeFrame struct {
	ID        string             `json:"id"`
	Domain    string             `json:"domain"`
	SuperType domain.SuperType   `json:"superType"`
	Center    geometry.Point     `json:"center"`
	Origin    geometry.Point     `json:"origin"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Fixed     bool               `json:"fixed"`
	Rows      []layout.PlacedRow `json:"rows"`
}

// DomainGlyph is a minimized domain drawn as a single summary shape.
type DomainGlyph struct {
	Domain    string         `json:"domain"`
	Center    geometry.Point `json:"center"`
	NodeCount int            `json:"nodeCount"`
}

// EdgeFrame is a resolved connection between two drawn shapes.
type EdgeFrame struct {
	Source string         `json:"source"`
	Target string         `json:"target"`
	Field  string         `json:"field"`
	From   geometry.Point `json:"from"`
	To     geometry.Point `json:"to"`
}

// DomainFrame reports a domain's state and how many of its nodes are drawn.
type DomainFrame struct {
	Domain   string            `json:"domain"`
	State    domainstate.State `json:"state"`
	Visible  int               `json:"visible"`
	Excluded int               `json:"excluded"`
}

// endpoint is something an edge can attach to.
type endpoint struct {
	center geometry.Point
	table  *layout.Table // nil for a domain glyph
}

// Frame computes the current render geometry. Tables are laid out afresh
// for every visible node; connections with no candidate port are skipped.
func (v *Visualizer) Frame() *Frame {
	f := &Frame{Viewport: v.graph.Viewport()}

	tables := make(map[string]endpoint)
	for _, n := range v.graph.Simulated() {
		t := layout.Build(n, v.metrics)
		p := n.Pos()
		c := geometry.Point{X: p.X, Y: p.Y}
		tables[n.ID()] = endpoint{center: c, table: t}
		f.Nodes = append(f.Nodes, NodeFrame{
			ID:        n.ID(),
			Domain:    n.Domain(),
			SuperType: n.SuperType(),
			Center:    c,
			Origin:    t.Origin(c),
			Width:     t.Sizing.RowWidth,
			Height:    t.Sizing.TableHeight,
			Fixed:     p.Fixed(),
			Rows:      t.Placed(),
		})
	}

	glyphs := make(map[string]endpoint)
	for _, d := range v.state.DomainList() {
		members := v.graph.Container(d)
		df := DomainFrame{Domain: d, State: v.state.State(d), Excluded: v.state.ExcludedCount(d)}
		for _, id := range members {
			if _, ok := tables[id]; ok {
				df.Visible++
			}
		}
		f.Domains = append(f.Domains, df)

		if df.State != domainstate.Minimized || len(members) == 0 {
			continue
		}
		var sum geometry.Point
		for _, id := range members {
			n, _ := v.graph.Node(id)
			sum.X += n.Pos().X
			sum.Y += n.Pos().Y
		}
		c := geometry.Point{X: sum.X / float64(len(members)), Y: sum.Y / float64(len(members))}
		glyphs[d] = endpoint{center: c}
		f.Glyphs = append(f.Glyphs, DomainGlyph{Domain: d, Center: c, NodeCount: len(members)})
	}

	for _, e := range v.graph.Edges() {
		if ef, ok := v.resolveEdge(e, tables, glyphs); ok {
			f.Edges = append(f.Edges, ef)
		}
	}
	return f
}

func (v *Visualizer) resolveEdge(e domain.Edge, tables, glyphs map[string]endpoint) (EdgeFrame, bool) {
	src, srcOK := v.lookup(e.Source, tables, glyphs)
	dst, dstOK := v.lookup(e.Target, tables, glyphs)
	if !srcOK || !dstOK {
		return EdgeFrame{}, false
	}
	// Two nodes of one minimized domain collapse into the same glyph.
	if src.table == nil && dst.table == nil {
		return EdgeFrame{}, false
	}

	from := src.center
	if src.table != nil {
		p, ok := src.table.SourceConnectionPoint(src.center, e.Field, dst.center)
		if !ok {
			return EdgeFrame{}, false
		}
		from = p
	}

	to := dst.center
	if dst.table != nil {
		var p geometry.Point
		var ok bool
		if src.table == nil {
			p, ok = dst.table.EntityConnectionPoint(dst.center, from)
		} else {
			p, ok = dst.table.IncomingConnectionPoint(dst.center, from)
		}
		if !ok {
			return EdgeFrame{}, false
		}
		to = p
	}
	return EdgeFrame{Source: e.Source, Target: e.Target, Field: e.Field, From: from, To: to}, true
}

func (v *Visualizer) lookup(id string, tables, glyphs map[string]endpoint) (endpoint, bool) {
	if ep, ok := tables[id]; ok {
		return ep, true
	}
	n, ok := v.graph.Node(id)
	if !ok {
		return endpoint{}, false
	}
	ep, ok := glyphs[n.Domain()]
	return ep, ok
}
