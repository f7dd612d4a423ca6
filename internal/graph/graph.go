// Package graph owns the schema nodes of one loaded schema and the force
// simulation that positions them.
package graph

import (
	"math"

	"github.com/graphvinci/graphvinci/internal/domain"
)

// Visibility decides whether a node takes part in layout and simulation.
// *domainstate.DomainState satisfies it.
type Visibility interface {
	IsNodeVisible(domain, nodeID string) bool
}

// Viewport is the zoom/pan transform applied when drawing.
type Viewport struct {
	K float64 `json:"k"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// IdentityViewport is the default transform.
var IdentityViewport = Viewport{K: 1}

// LayoutData is the node set bound to the simulation. A nil NodeIDs binds
// every node.
type LayoutData struct {
	View    string
	NodeIDs []string
}

// ForceGraph is the simulated node diagram.
type ForceGraph struct {
	cfg        Config
	visible    Visibility
	order      []string
	nodes      map[string]domain.SchemaNode
	edges      []domain.Edge
	bound      map[string]bool
	containers map[string][]string
	viewport   Viewport
	alpha      float64
}

// New creates a graph over nodes. Initial positions follow a phyllotaxis
// spiral so the first simulation steps are deterministic.
func New(nodes []domain.SchemaNode, visible Visibility, cfg Config) *ForceGraph {
	g := &ForceGraph{
		cfg:      cfg,
		visible:  visible,
		nodes:    make(map[string]domain.SchemaNode, len(nodes)),
		viewport: IdentityViewport,
		alpha:    1,
	}
	for i, n := range nodes {
		if _, dup := g.nodes[n.ID()]; dup {
			continue
		}
		g.nodes[n.ID()] = n
		g.order = append(g.order, n.ID())
		p := n.Pos()
		if p.X == 0 && p.Y == 0 {
			r := cfg.InitialRadius * math.Sqrt(0.5+float64(i))
			a := float64(i) * math.Pi * (3 - math.Sqrt(5))
			p.X, p.Y = r*math.Cos(a), r*math.Sin(a)
		}
	}
	for _, id := range g.order {
		g.edges = append(g.edges, g.nodes[id].Edges(g.nodes)...)
	}
	g.ReParent()
	return g
}

// Node returns the node with id.
func (g *ForceGraph) Node(id string) (domain.SchemaNode, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns every node in load order.
func (g *ForceGraph) Nodes() []domain.SchemaNode {
	out := make([]domain.SchemaNode, len(g.order))
	for i, id := range g.order {
		out[i] = g.nodes[id]
	}
	return out
}

// Edges returns every edge between loaded nodes.
func (g *ForceGraph) Edges() []domain.Edge {
	return append([]domain.Edge(nil), g.edges...)
}

// Simulated returns the nodes currently bound and visible, in load order.
func (g *ForceGraph) Simulated() []domain.SchemaNode {
	var out []domain.SchemaNode
	for _, id := range g.order {
		n := g.nodes[id]
		if g.isSimulated(n) {
			out = append(out, n)
		}
	}
	return out
}

func (g *ForceGraph) isSimulated(n domain.SchemaNode) bool {
	if g.bound != nil && !g.bound[n.ID()] {
		return false
	}
	return g.visible == nil || g.visible.IsNodeVisible(n.Domain(), n.ID())
}

// Stick pins every simulated node at its current coordinates.
func (g *ForceGraph) Stick() {
	for _, n := range g.Simulated() {
		n.Pos().Fix()
	}
}

// Unstick releases every simulated node.
func (g *ForceGraph) Unstick() {
	for _, n := range g.Simulated() {
		n.Pos().Unfix()
	}
}

// UnstickAll releases every node, simulated or not.
func (g *ForceGraph) UnstickAll() {
	for _, id := range g.order {
		g.nodes[id].Pos().Unfix()
	}
}

// ReParent rebuilds the domain containers from each node's domain. Positions
// and velocities are untouched.
func (g *ForceGraph) ReParent() {
	g.containers = make(map[string][]string)
	for _, id := range g.order {
		d := g.nodes[id].Domain()
		g.containers[d] = append(g.containers[d], id)
	}
}

// Container returns the IDs of the nodes grouped under domain d.
func (g *ForceGraph) Container(d string) []string {
	return append([]string(nil), g.containers[d]...)
}

// Domains returns the distinct node domains in load order.
func (g *ForceGraph) Domains() []string {
	seen := make(map[string]bool)
	var out []string
	for _, id := range g.order {
		d := g.nodes[id].Domain()
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}

// Viewport returns the current transform.
func (g *ForceGraph) Viewport() Viewport { return g.viewport }

// Zoom sets the transform.
func (g *ForceGraph) Zoom(v Viewport) {
	if v.K <= 0 {
		v.K = 1
	}
	g.viewport = v
}

// ResetZoom restores the identity transform without moving nodes.
func (g *ForceGraph) ResetZoom() { g.viewport = IdentityViewport }

// UpdateViz binds data to the simulation and reheats it.
func (g *ForceGraph) UpdateViz(data LayoutData) {
	if data.NodeIDs == nil {
		g.bound = nil
	} else {
		g.bound = make(map[string]bool, len(data.NodeIDs))
		for _, id := range data.NodeIDs {
			g.bound[id] = true
		}
	}
	g.Restart()
}

// Restart reheats the simulation.
func (g *ForceGraph) Restart() { g.alpha = 1 }

// Alpha returns the simulation temperature.
func (g *ForceGraph) Alpha() float64 { return g.alpha }
