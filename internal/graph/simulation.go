package graph

import (
	"math"

	"github.com/graphvinci/graphvinci/internal/domain"
)

// Config holds the force parameters.
type Config struct {
	Charge         float64
	LinkDistance   float64
	LinkStrength   float64
	CenterStrength float64
	VelocityDecay  float64
	AlphaDecay     float64
	AlphaMin       float64
	InitialRadius  float64
}

// DefaultConfig mirrors the usual many-body/link/centre settings.
func DefaultConfig() Config {
	return Config{
		Charge:         -300,
		LinkDistance:   180,
		LinkStrength:   0.1,
		CenterStrength: 1,
		VelocityDecay:  0.4,
		AlphaDecay:     1 - math.Pow(0.001, 1.0/300),
		AlphaMin:       0.001,
		InitialRadius:  10,
	}
}

// Tick advances the simulation one step. Pinned nodes hold their fixed
// position.
func (g *ForceGraph) Tick() {
	sim := g.Simulated()
	if len(sim) == 0 {
		return
	}
	g.alpha += -g.alpha * g.cfg.AlphaDecay
	g.applyCharge(sim)
	g.applyLinks(sim)

	for _, n := range sim {
		p := n.Pos()
		if p.Fixed() {
			p.X, p.Y = *p.FX, *p.FY
			p.VX, p.VY = 0, 0
			continue
		}
		p.VX *= 1 - g.cfg.VelocityDecay
		p.VY *= 1 - g.cfg.VelocityDecay
		p.X += p.VX
		p.Y += p.VY
	}
	g.applyCenter(sim)
}

// Run ticks until alpha drops below AlphaMin or limit steps were taken. It
// returns the number of steps.
func (g *ForceGraph) Run(limit int) int {
	steps := 0
	for steps < limit && g.alpha >= g.cfg.AlphaMin {
		g.Tick()
		steps++
	}
	return steps
}

func (g *ForceGraph) applyCharge(sim []domain.SchemaNode) {
	for i := range sim {
		a := sim[i].Pos()
		for j := i + 1; j < len(sim); j++ {
			b := sim[j].Pos()
			dx, dy := b.X-a.X, b.Y-a.Y
			l2 := dx*dx + dy*dy
			if l2 == 0 {
				// Coincident nodes get a small deterministic nudge apart.
				dx, dy = 1e-3*float64(j-i), 1e-3
				l2 = dx*dx + dy*dy
			}
			w := g.cfg.Charge * g.alpha / l2
			a.VX += dx * w
			a.VY += dy * w
			b.VX -= dx * w
			b.VY -= dy * w
		}
	}
}

func (g *ForceGraph) applyLinks(sim []domain.SchemaNode) {
	active := make(map[string]*domain.Position, len(sim))
	for _, n := range sim {
		active[n.ID()] = n.Pos()
	}
	for _, e := range g.edges {
		s, ok1 := active[e.Source]
		t, ok2 := active[e.Target]
		if !ok1 || !ok2 || s == t {
			continue
		}
		dx := t.X + t.VX - s.X - s.VX
		dy := t.Y + t.VY - s.Y - s.VY
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		k := (l - g.cfg.LinkDistance) / l * g.alpha * g.cfg.LinkStrength
		dx, dy = dx*k, dy*k
		t.VX -= dx / 2
		t.VY -= dy / 2
		s.VX += dx / 2
		s.VY += dy / 2
	}
}

// applyCenter shifts free nodes so their mean sits at the origin.
func (g *ForceGraph) applyCenter(sim []domain.SchemaNode) {
	var sx, sy float64
	var free int
	for _, n := range sim {
		p := n.Pos()
		if p.Fixed() {
			continue
		}
		sx += p.X
		sy += p.Y
		free++
	}
	if free == 0 {
		return
	}
	sx = sx / float64(free) * g.cfg.CenterStrength
	sy = sy / float64(free) * g.cfg.CenterStrength
	for _, n := range sim {
		p := n.Pos()
		if p.Fixed() {
			continue
		}
		p.X -= sx
		p.Y -= sy
	}
}
