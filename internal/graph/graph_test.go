package graph

import (
	"testing"

	"github.com/graphvinci/graphvinci/internal/domain"
	"github.com/graphvinci/graphvinci/internal/domainstate"
	"github.com/graphvinci/graphvinci/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(nodes []domain.SchemaNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID()
	}
	return out
}

func newShopGraph(t *testing.T) (*ForceGraph, *domainstate.DomainState) {
	t.Helper()
	ds := domainstate.New([]string{"Users", "Orders"}, "Users")
	g := New(testutil.NewShopSchema(), ds, DefaultConfig())
	return g, ds
}

func TestNew_SeedsDistinctPositions(t *testing.T) {
	g, _ := newShopGraph(t)
	seen := make(map[[2]float64]bool)
	for _, n := range g.Nodes() {
		p := n.Pos()
		key := [2]float64{p.X, p.Y}
		assert.False(t, seen[key], "node %s shares a seed position", n.ID())
		seen[key] = true
	}
}

func TestNew_KeepsExistingPositionsAndDropsDuplicates(t *testing.T) {
	a := testutil.NewTestEntity("A", "D", testutil.WithPosition(5, 7))
	dup := testutil.NewTestEntity("A", "D")
	g := New([]domain.SchemaNode{a, dup}, nil, DefaultConfig())

	require.Len(t, g.Nodes(), 1)
	assert.Equal(t, 5.0, a.X)
	assert.Equal(t, 7.0, a.Y)
}

func TestEdges(t *testing.T) {
	g, _ := newShopGraph(t)
	assert.Len(t, g.Edges(), 5)
}

func TestSimulated_FollowsVisibility(t *testing.T) {
	g, ds := newShopGraph(t)
	assert.Equal(t, []string{"User", "Account"}, ids(g.Simulated()))

	ds.SetDomainState("Orders", domainstate.Nodes)
	assert.Len(t, g.Simulated(), 5)

	ds.ExcludeNode("Orders", "LineItem")
	assert.NotContains(t, ids(g.Simulated()), "LineItem")
}

func TestStickUnstick(t *testing.T) {
	g, ds := newShopGraph(t)
	ds.SetAll(domainstate.Nodes)

	g.Stick()
	g.Stick()
	for _, n := range g.Nodes() {
		p := n.Pos()
		require.True(t, p.Fixed(), n.ID())
		assert.Equal(t, p.X, *p.FX)
		assert.Equal(t, p.Y, *p.FY)
	}

	g.Unstick()
	g.Unstick()
	for _, n := range g.Nodes() {
		assert.False(t, n.Pos().Fixed(), n.ID())
	}
}

func TestStick_OnlySimulatedNodes(t *testing.T) {
	g, _ := newShopGraph(t)
	g.Stick()

	user, _ := g.Node("User")
	order, _ := g.Node("Order")
	assert.True(t, user.Pos().Fixed())
	assert.False(t, order.Pos().Fixed(), "minimized domain is not simulated")

	user.Pos().Fix()
	g.UnstickAll()
	assert.False(t, user.Pos().Fixed())
}

func TestReParent(t *testing.T) {
	g, _ := newShopGraph(t)
	before := make(map[string]domain.Position)
	for _, n := range g.Nodes() {
		before[n.ID()] = *n.Pos()
	}

	g.ReParent()

	assert.Equal(t, []string{"User", "Account"}, g.Container("Users"))
	assert.Equal(t, []string{"Order", "LineItem", "OrderStatus"}, g.Container("Orders"))
	for _, n := range g.Nodes() {
		assert.Equal(t, before[n.ID()], *n.Pos(), n.ID())
	}
	assert.Equal(t, []string{"Users", "Orders"}, g.Domains())
}

func TestResetZoom(t *testing.T) {
	g, _ := newShopGraph(t)
	user, _ := g.Node("User")
	x, y := user.Pos().X, user.Pos().Y

	g.Zoom(Viewport{K: 2.5, X: 100, Y: -40})
	assert.Equal(t, Viewport{K: 2.5, X: 100, Y: -40}, g.Viewport())

	g.ResetZoom()
	assert.Equal(t, IdentityViewport, g.Viewport())
	assert.Equal(t, x, user.Pos().X)
	assert.Equal(t, y, user.Pos().Y)
}

func TestUpdateViz_BindsNodeSet(t *testing.T) {
	g, ds := newShopGraph(t)
	ds.SetAll(domainstate.Nodes)
	g.Run(10)

	g.UpdateViz(LayoutData{View: "DVIEW", NodeIDs: []string{"User", "Order"}})
	assert.Equal(t, 1.0, g.Alpha())
	assert.Equal(t, []string{"User", "Order"}, ids(g.Simulated()))

	g.UpdateViz(LayoutData{View: "ALL"})
	assert.Len(t, g.Simulated(), 5)
}
