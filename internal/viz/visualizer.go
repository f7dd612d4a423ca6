// Package viz is the top-level visualization controller. It owns the force
// graph and the domain state and runs the toolbar sequences against them.
package viz

import (
	"context"
	"fmt"
	"time"

	"github.com/graphvinci/graphvinci/internal/domain"
	"github.com/graphvinci/graphvinci/internal/domainstate"
	"github.com/graphvinci/graphvinci/internal/graph"
	"github.com/graphvinci/graphvinci/internal/layout"
	"github.com/graphvinci/graphvinci/internal/schedule"
)

// Layout data scopes and views requested after an explode.
const (
	ScopeAll    = "ALL"
	ViewDomains = "DVIEW"
)

// DefaultSettleDelay is how long an explode waits before rebinding layout
// data, letting the simulation spread the newly shown nodes first.
const DefaultSettleDelay = 2500 * time.Millisecond

// Retriever supplies layout data for a scope and view.
type Retriever interface {
	Retrieve(ctx context.Context, scope, view string) (graph.LayoutData, error)
}

// RetrieverFunc adapts a function to Retriever.
type RetrieverFunc func(ctx context.Context, scope, view string) (graph.LayoutData, error)

func (f RetrieverFunc) Retrieve(ctx context.Context, scope, view string) (graph.LayoutData, error) {
	return f(ctx, scope, view)
}

// Renderer draws frames. Drawing itself happens outside this module.
type Renderer interface {
	Render(f *Frame)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(f *Frame)

func (f RendererFunc) Render(fr *Frame) { f(fr) }

// Options configures a Visualizer. Zero values select defaults.
type Options struct {
	SettleDelay time.Duration
	Metrics     *layout.Metrics
	Graph       *graph.Config
	Scheduler   *schedule.Scheduler
	Retriever   Retriever
	Renderer    Renderer
	Observer    ActionObserver
}

// Visualizer is the live view of one loaded schema.
type Visualizer struct {
	graph     *graph.ForceGraph
	state     *domainstate.DomainState
	sched     *schedule.Scheduler
	retriever Retriever
	renderer  Renderer
	observer  ActionObserver
	metrics   layout.Metrics
	settle    time.Duration
	domains   []string
}

// New builds a Visualizer over nodes. primary is the domain that starts
// fully visible; all others start minimized.
func New(nodes []domain.SchemaNode, primary string, opts Options) *Visualizer {
	v := &Visualizer{
		sched:     opts.Scheduler,
		retriever: opts.Retriever,
		renderer:  opts.Renderer,
		observer:  opts.Observer,
		metrics:   layout.DefaultMetrics(),
		settle:    opts.SettleDelay,
	}
	if opts.Metrics != nil {
		v.metrics = *opts.Metrics
	}
	gcfg := graph.DefaultConfig()
	if opts.Graph != nil {
		gcfg = *opts.Graph
	}
	if v.sched == nil {
		v.sched = schedule.New()
	}
	if v.observer == nil {
		v.observer = NoopActionObserver{}
	}
	if v.settle < 0 {
		v.settle = 0
	}

	v.state = domainstate.New(nil, primary)
	v.graph = graph.New(nodes, v.state, gcfg)
	v.domains = v.graph.Domains()
	v.state.Load(v.domains)
	if v.retriever == nil {
		v.retriever = RetrieverFunc(func(context.Context, string, string) (graph.LayoutData, error) {
			return graph.LayoutData{View: ViewDomains}, nil
		})
	}
	return v
}

// Graph returns the force graph.
func (v *Visualizer) Graph() *graph.ForceGraph { return v.graph }

// DomainState returns the domain state.
func (v *Visualizer) DomainState() *domainstate.DomainState { return v.state }

// Scheduler returns the scheduler that holds the deferred re-render.
func (v *Visualizer) Scheduler() *schedule.Scheduler { return v.sched }

// SetRenderer replaces the renderer.
func (v *Visualizer) SetRenderer(r Renderer) { v.renderer = r }

func (v *Visualizer) render() {
	if v.renderer == nil {
		return
	}
	v.renderer.Render(v.Frame())
}

// Stick pins every simulated node.
func (v *Visualizer) Stick(ctx context.Context) error {
	start := time.Now()
	v.graph.Stick()
	v.render()
	v.observe(ctx, "stick", start, nil, map[string]any{"nodes": len(v.graph.Simulated())})
	return nil
}

// Unstick releases every simulated node.
func (v *Visualizer) Unstick(ctx context.Context) error {
	start := time.Now()
	v.graph.Unstick()
	v.graph.Restart()
	v.render()
	v.observe(ctx, "unstick", start, nil, map[string]any{"nodes": len(v.graph.Simulated())})
	return nil
}

// Kaboom explodes every domain to full node view. The domain state changes
// apply and render immediately; the refreshed layout data is bound after the
// settle delay. A retrieval failure leaves the state changes in place.
func (v *Visualizer) Kaboom(ctx context.Context) error {
	start := time.Now()
	v.sched.Cancel()
	v.state.ClearExcludedNodes()
	v.graph.ReParent()
	v.graph.UnstickAll()
	v.state.SetAll(domainstate.Nodes)
	v.render()

	data, err := v.retriever.Retrieve(ctx, ScopeAll, ViewDomains)
	if err != nil {
		err = fmt.Errorf("retrieving layout data: %w", err)
		v.observe(ctx, "kaboom", start, err, nil)
		return err
	}
	task := v.sched.Schedule(v.settle, func() {
		v.graph.UpdateViz(data)
		v.render()
	})
	v.observe(ctx, "kaboom", start, nil, map[string]any{
		"task_id":   task.ID,
		"settle_ms": v.settle.Milliseconds(),
	})
	return nil
}

// Unkaboom collapses every domain back to its summary glyph.
func (v *Visualizer) Unkaboom(ctx context.Context) error {
	start := time.Now()
	v.sched.Cancel()
	v.graph.ResetZoom()
	v.state.ClearExcludedNodes()
	v.state.SetAll(domainstate.Minimized)
	v.render()
	v.observe(ctx, "unkaboom", start, nil, nil)
	return nil
}

// Nothing removes every domain from the view.
func (v *Visualizer) Nothing(ctx context.Context) error {
	start := time.Now()
	v.sched.Cancel()
	v.state.ClearExcludedNodes()
	v.state.SetAll(domainstate.Removed)
	v.render()
	v.observe(ctx, "nothing", start, nil, nil)
	return nil
}

// Reset returns the view to its state right after loading.
func (v *Visualizer) Reset(ctx context.Context) error {
	start := time.Now()
	v.sched.Cancel()
	v.state.Reset()
	v.state.Load(v.domains)
	v.graph.ResetZoom()
	v.graph.UnstickAll()
	v.graph.UpdateViz(graph.LayoutData{})
	v.render()
	v.observe(ctx, "reset", start, nil, nil)
	return nil
}

// SetDomainState changes a single domain.
func (v *Visualizer) SetDomainState(ctx context.Context, d string, s domainstate.State) error {
	start := time.Now()
	v.sched.Cancel()
	v.state.SetDomainState(d, s)
	v.graph.Restart()
	v.render()
	v.observe(ctx, "set_domain_state", start, nil, map[string]any{"domain": d, "state": string(s)})
	return nil
}

// ToggleNode flips whether a single node is excluded from its domain.
func (v *Visualizer) ToggleNode(ctx context.Context, nodeID string) error {
	start := time.Now()
	n, ok := v.graph.Node(nodeID)
	if !ok {
		err := fmt.Errorf("node %q not found", nodeID)
		v.observe(ctx, "toggle_node", start, err, nil)
		return err
	}
	if v.state.IsExcluded(n.Domain(), nodeID) {
		v.state.IncludeNode(n.Domain(), nodeID)
	} else {
		v.state.ExcludeNode(n.Domain(), nodeID)
	}
	v.render()
	v.observe(ctx, "toggle_node", start, nil, map[string]any{"node": nodeID})
	return nil
}

// Settle runs the simulation until it cools or limit steps were taken.
func (v *Visualizer) Settle(limit int) int {
	return v.graph.Run(limit)
}
