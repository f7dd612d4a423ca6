package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/graphvinci/graphvinci/internal/cli/formatter"
	"github.com/graphvinci/graphvinci/internal/domain"
	"github.com/graphvinci/graphvinci/internal/domainstate"
	"github.com/graphvinci/graphvinci/internal/menu"
	"github.com/graphvinci/graphvinci/internal/schema"
	"github.com/graphvinci/graphvinci/internal/viz"
)

const (
	tickInterval = 50 * time.Millisecond
	menuWidth    = 34
)

type exploreKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Open     key.Binding
	Cycle    key.Binding
	Reset    key.Binding
	Stick    key.Binding
	Unstick  key.Binding
	Kaboom   key.Binding
	Unkaboom key.Binding
	Nothing  key.Binding
	Quit     key.Binding
}

func defaultExploreKeys() exploreKeyMap {
	return exploreKeyMap{
		Up:       key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open/hide")),
		Cycle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "cycle state")),
		Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", menu.ButtonReset)),
		Stick:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", menu.ButtonStick)),
		Unstick:  key.NewBinding(key.WithKeys("u"), key.WithHelp("u", menu.ButtonUnstick)),
		Kaboom:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", menu.ButtonKaboom)),
		Unkaboom: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", menu.ButtonUnkaboom)),
		Nothing:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", menu.ButtonNothing)),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k exploreKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Cycle, k.Reset, k.Stick, k.Unstick, k.Kaboom, k.Unkaboom, k.Nothing, k.Quit}
}

// toolbarKeys pairs each toolbar button with its key.
func (k exploreKeyMap) toolbarKeys() map[string]key.Binding {
	return map[string]key.Binding{
		menu.ButtonReset:    k.Reset,
		menu.ButtonStick:    k.Stick,
		menu.ButtonUnstick:  k.Unstick,
		menu.ButtonKaboom:   k.Kaboom,
		menu.ButtonUnkaboom: k.Unkaboom,
		menu.ButtonNothing:  k.Nothing,
	}
}

// taskMsg carries a deferred scheduler callback onto the update loop.
type taskMsg struct{ run func() }

type tickMsg time.Time

// exploreModel is the interactive explorer: a domain menu on the left, the
// settled graph on the right and the schema toolbar on top.
type exploreModel struct {
	ctx     context.Context
	viz     *viz.Visualizer
	toolbar []*menu.Tile
	menu    *menu.MenuData
	keys    exploreKeyMap
	tasks   <-chan func()

	// build and reloads are set when the schema file is watched.
	build   func([]domain.SchemaNode) *viz.Visualizer
	reloads <-chan schema.Reload

	frame  *viz.Frame
	cursor int
	status string
	err    error
	width  int
	height int
}

// newExploreModel wires v's renderer to the model. tasks delivers callbacks
// fired by v's scheduler; it may be nil when the settle delay is zero.
func newExploreModel(ctx context.Context, v *viz.Visualizer, tasks <-chan func()) *exploreModel {
	m := &exploreModel{
		ctx:    ctx,
		keys:   defaultExploreKeys(),
		tasks:  tasks,
		width:  100,
		height: 30,
	}
	m.attach(v)
	return m
}

// attach makes v the explored visualizer and rebuilds the menus around it.
func (m *exploreModel) attach(v *viz.Visualizer) {
	m.viz = v
	m.toolbar = menu.SchemaButtons(v)
	m.menu = domainMenu(v)
	m.cursor = 0
	v.SetRenderer(viz.RendererFunc(func(f *viz.Frame) { m.frame = f }))
	m.menu.SetOpenTo(v.DomainState().Primary())
	m.frame = v.Frame()
}

func (m *exploreModel) Init() tea.Cmd {
	return tea.Batch(m.waitForTask(), m.waitForReload(), tick())
}

func (m *exploreModel) waitForReload() tea.Cmd {
	if m.reloads == nil {
		return nil
	}
	reloads := m.reloads
	return func() tea.Msg {
		r, ok := <-reloads
		if !ok {
			return nil
		}
		return r
	}
}

func (m *exploreModel) waitForTask() tea.Cmd {
	if m.tasks == nil {
		return nil
	}
	tasks := m.tasks
	return func() tea.Msg {
		run, ok := <-tasks
		if !ok {
			return nil
		}
		return taskMsg{run: run}
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case taskMsg:
		msg.run()
		return m, m.waitForTask()

	case schema.Reload:
		m.reload(msg)
		return m, m.waitForReload()

	case tickMsg:
		if m.viz.Settle(1) > 0 {
			m.frame = m.viz.Frame()
		}
		return m, tick()

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *exploreModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tiles := m.visibleTiles()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(tiles)-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Open):
		if m.cursor < len(tiles) {
			m.open(tiles[m.cursor])
		}
		return m, nil
	case key.Matches(msg, m.keys.Cycle):
		if m.cursor < len(tiles) && tiles[m.cursor].Depth == 1 {
			m.cycle(tiles[m.cursor].ID)
		}
		return m, nil
	}

	for id, b := range m.keys.toolbarKeys() {
		if key.Matches(msg, b) {
			m.press(id)
			break
		}
	}
	return m, nil
}

// open expands or collapses a domain tile, or shows or hides a node.
func (m *exploreModel) open(t *menu.Tile) {
	if t.Depth > 1 {
		nodeID := strings.TrimPrefix(t.ID, nodeTilePrefix)
		m.report(m.viz.ToggleNode(m.ctx, nodeID), "toggled "+nodeID)
		return
	}
	if t.Expanded {
		m.menu.SetOpenTo("")
	} else {
		m.menu.SetOpenTo(t.ID)
	}
	for i, vt := range m.visibleTiles() {
		if vt == t {
			m.cursor = i
		}
	}
}

// reload swaps in a freshly loaded schema. A failed reload keeps the current
// view and reports the error.
func (m *exploreModel) reload(r schema.Reload) {
	switch {
	case r.Err != nil:
		m.report(fmt.Errorf("reloading schema: %w", r.Err), "")
		return
	case len(r.Nodes) == 0:
		m.report(fmt.Errorf("reloading schema: %s has no object, interface or enum types", r.Path), "")
		return
	case m.build == nil:
		return
	}
	m.viz.Scheduler().Cancel()
	m.attach(m.build(r.Nodes))
	m.report(nil, fmt.Sprintf("Reloaded %d types", len(r.Nodes)))
}

func (m *exploreModel) cycle(d string) {
	next := map[domainstate.State]domainstate.State{
		domainstate.Nodes:     domainstate.Minimized,
		domainstate.Minimized: domainstate.Removed,
		domainstate.Removed:   domainstate.Nodes,
	}[m.viz.DomainState().State(d)]
	m.report(m.viz.SetDomainState(m.ctx, d, next), fmt.Sprintf("%s → %s", d, next))
}

func (m *exploreModel) press(id string) {
	for _, b := range m.toolbar {
		if b.ID == id {
			m.report(b.Activate(m.ctx), b.Tooltip)
			return
		}
	}
}

func (m *exploreModel) report(err error, done string) {
	m.err = err
	if err == nil {
		m.status = done
	}
}

// visibleTiles lists domain tiles and the node tiles of expanded domains.
func (m *exploreModel) visibleTiles() []*menu.Tile {
	var out []*menu.Tile
	for _, d := range m.menu.Children() {
		out = append(out, d)
		if d.Expanded {
			out = append(out, d.Children()...)
		}
	}
	return out
}

func (m *exploreModel) View() string {
	var b strings.Builder
	b.WriteString(m.renderToolbar() + "\n\n")

	bodyHeight := max(m.height-6, 3)
	list := lipgloss.NewStyle().Width(menuWidth).Render(m.renderMenu())
	canvas := formatter.RenderCanvas(m.frame, max(m.width-menuWidth-2, 10), bodyHeight)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", canvas))
	b.WriteString("\n\n" + m.renderStatusBar())
	return b.String()
}

func (m *exploreModel) renderToolbar() string {
	keys := m.keys.toolbarKeys()
	var parts []string
	group := -1
	for _, t := range m.toolbar {
		if group >= 0 && t.Group != group {
			parts = append(parts, formatter.Dim("│"))
		}
		group = t.Group
		parts = append(parts, formatter.StyleYellow.Render(keys[t.ID].Help().Key)+" "+t.Label)
	}
	return strings.Join(parts, "  ")
}

func (m *exploreModel) renderMenu() string {
	ds := m.viz.DomainState()
	var b strings.Builder
	for i, t := range m.visibleTiles() {
		cursor := "  "
		if i == m.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
		}
		if t.Depth == 1 {
			b.WriteString(cursor + formatter.Bold(t.Label) + " " + formatter.StatePill(ds.State(t.ID)) + "\n")
			continue
		}
		nodeID := strings.TrimPrefix(t.ID, nodeTilePrefix)
		label := "  " + t.Label
		n, ok := m.viz.Graph().Node(nodeID)
		if ok && !ds.IsNodeVisible(n.Domain(), nodeID) {
			label = formatter.Dim(label)
		}
		b.WriteString(cursor + label + "\n")
	}
	return b.String()
}

func (m *exploreModel) renderStatusBar() string {
	var hints []string
	for _, k := range m.keys.ShortHelp() {
		hints = append(hints, formatter.Dim(k.Help().Key+": "+k.Help().Desc))
	}
	line := formatter.RenderSettle(m.viz.Graph().Alpha(), 10) + "  " + strings.Join(hints, "  ")
	switch {
	case m.err != nil:
		return formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n" + line
	case m.status != "":
		return formatter.StyleBlue.Render(m.status) + "\n" + line
	}
	return line
}
