package cli

import (
	"fmt"
	"io"

	"github.com/graphvinci/graphvinci/internal/domain"
	"github.com/graphvinci/graphvinci/internal/menu"
	"github.com/graphvinci/graphvinci/internal/schema"
	"github.com/graphvinci/graphvinci/internal/viz"
)

// nodeTilePrefix keeps node tile IDs apart from domain tile IDs, so opening
// a domain never expands a type of the same name.
const nodeTilePrefix = "node:"

func (app *App) schemaOptions() schema.Options {
	return schema.Options{
		Domains:       app.Config.Domains,
		PrimaryDomain: app.Config.Explorer.PrimaryDomain,
	}
}

func (app *App) loadNodes(path string) ([]domain.SchemaNode, error) {
	nodes, err := schema.LoadFile(path, app.schemaOptions())
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("schema %s has no object, interface or enum types", path)
	}
	return nodes, nil
}

// newVisualizer builds a visualizer over nodes. Action events are logged to
// logw at the configured level.
func (app *App) newVisualizer(nodes []domain.SchemaNode, logw io.Writer, opts viz.Options) *viz.Visualizer {
	metrics := app.Config.Metrics()
	opts.SettleDelay = app.Config.SettleDelay()
	opts.Metrics = &metrics
	if opts.Observer == nil {
		opts.Observer = viz.NewLogActionObserver(logw, app.Config.SlogLevel())
	}
	return viz.New(nodes, app.Config.Explorer.PrimaryDomain, opts)
}

// domainMenu builds a two-level menu: one tile per domain in domain-list
// order, holding one tile per node.
func domainMenu(v *viz.Visualizer) *menu.MenuData {
	m := menu.New()
	for _, d := range v.DomainState().DomainList() {
		dt := menu.NewTile(d, d)
		for _, id := range v.Graph().Container(d) {
			dt.AddChild(menu.NewTile(nodeTilePrefix+id, id))
		}
		m.AddChild(dt)
	}
	return m
}
