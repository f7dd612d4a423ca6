package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/graphvinci/graphvinci/internal/domainstate"
	"github.com/graphvinci/graphvinci/internal/menu"
	"github.com/graphvinci/graphvinci/internal/viz"
	"github.com/spf13/cobra"
)

func newRenderCmd(app *App) *cobra.Command {
	var (
		action   string
		sets     []string
		excludes []string
		stick    bool
		ticks    int
	)

	cmd := &cobra.Command{
		Use:   "render <schema.graphql>",
		Short: "Settle the graph and print the render frame as JSON",
		Long: "Loads the schema, applies domain changes and an optional toolbar action, " +
			"runs the simulation and prints the node tables, domain glyphs and edges.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			nodes, err := app.loadNodes(args[0])
			if err != nil {
				return err
			}
			v := app.newVisualizer(nodes, cmd.ErrOrStderr(), viz.Options{})

			for _, s := range sets {
				d, st, err := parseDomainSetting(s)
				if err != nil {
					return err
				}
				if err := v.SetDomainState(ctx, d, st); err != nil {
					return err
				}
			}
			for _, id := range excludes {
				if err := v.ToggleNode(ctx, id); err != nil {
					return err
				}
			}
			if action != "" {
				if err := runButton(ctx, v, action); err != nil {
					return err
				}
			}

			// The deferred re-render is due now; there is nothing to wait for.
			v.Scheduler().Flush()
			v.Settle(ticks)
			if stick {
				if err := v.Stick(ctx); err != nil {
					return err
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(v.Frame())
		},
	}

	cmd.Flags().StringVar(&action, "action", "", "Toolbar action: reset, stick, unstick, kaboom, unkaboom or nothing")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Domain state as DOMAIN=NODES|MINIMIZED|REMOVED (repeatable)")
	cmd.Flags().StringArrayVar(&excludes, "exclude", nil, "Hide a single node by type name (repeatable)")
	cmd.Flags().BoolVar(&stick, "stick", false, "Pin nodes after settling")
	cmd.Flags().IntVar(&ticks, "ticks", app.Config.Explorer.MaxTicks, "Maximum simulation steps")
	return cmd
}

func parseDomainSetting(s string) (string, domainstate.State, error) {
	d, state, ok := strings.Cut(s, "=")
	if !ok || d == "" {
		return "", "", fmt.Errorf("invalid --set %q: want DOMAIN=STATE", s)
	}
	st, err := domainstate.ParseState(strings.ToUpper(state))
	if err != nil {
		return "", "", err
	}
	return d, st, nil
}

// runButton activates the toolbar button with the given ID.
func runButton(ctx context.Context, v *viz.Visualizer, id string) error {
	for _, b := range menu.SchemaButtons(v) {
		if b.ID == id {
			return b.Activate(ctx)
		}
	}
	return fmt.Errorf("unknown action %q", id)
}
