package cli

import (
	"fmt"

	"github.com/graphvinci/graphvinci/internal/cli/formatter"
	"github.com/graphvinci/graphvinci/internal/viz"
	"github.com/spf13/cobra"
)

func newDomainsCmd(app *App) *cobra.Command {
	var (
		open string
		all  bool
		sets []string
	)

	cmd := &cobra.Command{
		Use:   "domains <schema.graphql>",
		Short: "List schema domains, their state and their types",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
				if err := v.SetDomainState(cmd.Context(), d, st); err != nil {
					return err
				}
			}

			m := domainMenu(v)
			if open == "" {
				m.SetOpenTo(v.DomainState().Primary())
			} else {
				if _, ok := m.Find(open); !ok {
					return fmt.Errorf("domain %q not found", open)
				}
				m.SetOpenTo(open)
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.Header("Domains"))
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDomainMenu(m, v.DomainState(), all))
			return nil
		},
	}

	cmd.Flags().StringVar(&open, "open", "", "Domain to expand (default: the primary domain)")
	cmd.Flags().BoolVar(&all, "all", false, "Expand every domain")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Domain state as DOMAIN=NODES|MINIMIZED|REMOVED (repeatable)")
	return cmd
}
