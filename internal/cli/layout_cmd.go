package cli

import (
	"fmt"

	"github.com/graphvinci/graphvinci/internal/cli/formatter"
	"github.com/graphvinci/graphvinci/internal/domain"
	"github.com/graphvinci/graphvinci/internal/layout"
	"github.com/spf13/cobra"
)

func newLayoutCmd(app *App) *cobra.Command {
	var typeNames []string

	cmd := &cobra.Command{
		Use:   "layout <schema.graphql>",
		Short: "Print the table layout of schema types",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nodes, err := app.loadNodes(args[0])
			if err != nil {
				return err
			}
			selected, err := selectNodes(nodes, typeNames)
			if err != nil {
				return err
			}

			metrics := app.Config.Metrics()
			out := cmd.OutOrStdout()
			for i, n := range selected {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprint(out, formatter.FormatLayout(n, layout.Build(n, metrics)))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&typeNames, "type", "t", nil, "Only lay out these types (repeatable)")
	return cmd
}

func selectNodes(nodes []domain.SchemaNode, names []string) ([]domain.SchemaNode, error) {
	if len(names) == 0 {
		return nodes, nil
	}
	byID := make(map[string]domain.SchemaNode, len(nodes))
	for _, n := range nodes {
		byID[n.ID()] = n
	}
	out := make([]domain.SchemaNode, 0, len(names))
	for _, name := range names {
		n, ok := byID[name]
		if !ok {
			return nil, fmt.Errorf("type %q not found in schema", name)
		}
		out = append(out, n)
	}
	return out, nil
}
