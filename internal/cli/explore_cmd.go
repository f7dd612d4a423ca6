package cli

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/graphvinci/graphvinci/internal/domain"
	"github.com/graphvinci/graphvinci/internal/schedule"
	"github.com/graphvinci/graphvinci/internal/schema"
	"github.com/graphvinci/graphvinci/internal/viz"
	"github.com/spf13/cobra"
)

func newExploreCmd(app *App) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "explore <schema.graphql>",
		Short: "Explore a schema interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run := app.RunProgram
			if run == nil {
				if !app.interactive() {
					return errors.New("explore needs an interactive terminal")
				}
				run = runFullScreen
			}

			nodes, err := app.loadNodes(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			m := newExploreSession(ctx, app, nodes)

			if watch {
				w, err := schema.NewWatcher(args[0], app.schemaOptions(), schema.DefaultDebounce, app.Logger)
				if err != nil {
					return err
				}
				defer w.Close()
				reloads := make(chan schema.Reload)
				go w.Run(ctx, reloads)
				m.reloads = reloads
			}

			return run(m, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload the schema when the file changes")
	return cmd
}

// newExploreSession builds an explorer whose deferred re-renders are
// delivered to the update loop rather than run on the timer goroutine.
func newExploreSession(ctx context.Context, app *App, nodes []domain.SchemaNode) *exploreModel {
	// A queued callback is replaced by a newer one.
	tasks := make(chan func(), 1)
	sched := schedule.New(
		schedule.WithLogger(app.Logger),
		schedule.WithDispatcher(func(fn func()) {
			for {
				select {
				case tasks <- fn:
					return
				default:
				}
				select {
				case <-tasks:
				default:
				}
			}
		}),
	)
	build := func(nodes []domain.SchemaNode) *viz.Visualizer {
		return app.newVisualizer(nodes, io.Discard, viz.Options{Scheduler: sched})
	}
	m := newExploreModel(ctx, build(nodes), tasks)
	m.build = build
	return m
}

func runFullScreen(m *exploreModel, in io.Reader, out io.Writer) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithInput(in), tea.WithOutput(out)).Run()
	return err
}
