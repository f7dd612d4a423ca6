package cli

import (
	"io"
	"log/slog"

	"github.com/graphvinci/graphvinci/internal/config"
	"github.com/graphvinci/graphvinci/internal/service"
	"github.com/spf13/cobra"
)

// App holds the configuration and services used by CLI commands.
type App struct {
	Config  *config.Config
	History service.HistoryService
	Logger  *slog.Logger

	// IsInteractive reports whether prompts may be shown. Nil means never.
	IsInteractive func() bool
	// RunProgram runs the explorer. Nil runs it as a full-screen bubbletea
	// program on the command's streams.
	RunProgram func(m *exploreModel, in io.Reader, out io.Writer) error
}

// NewRootCmd creates the top-level "graphvinci" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	if app.Config == nil {
		app.Config = config.Default()
	}
	if app.Logger == nil {
		app.Logger = slog.New(slog.DiscardHandler)
	}

	root := &cobra.Command{
		Use:           "graphvinci",
		Short:         "GraphQL schema explorer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newLayoutCmd(app),
		newRenderCmd(app),
		newDomainsCmd(app),
		newExploreCmd(app),
		newHistoryCmd(app),
	)

	return root
}

func (app *App) interactive() bool {
	return app.IsInteractive != nil && app.IsInteractive()
}
