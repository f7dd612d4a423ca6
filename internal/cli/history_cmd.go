package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/graphvinci/graphvinci/internal/cli/formatter"
	"github.com/graphvinci/graphvinci/internal/domain"
	"github.com/spf13/cobra"
)

func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage saved GraphQL operations",
	}

	cmd.AddCommand(
		newHistorySaveCmd(app),
		newHistoryListCmd(app),
		newHistoryShowCmd(app),
		newHistoryDeleteCmd(app),
		newHistoryImportCmd(app),
		newHistoryExportCmd(app),
	)

	return cmd
}

func newHistorySaveCmd(app *App) *cobra.Command {
	var query, file, variables string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save an operation to the history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (query == "") == (file == "") {
				return errors.New("exactly one of --query or --file is required")
			}
			if file != "" {
				data, err := readFileOrStdin(cmd, file)
				if err != nil {
					return err
				}
				query = string(data)
			}
			op := domain.Operation{Query: query}
			if variables != "" {
				if !json.Valid([]byte(variables)) {
					return fmt.Errorf("--variables is not valid JSON")
				}
				op.Variables = json.RawMessage(variables)
			}

			e, saved, err := app.History.Save(cmd.Context(), op)
			if err != nil {
				return err
			}
			if saved {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %s %s [%d]\n", e.Type, e.Op, e.HashCode)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Already saved [%d]\n", e.HashCode)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Operation text")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the operation from a file (- for stdin)")
	cmd.Flags().StringVar(&variables, "variables", "", "Operation variables as a JSON object")
	return cmd
}

func newHistoryListCmd(app *App) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := app.History.GetHistory(cmd.Context(), filter)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistoryList(entries, time.Now().UTC()))
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Only list operations containing this text")
	return cmd
}

func newHistoryShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [hash]",
		Short: "Show a saved operation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := resolveHash(cmd.Context(), app, args, "Show which operation?")
			if err != nil {
				return err
			}
			e, err := app.History.Get(cmd.Context(), hash)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistoryEntry(e))
			return nil
		},
	}
}

func newHistoryDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete [hash]",
		Aliases: []string{"rm"},
		Short:   "Delete a saved operation",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := resolveHash(cmd.Context(), app, args, "Delete which operation?")
			if err != nil {
				return err
			}
			deleted, err := app.History.Delete(cmd.Context(), hash)
			if err != nil {
				return err
			}
			if !deleted {
				return fmt.Errorf("no saved operation with hash %d", hash)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted [%d]\n", hash)
			return nil
		},
	}
}

func newHistoryImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import operations exported from the browser explorer or by export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readFileOrStdin(cmd, args[0])
			if err != nil {
				return err
			}
			res, err := app.History.Import(cmd.Context(), bytes.NewReader(data))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d, skipped %d already saved\n", res.Imported, res.Skipped)
			return nil
		},
	}
}

func newHistoryExportCmd(app *App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export saved operations as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}
			return app.History.Export(cmd.Context(), w)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}

// resolveHash returns the hash given as the first argument or, when there is
// none and prompts are allowed, lets the user pick one.
func resolveHash(ctx context.Context, app *App, args []string, title string) (int64, error) {
	if len(args) == 1 {
		hash, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid hash %q: %w", args[0], err)
		}
		return hash, nil
	}
	if !app.interactive() {
		return 0, errors.New("hash is required")
	}

	entries, err := app.History.GetHistory(ctx, "")
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, errors.New("no saved operations")
	}
	var hash int64
	if err := historyPicker(title, entries, &hash).Run(); err != nil {
		return 0, err
	}
	return hash, nil
}

func historyPicker(title string, entries []*domain.HistoryEntry, value *int64) *huh.Form {
	options := make([]huh.Option[int64], 0, len(entries))
	for _, e := range entries {
		options = append(options, huh.NewOption(formatter.HistoryOptionLabel(e), e.HashCode))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int64]().
				Title(title).
				Options(options...).
				Value(value),
		),
	).WithTheme(graphvinciHuhTheme()).WithShowHelp(false)
}

func readFileOrStdin(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
