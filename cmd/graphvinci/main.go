package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/graphvinci/graphvinci/internal/cli"
	"github.com/graphvinci/graphvinci/internal/config"
	"github.com/graphvinci/graphvinci/internal/db"
	"github.com/graphvinci/graphvinci/internal/repository"
	"github.com/graphvinci/graphvinci/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("GRAPHVINCI_CONFIG"))
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	if cfg.Database.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
			return fmt.Errorf("creating database directory: %w", err)
		}
	}
	database, err := db.OpenDB(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	historyRepo := repository.NewSQLiteHistoryRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	app := &cli.App{
		Config:  cfg,
		History: service.NewHistoryService(historyRepo, uow, cfg.History.Endpoint, logger),
		Logger:  logger,
	}

	// Prompts and the explorer need a terminal on both ends.
	app.IsInteractive = func() bool {
		tty := func(fd uintptr) bool { return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) }
		return tty(os.Stdin.Fd()) && tty(os.Stdout.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
