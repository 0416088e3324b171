package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"score-tracker/internal/app"
	"score-tracker/internal/config"
	"score-tracker/internal/logger"
	"score-tracker/internal/persistence"
	"score-tracker/internal/repository"
)

var (
	dataFlag     string
	storageFlag  string
	dbFlag       string
	logLevelFlag string

	cfg config.Config
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "scoretracker",
	Short: "Track scores with recency-weighted statistics",
	Long: `scoretracker records integer scores for items grouped into categories and
summarises each item with an exponentially decayed mean and deviation, so
recent results count more than old ones.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&dataFlag, "data", "", "JSON data file (overrides SCORE_TRACKER_DATA_FILE)")
	flags.StringVar(&storageFlag, "storage", "", "storage backend: json or sqlite")
	flags.StringVar(&dbFlag, "db", "", "SQLite database path")
	flags.StringVar(&logLevelFlag, "log-level", "", "log level: debug, info, warn, error")
}

// setup resolves configuration (defaults, file, env, then flags) and
// installs the process logger.
func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		loaded.DataFile = dataFlag
	}
	if flags.Changed("storage") {
		loaded.Storage = storageFlag
	}
	if flags.Changed("db") {
		loaded.DatabaseURL = dbFlag
	}
	if flags.Changed("log-level") {
		loaded.LogLevel = logLevelFlag
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	level, err := logger.ParseLevel(loaded.LogLevel)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log = logger.Init(logger.Config{
		Level:  level,
		Format: loaded.LogFormat,
		Output: os.Stderr,
	})
	cfg = loaded
	return nil
}

// openPersister returns the configured storage backend and its cleanup.
func openPersister() (app.Persister, func(), error) {
	if cfg.Storage == config.StorageSQLite {
		db, err := repository.NewDB(cfg.DatabaseURL, logger.ForComponent("repository"))
		if err != nil {
			return nil, nil, fmt.Errorf("open db: %w", err)
		}
		return repository.NewSnapshotRepository(db), func() { _ = repository.CloseDB(db) }, nil
	}
	return persistence.NewFileStore(cfg.DataFile, logger.ForComponent("persistence")), func() {}, nil
}

func openApp(ctx context.Context) (*app.App, func(), error) {
	p, closeFn, err := openPersister()
	if err != nil {
		return nil, nil, err
	}
	a := app.New(ctx, p,
		app.WithLogger(logger.ForComponent("app")),
		app.WithDefaultDecay(cfg.DefaultDecayRate),
	)
	return a, closeFn, nil
}

// withApp runs fn against a freshly loaded App.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	a, closeFn, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(ctx, a)
}
