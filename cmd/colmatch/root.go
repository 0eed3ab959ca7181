// cmd/colmatch/root.go
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/catalogkit/colmatch/pkg/config"
	"github.com/catalogkit/colmatch/pkg/normalizer"
	"github.com/catalogkit/colmatch/pkg/store"
)

// rootFlags are shared across subcommands
type rootFlags struct {
	storeBackend string
	sqlitePath   string
	language     string
	packFile     string
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "colmatch",
		Short: "Map raw spreadsheet headers onto canonical catalog columns",
		Long: `colmatch maps raw, multilingual spreadsheet headers onto canonical
target columns with confidence scores, and learns from every correction
so repeated headers resolve instantly on the next run.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flags.storeBackend, "store", "",
		"store backend: memory, sqlite or postgres (default from environment)")
	cmd.PersistentFlags().StringVar(&flags.sqlitePath, "db", "",
		"SQLite database path (default from environment)")
	cmd.PersistentFlags().StringVarP(&flags.language, "lang", "l", "",
		"language pack, e.g. fr, en, de (default from environment)")
	cmd.PersistentFlags().StringVar(&flags.packFile, "packs", "",
		"TOML file with extra synonym pack entries")

	cmd.AddCommand(
		newMatchCommand(flags),
		newSeedCommand(flags),
		newStatsCommand(flags),
		newCorrectionsCommand(flags),
		newRecordCommand(flags),
		newResetCommand(flags),
	)

	return cmd
}

// appContext bundles the wired components every subcommand needs
type appContext struct {
	cfg        *config.Config
	logger     *zap.Logger
	store      store.Store
	normalizer *normalizer.Normalizer
}

// setup loads configuration, applies flag overrides and connects the store
func setup(ctx context.Context, flags *rootFlags) (*appContext, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if flags.storeBackend != "" {
		cfg.Store.Backend = flags.storeBackend
		if flags.storeBackend == config.StoreBackendSQLite && cfg.Store.SQLite == nil {
			cfg.Store.SQLite = &config.SQLiteConfig{Path: "colmatch.db"}
		}
	}
	if flags.sqlitePath != "" && cfg.Store.SQLite != nil {
		cfg.Store.SQLite.Path = flags.sqlitePath
	}
	if flags.language != "" {
		cfg.DefaultLanguage = flags.language
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	st, err := store.NewStoreFactory(cfg.Store, logger).CreateStore(ctx)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, fmt.Errorf("failed to create store: %w", err)
	}

	n := normalizer.New()
	if flags.packFile != "" {
		if err := n.LoadOverlay(flags.packFile); err != nil {
			_ = st.Close()
			_ = logger.Sync()
			return nil, nil, fmt.Errorf("failed to load pack overlay: %w", err)
		}
	}

	cleanup := func() {
		if err := st.Close(); err != nil {
			logger.Warn("Failed to close store", zap.Error(err))
		}
		_ = logger.Sync()
	}

	return &appContext{
		cfg:        cfg,
		logger:     logger,
		store:      st,
		normalizer: n,
	}, cleanup, nil
}
