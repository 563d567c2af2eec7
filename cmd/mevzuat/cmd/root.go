// Package cmd implements the mevzuat CLI commands.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mevzuat/arama/internal/config"
	"github.com/mevzuat/arama/internal/embed"
	"github.com/mevzuat/arama/internal/logging"
	"github.com/mevzuat/arama/internal/search"
	"github.com/mevzuat/arama/internal/store"
	"github.com/mevzuat/arama/internal/vector"
	"github.com/mevzuat/arama/pkg/version"
)

// rootOptions holds persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	dataDir    string
	logLevel   string
}

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "mevzuat",
		Short: "Hybrid search over Turkish legal documents",
		Long: `mevzuat searches Turkish statutes, regulations and circulars with a
hybrid engine: SQLite FTS5 keyword search fused with semantic vector
search over article embeddings. Queries are expanded with a legal
lexicon (synonyms, abbreviations, domain context) before execution.`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file path (default: $HOME/.mevzuat/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "override the data directory")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(newSearchCmd(opts))
	rootCmd.AddCommand(newIngestCmd(opts))
	rootCmd.AddCommand(newReindexCmd(opts))
	rootCmd.AddCommand(newSuggestCmd(opts))
	rootCmd.AddCommand(newStatsCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// app bundles the wired components a command needs at runtime.
type app struct {
	cfg     *config.Config
	store   *store.SQLiteStore
	manager *vector.Manager
	engine  *search.Engine

	cleanups []func()
}

// openApp loads configuration, sets up logging, and wires the store,
// embedder, vector index and engine together. Log output goes to the
// configured file only so stdout stays clean for command output.
func openApp(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}

	logCleanup, err := logging.SetupDefault(logging.Config{
		Level:         cfg.Logging.Level,
		FilePath:      cfg.Logging.File,
		WriteToStderr: cfg.Logging.File == "",
	})
	if err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}
	a.cleanups = append(a.cleanups, logCleanup)

	if err := os.MkdirAll(filepath.Dir(cfg.Paths.DatabasePath), 0o755); err != nil {
		a.close()
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	st, err := store.Open(cfg.Paths.DatabasePath)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	a.store = st
	a.cleanups = append(a.cleanups, func() { _ = st.Close() })

	embedder, err := embed.NewFromConfig(ctx, cfg.Embeddings)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("create embedder: %w", err)
	}
	a.cleanups = append(a.cleanups, func() { _ = embedder.Close() })

	// The manager notifies the engine after every index swap so cached
	// results never outlive the index they were computed against.
	a.manager = vector.NewManager(cfg.Paths.IndexDir, st, embedder, func() {
		if a.engine != nil {
			a.engine.InvalidateCache()
		}
	})
	a.cleanups = append(a.cleanups, func() { _ = a.manager.Close() })

	// A corrupt or unreadable index degrades to keyword-only search;
	// reindex restores the semantic path.
	if err := a.manager.Load(); err != nil {
		slog.Warn("vector_index_load_failed",
			slog.String("error", err.Error()),
			slog.String("hint", "run 'mevzuat reindex' to rebuild"))
	}

	engine, err := search.NewEngine(cfg, st, st, a.manager.Index, embedder)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("create search engine: %w", err)
	}
	a.engine = engine

	return a, nil
}

func loadConfig(opts *rootOptions) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".mevzuat", "config.yaml")
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if opts.dataDir != "" {
		cfg.Paths.DataDir = opts.dataDir
		cfg.Paths.DatabasePath = filepath.Join(opts.dataDir, "mevzuat.db")
		cfg.Paths.IndexDir = filepath.Join(opts.dataDir, "index")
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	return cfg, nil
}

// close releases resources in reverse acquisition order.
func (a *app) close() {
	for i := len(a.cleanups) - 1; i >= 0; i-- {
		a.cleanups[i]()
	}
}
