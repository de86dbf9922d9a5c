// Package cmd provides the shelf command line.
package cmd

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/montrey/shelf/catalog"
	"github.com/montrey/shelf/config"
	"github.com/montrey/shelf/search"
	"github.com/montrey/shelf/store"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	catalogPath string
	dbPath      string
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:   "shelf",
	Short: "Shelf - product search for a storefront catalog",
	Long: `Shelf searches a product catalog with suggestions, facet filters,
relevance ranking and shareable URL state.

The catalog is a JSON or YAML file, or a directory of them.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("SHELF_CONFIG"), "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVarP(&catalogPath, "catalog", "c", "", "Catalog file or directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// app is what a command run needs: resolved config, logger and database.
type app struct {
	cfg    config.Config
	db     *sql.DB
	logger *slog.Logger
}

// openApp resolves configuration (file, env, stored settings, then flags),
// opens the database and builds a logger writing to logOut.
func openApp(logOut io.Writer) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	db, err := store.InitDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to init db: %w", err)
	}

	cfg, settingsErr := config.ApplySettings(cfg, db)
	if catalogPath != "" {
		cfg.Catalog = catalogPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	logger := config.NewLogger(cfg.Log, logOut)
	if settingsErr != nil {
		logger.Warn("ignoring invalid stored settings", "error", settingsErr)
	}
	logger.Debug("config resolved", "catalog", cfg.Catalog, "db", cfg.DBPath)

	return &app{cfg: cfg, db: db, logger: logger}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

func (a *app) engine() (*search.Engine, error) {
	c, err := catalog.Load(a.cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	a.logger.Debug("catalog loaded", "path", a.cfg.Catalog, "products", c.Len())
	return search.NewEngine(c, a.cfg.Search.Options())
}

func (a *app) history() *search.History {
	return search.NewHistory(store.NewSettings(a.db), a.cfg.Search.HistoryLimit, a.logger)
}
