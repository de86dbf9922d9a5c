// Package config layers defaults, a YAML file, environment variables and
// stored settings into the application configuration.
package config

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/montrey/shelf/search"
	"github.com/montrey/shelf/store"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Catalog string       `yaml:"catalog"`
	DBPath  string       `yaml:"db"`
	Server  ServerConfig `yaml:"server"`
	Log     LogConfig    `yaml:"log"`
	Search  SearchConfig `yaml:"search"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// Watch reloads the catalog when its files change.
	Watch bool `yaml:"watch"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// File receives logs instead of stderr when set.
	File string `yaml:"file"`
}

type SearchConfig struct {
	MinQueryLength int            `yaml:"min_query_length"`
	MaxSuggestions int            `yaml:"max_suggestions"`
	Debounce       time.Duration  `yaml:"debounce"`
	PerPage        int            `yaml:"per_page"`
	MaxPerPage     int            `yaml:"max_per_page"`
	HistoryLimit   int            `yaml:"history_limit"`
	CacheSize      int            `yaml:"cache_size"`
	FuzzyFallback  bool           `yaml:"fuzzy_fallback"`
	Weights        search.Weights `yaml:"weights"`
}

// Default returns the built-in configuration.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	return Config{
		Catalog: "catalog.json",
		DBPath:  filepath.Join(home, ".local", "share", "shelf", "shelf.db"),
		Server:  ServerConfig{Addr: ":8080"},
		Log:     LogConfig{Level: "info", Format: "text"},
		Search: SearchConfig{
			MinQueryLength: search.DefaultSuggestOptions.MinQueryLength,
			MaxSuggestions: search.DefaultSuggestOptions.MaxSuggestions,
			Debounce:       search.DefaultDebounce,
			PerPage:        search.DefaultPerPage,
			MaxPerPage:     search.MaxPerPage,
			HistoryLimit:   search.DefaultHistoryLimit,
			CacheSize:      256,
			FuzzyFallback:  true,
			Weights:        search.DefaultWeights,
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (if
// path is non-empty) and environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg, os.Getenv)
	return cfg.normalized(), nil
}

func applyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv("SHELF_CATALOG"); v != "" {
		cfg.Catalog = v
	}
	if v := getenv("SHELF_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := getenv("SHELF_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := getenv("SHELF_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// normalized replaces out-of-range values with defaults.
func (c Config) normalized() Config {
	def := Default().Search
	s := &c.Search

	if s.MinQueryLength < 1 {
		s.MinQueryLength = def.MinQueryLength
	}
	if s.MaxSuggestions < 1 {
		s.MaxSuggestions = def.MaxSuggestions
	}
	if s.Debounce <= 0 {
		s.Debounce = def.Debounce
	}
	if s.MaxPerPage < 1 {
		s.MaxPerPage = def.MaxPerPage
	}
	if s.PerPage < 1 || s.PerPage > s.MaxPerPage {
		s.PerPage = min(def.PerPage, s.MaxPerPage)
	}
	if s.HistoryLimit < 1 {
		s.HistoryLimit = def.HistoryLimit
	}
	if s.CacheSize < 0 {
		s.CacheSize = 0
	}
	c.Log.Level = strings.ToLower(c.Log.Level)
	c.Log.Format = strings.ToLower(c.Log.Format)
	return c
}

// Options converts the search section into engine options.
func (s SearchConfig) Options() search.Options {
	return search.Options{
		Suggest: search.SuggestOptions{
			MinQueryLength: s.MinQueryLength,
			MaxSuggestions: s.MaxSuggestions,
			FuzzyFallback:  s.FuzzyFallback,
		},
		Weights:        s.Weights,
		CacheSize:      s.CacheSize,
		DefaultPerPage: s.PerPage,
		MaxPerPage:     s.MaxPerPage,
	}
}

var ErrUnknownSetting = errors.New("unknown setting")

// ApplySettings overrides cfg with values saved in the settings table.
// Stored values that no longer parse are skipped and reported together.
func ApplySettings(cfg Config, db *sql.DB) (Config, error) {
	var errs []error
	for _, s := range settings {
		value, err := store.GetSetting(db, s.key)
		if err != nil {
			return cfg, err
		}
		if value == "" {
			continue
		}
		if err := s.apply(&cfg, value); err != nil {
			errs = append(errs, fmt.Errorf("setting %s: %w", s.key, err))
		}
	}
	return cfg.normalized(), errors.Join(errs...)
}

// Save validates value for key and stores it in the settings table.
func Save(db *sql.DB, key, value string) error {
	s, ok := lookup(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}
	var probe Config
	if err := s.apply(&probe, value); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return store.SetSetting(db, key, value)
}

// Reset removes a stored override so the file or default value applies again.
func Reset(db *sql.DB, key string) error {
	if _, ok := lookup(key); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}
	return store.DeleteSetting(db, key)
}
