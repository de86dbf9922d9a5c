package config

import (
	"fmt"
	"strconv"
	"time"
)

// setting is a config field that can be overridden from the settings table.
type setting struct {
	key   string
	apply func(*Config, string) error
}

var settings = []setting{
	{"catalog", func(c *Config, v string) error { c.Catalog = v; return nil }},
	{"server.addr", func(c *Config, v string) error { c.Server.Addr = v; return nil }},
	{"server.watch", boolSetting(func(c *Config) *bool { return &c.Server.Watch })},
	{"log.level", func(c *Config, v string) error {
		if _, err := ParseLevel(v); err != nil {
			return err
		}
		c.Log.Level = v
		return nil
	}},
	{"log.format", func(c *Config, v string) error {
		if v != "text" && v != "json" {
			return fmt.Errorf("unknown log format %q", v)
		}
		c.Log.Format = v
		return nil
	}},
	{"search.min_query_length", intSetting(func(c *Config) *int { return &c.Search.MinQueryLength })},
	{"search.max_suggestions", intSetting(func(c *Config) *int { return &c.Search.MaxSuggestions })},
	{"search.per_page", intSetting(func(c *Config) *int { return &c.Search.PerPage })},
	{"search.max_per_page", intSetting(func(c *Config) *int { return &c.Search.MaxPerPage })},
	{"search.history_limit", intSetting(func(c *Config) *int { return &c.Search.HistoryLimit })},
	{"search.cache_size", intSetting(func(c *Config) *int { return &c.Search.CacheSize })},
	{"search.fuzzy_fallback", boolSetting(func(c *Config) *bool { return &c.Search.FuzzyFallback })},
	{"search.debounce", func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		if d <= 0 {
			return fmt.Errorf("debounce must be positive, got %s", v)
		}
		c.Search.Debounce = d
		return nil
	}},
}

func intSetting(field func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("must not be negative, got %d", n)
		}
		*field(c) = n
		return nil
	}
}

func boolSetting(field func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*field(c) = b
		return nil
	}
}

func lookup(key string) (setting, bool) {
	for _, s := range settings {
		if s.key == key {
			return s, true
		}
	}
	return setting{}, false
}

// Keys lists the settings that can be stored with Save.
func Keys() []string {
	keys := make([]string, len(settings))
	for i, s := range settings {
		keys[i] = s.key
	}
	return keys
}

// Value returns the effective value of key in cfg, formatted the way Save
// accepts it.
func (c Config) Value(key string) (string, error) {
	switch key {
	case "catalog":
		return c.Catalog, nil
	case "server.addr":
		return c.Server.Addr, nil
	case "server.watch":
		return strconv.FormatBool(c.Server.Watch), nil
	case "log.level":
		return c.Log.Level, nil
	case "log.format":
		return c.Log.Format, nil
	case "search.min_query_length":
		return strconv.Itoa(c.Search.MinQueryLength), nil
	case "search.max_suggestions":
		return strconv.Itoa(c.Search.MaxSuggestions), nil
	case "search.per_page":
		return strconv.Itoa(c.Search.PerPage), nil
	case "search.max_per_page":
		return strconv.Itoa(c.Search.MaxPerPage), nil
	case "search.history_limit":
		return strconv.Itoa(c.Search.HistoryLimit), nil
	case "search.cache_size":
		return strconv.Itoa(c.Search.CacheSize), nil
	case "search.fuzzy_fallback":
		return strconv.FormatBool(c.Search.FuzzyFallback), nil
	case "search.debounce":
		return c.Search.Debounce.String(), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownSetting, key)
}
