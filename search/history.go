package search

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
)

// HistoryKey is the storage key the history list is persisted under.
const HistoryKey = "search-history"

const DefaultHistoryLimit = 10

type HistoryItem struct {
	Query       string `json:"query"`
	ResultCount int    `json:"resultCount"`
	// Timestamp is in Unix milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// Time returns the timestamp as a time.Time.
func (h HistoryItem) Time() time.Time {
	return time.UnixMilli(h.Timestamp)
}

// History is a bounded, de-duplicated, most-recent-first list of submitted
// queries. Every change is written through to storage as a JSON array.
type History struct {
	mu      sync.Mutex
	storage Storage
	limit   int
	items   []HistoryItem
	logger  *slog.Logger
	now     func() time.Time
}

// NewHistory loads the list from storage. Unreadable or malformed data is
// logged and treated as an empty history.
func NewHistory(storage Storage, limit int, logger *slog.Logger) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	h := &History{
		storage: storage,
		limit:   limit,
		logger:  logger,
		now:     time.Now,
	}
	h.items = h.load()
	return h
}

func (h *History) load() []HistoryItem {
	raw, err := h.storage.Get(HistoryKey)
	if err != nil {
		h.logger.Warn("failed to load search history", "error", err)
		return nil
	}
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var stored []HistoryItem
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		h.logger.Warn("discarding malformed search history", "error", err)
		return nil
	}

	// Drop entries a well-behaved writer would never have produced
	items := make([]HistoryItem, 0, len(stored))
	for _, item := range stored {
		item.Query = strings.TrimSpace(item.Query)
		if item.Query == "" || item.ResultCount < 0 {
			continue
		}
		if slices.ContainsFunc(items, func(e HistoryItem) bool { return e.Query == item.Query }) {
			continue
		}
		items = append(items, item)
	}
	if len(items) > h.limit {
		items = items[:h.limit]
	}
	return items
}

func (h *History) persist() error {
	data, err := json.Marshal(h.items)
	if err != nil {
		return fmt.Errorf("failed to encode search history: %w", err)
	}
	if err := h.storage.Set(HistoryKey, string(data)); err != nil {
		return fmt.Errorf("failed to save search history: %w", err)
	}
	return nil
}

// Record moves query to the front of the history, or inserts it there, and
// evicts the oldest entries beyond the limit. Blank queries are ignored.
func (h *History) Record(query string, resultCount int) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.items = slices.DeleteFunc(h.items, func(e HistoryItem) bool { return e.Query == query })
	entry := HistoryItem{
		Query:       query,
		ResultCount: max(resultCount, 0),
		Timestamp:   h.now().UnixMilli(),
	}
	h.items = append([]HistoryItem{entry}, h.items...)
	if len(h.items) > h.limit {
		h.items = h.items[:h.limit]
	}
	return h.persist()
}

// Remove deletes the entry for query if present.
func (h *History) Remove(query string) error {
	query = strings.TrimSpace(query)
	h.mu.Lock()
	defer h.mu.Unlock()

	i := slices.IndexFunc(h.items, func(e HistoryItem) bool { return e.Query == query })
	if i < 0 {
		return nil
	}
	h.items = slices.Delete(h.items, i, i+1)
	return h.persist()
}

// Clear empties the history.
func (h *History) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.items = []HistoryItem{}
	return h.persist()
}

// List returns a copy of the entries, most recent first.
func (h *History) List() []HistoryItem {
	h.mu.Lock()
	defer h.mu.Unlock()

	return slices.Clone(h.items)
}

// Limit returns the maximum number of entries kept.
func (h *History) Limit() int {
	return h.limit
}
