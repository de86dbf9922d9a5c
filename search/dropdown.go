package search

import (
	"encoding/json"
	"fmt"
)

type EntryKind string

const (
	KindHistory    EntryKind = "history"
	KindSuggestion EntryKind = "suggestion"
)

// Entry is one row of the search dropdown: either a past query or a
// suggestion. The set of implementations is closed; switch on the concrete
// type or on Kind.
type Entry interface {
	Kind() EntryKind
	// Text is what the search box is filled with when the entry is picked.
	Text() string
	isEntry()
}

type HistoryEntry struct {
	Item HistoryItem
}

func (HistoryEntry) Kind() EntryKind { return KindHistory }
func (e HistoryEntry) Text() string  { return e.Item.Query }
func (HistoryEntry) isEntry()        {}

func (e HistoryEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind EntryKind `json:"kind"`
		HistoryItem
	}{KindHistory, e.Item})
}

type SuggestionEntry struct {
	Suggestion Suggestion
}

func (SuggestionEntry) Kind() EntryKind { return KindSuggestion }
func (e SuggestionEntry) Text() string  { return e.Suggestion.Text }
func (SuggestionEntry) isEntry()        {}

func (e SuggestionEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind EntryKind `json:"kind"`
		Suggestion
	}{KindSuggestion, e.Suggestion})
}

// Dropdown merges history and suggestions into dropdown rows: history first,
// then suggestions whose text does not repeat a history query. limit <= 0
// means no limit.
func Dropdown(history []HistoryItem, suggestions []Suggestion, limit int) []Entry {
	entries := make([]Entry, 0, len(history)+len(suggestions))
	seen := make(map[string]bool, len(history))
	for _, h := range history {
		entries = append(entries, HistoryEntry{Item: h})
		seen[normalizeQuery(h.Query)] = true
	}
	for _, s := range suggestions {
		if seen[normalizeQuery(s.Text)] {
			continue
		}
		entries = append(entries, SuggestionEntry{Suggestion: s})
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// Describe renders an entry for a plain-text listing.
func Describe(e Entry) string {
	switch e := e.(type) {
	case HistoryEntry:
		return fmt.Sprintf("%s (%d results)", e.Item.Query, e.Item.ResultCount)
	case SuggestionEntry:
		return fmt.Sprintf("%s [%s ×%d]", e.Suggestion.Text, e.Suggestion.Type, e.Suggestion.Count)
	default:
		return e.Text()
	}
}
