package search

import (
	"slices"
	"strings"
)

type SortMode string

const (
	SortRelevance  SortMode = "relevance"
	SortPriceAsc   SortMode = "price-asc"
	SortPriceDesc  SortMode = "price-desc"
	SortRating     SortMode = "rating"
	SortPopularity SortMode = "popularity"
	SortNewest     SortMode = "newest"
)

// SortModes lists the valid sort modes in display order.
func SortModes() []SortMode {
	return []SortMode{SortRelevance, SortPriceAsc, SortPriceDesc, SortRating, SortPopularity, SortNewest}
}

// ParseSortMode returns the sort mode named by s, or SortRelevance if s is unknown.
func ParseSortMode(s string) SortMode {
	m := SortMode(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(SortModes(), m) {
		return m
	}
	return SortRelevance
}

// PriceRange bounds SellingPrice inclusively. Max == 0 means no upper bound.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// IsDefault reports whether the range places no restriction.
func (r PriceRange) IsDefault() bool {
	return r.Min <= 0 && r.Max <= 0
}

func (r PriceRange) contains(price float64) bool {
	if price < r.Min {
		return false
	}
	return r.Max <= 0 || price <= r.Max
}

// FilterState describes the facets and free text a search is restricted by.
// Facet slices are treated as sets; an empty facet places no restriction.
type FilterState struct {
	Search      string     `json:"search,omitempty"`
	Categories  []string   `json:"categories,omitempty"`
	Origins     []string   `json:"origins,omitempty"`
	Statuses    []string   `json:"status,omitempty"`
	Types       []string   `json:"types,omitempty"`
	Brands      []string   `json:"brands,omitempty"`
	PriceRange  PriceRange `json:"priceRange"`
	QuickFilter string     `json:"quickFilter,omitempty"`
}

// Clone returns a deep copy so callers can mutate facets without aliasing.
func (f FilterState) Clone() FilterState {
	f.Categories = slices.Clone(f.Categories)
	f.Origins = slices.Clone(f.Origins)
	f.Statuses = slices.Clone(f.Statuses)
	f.Types = slices.Clone(f.Types)
	f.Brands = slices.Clone(f.Brands)
	return f
}

// Toggle adds value to the facet set if absent and removes it otherwise.
func Toggle(set []string, value string) []string {
	if i := slices.Index(set, value); i >= 0 {
		return slices.Delete(slices.Clone(set), i, i+1)
	}
	return append(slices.Clone(set), value)
}

// State is everything a results page is addressed by.
type State struct {
	Filters FilterState `json:"filters"`
	Sort    SortMode    `json:"sort"`
	Page    int         `json:"page"`
	PerPage int         `json:"perPage"`
}

// NewState returns the default state for the given page size.
func NewState(perPage int) State {
	return State{Sort: SortRelevance, Page: 1, PerPage: perPage}
}

// Query returns the free-text query the state ranks by.
func (s State) Query() string {
	return strings.TrimSpace(s.Filters.Search)
}
