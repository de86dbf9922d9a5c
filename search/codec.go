package search

import (
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Query-string keys of the search state.
const (
	KeyQuery    = "q"
	KeyCategory = "category"
	KeyOrigin   = "origin"
	KeyStatus   = "status"
	KeyType     = "type"
	KeyBrand    = "brand"
	KeyMinPrice = "minPrice"
	KeyMaxPrice = "maxPrice"
	KeyFilter   = "filter"
	KeySort     = "sort"
	KeyPage     = "page"
	KeyPerPage  = "perPage"
)

// queryKeys are the accepted spellings of the free-text query, by priority.
var queryKeys = []string{"query", KeyQuery, "search"}

const (
	DefaultPerPage = 12
	MaxPerPage     = 100
)

// Codec maps a State to and from a URL query string. Parameters at their
// default value are omitted, and facets repeat their key once per value.
type Codec struct {
	DefaultPerPage int
	MaxPerPage     int
}

// NewCodec returns a codec, substituting package defaults for non-positive sizes.
func NewCodec(defaultPerPage, maxPerPage int) Codec {
	if maxPerPage <= 0 {
		maxPerPage = MaxPerPage
	}
	if defaultPerPage <= 0 || defaultPerPage > maxPerPage {
		defaultPerPage = min(DefaultPerPage, maxPerPage)
	}
	return Codec{DefaultPerPage: defaultPerPage, MaxPerPage: maxPerPage}
}

// Default returns the state an empty query string decodes to.
func (c Codec) Default() State {
	return NewState(c.DefaultPerPage)
}

// Encode serializes s. The output is deterministic: keys are sorted.
func (c Codec) Encode(s State) string {
	return c.Values(s).Encode()
}

// Values returns s as url.Values without default-valued parameters.
func (c Codec) Values(s State) url.Values {
	v := url.Values{}
	f := s.Filters

	if q := strings.TrimSpace(f.Search); q != "" {
		v.Set(KeyQuery, q)
	}
	addAll(v, KeyCategory, f.Categories)
	addAll(v, KeyOrigin, f.Origins)
	addAll(v, KeyStatus, f.Statuses)
	addAll(v, KeyType, f.Types)
	addAll(v, KeyBrand, f.Brands)
	if f.PriceRange.Min > 0 {
		v.Set(KeyMinPrice, formatPrice(f.PriceRange.Min))
	}
	if f.PriceRange.Max > 0 {
		v.Set(KeyMaxPrice, formatPrice(f.PriceRange.Max))
	}
	if qf := strings.TrimSpace(f.QuickFilter); qf != "" {
		v.Set(KeyFilter, qf)
	}
	if s.Sort != "" && s.Sort != SortRelevance {
		v.Set(KeySort, string(s.Sort))
	}
	if s.Page > 1 {
		v.Set(KeyPage, strconv.Itoa(s.Page))
	}
	if s.PerPage > 0 && s.PerPage != c.DefaultPerPage {
		v.Set(KeyPerPage, strconv.Itoa(s.PerPage))
	}
	return v
}

func addAll(v url.Values, key string, values []string) {
	for _, s := range normalizeFacet(values) {
		v.Add(key, s)
	}
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// Decode parses a query string, with or without a leading '?'. It never
// fails: malformed input yields the default state and bad parameters fall
// back to their defaults individually.
func (c Codec) Decode(query string) State {
	// ParseQuery keeps every pair it could parse alongside the error
	v, _ := url.ParseQuery(strings.TrimPrefix(strings.TrimSpace(query), "?"))
	return c.DecodeValues(v)
}

// DecodeValues builds a State from already parsed values.
func (c Codec) DecodeValues(v url.Values) State {
	s := c.Default()
	f := &s.Filters

	for _, key := range queryKeys {
		if q := strings.TrimSpace(v.Get(key)); q != "" {
			f.Search = q
			break
		}
	}
	f.Categories = normalizeFacet(v[KeyCategory])
	f.Origins = normalizeFacet(v[KeyOrigin])
	f.Statuses = normalizeFacet(v[KeyStatus])
	f.Types = normalizeFacet(v[KeyType])
	f.Brands = normalizeFacet(v[KeyBrand])
	f.QuickFilter = strings.TrimSpace(v.Get(KeyFilter))

	minPrice := parsePrice(v.Get(KeyMinPrice))
	maxPrice := parsePrice(v.Get(KeyMaxPrice))
	if maxPrice > 0 && minPrice > maxPrice {
		minPrice, maxPrice = 0, 0
	}
	f.PriceRange = PriceRange{Min: minPrice, Max: maxPrice}

	if raw := v.Get(KeySort); raw != "" {
		s.Sort = ParseSortMode(raw)
	}
	if page, ok := parsePositiveInt(v.Get(KeyPage)); ok {
		s.Page = page
	}
	if perPage, ok := parsePositiveInt(v.Get(KeyPerPage)); ok && perPage <= c.MaxPerPage {
		s.PerPage = perPage
	}
	return s
}

// normalizeFacet trims values and drops empties and duplicates, keeping first-seen order.
func normalizeFacet(values []string) []string {
	var out []string
	for _, raw := range values {
		s := strings.TrimSpace(raw)
		if s == "" || slices.Contains(out, s) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// parsePrice returns a finite non-negative price, or 0 for anything else.
func parsePrice(raw string) float64 {
	if raw == "" {
		return 0
	}
	p, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
		return 0
	}
	return p
}

func parsePositiveInt(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
