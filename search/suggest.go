package search

import (
	"slices"
	"strings"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/montrey/shelf/catalog"
	"github.com/sahilm/fuzzy"
)

type SuggestionType string

const (
	SuggestionProduct  SuggestionType = "product"
	SuggestionCategory SuggestionType = "category"
	SuggestionTag      SuggestionType = "tag"
	SuggestionBrand    SuggestionType = "brand"
)

type Suggestion struct {
	Type  SuggestionType `json:"type"`
	Text  string         `json:"text"`
	Count int            `json:"count"`
}

type SuggestOptions struct {
	// MinQueryLength is the shortest trimmed query, in runes, that produces suggestions.
	MinQueryLength int
	MaxSuggestions int
	// FuzzyFallback matches product names as subsequences when no field contains the query.
	FuzzyFallback bool
}

var DefaultSuggestOptions = SuggestOptions{
	MinQueryLength: 2,
	MaxSuggestions: 8,
	FuzzyFallback:  true,
}

// GenerateSuggestions scans products for fields containing query and returns
// typed suggestions ordered by hit count, most first. Ties keep first-seen order.
func GenerateSuggestions(products []catalog.Product, query string, opts SuggestOptions) []Suggestion {
	q := normalizeQuery(query)
	if q == "" || utf8.RuneCountInString(q) < opts.MinQueryLength {
		return nil
	}

	type key struct {
		typ  SuggestionType
		text string
	}
	index := make(map[key]int)
	var out []Suggestion

	add := func(typ SuggestionType, text string) {
		k := key{typ: typ, text: strings.ToLower(text)}
		if i, ok := index[k]; ok {
			out[i].Count++
			return
		}
		index[k] = len(out)
		out = append(out, Suggestion{Type: typ, Text: text, Count: 1})
	}

	for _, p := range products {
		if containsFold(p.Name, q) {
			add(SuggestionProduct, p.Name)
		}
		for _, tag := range p.Tags {
			if containsFold(tag, q) {
				add(SuggestionTag, tag)
			}
		}
		if p.Category.Name != "" && containsFold(p.Category.Name, q) {
			add(SuggestionCategory, p.Category.Name)
		}
		if p.Brand != "" && containsFold(p.Brand, q) {
			add(SuggestionBrand, p.Brand)
		}
	}

	slices.SortStableFunc(out, func(a, b Suggestion) int {
		return b.Count - a.Count
	})
	return truncate(out, opts.MaxSuggestions)
}

func truncate(s []Suggestion, n int) []Suggestion {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}

// Suggester generates suggestions for one catalog snapshot and caches them
// per normalized query.
type Suggester struct {
	products []catalog.Product
	opts     SuggestOptions
	cache    *lru.Cache[string, []Suggestion]

	// Distinct product names for fuzzy matching, with how many products carry each
	names      []string
	nameCounts []int
}

// NewSuggester builds a suggester over products. cacheSize <= 0 disables caching.
func NewSuggester(products []catalog.Product, opts SuggestOptions, cacheSize int) (*Suggester, error) {
	s := &Suggester{products: products, opts: opts}

	if cacheSize > 0 {
		cache, err := lru.New[string, []Suggestion](cacheSize)
		if err != nil {
			return nil, err
		}
		s.cache = cache
	}

	seen := make(map[string]int)
	for _, p := range products {
		k := strings.ToLower(p.Name)
		if i, ok := seen[k]; ok {
			s.nameCounts[i]++
			continue
		}
		seen[k] = len(s.names)
		s.names = append(s.names, p.Name)
		s.nameCounts = append(s.nameCounts, 1)
	}
	return s, nil
}

// Suggest returns suggestions for query. The returned slice is the caller's to modify.
func (s *Suggester) Suggest(query string) []Suggestion {
	q := normalizeQuery(query)
	if q == "" || utf8.RuneCountInString(q) < s.opts.MinQueryLength {
		return nil
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(q); ok {
			return slices.Clone(cached)
		}
	}

	out := GenerateSuggestions(s.products, q, s.opts)
	if len(out) == 0 && s.opts.FuzzyFallback {
		out = s.fuzzySuggestions(q)
	}

	if s.cache != nil {
		s.cache.Add(q, out)
	}
	return slices.Clone(out)
}

// fuzzySuggestions matches the query as an ordered subsequence of product names.
// Spaces are removed so "jp snk" can match across words.
func (s *Suggester) fuzzySuggestions(q string) []Suggestion {
	cleanQuery := strings.ReplaceAll(q, " ", "")
	if cleanQuery == "" {
		return nil
	}

	matches := fuzzy.Find(cleanQuery, s.names)

	var out []Suggestion
	for _, match := range matches {
		out = append(out, Suggestion{
			Type:  SuggestionProduct,
			Text:  match.Str,
			Count: s.nameCounts[match.Index],
		})
	}
	return truncate(out, s.opts.MaxSuggestions)
}
